package engine

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// Sizing restricts how much of the available cash one BUY may use.
type Sizing string

const (
	SizingFull    Sizing = "full"
	SizingHalf    Sizing = "half"
	SizingThird   Sizing = "third"
	SizingQuarter Sizing = "quarter"
)

var AllSizings = []any{
	SizingFull,
	SizingHalf,
	SizingThird,
	SizingQuarter,
}

// Fraction returns the cash fraction a BUY may spend.
func (s Sizing) Fraction() float64 {
	switch s {
	case SizingHalf:
		return 0.5
	case SizingThird:
		return 1.0 / 3.0
	case SizingQuarter:
		return 0.25
	default:
		return 1.0
	}
}

type BacktestEngineV1Config struct {
	InitialCapital float64               `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital for the backtest in USD,minimum=0" validate:"gte=0"`
	CommissionRate float64               `yaml:"commission_rate" json:"commission_rate" jsonschema:"title=Commission Rate,description=Commission charged per trade as a fraction of notional,minimum=0" validate:"gte=0"`
	Broker         commission_fee.Broker `yaml:"broker" json:"broker" jsonschema:"title=Broker,description=The commission model to use"`
	Symbol         string                `yaml:"symbol" json:"symbol" jsonschema:"title=Symbol,description=The symbol to backtest" validate:"required"`
	Timeframe      types.Timeframe       `yaml:"timeframe" json:"timeframe" jsonschema:"title=Timeframe,description=Base bar aggregation unit of the price series" validate:"required"`
	// LotSize floors every BUY fill to a multiple of this quantity.
	LotSize int64 `yaml:"lot_size" json:"lot_size" jsonschema:"title=Lot Size,description=Minimum tradable lot,minimum=1" validate:"omitempty,gte=1"`
	// Sizing caps the cash one BUY may spend (full, half, third, quarter).
	Sizing    Sizing                     `yaml:"sizing" json:"sizing" jsonschema:"title=Position Sizing,description=Fraction of cash a single BUY may use"`
	StartTime optional.Option[time.Time] `yaml:"start_time" json:"start_time" jsonschema:"title=Start Time,description=Optional start time for the backtest period"`
	EndTime   optional.Option[time.Time] `yaml:"end_time" json:"end_time" jsonschema:"title=End Time,description=Optional end time for the backtest period"`
}

// UnmarshalYAML implements custom unmarshaling for BacktestEngineV1Config.
func (c *BacktestEngineV1Config) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		InitialCapital float64               `yaml:"initial_capital"`
		CommissionRate float64               `yaml:"commission_rate"`
		Broker         commission_fee.Broker `yaml:"broker"`
		Symbol         string                `yaml:"symbol"`
		Timeframe      types.Timeframe       `yaml:"timeframe"`
		LotSize        int64                 `yaml:"lot_size"`
		Sizing         Sizing                `yaml:"sizing"`
		StartTime      *time.Time            `yaml:"start_time"`
		EndTime        *time.Time            `yaml:"end_time"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.InitialCapital = config.InitialCapital
	c.CommissionRate = config.CommissionRate
	c.Broker = config.Broker
	c.Symbol = config.Symbol
	c.Timeframe = config.Timeframe
	c.LotSize = config.LotSize
	c.Sizing = config.Sizing

	if config.StartTime != nil {
		c.StartTime = optional.Some(*config.StartTime)
	}

	if config.EndTime != nil {
		c.EndTime = optional.Some(*config.EndTime)
	}

	c.applyDefaults()

	return nil
}

func (c *BacktestEngineV1Config) applyDefaults() {
	if c.Broker == "" {
		c.Broker = commission_fee.BrokerRate
	}

	if c.LotSize == 0 {
		c.LotSize = 1
	}

	if c.Sizing == "" {
		c.Sizing = SizingFull
	}
}

// Validate checks the configuration. Negative capital or commission and an
// unknown timeframe are fatal configuration errors.
func (c *BacktestEngineV1Config) Validate() error {
	if c.InitialCapital < 0 {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "initial capital must not be negative, got %.2f", c.InitialCapital)
	}

	if c.CommissionRate < 0 {
		return errors.Newf(errors.ErrCodeBacktestConfigError, "commission rate must not be negative, got %.4f", c.CommissionRate)
	}

	if !c.Timeframe.IsValid() {
		return errors.Newf(errors.ErrCodeInvalidTimeframe, "unknown timeframe %q", c.Timeframe)
	}

	switch c.Sizing {
	case SizingFull, SizingHalf, SizingThird, SizingQuarter:
	default:
		return errors.Newf(errors.ErrCodeBacktestConfigError, "unknown sizing %q", c.Sizing)
	}

	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid engine configuration", err)
	}

	return nil
}

// GenerateSchema generates a JSON schema for the BacktestEngineV1Config.
func (c *BacktestEngineV1Config) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}

			if strings.Contains(t.String(), "commission_fee.Broker") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: commission_fee.AllBrokers,
				}
			}

			if strings.Contains(t.String(), "engine.Sizing") {
				return &jsonschema.Schema{
					Type: "string",
					Enum: AllSizings,
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-engine-v1-config"
	schema.Description = "Configuration schema for BacktestEngineV1"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the
// BacktestEngineV1Config.
func (c *BacktestEngineV1Config) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}

// DefaultConfig returns a config with the engine defaults filled in.
func DefaultConfig() BacktestEngineV1Config {
	c := BacktestEngineV1Config{
		InitialCapital: 0,
		CommissionRate: 0,
		Timeframe:      types.Timeframe1d,
		StartTime:      optional.None[time.Time](),
		EndTime:        optional.None[time.Time](),
	}
	c.applyDefaults()

	return c
}

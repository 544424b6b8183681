package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/moznion/go-optional"
	parent "github.com/testback-lab/testback/internal/backtest/engine"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/cache"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/commission_fee"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/datasource"
	"github.com/testback-lab/testback/internal/indicator"
	"github.com/testback-lab/testback/internal/logger"
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BacktestEngineV1 runs one strategy graph over one price series. A single
// instance is not safe for concurrent runs; create one per run.
type BacktestEngineV1 struct {
	config            BacktestEngineV1Config
	graph             *strategy.Graph
	resultsFolder     string
	log               *logger.Logger
	indicatorRegistry indicator.IndicatorRegistry
	datasource        datasource.DataSource
	report            optional.Option[types.BacktestReport]
}

func NewBacktestEngineV1() parent.Engine {
	return &BacktestEngineV1{
		config:            DefaultConfig(),
		graph:             nil,
		resultsFolder:     "",
		log:               logger.NewNopLogger(),
		indicatorRegistry: indicator.NewDefaultRegistry(),
		datasource:        nil,
		report:            optional.None[types.BacktestReport](),
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse engine config", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	log, err := logger.NewLogger()
	if err != nil {
		return err
	}

	b.log = log
	b.log.Debug("backtest engine initialized",
		zap.String("symbol", b.config.Symbol),
		zap.String("timeframe", string(b.config.Timeframe)),
	)

	return nil
}

// SetDataSource implements engine.Engine.
func (b *BacktestEngineV1) SetDataSource(dataSource datasource.DataSource) error {
	if dataSource == nil {
		return errors.New(errors.ErrCodeBacktestNoDatasource, "data source must not be nil")
	}

	b.datasource = dataSource

	return nil
}

// LoadStrategy implements engine.Engine. The graph gets defaults applied and
// is validated against the configured base timeframe.
func (b *BacktestEngineV1) LoadStrategy(graph *strategy.Graph) error {
	if graph == nil {
		return errors.New(errors.ErrCodeBacktestNoGraph, "strategy graph must not be nil")
	}

	strategy.ApplyDefaults(graph, b.config.Timeframe)

	if err := graph.Validate(); err != nil {
		return err
	}

	b.graph = graph
	b.log.Debug("strategy loaded",
		zap.String("name", graph.Name),
		zap.Int("nodes", len(graph.Nodes)),
	)

	return nil
}

// LoadStrategyFromFile implements engine.Engine.
func (b *BacktestEngineV1) LoadStrategyFromFile(path string) error {
	graph, err := strategy.ParseFile(path, b.config.Timeframe)
	if err != nil {
		return err
	}

	b.graph = graph
	b.log.Debug("strategy loaded from file",
		zap.String("path", path),
		zap.String("name", graph.Name),
	)

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder

	return nil
}

// Run implements engine.Engine. Actions on a bar execute at that bar's
// close; SELL actions execute before BUY actions so freed cash is available
// within the same bar.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks parent.LifecycleCallbacks) error {
	if b.datasource == nil {
		return errors.New(errors.ErrCodeBacktestNoDatasource, "no data source configured")
	}

	if b.graph == nil {
		return errors.New(errors.ErrCodeBacktestNoGraph, "no strategy loaded")
	}

	bars, err := b.datasource.GetPriceSeries(b.config.Symbol, b.config.Timeframe, b.config.StartTime, b.config.EndTime)
	if err != nil {
		return err
	}

	if len(bars) == 0 {
		return errors.Newf(errors.ErrCodeEmptySeries, "no bars for symbol %s", b.config.Symbol)
	}

	series := cache.NewSeriesCache(b.config.Timeframe, bars)

	evaluator, err := NewGraphEvaluator(b.graph, b.indicatorRegistry, series)
	if err != nil {
		return err
	}

	fee := commission_fee.GetCommissionFeeHandler(b.config.Broker, b.config.CommissionRate)
	portfolio := NewPortfolio(b.config.Symbol, b.config.InitialCapital, fee, b.config.LotSize, b.config.Sizing)

	runID := uuid.New().String()

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, b.config.Symbol, len(bars)); err != nil {
			return err
		}
	}

	var (
		trades      []types.Trade
		equityCurve = make([]types.EquityPoint, 0, len(bars))
		prevEquity  = b.config.InitialCapital
	)

	for i, bar := range bars {
		select {
		case <-ctx.Done():
			return errors.Wrap(errors.ErrCodeOrderFailed, "backtest cancelled", ctx.Err())
		default:
		}

		fired, err := evaluator.EvaluateBar(i)
		if err != nil {
			return err
		}

		for _, node := range orderActions(fired) {
			trade := b.executeAction(portfolio, node, bar)
			if trade.IsSome() {
				trades = append(trades, trade.Unwrap())
			}
		}

		if trade := b.applyStopLoss(portfolio, bar); trade.IsSome() {
			trades = append(trades, trade.Unwrap())
		}

		equity := portfolio.Equity(bar.Close)

		periodReturn := 0.0
		if prevEquity != 0 {
			periodReturn = (equity - prevEquity) / prevEquity
		}

		equityCurve = append(equityCurve, types.EquityPoint{
			Timestamp:     bar.Time,
			Cash:          portfolio.Cash(),
			PositionValue: float64(portfolio.Position()) * bar.Close,
			TotalAssets:   equity,
			PeriodReturn:  periodReturn,
		})
		prevEquity = equity

		if callbacks.OnProcessBar != nil {
			if err := (*callbacks.OnProcessBar)(i+1, len(bars)); err != nil {
				return err
			}
		}
	}

	report := types.BacktestReport{
		RunID:        runID,
		StrategyName: b.graph.Name,
		CreatedAt:    time.Now().UTC(),
		Metrics:      ComputeMetrics(equityCurve, trades, b.config.InitialCapital, b.config.Timeframe),
		DataInfo:     types.DataInfoOf(b.config.Symbol, b.config.Timeframe, bars),
		FinalCash:    portfolio.Cash(),
		FinalEquity:  portfolio.Equity(bars[len(bars)-1].Close),
		Trades:       trades,
		EquityCurve:  equityCurve,
	}

	b.report = optional.Some(report)
	b.log.Info("backtest finished",
		zap.String("run_id", runID),
		zap.Int("bars", len(bars)),
		zap.Int("trades", len(trades)),
		zap.Float64("final_equity", report.FinalEquity),
	)

	if b.resultsFolder != "" {
		path := filepath.Join(b.resultsFolder, runID+".yaml")
		if err := types.WriteReport(path, report); err != nil {
			return err
		}

		b.log.Debug("report written", zap.String("path", path))
	}

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(report)
	}

	return nil
}

// Report implements engine.Engine.
func (b *BacktestEngineV1) Report() (types.BacktestReport, error) {
	if b.report.IsNone() {
		return types.BacktestReport{}, errors.New(errors.ErrCodeBacktestConfigError, "no completed run")
	}

	return b.report.Unwrap(), nil
}

// GetConfigSchema implements engine.Engine.
func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	return b.config.GenerateSchemaJSON()
}

// orderActions puts SELL actions before BUY actions, keeping document order
// within each group. HOLD nodes keep their slot but execute as no-ops.
func orderActions(fired []*strategy.Node) []*strategy.Node {
	ordered := make([]*strategy.Node, 0, len(fired))

	for _, node := range fired {
		if node.Action == strategy.ActionSell {
			ordered = append(ordered, node)
		}
	}

	for _, node := range fired {
		if node.Action != strategy.ActionSell {
			ordered = append(ordered, node)
		}
	}

	return ordered
}

// executeAction turns a fired action node into at most one trade at the
// bar's close. A limit BUY fills at the lower of the limit and the close; a
// limit SELL only executes when the close satisfies the limit.
func (b *BacktestEngineV1) executeAction(portfolio *Portfolio, node *strategy.Node, bar types.PriceBar) optional.Option[types.Trade] {
	price := bar.Close

	switch node.Action {
	case strategy.ActionBuy:
		if node.PriceType == types.PriceTypeLimit && node.LimitPrice.IsSome() {
			limit := node.LimitPrice.Unwrap()
			if limit < price {
				price = limit
			}
		}

		return portfolio.Buy(bar.Time, price, node.Quantity)
	case strategy.ActionSell:
		if node.PriceType == types.PriceTypeLimit && node.LimitPrice.IsSome() {
			if bar.Close < node.LimitPrice.Unwrap() {
				return optional.None[types.Trade]()
			}
		}

		return portfolio.Sell(bar.Time, price, node.Quantity)
	default:
		return optional.None[types.Trade]()
	}
}

// applyStopLoss checks the document's stop-loss rule after the bar's actions
// have settled and liquidates at the close when the loss threshold is hit.
func (b *BacktestEngineV1) applyStopLoss(portfolio *Portfolio, bar types.PriceBar) optional.Option[types.Trade] {
	rule := b.graph.Meta.StopLoss
	if rule == nil || portfolio.Position() == 0 {
		return optional.None[types.Trade]()
	}

	triggered := false

	switch rule.Type {
	case strategy.StopLossTypePct:
		triggered = portfolio.UnrealizedLossFraction(bar.Close) >= rule.Value
	case strategy.StopLossTypeAmount:
		triggered = portfolio.UnrealizedLoss(bar.Close) >= rule.Value
	}

	if !triggered {
		return optional.None[types.Trade]()
	}

	quantity := portfolio.Position()
	if rule.Action == strategy.StopLossReduceHalf {
		quantity /= 2
	}

	if quantity <= 0 {
		return optional.None[types.Trade]()
	}

	b.log.Debug("stop loss triggered",
		zap.Time("time", bar.Time),
		zap.Float64("close", bar.Close),
		zap.Int64("quantity", quantity),
	)

	return portfolio.Sell(bar.Time, bar.Close, quantity)
}

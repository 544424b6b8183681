package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/testback-lab/testback/internal/backtest/engine"
	engine_v1 "github.com/testback-lab/testback/internal/backtest/engine/engine_v1"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/datasource"
	"github.com/testback-lab/testback/internal/strategy"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"github.com/testback-lab/testback/pkg/utils"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// BacktestRequest is the POST /backtest body. The price series may travel
// inline in bars; when absent, the server's configured data source supplies
// it from symbol, timeframe and the date range.
type BacktestRequest struct {
	Strategy       strategy.Graph   `json:"strategy"`
	Symbol         string           `json:"symbol"`
	Timeframe      types.Timeframe  `json:"timeframe"`
	Bars           []types.PriceBar `json:"bars"`
	InitialCapital float64          `json:"initial_capital"`
	CommissionRate float64          `json:"commission_rate"`
	LotSize        int64            `json:"lot_size,omitempty"`
	Sizing         string           `json:"sizing,omitempty"`
	StartDate      *time.Time       `json:"start_date,omitempty"`
	EndDate        *time.Time       `json:"end_date,omitempty"`
}

func (s *Server) handleSchema(w http.ResponseWriter, _ *http.Request) {
	schema, err := strategy.DocumentSchema()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(schema)); err != nil {
		s.log.Error("failed to write schema response", zap.Error(err))
	}
}

func (s *Server) handleRequestSchema(w http.ResponseWriter, _ *http.Request) {
	schema, err := utils.GetSchemaFromConfig(BacktestRequest{})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write([]byte(schema)); err != nil {
		s.log.Error("failed to write schema response", zap.Error(err))
	}
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.Wrap(errors.ErrCodeBacktestConfigError, "invalid request body", err))

		return
	}

	report, err := s.runBacktest(r.Context(), &req)
	if err != nil {
		s.writeError(w, statusFor(err), err)

		return
	}

	s.writeJSON(w, http.StatusOK, report)
}

func (s *Server) runBacktest(ctx context.Context, req *BacktestRequest) (types.BacktestReport, error) {
	var source datasource.DataSource

	switch {
	case len(req.Bars) > 0:
		source = datasource.NewInMemoryDataSource(req.Timeframe, req.Bars)
	case s.dataSource != nil:
		source = s.dataSource
	default:
		return types.BacktestReport{}, errors.Newf(errors.ErrCodeEmptySeries, "no bars supplied for symbol %s and no data source configured", req.Symbol)
	}

	config := struct {
		InitialCapital float64    `yaml:"initial_capital"`
		CommissionRate float64    `yaml:"commission_rate"`
		Symbol         string     `yaml:"symbol"`
		Timeframe      string     `yaml:"timeframe"`
		LotSize        int64      `yaml:"lot_size,omitempty"`
		Sizing         string     `yaml:"sizing,omitempty"`
		StartTime      *time.Time `yaml:"start_time,omitempty"`
		EndTime        *time.Time `yaml:"end_time,omitempty"`
	}{
		InitialCapital: req.InitialCapital,
		CommissionRate: req.CommissionRate,
		Symbol:         req.Symbol,
		Timeframe:      string(req.Timeframe),
		LotSize:        req.LotSize,
		Sizing:         req.Sizing,
		StartTime:      req.StartDate,
		EndTime:        req.EndDate,
	}

	raw, err := yaml.Marshal(config)
	if err != nil {
		return types.BacktestReport{}, errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to encode engine config", err)
	}

	e := engine_v1.NewBacktestEngineV1()

	if err := e.Initialize(string(raw)); err != nil {
		return types.BacktestReport{}, err
	}

	if err := e.SetDataSource(source); err != nil {
		return types.BacktestReport{}, err
	}

	graph := req.Strategy
	if err := e.LoadStrategy(&graph); err != nil {
		return types.BacktestReport{}, err
	}

	if err := e.Run(ctx, engine.LifecycleCallbacks{}); err != nil {
		return types.BacktestReport{}, err
	}

	return e.Report()
}

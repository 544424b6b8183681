package types

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// BacktestMetrics is the summary block of a finished run. Percent-style
// values (returns, drawdown, win rate) are fractions, not percentages.
type BacktestMetrics struct {
	TotalReturn     float64 `yaml:"total_return" json:"total_return"`
	AnnualReturn    float64 `yaml:"annual_return" json:"annual_return"`
	MaxDrawdown     float64 `yaml:"max_drawdown" json:"max_drawdown"`
	SharpeRatio     float64 `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	WinRate         float64 `yaml:"win_rate" json:"win_rate"`
	ProfitLossRatio float64 `yaml:"profit_loss_ratio" json:"profit_loss_ratio"`
	TotalTrades     int     `yaml:"total_trades" json:"total_trades"`
	WinningTrades   int     `yaml:"winning_trades" json:"winning_trades"`
	LosingTrades    int     `yaml:"losing_trades" json:"losing_trades"`
}

// DataInfo describes the price series a run consumed.
type DataInfo struct {
	Symbol    string    `yaml:"symbol" json:"symbol"`
	Timeframe Timeframe `yaml:"timeframe" json:"timeframe"`
	BarCount  int       `yaml:"bar_count" json:"bar_count"`
	StartTime time.Time `yaml:"start_time" json:"start_time"`
	EndTime   time.Time `yaml:"end_time" json:"end_time"`
	MinLow    float64   `yaml:"min_low" json:"min_low"`
	MaxHigh   float64   `yaml:"max_high" json:"max_high"`
	LastClose float64   `yaml:"last_close" json:"last_close"`
}

// DataInfoOf summarizes a non-empty bar series.
func DataInfoOf(symbol string, timeframe Timeframe, bars []PriceBar) DataInfo {
	info := DataInfo{
		Symbol:    symbol,
		Timeframe: timeframe,
		BarCount:  len(bars),
	}

	if len(bars) == 0 {
		return info
	}

	info.StartTime = bars[0].Time
	info.EndTime = bars[len(bars)-1].Time
	info.LastClose = bars[len(bars)-1].Close
	info.MinLow = bars[0].Low
	info.MaxHigh = bars[0].High

	for _, bar := range bars[1:] {
		if bar.Low < info.MinLow {
			info.MinLow = bar.Low
		}

		if bar.High > info.MaxHigh {
			info.MaxHigh = bar.High
		}
	}

	return info
}

// BacktestReport is the full result of one run.
type BacktestReport struct {
	RunID        string          `yaml:"run_id" json:"run_id"`
	StrategyName string          `yaml:"strategy_name" json:"strategy_name"`
	CreatedAt    time.Time       `yaml:"created_at" json:"created_at"`
	Metrics      BacktestMetrics `yaml:"metrics" json:"metrics"`
	DataInfo     DataInfo        `yaml:"data_info" json:"data_info"`
	FinalCash    float64         `yaml:"final_cash" json:"final_cash"`
	FinalEquity  float64         `yaml:"final_equity" json:"final_equity"`
	Trades       []Trade         `yaml:"trades" json:"trades"`
	EquityCurve  []EquityPoint   `yaml:"equity_curve" json:"equity_curve"`
}

// WriteReport writes the report to a YAML file, creating parent directories
// as needed.
func WriteReport(path string, report BacktestReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal backtest report to YAML: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backtest report file: %w", err)
	}

	return nil
}

// ReadReport reads a previously written report from a YAML file.
func ReadReport(path string) (BacktestReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return BacktestReport{}, fmt.Errorf("failed to read backtest report file: %w", err)
	}

	var report BacktestReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return BacktestReport{}, fmt.Errorf("failed to unmarshal backtest report: %w", err)
	}

	return report, nil
}

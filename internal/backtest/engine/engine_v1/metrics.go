package engine

import (
	"math"

	"github.com/testback-lab/testback/internal/types"
)

// ComputeMetrics summarizes a finished run from its equity curve and trade
// list. Every ratio degrades to zero when its denominator is empty instead
// of producing NaN or Inf.
func ComputeMetrics(equity []types.EquityPoint, trades []types.Trade, initialCapital float64, timeframe types.Timeframe) types.BacktestMetrics {
	var metrics types.BacktestMetrics

	if len(equity) == 0 || initialCapital <= 0 {
		return metrics
	}

	last := equity[len(equity)-1].TotalAssets
	metrics.TotalReturn = (last - initialCapital) / initialCapital

	daySpan := equity[len(equity)-1].Timestamp.Sub(equity[0].Timestamp).Hours() / 24
	if daySpan > 0 {
		metrics.AnnualReturn = metrics.TotalReturn * 365 / daySpan
	} else {
		// A curve shorter than a day cannot be annualized.
		metrics.AnnualReturn = metrics.TotalReturn
	}

	metrics.MaxDrawdown = maxDrawdown(equity)
	metrics.SharpeRatio = sharpeRatio(equity, timeframe.PeriodsPerYear())

	wins, losses := 0, 0
	winSum, lossSum := 0.0, 0.0

	for i := range trades {
		trade := &trades[i]
		if trade.Action != types.TradeActionSell {
			continue
		}

		metrics.TotalTrades++

		if trade.IsWinning() {
			wins++
			winSum += trade.RealizedPnL.Unwrap()
		} else if trade.IsLosing() {
			losses++
			lossSum += trade.RealizedPnL.Unwrap()
		}
	}

	metrics.WinningTrades = wins
	metrics.LosingTrades = losses

	if metrics.TotalTrades > 0 {
		metrics.WinRate = float64(wins) / float64(metrics.TotalTrades)
	}

	if wins > 0 && losses > 0 {
		avgWin := winSum / float64(wins)
		avgLoss := lossSum / float64(losses)

		if avgLoss != 0 {
			metrics.ProfitLossRatio = avgWin / math.Abs(avgLoss)
		}
	}

	return metrics
}

// maxDrawdown is the largest peak-to-trough decline of the equity curve,
// expressed as a fraction of the peak.
func maxDrawdown(equity []types.EquityPoint) float64 {
	peak := 0.0
	worst := 0.0

	for _, point := range equity {
		if point.TotalAssets > peak {
			peak = point.TotalAssets
		}

		if peak > 0 {
			drawdown := (peak - point.TotalAssets) / peak
			if drawdown > worst {
				worst = drawdown
			}
		}
	}

	return worst
}

// sharpeRatio annualizes the mean per-bar return over its population
// standard deviation. A flat curve has no volatility and scores zero.
func sharpeRatio(equity []types.EquityPoint, periodsPerYear float64) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)

	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].TotalAssets
		if prev == 0 {
			returns = append(returns, 0)

			continue
		}

		returns = append(returns, (equity[i].TotalAssets-prev)/prev)
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}

	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}

	variance /= float64(len(returns))

	std := math.Sqrt(variance)
	if std == 0 {
		return 0
	}

	return mean / std * math.Sqrt(periodsPerYear)
}

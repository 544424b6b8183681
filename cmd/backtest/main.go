package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/testback-lab/testback/internal/backtest/engine"
	engine_v1 "github.com/testback-lab/testback/internal/backtest/engine/engine_v1"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/datasource"
	"github.com/testback-lab/testback/internal/logger"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/internal/version"
	"github.com/urfave/cli/v3"
)

// backtestAction wires the engine together: config, data, strategy, run.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	strategyPath := cmd.String("strategy")
	dbPath := cmd.String("db")
	parquetPath := cmd.String("parquet")
	resultsFolder := cmd.String("output")

	config, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	appLog, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer appLog.Sync()

	source, err := datasource.NewDuckDBDataSource(dbPath, appLog)
	if err != nil {
		return fmt.Errorf("failed to open data source: %w", err)
	}
	defer source.Close()

	if parquetPath != "" {
		if err := source.LoadParquet(parquetPath); err != nil {
			return fmt.Errorf("failed to import parquet file: %w", err)
		}
	}

	backtester := engine_v1.NewBacktestEngineV1()

	if err := backtester.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if err := backtester.SetDataSource(source); err != nil {
		return err
	}

	if err := backtester.LoadStrategyFromFile(strategyPath); err != nil {
		return fmt.Errorf("failed to load strategy: %w", err)
	}

	if resultsFolder != "" {
		if err := backtester.SetResultsFolder(resultsFolder); err != nil {
			return err
		}
	}

	var bar *progressbar.ProgressBar

	onStart := engine.OnRunStartCallback(func(runID string, symbol string, totalBars int) error {
		bar = progressbar.NewOptions(totalBars,
			progressbar.OptionSetDescription(fmt.Sprintf("Backtesting %s", symbol)),
			progressbar.OptionShowCount(),
		)

		return nil
	})
	onBar := engine.OnProcessBarCallback(func(current int, total int) error {
		return bar.Set(current)
	})
	onEnd := engine.OnRunEndCallback(func(report types.BacktestReport) {
		bar.Finish()
		fmt.Println()
		fmt.Printf("Run %s finished: %d bars, %d trades\n", report.RunID, report.DataInfo.BarCount, len(report.Trades))
		fmt.Printf("  total return:  %+.2f%%\n", report.Metrics.TotalReturn*100)
		fmt.Printf("  annual return: %+.2f%%\n", report.Metrics.AnnualReturn*100)
		fmt.Printf("  max drawdown:  %.2f%%\n", report.Metrics.MaxDrawdown*100)
		fmt.Printf("  sharpe ratio:  %.2f\n", report.Metrics.SharpeRatio)
		fmt.Printf("  win rate:      %.2f%%\n", report.Metrics.WinRate*100)
		fmt.Printf("  final equity:  %.2f\n", report.FinalEquity)
	})

	return backtester.Run(ctx, engine.LifecycleCallbacks{
		OnRunStart:   &onStart,
		OnProcessBar: &onBar,
		OnRunEnd:     &onEnd,
	})
}

func main() {
	cmd := &cli.Command{
		Name:    "backtest",
		Usage:   "Run a strategy graph against historical price data",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the engine configuration YAML file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Path to the strategy graph JSON or YAML file",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "Path to the DuckDB database holding price bars",
				Value: ":memory:",
			},
			&cli.StringFlag{
				Name:  "parquet",
				Usage: "Optional Parquet file to import before running",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Folder to write the run report to",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

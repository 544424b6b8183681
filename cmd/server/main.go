package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/testback-lab/testback/internal/api"
	"github.com/testback-lab/testback/internal/backtest/engine/engine_v1/datasource"
	"github.com/testback-lab/testback/internal/logger"
	"github.com/testback-lab/testback/internal/version"
	"github.com/urfave/cli/v3"
)

func serverAction(ctx context.Context, cmd *cli.Command) error {
	address := cmd.String("address")
	dbPath := cmd.String("db")
	parquetPath := cmd.String("parquet")

	appLog, err := logger.NewLogger()
	if err != nil {
		return err
	}
	defer appLog.Sync()

	server := api.NewServer(appLog)

	if dbPath != "" {
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

		server.SetDataSource(source)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.Start(address)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func main() {
	cmd := &cli.Command{
		Name:    "server",
		Usage:   "Serve the backtest engine over HTTP",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "address",
				Aliases: []string{"a"},
				Usage:   "Address to listen on",
				Value:   ":8080",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "DuckDB database serving requests without inline bars",
			},
			&cli.StringFlag{
				Name:  "parquet",
				Usage: "Parquet file to import into the database on startup",
			},
		},
		Action: serverAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/internal/version"
	"github.com/testback-lab/testback/pkg/marketdata"
	"github.com/testback-lab/testback/pkg/marketdata/provider"
	"github.com/urfave/cli/v3"
)

func downloadAction(ctx context.Context, cmd *cli.Command) error {
	symbol := cmd.String("symbol")
	timeframe := types.Timeframe(cmd.String("timeframe"))
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	providerFlag := cmd.String("provider")
	dataPath := cmd.String("data")

	bar := progressbar.NewOptions(100,
		progressbar.OptionSetDescription(fmt.Sprintf("Downloading %s", symbol)),
	)
	onProgress := func(current float64, total float64, _ string) {
		if total > 0 {
			bar.Set(int(current / total * 100))
		}
	}

	client, err := marketdata.NewClient(marketdata.ClientConfig{
		Provider:      provider.Type(providerFlag),
		DataPath:      dataPath,
		PolygonAPIKey: os.Getenv("POLYGON_API_KEY"),
	}, onProgress)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	path, err := client.Download(ctx, marketdata.DownloadParams{
		Symbol:    symbol,
		Timeframe: timeframe,
		StartDate: startDate,
		EndDate:   endDate,
	})
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}

	bar.Finish()
	fmt.Println()
	fmt.Printf("Downloaded %s bars to %s\n", symbol, path)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:    "download",
		Usage:   "Download historical price bars",
		Version: version.GetVersion(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbol",
				Aliases:  []string{"t"},
				Usage:    "Symbol to download",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "timeframe",
				Aliases: []string{"f"},
				Usage:   "Bar timeframe (1m, 5m, 15m, 30m, 1h, 4h, 1d, 1w)",
				Value:   string(types.Timeframe1d),
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "provider",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Data provider (%s, %s)", provider.TypePolygon, provider.TypeBinance),
				Value:   string(provider.TypePolygon),
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Output directory for Parquet files",
				Value:   "data",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

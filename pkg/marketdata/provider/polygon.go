package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"github.com/testback-lab/testback/pkg/marketdata/writer"
)

type PolygonClient struct {
	client *polygon.Client
	writer writer.BarWriter
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeInvalidProvider, "polygon provider requires an API key")
	}

	return &PolygonClient{
		client: polygon.New(apiKey),
		writer: nil,
	}, nil
}

// ConfigWriter implements Provider.
func (c *PolygonClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

// polygonRange maps a timeframe to the multiplier and timespan Polygon's
// aggregates API expects.
func polygonRange(timeframe types.Timeframe) (int, models.Timespan, error) {
	switch timeframe {
	case types.Timeframe1m:
		return 1, models.Minute, nil
	case types.Timeframe5m:
		return 5, models.Minute, nil
	case types.Timeframe15m:
		return 15, models.Minute, nil
	case types.Timeframe30m:
		return 30, models.Minute, nil
	case types.Timeframe1h:
		return 1, models.Hour, nil
	case types.Timeframe4h:
		return 4, models.Hour, nil
	case types.Timeframe1d:
		return 1, models.Day, nil
	case types.Timeframe1w:
		return 1, models.Week, nil
	default:
		return 0, "", errors.Newf(errors.ErrCodeInvalidTimeframe, "unknown timeframe %q", timeframe)
	}
}

// Download implements Provider.
func (c *PolygonClient) Download(ctx context.Context, symbol string, timeframe types.Timeframe, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured, call ConfigWriter first")
	}

	multiplier, timespan, err := polygonRange(timeframe)
	if err != nil {
		return "", err
	}

	if err := c.writer.Initialize(); err != nil {
		return "", err
	}
	defer c.writer.Close()

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: multiplier,
		Timespan:   timespan,
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithLimit(50000)

	totalMillis := float64(endDate.Sub(startDate).Milliseconds())
	iter := c.client.ListAggs(ctx, params)

	for iter.Next() {
		agg := iter.Item()
		barTime := time.Time(agg.Timestamp)

		bar := types.PriceBar{
			Time:   barTime,
			Symbol: symbol,
			Open:   agg.Open,
			High:   agg.High,
			Low:    agg.Low,
			Close:  agg.Close,
			Volume: agg.Volume,
		}

		if err := c.writer.Write(bar); err != nil {
			return "", err
		}

		if onProgress != nil {
			elapsed := float64(barTime.Sub(startDate).Milliseconds())
			onProgress(elapsed, totalMillis, "downloading "+symbol)
		}
	}

	if iter.Err() != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, iter.Err(), "failed to iterate polygon aggregates for %s", symbol)
	}

	return c.writer.Finalize()
}

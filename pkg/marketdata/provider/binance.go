package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
	"github.com/testback-lab/testback/pkg/marketdata/writer"
)

// binancePageSize is the kline limit Binance enforces per request.
const binancePageSize = 500

type BinanceClient struct {
	client *binance.Client
	writer writer.BarWriter
}

// NewBinanceClient creates a provider over Binance's public kline endpoint.
// No credentials are needed for historical data.
func NewBinanceClient() (Provider, error) {
	return &BinanceClient{
		client: binance.NewClient("", ""),
		writer: nil,
	}, nil
}

// ConfigWriter implements Provider.
func (c *BinanceClient) ConfigWriter(w writer.BarWriter) {
	c.writer = w
}

// binanceInterval maps a timeframe to Binance's kline interval string. The
// two encodings happen to coincide for every supported timeframe.
func binanceInterval(timeframe types.Timeframe) (string, error) {
	if !timeframe.IsValid() {
		return "", errors.Newf(errors.ErrCodeInvalidTimeframe, "unknown timeframe %q", timeframe)
	}

	return string(timeframe), nil
}

// Download implements Provider. Binance pages klines in batches of 500, so
// the request window advances past the last returned bar until the end date
// is reached.
func (c *BinanceClient) Download(ctx context.Context, symbol string, timeframe types.Timeframe, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (string, error) {
	if c.writer == nil {
		return "", errors.New(errors.ErrCodeMarketDataWriteFailed, "no writer configured, call ConfigWriter first")
	}

	interval, err := binanceInterval(timeframe)
	if err != nil {
		return "", err
	}

	if err := c.writer.Initialize(); err != nil {
		return "", err
	}
	defer c.writer.Close()

	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli()
	currentStart := startMillis

	for {
		klines, err := c.client.NewKlinesService().
			Symbol(symbol).
			Interval(interval).
			StartTime(currentStart).
			EndTime(endMillis).
			Limit(binancePageSize).
			Do(ctx)
		if err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", symbol)
		}

		if err := c.writeKlines(symbol, klines); err != nil {
			return "", err
		}

		if onProgress != nil {
			onProgress(float64(currentStart-startMillis), float64(endMillis-startMillis), "downloading "+symbol)
		}

		if len(klines) < binancePageSize {
			break
		}

		currentStart = klines[len(klines)-1].CloseTime + 1
	}

	return c.writer.Finalize()
}

func (c *BinanceClient) writeKlines(symbol string, klines []*binance.Kline) error {
	for _, kline := range klines {
		open, err := strconv.ParseFloat(kline.Open, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to parse open price", err)
		}

		high, err := strconv.ParseFloat(kline.High, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to parse high price", err)
		}

		low, err := strconv.ParseFloat(kline.Low, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to parse low price", err)
		}

		closePrice, err := strconv.ParseFloat(kline.Close, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to parse close price", err)
		}

		volume, err := strconv.ParseFloat(kline.Volume, 64)
		if err != nil {
			return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, "failed to parse volume", err)
		}

		bar := types.PriceBar{
			Time:   time.UnixMilli(kline.OpenTime).UTC(),
			Symbol: symbol,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		}

		if err := c.writer.Write(bar); err != nil {
			return err
		}
	}

	return nil
}

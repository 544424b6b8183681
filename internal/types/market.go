package types

import "time"

// PriceBar is a single OHLCV sample at a given timeframe.
// Bars are supplied externally, ordered by time with strictly increasing
// unique timestamps, and are never mutated by the engine.
type PriceBar struct {
	Time   time.Time `yaml:"time" json:"timestamp" csv:"time"`
	Symbol string    `yaml:"symbol" json:"symbol" csv:"symbol"`
	Open   float64   `yaml:"open" json:"open" csv:"open"`
	High   float64   `yaml:"high" json:"high" csv:"high"`
	Low    float64   `yaml:"low" json:"low" csv:"low"`
	Close  float64   `yaml:"close" json:"close" csv:"close"`
	Volume float64   `yaml:"volume" json:"volume" csv:"volume"`
}

// IsBullish reports whether the bar closed above its open.
func (b PriceBar) IsBullish() bool {
	return b.Close > b.Open
}

// IsBearish reports whether the bar closed below its open.
func (b PriceBar) IsBearish() bool {
	return b.Close < b.Open
}

package indicator

import (
	"sync"

	"github.com/testback-lab/testback/internal/types"
	"github.com/testback-lab/testback/pkg/errors"
)

// IndicatorRegistry manages all available indicators.
type IndicatorRegistry interface {
	RegisterIndicator(indicator Indicator) error
	GetIndicator(kind types.IndicatorKind) (Indicator, error)
	ListIndicators() []types.IndicatorKind
	RemoveIndicator(kind types.IndicatorKind) error
}

// IndicatorRegistryV1 manages all available indicators.
type IndicatorRegistryV1 struct {
	indicators map[types.IndicatorKind]Indicator
	mu         sync.RWMutex
}

// NewIndicatorRegistry creates a new indicator registry.
func NewIndicatorRegistry() IndicatorRegistry {
	return &IndicatorRegistryV1{
		indicators: make(map[types.IndicatorKind]Indicator),
		mu:         sync.RWMutex{},
	}
}

// NewDefaultRegistry returns a registry with every built-in indicator
// registered.
func NewDefaultRegistry() IndicatorRegistry {
	r := NewIndicatorRegistry()

	for _, ind := range []Indicator{
		NewMA(),
		NewRSI(),
		NewMACD(),
		NewBollingerBands(),
		NewVolumeRatio(),
		NewTrend(),
		NewCandlePattern(),
	} {
		// Registration of the built-ins cannot collide.
		_ = r.RegisterIndicator(ind)
	}

	return r
}

// RegisterIndicator adds an indicator to the registry.
func (r *IndicatorRegistryV1) RegisterIndicator(indicator Indicator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kind := indicator.Kind()
	if _, exists := r.indicators[kind]; exists {
		return errors.Newf(errors.ErrCodeIndicatorAlreadyExists, "RegisterIndicator: indicator with kind %s already registered", kind)
	}

	r.indicators[kind] = indicator

	return nil
}

// GetIndicator retrieves an indicator by kind.
func (r *IndicatorRegistryV1) GetIndicator(kind types.IndicatorKind) (Indicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	indicator, exists := r.indicators[kind]
	if !exists {
		return nil, errors.Newf(errors.ErrCodeIndicatorNotFound, "GetIndicator: indicator with kind %s not found", kind)
	}

	return indicator, nil
}

// ListIndicators returns a list of all registered indicator kinds.
func (r *IndicatorRegistryV1) ListIndicators() []types.IndicatorKind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]types.IndicatorKind, 0, len(r.indicators))
	for kind := range r.indicators {
		kinds = append(kinds, kind)
	}

	return kinds
}

// RemoveIndicator removes an indicator from the registry.
func (r *IndicatorRegistryV1) RemoveIndicator(kind types.IndicatorKind) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.indicators[kind]; !exists {
		return errors.Newf(errors.ErrCodeIndicatorNotFound, "RemoveIndicator: indicator with kind %s not found", kind)
	}

	delete(r.indicators, kind)

	return nil
}

// Package noise содержит источники шума для имитации погрешности измерений.
package noise

import (
	"math/rand/v2"
	"sync/atomic"

	"wound-vision/internal/domain/port"
)

// Source равномерный шум на основе PCG. Не потокобезопасен: один Source на вызов.
type Source struct {
	rng *rand.Rand
}

// NewSource создаёт источник с фиксированным зерном.
func NewSource(seed uint64) *Source {
	return &Source{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Uniform возвращает значение из [lo, hi).
func (s *Source) Uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// Disabled отключает шум: всегда возвращает середину интервала.
// Для множителей [0.98, 1.02] это 1, для сдвигов [-0.02, 0.02]: 0.
type Disabled struct{}

// Uniform возвращает середину интервала.
func (Disabled) Uniform(lo, hi float64) float64 {
	return (lo + hi) / 2
}

// Factory выдаёт новый источник шума на каждый вызов конвейера.
type Factory func() port.Noise

// NewFactory выбирает фабрику по настройкам.
// seed == 0: случайное зерно на каждый вызов; иначе зерна детерминированы: seed, seed+1, ...
func NewFactory(enabled bool, seed uint64) Factory {
	if !enabled {
		return func() port.Noise { return Disabled{} }
	}
	if seed == 0 {
		return func() port.Noise { return NewSource(rand.Uint64()) }
	}

	var counter atomic.Uint64
	return func() port.Noise {
		return NewSource(seed + counter.Add(1) - 1)
	}
}

var (
	_ port.Noise = (*Source)(nil)
	_ port.Noise = Disabled{}
)

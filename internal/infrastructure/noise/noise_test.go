package noise

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSource_Range(t *testing.T) {
	s := NewSource(42)
	for i := 0; i < 1000; i++ {
		v := s.Uniform(0.98, 1.02)
		require.GreaterOrEqual(t, v, 0.98)
		require.Less(t, v, 1.02)
	}
}

func TestSource_Deterministic(t *testing.T) {
	a, b := NewSource(7), NewSource(7)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Uniform(-0.02, 0.02), b.Uniform(-0.02, 0.02))
	}
}

func TestDisabled_Midpoint(t *testing.T) {
	require.InDelta(t, 1.0, Disabled{}.Uniform(0.98, 1.02), 1e-12)
	require.Equal(t, 0.0, Disabled{}.Uniform(-0.02, 0.02))
}

func TestNewFactory(t *testing.T) {
	off := NewFactory(false, 0)
	require.IsType(t, Disabled{}, off())

	seeded := NewFactory(true, 100)
	first := seeded().Uniform(0, 1)
	second := seeded().Uniform(0, 1)
	require.Equal(t, NewSource(100).Uniform(0, 1), first)
	require.Equal(t, NewSource(101).Uniform(0, 1), second)

	random := NewFactory(true, 0)
	require.IsType(t, &Source{}, random())
}

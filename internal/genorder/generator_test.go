package genorder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeneratorIsDeterministicForASeed(t *testing.T) {
	a := New(42, 300, 50)
	b := New(42, 300, 50)

	for i := 0; i < 100; i++ {
		oa, ob := a.Next(), b.Next()
		assert.Equal(t, oa, ob)
	}
}

func TestGeneratorAssignsMonotonicIDs(t *testing.T) {
	g := New(1, 300, 50)
	prev := uint64(0)
	for i := 0; i < 50; i++ {
		o := g.Next()
		assert.Greater(t, o.ID, prev)
		prev = o.ID
	}
}

func TestGeneratorNeverProducesNonPositivePrices(t *testing.T) {
	g := New(2, 10, 50) // low center, wide stddev to stress the floor
	for i := 0; i < 2000; i++ {
		o := g.Next()
		if o.Price != 0 {
			assert.GreaterOrEqual(t, o.Price, int64(1))
		}
		if o.StopPrice != 0 {
			assert.GreaterOrEqual(t, o.StopPrice, int64(1))
		}
	}
}

func TestWithoutStopsNeverGeneratesStopTypes(t *testing.T) {
	g := New(3, 300, 50, WithoutStops())
	for i := 0; i < 500; i++ {
		o := g.Next()
		assert.NotEqual(t, 2, int(o.Type), "Stop")
		assert.NotEqual(t, 3, int(o.Type), "StopLimit")
	}
}

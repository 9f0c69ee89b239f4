package session

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"simrng/domain/core"
	"simrng/domain/dist"
)

func generation(n int, value float64) *Generation {
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = value
	}
	return &Generation{
		ID:           core.NewID(),
		Distribution: dist.Uniform(0, 1),
		Samples:      samples,
		Hash:         core.SampleHash(samples),
	}
}

func TestStoreEmpty(t *testing.T) {
	_, err := NewStore().Current()
	assert.ErrorIs(t, err, core.ErrNoGeneration)
}

func TestStoreReplace(t *testing.T) {
	s := NewStore()
	first := generation(3, 1)
	second := generation(5, 2)

	s.Replace(first)
	got, err := s.Current()
	require.NoError(t, err)
	assert.Same(t, first, got)

	s.Replace(second)
	got, err = s.Current()
	require.NoError(t, err)
	assert.Same(t, second, got)
	assert.Equal(t, 3, first.Count(), "replaced generation is untouched")
}

func TestGenerationPage(t *testing.T) {
	g := generation(65, 0)
	for i := range g.Samples {
		g.Samples[i] = float64(i)
	}

	assert.Len(t, g.Page(1, 30), 30)
	assert.Equal(t, 30.0, g.Page(2, 30)[0])
	assert.Equal(t, []float64{60, 61, 62, 63, 64}, g.Page(3, 30))
	assert.Empty(t, g.Page(4, 30))
	assert.Empty(t, g.Page(0, 30))
	assert.Equal(t, 3, g.Pages(30))
}

func TestStoreConcurrentReadersSeeWholeGenerations(t *testing.T) {
	s := NewStore()
	s.Replace(generation(100, 0))

	var wg sync.WaitGroup
	for w := 1; w <= 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				s.Replace(generation(100+w, float64(w)))
			}
		}()
	}
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				g, err := s.Current()
				if !assert.NoError(t, err) {
					return
				}
				// every sample of a generation carries its writer's value
				want := float64(g.Count() - 100)
				for _, v := range g.Samples {
					if v != want {
						t.Errorf("mixed generation: %v in set of %d", v, g.Count())
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

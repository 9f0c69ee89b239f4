package app

import (
	"context"
	"fmt"
	"time"

	"simrng/adapters/rng"
	"simrng/adapters/sampler"
	"simrng/domain/core"
	"simrng/domain/dist"
	apperrors "simrng/internal/errors"
	"simrng/internal/logging"
	"simrng/internal/metrics"
	"simrng/internal/session"
)

// GenerateRequest defines the inputs of one generation
type GenerateRequest struct {
	Seed         uint64          `json:"seed" yaml:"seed"`
	Count        int             `json:"count" yaml:"count"`
	Source       string          `json:"source,omitempty" yaml:"source,omitempty"`
	Distribution dist.Descriptor `json:"distribution" yaml:"distribution"`
}

// NumbersPage is one page of the retained sample set
type NumbersPage struct {
	Page    int       `json:"page"`
	Pages   int       `json:"pages"`
	Total   int       `json:"total"`
	Numbers []float64 `json:"numbers"`
}

// GenerationService produces sample sets and installs them in the store
type GenerationService struct {
	store      *session.Store
	jobs       *Jobs
	metrics    *metrics.Metrics
	logger     *logging.Logger
	maxSamples int
	pageSize   int
}

// NewGenerationService creates a generation service
func NewGenerationService(store *session.Store, jobs *Jobs, m *metrics.Metrics, logger *logging.Logger, maxSamples, pageSize int) *GenerationService {
	if pageSize < 1 {
		pageSize = 30
	}
	if m == nil {
		m = metrics.New()
	}
	return &GenerationService{
		store:      store,
		jobs:       jobs,
		metrics:    m,
		logger:     logger,
		maxSamples: maxSamples,
		pageSize:   pageSize,
	}
}

// Generate samples req.Distribution and replaces the retained generation.
func (s *GenerationService) Generate(ctx context.Context, req GenerateRequest) (*session.Generation, error) {
	d := req.Distribution.Normalize()
	if err := d.Validate(); err != nil {
		return nil, apperrors.Wrap(err, err.Error())
	}
	if req.Count < 1 {
		return nil, apperrors.InvalidInput("count must be at least 1")
	}
	if s.maxSamples > 0 && req.Count > s.maxSamples {
		err := fmt.Errorf("%w: %d > %d", core.ErrSampleTooLarge, req.Count, s.maxSamples)
		return nil, apperrors.Wrap(err, err.Error())
	}
	src, err := rng.New(req.Source, req.Seed)
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	release, err := s.jobs.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	start := time.Now()
	samples, err := sampler.SampleContext(ctx, src, d, req.Count)
	if err != nil {
		return nil, apperrors.Unavailable("generation cancelled", err)
	}

	source := req.Source
	if source == "" {
		source = rng.SourceLCG
	}
	gen := &session.Generation{
		ID:           core.NewID(),
		Seed:         req.Seed,
		Source:       source,
		Distribution: d,
		Samples:      samples,
		Hash:         core.SampleHash(samples),
		CreatedAt:    time.Now().UTC(),
	}
	s.store.Replace(gen)

	s.metrics.Generations.WithLabelValues(string(d.Kind)).Inc()
	s.metrics.GeneratedSamples.Add(float64(len(samples)))
	s.logger.Info("generated samples",
		"generation_id", gen.ID,
		"distribution", d.String(),
		"count", len(samples),
		"sample_hash", gen.Hash.Short(),
		"elapsed", time.Since(start),
	)
	return gen, nil
}

// Current returns the retained generation.
func (s *GenerationService) Current() (*session.Generation, error) {
	gen, err := s.store.Current()
	if err != nil {
		return nil, apperrors.Wrap(err, "no sample set available")
	}
	return gen, nil
}

// PageSize returns the number of samples per page.
func (s *GenerationService) PageSize() int {
	return s.pageSize
}

// Page returns the 1-based page n of the retained samples.
func (s *GenerationService) Page(n int) (NumbersPage, error) {
	gen, err := s.Current()
	if err != nil {
		return NumbersPage{}, err
	}
	return NumbersPage{
		Page:    n,
		Pages:   gen.Pages(s.pageSize),
		Total:   gen.Count(),
		Numbers: gen.Page(n, s.pageSize),
	}, nil
}

package app

import (
	"context"
	"encoding/json"
	"time"

	"simrng/domain/core"
	domainstats "simrng/domain/stats"
	"simrng/internal/analysis/goodness"
	apperrors "simrng/internal/errors"
	"simrng/internal/logging"
	"simrng/internal/metrics"
	"simrng/internal/session"
	"simrng/ports"
)

// StatisticsOptions configures the goodness-of-fit evaluation
type StatisticsOptions struct {
	Alpha     float64
	Threshold float64
	Resolver  goodness.Resolver
	Workers   int
}

// Evaluation is a statistics result together with the generation it was
// computed from.
type Evaluation struct {
	Generation *session.Generation    `json:"generation"`
	Histogram  domainstats.Histogram  `json:"histogram"`
	Test       domainstats.TestResult `json:"test"`
}

// StatisticsService derives histograms and chi-squared results from the
// retained generation. It never modifies the store.
type StatisticsService struct {
	store   *session.Store
	jobs    *Jobs
	ledger  ports.EvaluationLedger
	metrics *metrics.Metrics
	logger  *logging.Logger
	opts    StatisticsOptions
}

// NewStatisticsService creates a statistics service
func NewStatisticsService(store *session.Store, jobs *Jobs, ledger ports.EvaluationLedger, m *metrics.Metrics, logger *logging.Logger, opts StatisticsOptions) *StatisticsService {
	if ledger == nil {
		ledger = ports.NopLedger{}
	}
	if m == nil {
		m = metrics.New()
	}
	if opts.Alpha <= 0 {
		opts.Alpha = goodness.DefaultAlpha
	}
	if opts.Threshold <= 0 {
		opts.Threshold = goodness.DefaultThreshold
	}
	if opts.Resolver == nil {
		opts.Resolver = goodness.NewNewtonResolver()
	}
	return &StatisticsService{
		store:   store,
		jobs:    jobs,
		ledger:  ledger,
		metrics: m,
		logger:  logger,
		opts:    opts,
	}
}

// Histogram bins the retained samples into k intervals.
func (s *StatisticsService) Histogram(ctx context.Context, k int) (domainstats.Histogram, error) {
	gen, err := s.current()
	if err != nil {
		return domainstats.Histogram{}, err
	}
	release, err := s.jobs.acquire(ctx)
	if err != nil {
		return domainstats.Histogram{}, err
	}
	defer release()

	defer s.observe("histogram", time.Now())
	h, err := goodness.Histogram(ctx, gen.Samples, k, gen.Distribution, s.opts.Workers)
	if err != nil {
		return domainstats.Histogram{}, apperrors.Wrap(err, "histogram failed")
	}
	return h, nil
}

// Statistics runs the goodness-of-fit test of the retained samples over k
// intervals. alpha <= 0 selects the configured significance level. The
// outcome is appended to the ledger; ledger failures are only logged.
func (s *StatisticsService) Statistics(ctx context.Context, k int, alpha float64) (*Evaluation, error) {
	gen, err := s.current()
	if err != nil {
		return nil, err
	}
	if alpha <= 0 {
		alpha = s.opts.Alpha
	}
	if alpha >= 1 {
		return nil, apperrors.Wrap(core.ErrInvalidSignificance, core.ErrInvalidSignificance.Error())
	}

	release, err := s.jobs.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	defer s.observe("statistics", time.Now())
	kind := string(gen.Distribution.Kind)

	h, err := goodness.Histogram(ctx, gen.Samples, k, gen.Distribution, s.opts.Workers)
	if err != nil {
		s.metrics.Evaluations.WithLabelValues(kind, metrics.OutcomeFailed).Inc()
		return nil, apperrors.Wrap(err, "histogram failed")
	}
	evaluator := goodness.Evaluator{Threshold: s.opts.Threshold, Alpha: alpha, Resolver: s.opts.Resolver}
	result, err := evaluator.Evaluate(gen.Distribution, h)
	if err != nil {
		s.metrics.Evaluations.WithLabelValues(kind, metrics.OutcomeFailed).Inc()
		return nil, apperrors.Wrap(err, "chi-squared evaluation failed")
	}

	outcome := metrics.OutcomeAccepted
	if result.Reject {
		outcome = metrics.OutcomeRejected
	}
	s.metrics.Evaluations.WithLabelValues(kind, outcome).Inc()
	s.logger.Debug("evaluated sample set",
		"generation_id", gen.ID,
		"intervals", k,
		"merged", len(result.Intervals),
		"df", result.DegreesOfFreedom,
		"calculated", result.Calculated,
		"critical", result.Critical,
		"reject", result.Reject,
	)

	s.record(ctx, gen, k, result)
	return &Evaluation{Generation: gen, Histogram: h, Test: result}, nil
}

// Summary returns descriptive statistics of the retained samples.
func (s *StatisticsService) Summary(ctx context.Context) (domainstats.Summary, error) {
	gen, err := s.current()
	if err != nil {
		return domainstats.Summary{}, err
	}
	defer s.observe("summary", time.Now())
	summary, err := goodness.Summarize(gen.Samples)
	if err != nil {
		return domainstats.Summary{}, apperrors.Wrap(err, "summary failed")
	}
	return summary, nil
}

// Recent returns the latest ledger records.
func (s *StatisticsService) Recent(ctx context.Context, limit int) ([]ports.EvaluationRecord, error) {
	records, err := s.ledger.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("failed to list evaluations", err)
	}
	return records, nil
}

func (s *StatisticsService) current() (*session.Generation, error) {
	gen, err := s.store.Current()
	if err != nil {
		return nil, apperrors.Wrap(err, "no sample set available")
	}
	if gen.Count() == 0 {
		return nil, apperrors.Wrap(core.ErrEmptySample, "retained sample set is empty")
	}
	return gen, nil
}

func (s *StatisticsService) observe(op string, start time.Time) {
	s.metrics.EvalLatency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

func (s *StatisticsService) record(ctx context.Context, gen *session.Generation, k int, result domainstats.TestResult) {
	params, err := json.Marshal(gen.Distribution)
	if err != nil {
		s.logger.Warn("failed to encode distribution", "err", err)
		return
	}
	rec := ports.EvaluationRecord{
		ID:               core.NewID().String(),
		GenerationID:     gen.ID.String(),
		SampleHash:       gen.Hash.String(),
		Distribution:     string(gen.Distribution.Kind),
		Parameters:       string(params),
		Seed:             int64(gen.Seed),
		SampleCount:      gen.Count(),
		Intervals:        k,
		MergedIntervals:  len(result.Intervals),
		DegreesOfFreedom: result.DegreesOfFreedom,
		Alpha:            result.Alpha,
		Calculated:       result.Calculated,
		Critical:         result.Critical,
		PValue:           result.PValue,
		Rejected:         result.Reject,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.ledger.Record(ctx, rec); err != nil {
		s.logger.Warn("failed to record evaluation", "generation_id", gen.ID, "err", err)
	}
}

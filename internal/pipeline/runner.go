// Package pipeline runs one scrape: list the register, fetch and normalize
// every port detail, and collect the features.
package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/siimots/sadamad-data/internal/model"
	"github.com/siimots/sadamad-data/internal/monitoring"
	"github.com/siimots/sadamad-data/internal/normalize"
	"github.com/siimots/sadamad-data/internal/sadamaregister"
)

// Client is the part of the register client the runner needs.
type Client interface {
	FetchPortSummaries(ctx context.Context) ([]model.RawPortSummary, error)
	FetchPortDetail(ctx context.Context, id model.PortID) (model.RawPortDetail, error)
}

// Options configure a Runner.
type Options struct {
	// Limit caps the number of ports processed; 0 means all.
	Limit int
	// Offset skips the first ports of the listing.
	Offset int
	// Concurrency bounds in-flight detail requests; below 1 means 1.
	Concurrency int
	// Sort orders the features by register id.
	Sort bool
}

// Failure records one skipped port.
type Failure struct {
	ID     model.PortID
	Name   string
	Result string // one of the monitoring.Result* labels
	Err    error
}

// Result is the outcome of one run.
type Result struct {
	RunID      string
	Collection model.FeatureCollection
	Failures   []Failure
	Listed     int
	Processed  int
	Duration   time.Duration
}

// Runner drives a scrape against a Client.
type Runner struct {
	client  Client
	opts    Options
	metrics *monitoring.ScrapeMetrics
}

// NewRunner creates a Runner. metrics may be nil.
func NewRunner(client Client, opts Options, metrics *monitoring.ScrapeMetrics) *Runner {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Runner{client: client, opts: opts, metrics: metrics}
}

// Run executes the scrape. A listing failure or context cancellation aborts
// the run; per-port failures are logged, counted, and skipped.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := zap.L().With(zap.String("component", "pipeline.runner"), zap.String("run_id", runID))

	summaries, err := r.client.FetchPortSummaries(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: list ports")
	}
	listed := len(summaries)
	summaries = window(summaries, r.opts.Offset, r.opts.Limit)
	log.Info("pipeline: starting",
		zap.Int("listed", listed),
		zap.Int("selected", len(summaries)),
		zap.Int("concurrency", r.opts.Concurrency),
	)

	slots := make([]*model.PortFeature, len(summaries))
	failed := make([]*Failure, len(summaries))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)

	for i, s := range summaries {
		i, s := i, s
		g.Go(func() error {
			f, kind, err := r.processPort(gCtx, log, s)
			if err != nil {
				if ctxErr := gCtx.Err(); ctxErr != nil {
					return ctxErr
				}
				name := normalize.PortName(s.Name)
				log.Warn("pipeline: skipping port",
					zap.String("id", s.ID.String()),
					zap.String("name", name),
					zap.String("result", kind),
					zap.Error(err),
				)
				r.metrics.ObservePort(kind)
				failed[i] = &Failure{ID: s.ID, Name: name, Result: kind, Err: err}
				return nil
			}
			r.metrics.ObservePort(monitoring.ResultOK)
			slots[i] = &f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: run aborted")
	}

	features := make([]model.PortFeature, 0, len(slots))
	var failures []Failure
	for i := range slots {
		switch {
		case slots[i] != nil:
			features = append(features, *slots[i])
		case failed[i] != nil:
			failures = append(failures, *failed[i])
		}
	}
	if r.opts.Sort {
		normalize.SortByRegister(features)
	}

	res := &Result{
		RunID:      runID,
		Collection: model.NewFeatureCollection(features),
		Failures:   failures,
		Listed:     listed,
		Processed:  len(summaries),
		Duration:   time.Since(start),
	}
	r.metrics.RunFinished(time.Now(), len(features))

	log.Info("pipeline: finished",
		zap.Int("features", len(features)),
		zap.Int("failures", len(failures)),
		zap.Duration("duration", res.Duration),
	)
	return res, nil
}

// processPort fetches and normalizes one port, returning the failure class
// alongside any error.
func (r *Runner) processPort(ctx context.Context, log *zap.Logger, s model.RawPortSummary) (model.PortFeature, string, error) {
	fetchStart := time.Now()
	detail, err := r.client.FetchPortDetail(ctx, s.ID)
	r.metrics.ObserveFetch(time.Since(fetchStart))
	if err != nil {
		if eris.Is(err, sadamaregister.ErrSchema) {
			return model.PortFeature{}, monitoring.ResultSchema, err
		}
		return model.PortFeature{}, monitoring.ResultTransport, err
	}

	f, err := normalize.Normalize(s, detail)
	if err != nil {
		if eris.Is(err, normalize.ErrMissingMainData) {
			return model.PortFeature{}, monitoring.ResultSchema, err
		}
		return model.PortFeature{}, monitoring.ResultPosition, err
	}
	log.Debug("pipeline: port normalized",
		zap.String("id", s.ID.String()),
		zap.Stringer("position", detail.MainData.Position.Kind()),
	)
	return f, monitoring.ResultOK, nil
}

// window applies offset and limit to the listing.
func window(s []model.RawPortSummary, offset, limit int) []model.RawPortSummary {
	if offset > 0 {
		if offset >= len(s) {
			return nil
		}
		s = s[offset:]
	}
	if limit > 0 && limit < len(s) {
		s = s[:limit]
	}
	return s
}

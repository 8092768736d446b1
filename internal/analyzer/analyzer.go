// Package analyzer orchestrates one city analysis: validate and normalize the
// input, collect from both data sources, merge, and optionally publish.
package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/couchcryptid/cityscout-service/internal/domain"
	"github.com/couchcryptid/cityscout-service/internal/observability"
)

// Publisher delivers completed analysis records to a sink. Optional; publish
// failures never fail the analysis.
type Publisher interface {
	Publish(ctx context.Context, record domain.AnalysisRecord) error
}

// Result is the outcome envelope of one analysis.
type Result struct {
	Success bool                   `json:"success"`
	Data    *domain.AnalysisRecord `json:"data,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

// Analyzer runs the validate → normalize → collect → merge chain. Stateless
// between requests; safe for concurrent use.
type Analyzer struct {
	demographics domain.DemographicsSource
	labor        domain.LaborSource
	publisher    Publisher
	logger       *slog.Logger
	metrics      *observability.Metrics
}

// New creates an Analyzer. Pass a nil publisher to disable result publishing.
func New(demographics domain.DemographicsSource, labor domain.LaborSource, publisher Publisher, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		demographics: demographics,
		labor:        labor,
		publisher:    publisher,
		logger:       logger,
		metrics:      metrics,
	}
}

// CheckReadiness reports whether the analyzer can serve traffic. The service
// holds no warm state, so readiness follows construction.
func (a *Analyzer) CheckReadiness(_ context.Context) error {
	return nil
}

// Analyze performs one full analysis. Validation failures abort with
// Success=false; every upstream failure is isolated per source, so partial
// data still reports success.
func (a *Analyzer) Analyze(ctx context.Context, city, state string) Result {
	loc, err := domain.NewLocation(city, state)
	if err != nil {
		a.metrics.ValidationFailures.Inc()
		a.metrics.AnalysesTotal.WithLabelValues("validation_error").Inc()
		a.logger.Warn("analysis rejected", "city", city, "state", state, "error", err)
		return Result{Success: false, Error: err.Error()}
	}

	log := a.logger.With("city", loc.City, "state", loc.State)
	log.Info("starting analysis", "major_city", domain.IsMajorCity(loc.City, loc.State))

	demo, err := a.demographics.Demographics(ctx, loc.City, loc.State)
	if err != nil {
		log.Warn("demographics unavailable", "error", err)
		demo = domain.Demographics{}
	}

	growth, err := a.demographics.PopulationGrowth(ctx, loc.City, loc.State)
	if err != nil {
		log.Warn("population growth unavailable", "error", err)
		growth = domain.PopulationGrowth{}
	}

	unemp, err := a.labor.UnemploymentRate(ctx, loc.State)
	if err != nil {
		log.Warn("unemployment rate unavailable", "error", err)
		unemp = domain.Unemployment{}
	}

	emp, err := a.labor.EmploymentData(ctx, loc.State)
	if err != nil {
		// A zero labor force still yields the resolved series; other
		// failures yield nothing. Either way the analysis continues.
		if !errors.Is(err, domain.ErrZeroLaborForce) {
			emp = domain.Employment{}
		}
		log.Warn("employment data degraded", "error", err)
	}

	record := domain.MergeAnalysis(loc, demo, growth, unemp, emp)
	a.metrics.AnalysesTotal.WithLabelValues("success").Inc()
	log.Info("analysis completed", "demographic_source", record.DemographicSource)

	a.publish(ctx, record)

	return Result{Success: true, Data: &record}
}

// publish delivers the record to the sink, best-effort.
func (a *Analyzer) publish(ctx context.Context, record domain.AnalysisRecord) {
	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(ctx, record); err != nil {
		a.metrics.PublishesTotal.WithLabelValues("error").Inc()
		a.logger.Warn("publish analysis failed", "city", record.City, "state", record.State, "error", err)
		return
	}
	a.metrics.PublishesTotal.WithLabelValues("success").Inc()
}

// Package domain defines the business logic for the sustainability service.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"example.com/sustainability/internal/carbon"
	"example.com/sustainability/internal/materials"
	"example.com/sustainability/internal/observability"
)

// ErrActivityNotFound is returned when an activity cannot be located.
var ErrActivityNotFound = errors.New("activity not found")

// ActivityRepository captures persistence operations for logged activities.
type ActivityRepository interface {
	FindByIdempotency(ctx context.Context, tenantID, siteID, idempotencyKey string) (*Activity, error)
	Create(ctx context.Context, activity Activity, idempotencyKey string) error
	Get(ctx context.Context, tenantID, activityID string) (*Activity, error)
	ListBySite(ctx context.Context, tenantID, siteID string, cursor *Cursor, limit int) ([]Activity, *Cursor, error)
	ListForRange(ctx context.Context, tenantID, siteID string, from, to time.Time) ([]Activity, error)
}

// MaterialCatalog supplies sustainable-material reference data. An empty
// category lists the whole catalog.
type MaterialCatalog interface {
	ListMaterials(ctx context.Context, category string) ([]materials.Material, error)
}

// Cursor models the pagination token for activity listings.
type Cursor struct {
	OccurredAt time.Time
	ID         string
}

// Service orchestrates activity logging and derived carbon reporting.
type Service struct {
	repo      ActivityRepository
	catalog   MaterialCatalog
	evaluator *carbon.Evaluator
	now       func() time.Time
}

// NewService constructs a Service around its collaborators.
func NewService(repo ActivityRepository, catalog MaterialCatalog, evaluator *carbon.Evaluator) *Service {
	return &Service{
		repo:      repo,
		catalog:   catalog,
		evaluator: evaluator,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// LogActivityInput captures the payload from the API layer.
type LogActivityInput struct {
	TenantID       string
	SiteID         string
	UserID         string
	Type           carbon.ActivityType
	Value          float64
	FuelType       carbon.FuelType
	StandardEF     *float64
	SustainEF      *float64
	Description    string
	OccurredAt     time.Time
	IdempotencyKey string
}

// LogActivity appends one activity. A zero OccurredAt is substituted with the
// current time so downstream sort order stays well-defined; the engine itself
// never consults the wall clock. The second return value reports whether an
// existing record was replayed for the idempotency key.
func (s *Service) LogActivity(ctx context.Context, input LogActivityInput) (*Activity, bool, error) {
	existing, err := s.repo.FindByIdempotency(ctx, input.TenantID, input.SiteID, input.IdempotencyKey)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	now := s.now()
	occurredAt := input.OccurredAt.UTC()
	if input.OccurredAt.IsZero() {
		occurredAt = now
	}

	fuel := input.FuelType
	if input.Type == carbon.TypeEnergy && fuel == "" {
		fuel = carbon.FuelGrid
	}

	activity := Activity{
		ID:          uuid.NewString(),
		TenantID:    input.TenantID,
		SiteID:      input.SiteID,
		UserID:      input.UserID,
		Type:        input.Type,
		Value:       input.Value,
		FuelType:    fuel,
		StandardEF:  input.StandardEF,
		SustainEF:   input.SustainEF,
		Description: input.Description,
		OccurredAt:  occurredAt,
		CreatedAt:   now,
	}

	if err := s.repo.Create(ctx, activity, input.IdempotencyKey); err != nil {
		return nil, false, err
	}

	return &activity, false, nil
}

// GetActivity fetches by ID.
func (s *Service) GetActivity(ctx context.Context, tenantID, activityID string) (*Activity, error) {
	activity, err := s.repo.Get(ctx, tenantID, activityID)
	if err != nil {
		return nil, err
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// ListActivities fetches a site's activities with cursor pagination.
func (s *Service) ListActivities(ctx context.Context, tenantID, siteID string, cursor *Cursor, limit int) ([]Activity, *Cursor, error) {
	return s.repo.ListBySite(ctx, tenantID, siteID, cursor, limit)
}

// CarbonReport is the full derived view for a site and period.
type CarbonReport struct {
	Activities        []Activity
	Summary           carbon.Summary
	Forecast          []carbon.TrendPoint
	Grade             carbon.Grade
	EfficiencyPercent float64
}

// GetCarbonReport rebuilds the carbon summary from the site's complete
// activity set for the period, extends it with a forecast, and grades it.
// The report is a pure derivation; nothing is cached between calls.
func (s *Service) GetCarbonReport(ctx context.Context, tenantID, siteID string, from, to time.Time, horizon int) (*CarbonReport, error) {
	start := time.Now()
	activities, err := s.repo.ListForRange(ctx, tenantID, siteID, from, to)
	if err != nil {
		return nil, err
	}
	defer func() { observability.ObserveSummaryComputed(time.Since(start)) }()

	records := make([]carbon.Record, 0, len(activities))
	for _, a := range activities {
		records = append(records, a.Record())
	}

	summary := s.evaluator.Aggregate(records)
	return &CarbonReport{
		Activities:        activities,
		Summary:           summary,
		Forecast:          carbon.Forecast(summary.Trend, horizon),
		Grade:             carbon.EfficiencyGrade(summary.TotalEmissions, summary.TotalSavings),
		EfficiencyPercent: carbon.EfficiencyPercent(summary.TotalEmissions, summary.TotalSavings),
	}, nil
}

// RecommendMaterials ranks catalog materials against the caller's profile,
// best score first.
func (s *Service) RecommendMaterials(ctx context.Context, category string, profile materials.Profile, industryAverages map[string]float64) ([]materials.Scored, error) {
	candidates, err := s.catalog.ListMaterials(ctx, category)
	if err != nil {
		return nil, err
	}
	return materials.Rank(candidates, profile, industryAverages), nil
}

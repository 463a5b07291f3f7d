package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"example.com/sustainability/internal/auth"
	"example.com/sustainability/internal/carbon"
	"example.com/sustainability/internal/domain"
	"example.com/sustainability/internal/materials"
)

type mockRepo struct {
	created    []domain.Activity
	activities []domain.Activity
}

func (m *mockRepo) FindByIdempotency(ctx context.Context, tenantID, siteID, key string) (*domain.Activity, error) {
	return nil, nil
}

func (m *mockRepo) Create(ctx context.Context, activity domain.Activity, idempotencyKey string) error {
	m.created = append(m.created, activity)
	return nil
}

func (m *mockRepo) Get(ctx context.Context, tenantID, activityID string) (*domain.Activity, error) {
	for i := range m.activities {
		if m.activities[i].ID == activityID {
			return &m.activities[i], nil
		}
	}
	return nil, nil
}

func (m *mockRepo) ListBySite(ctx context.Context, tenantID, siteID string, cursor *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor, error) {
	return m.activities, nil, nil
}

func (m *mockRepo) ListForRange(ctx context.Context, tenantID, siteID string, from, to time.Time) ([]domain.Activity, error) {
	return m.activities, nil
}

type mockCatalog struct {
	items []materials.Material
}

func (m *mockCatalog) ListMaterials(ctx context.Context, category string) ([]materials.Material, error) {
	return m.items, nil
}

func newTestHandler(repo *mockRepo, catalog *mockCatalog) *Handler {
	service := domain.NewService(repo, catalog, carbon.NewEvaluator(carbon.DefaultFactors()))
	return NewHandler(service, 6)
}

func authed(req *http.Request, scopes ...string) *http.Request {
	claims := &auth.Claims{
		Subject:   "tester",
		TenantID:  "tenant-1",
		Scopes:    map[string]struct{}{},
		ExpiresAt: time.Now().Add(time.Hour),
	}
	for _, scope := range scopes {
		claims.Scopes[scope] = struct{}{}
	}
	return req.WithContext(auth.WithClaims(req.Context(), claims))
}

func TestLogActivitySuccess(t *testing.T) {
	repo := &mockRepo{}
	handler := newTestHandler(repo, &mockCatalog{})

	body := `{"siteId":"site-1","userId":"user-1","type":"energy","value":100,"fuelType":"grid","timestamp":"2026-05-01T10:00:00Z"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/activities", strings.NewReader(body)), auth.ScopeActivitiesWrite)

	rr := httptest.NewRecorder()
	handler.logActivity(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected one activity created, got %d", len(repo.created))
	}
	if repo.created[0].Type != carbon.TypeEnergy {
		t.Fatalf("unexpected type %s", repo.created[0].Type)
	}
	want := time.Date(2026, time.May, 1, 10, 0, 0, 0, time.UTC)
	if !repo.created[0].OccurredAt.Equal(want) {
		t.Fatalf("unexpected occurred_at %v", repo.created[0].OccurredAt)
	}
}

func TestLogActivityInvalidTimestampDegradesToNow(t *testing.T) {
	repo := &mockRepo{}
	handler := newTestHandler(repo, &mockCatalog{})

	body := `{"siteId":"site-1","type":"waste","value":12,"timestamp":"yesterday-ish"}`
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/activities", strings.NewReader(body)), auth.ScopeActivitiesWrite)

	rr := httptest.NewRecorder()
	handler.logActivity(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rr.Code, rr.Body.String())
	}
	if repo.created[0].OccurredAt.IsZero() {
		t.Fatal("expected substituted timestamp, got zero")
	}
}

func TestLogActivityRequiresWriteScope(t *testing.T) {
	handler := newTestHandler(&mockRepo{}, &mockCatalog{})

	body := `{"siteId":"site-1","type":"energy","value":1}`
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/activities", strings.NewReader(body)), auth.ScopeActivitiesRead)

	rr := httptest.NewRecorder()
	handler.logActivity(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
}

func TestLogActivityValidation(t *testing.T) {
	handler := newTestHandler(&mockRepo{}, &mockCatalog{})

	body := `{"type":"energy","value":1}`
	req := authed(httptest.NewRequest(http.MethodPost, "/v1/activities", strings.NewReader(body)), auth.ScopeActivitiesWrite)

	rr := httptest.NewRecorder()
	handler.logActivity(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestSiteSummary(t *testing.T) {
	base := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	std, sus := 300.0, 150.0
	repo := &mockRepo{activities: []domain.Activity{
		{ID: "a", Type: carbon.TypeEnergy, Value: 100, FuelType: carbon.FuelGrid, OccurredAt: base},
		{ID: "b", Type: carbon.TypeMaterial, Value: 10, StandardEF: &std, SustainEF: &sus, OccurredAt: base.AddDate(0, 0, 1)},
	}}
	handler := newTestHandler(repo, &mockCatalog{})

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/sites/site-1/summary?horizon=2", nil), auth.ScopeReportsRead)
	rr := httptest.NewRecorder()
	handler.siteSummary(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp CarbonSummaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.TotalEmissions != 50 {
		t.Fatalf("expected totalEmissions 50 got %f", resp.TotalEmissions)
	}
	if resp.TotalSavings != 1500 {
		t.Fatalf("expected totalSavings 1500 got %f", resp.TotalSavings)
	}
	if resp.NetEmissions != -1450 {
		t.Fatalf("expected netEmissions -1450 got %f", resp.NetEmissions)
	}
	if resp.EfficiencyGrade != "A" {
		t.Fatalf("expected grade A got %s", resp.EfficiencyGrade)
	}
	if len(resp.Activities) != 2 {
		t.Fatalf("expected 2 activities got %d", len(resp.Activities))
	}
	if len(resp.Trend) != 2 {
		t.Fatalf("expected 2 trend points got %d", len(resp.Trend))
	}
	if len(resp.Forecast) != 2 {
		t.Fatalf("expected 2 forecast points got %d", len(resp.Forecast))
	}
}

func TestSiteSummaryEmptySite(t *testing.T) {
	handler := newTestHandler(&mockRepo{}, &mockCatalog{})

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/sites/site-1/summary", nil), auth.ScopeReportsRead)
	rr := httptest.NewRecorder()
	handler.siteSummary(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}

	var resp CarbonSummaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.TotalEmissions != 0 || len(resp.Trend) != 0 || len(resp.Forecast) != 0 {
		t.Fatalf("expected empty summary, got %+v", resp)
	}
	if resp.EfficiencyGrade != "A+" {
		t.Fatalf("expected A+ for zero emissions got %s", resp.EfficiencyGrade)
	}
}

func TestSiteSummaryRequiresReportsScope(t *testing.T) {
	handler := newTestHandler(&mockRepo{}, &mockCatalog{})

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/sites/site-1/summary", nil), auth.ScopeActivitiesRead)
	rr := httptest.NewRecorder()
	handler.siteSummary(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rr.Code)
	}
}

func TestMaterialRecommendations(t *testing.T) {
	catalog := &mockCatalog{items: []materials.Material{
		{ID: "worse", Name: "Portland cement", Category: "concrete", Eco: materials.EcoImpact{CarbonFootprint: 400}},
		{ID: "better", Name: "Geopolymer mix", Category: "concrete", Eco: materials.EcoImpact{CarbonFootprint: 60, Local: true}, Supplier: &materials.Supplier{Name: "Local Aggregates", Rating: 5}},
	}}
	handler := newTestHandler(&mockRepo{}, catalog)

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/materials/recommendations?category=concrete&quantity=10&high_impact=concrete", nil), auth.ScopeReportsRead)
	rr := httptest.NewRecorder()
	handler.materialRecommendations(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rr.Code, rr.Body.String())
	}

	var resp RecommendationsResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 items got %d", len(resp.Items))
	}
	if resp.Items[0].ID != "better" {
		t.Fatalf("expected better material ranked first, got %s", resp.Items[0].ID)
	}
	if resp.Items[0].RecommendationScore < 0 || resp.Items[0].RecommendationScore > 100 {
		t.Fatalf("score out of bounds: %f", resp.Items[0].RecommendationScore)
	}
	if resp.Items[0].PotentialSavings != 2400 {
		t.Fatalf("expected potentialSavings 2400 got %f", resp.Items[0].PotentialSavings)
	}
	if resp.Items[0].Supplier != "Local Aggregates" {
		t.Fatalf("unexpected supplier %q", resp.Items[0].Supplier)
	}
}

func TestListActivitiesRequiresSiteID(t *testing.T) {
	handler := newTestHandler(&mockRepo{}, &mockCatalog{})

	req := authed(httptest.NewRequest(http.MethodGet, "/v1/activities", nil), auth.ScopeActivitiesRead)
	rr := httptest.NewRecorder()
	handler.listActivities(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rr.Code)
	}
}

// Package api exposes HTTP handlers for the sustainability service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"example.com/sustainability/internal/auth"
	"example.com/sustainability/internal/carbon"
	"example.com/sustainability/internal/domain"
	"example.com/sustainability/internal/materials"
	"example.com/sustainability/internal/persistence"
)

const maxForecastHorizon = 36

// Handler coordinates HTTP requests with the domain service.
type Handler struct {
	service        *domain.Service
	defaultHorizon int
}

// NewHandler builds a Handler. defaultHorizon is the forecast length used
// when the caller does not ask for one.
func NewHandler(service *domain.Service, defaultHorizon int) *Handler {
	if defaultHorizon < 0 {
		defaultHorizon = 0
	}
	return &Handler{service: service, defaultHorizon: defaultHorizon}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/activities", h.activities)
	mux.HandleFunc("/v1/activities/", h.activityByID)
	mux.HandleFunc("/v1/sites/", h.siteSummary)
	mux.HandleFunc("/v1/materials/recommendations", h.materialRecommendations)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) activities(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.logActivity(w, r)
	case http.MethodGet:
		h.listActivities(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) activityByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/activities/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing activity id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getActivity(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) logActivity(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:write required")
		return
	}

	var req LogActivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	// Timestamps are parsed leniently: a missing or unparseable value is left
	// zero and the service substitutes the current time. Malformed quantities
	// are likewise accepted here and sanitized by the engine; a single bad
	// record must not reject a whole submission.
	var occurredAt time.Time
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			occurredAt = parsed
		}
	}

	idempotencyKey := r.Header.Get("Idempotency-Key")

	activity, replay, err := h.service.LogActivity(r.Context(), domain.LogActivityInput{
		TenantID:       claims.TenantID,
		SiteID:         req.SiteID,
		UserID:         req.UserID,
		Type:           carbon.ActivityType(req.Type),
		Value:          req.Value,
		FuelType:       carbon.FuelType(req.FuelType),
		StandardEF:     req.StandardEF,
		SustainEF:      req.SustainableEF,
		Description:    req.Description,
		OccurredAt:     occurredAt,
		IdempotencyKey: idempotencyKey,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	resp := LogActivityResponse{
		ActivityID: activity.ID,
		Replay:     replay,
	}

	status := http.StatusCreated
	if replay {
		status = http.StatusOK
	}
	writeJSON(w, status, resp)
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return
	}

	activity, err := h.service.GetActivity(r.Context(), claims.TenantID, id)
	if err != nil {
		if errors.Is(err, domain.ErrActivityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "activity not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toActivityView(*activity))
}

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeActivitiesRead) && !claims.HasScope(auth.ScopeActivitiesWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope activities:read required")
		return
	}

	siteID := r.URL.Query().Get("site_id")
	if siteID == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "missing site_id parameter")
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	cursorToken := r.URL.Query().Get("cursor")
	cursor, err := persistence.DecodeCursor(cursorToken)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	activities, next, err := h.service.ListActivities(r.Context(), claims.TenantID, siteID, cursor, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]ActivityView, 0, len(activities))
	for _, activity := range activities {
		items = append(items, toActivityView(activity))
	}

	resp := ListActivitiesResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) siteSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/v1/sites/")
	siteID, tail, found := strings.Cut(rest, "/")
	if !found || tail != "summary" || siteID == "" {
		writeError(w, http.StatusNotFound, "not_found", "unknown resource")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeReportsRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope reports:read required")
		return
	}

	from, to := parseRange(r)

	horizon := h.defaultHorizon
	if raw := r.URL.Query().Get("horizon"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			if parsed > maxForecastHorizon {
				parsed = maxForecastHorizon
			}
			horizon = parsed
		}
	}

	report, err := h.service.GetCarbonReport(r.Context(), claims.TenantID, siteID, from, to, horizon)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, toSummaryView(siteID, report))
}

func (h *Handler) materialRecommendations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return
	}
	if !claims.HasScope(auth.ScopeReportsRead) {
		writeError(w, http.StatusForbidden, "forbidden", "scope reports:read required")
		return
	}

	query := r.URL.Query()
	profile := materials.Profile{
		HighImpactCategories: query["high_impact"],
	}
	if raw := query.Get("quantity"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed > 0 {
			profile.EstimatedQuantity = parsed
		}
	}

	ranked, err := h.service.RecommendMaterials(r.Context(), query.Get("category"), profile, nil)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server_error", err.Error())
		return
	}

	items := make([]MaterialView, 0, len(ranked))
	for _, scored := range ranked {
		items = append(items, toMaterialView(scored))
	}
	writeJSON(w, http.StatusOK, RecommendationsResponse{Items: items})
}

func parseRange(r *http.Request) (time.Time, time.Time) {
	var from, to time.Time
	if raw := r.URL.Query().Get("from"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			from = parsed
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			to = parsed
		}
	}
	return from, to
}

// LogActivityRequest is the payload for POST /v1/activities. The timestamp is
// a string rather than time.Time so an invalid value degrades to "now"
// instead of failing the whole submission.
type LogActivityRequest struct {
	SiteID        string   `json:"siteId"`
	UserID        string   `json:"userId"`
	Type          string   `json:"type"`
	Value         float64  `json:"value"`
	FuelType      string   `json:"fuelType,omitempty"`
	StandardEF    *float64 `json:"standardEF,omitempty"`
	SustainableEF *float64 `json:"sustainableEF,omitempty"`
	Timestamp     string   `json:"timestamp,omitempty"`
	Description   string   `json:"description,omitempty"`
}

// Validate ensures request correctness. Quantity and timestamp stay
// unvalidated on purpose: the engine sanitizes them.
func (r LogActivityRequest) Validate() error {
	if strings.TrimSpace(r.SiteID) == "" {
		return errors.New("siteId is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("type is required")
	}
	return nil
}

// LogActivityResponse describes the response body for create.
type LogActivityResponse struct {
	ActivityID string `json:"activityId"`
	Replay     bool   `json:"idempotentReplay"`
}

// ActivityView exposes full details about an activity.
type ActivityView struct {
	ActivityID    string    `json:"activityId"`
	TenantID      string    `json:"tenantId"`
	SiteID        string    `json:"siteId"`
	UserID        string    `json:"userId"`
	Type          string    `json:"type"`
	Value         float64   `json:"value"`
	FuelType      string    `json:"fuelType,omitempty"`
	StandardEF    *float64  `json:"standardEF,omitempty"`
	SustainableEF *float64  `json:"sustainableEF,omitempty"`
	Description   string    `json:"description,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ListActivitiesResponse packages list results.
type ListActivitiesResponse struct {
	Items      []ActivityView `json:"items"`
	NextCursor string         `json:"nextCursor,omitempty"`
}

// TrendPointView is one entry of the trend or forecast series.
type TrendPointView struct {
	Time      time.Time `json:"time"`
	Emissions float64   `json:"emissions"`
	Savings   float64   `json:"savings"`
	Net       float64   `json:"net"`
}

// CarbonSummaryResponse is the derived carbon view for a site.
type CarbonSummaryResponse struct {
	SiteID            string           `json:"siteId"`
	Activities        []ActivityView   `json:"activities"`
	TotalEmissions    float64          `json:"totalEmissions"`
	TotalSavings      float64          `json:"totalSavings"`
	NetEmissions      float64          `json:"netEmissions"`
	Trend             []TrendPointView `json:"trend"`
	Forecast          []TrendPointView `json:"forecast"`
	EfficiencyGrade   string           `json:"efficiencyGrade"`
	EfficiencyPercent float64          `json:"efficiencyPercent"`
}

// MaterialView is a catalog entry enriched with computed ranking figures.
type MaterialView struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	Category            string  `json:"category"`
	Cost                float64 `json:"cost"`
	Unit                string  `json:"unit"`
	CarbonFootprint     float64 `json:"carbonFootprint"`
	Recyclability       float64 `json:"recyclability"`
	Renewable           bool    `json:"renewable"`
	Local               bool    `json:"local"`
	Supplier            string  `json:"supplier,omitempty"`
	RecommendationScore float64 `json:"recommendationScore"`
	PotentialSavings    float64 `json:"potentialSavings"`
}

// RecommendationsResponse packages ranked materials.
type RecommendationsResponse struct {
	Items []MaterialView `json:"items"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toActivityView(activity domain.Activity) ActivityView {
	return ActivityView{
		ActivityID:    activity.ID,
		TenantID:      activity.TenantID,
		SiteID:        activity.SiteID,
		UserID:        activity.UserID,
		Type:          string(activity.Type),
		Value:         activity.Value,
		FuelType:      string(activity.FuelType),
		StandardEF:    activity.StandardEF,
		SustainableEF: activity.SustainEF,
		Description:   activity.Description,
		Timestamp:     activity.OccurredAt,
		CreatedAt:     activity.CreatedAt,
	}
}

func toSummaryView(siteID string, report *domain.CarbonReport) CarbonSummaryResponse {
	activities := make([]ActivityView, 0, len(report.Activities))
	for _, activity := range report.Activities {
		activities = append(activities, toActivityView(activity))
	}
	return CarbonSummaryResponse{
		SiteID:            siteID,
		Activities:        activities,
		TotalEmissions:    report.Summary.TotalEmissions,
		TotalSavings:      report.Summary.TotalSavings,
		NetEmissions:      report.Summary.NetEmissions,
		Trend:             toTrendViews(report.Summary.Trend),
		Forecast:          toTrendViews(report.Forecast),
		EfficiencyGrade:   string(report.Grade),
		EfficiencyPercent: report.EfficiencyPercent,
	}
}

func toTrendViews(points []carbon.TrendPoint) []TrendPointView {
	out := make([]TrendPointView, 0, len(points))
	for _, p := range points {
		out = append(out, TrendPointView{
			Time:      p.Time,
			Emissions: p.Emissions,
			Savings:   p.Savings,
			Net:       p.Net,
		})
	}
	return out
}

func toMaterialView(scored materials.Scored) MaterialView {
	view := MaterialView{
		ID:                  scored.ID,
		Name:                scored.Name,
		Category:            scored.Category,
		Cost:                scored.Cost,
		Unit:                scored.Unit,
		CarbonFootprint:     scored.Eco.CarbonFootprint,
		Recyclability:       scored.Eco.Recyclability,
		Renewable:           scored.Eco.Renewable,
		Local:               scored.Eco.Local,
		RecommendationScore: scored.RecommendationScore,
		PotentialSavings:    scored.PotentialSavings,
	}
	if scored.Supplier != nil {
		view.Supplier = scored.Supplier.Name
	}
	return view
}

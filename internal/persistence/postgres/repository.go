// Package postgres provides pgx-backed persistence for activities, the
// material catalog, and outbox events.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/sustainability/internal/carbon"
	"example.com/sustainability/internal/domain"
	"example.com/sustainability/internal/materials"
	"example.com/sustainability/internal/observability"
	"example.com/sustainability/internal/outbox"
)

const activityColumns = `activity_id, tenant_id, site_id, user_id, activity_type, value, fuel_type, standard_ef, sustainable_ef, description, occurred_at, created_at`

// Repository provides Postgres-backed persistence for the sustainability service.
type Repository struct {
	pool        *pgxpool.Pool
	eventsTopic string
}

// NewRepository constructs a Repository publishing outbox rows to the given topic.
func NewRepository(pool *pgxpool.Pool, eventsTopic string) *Repository {
	return &Repository{pool: pool, eventsTopic: eventsTopic}
}

// FindByIdempotency checks if an activity already exists for the supplied idempotency key.
func (r *Repository) FindByIdempotency(ctx context.Context, tenantID, siteID, idempotencyKey string) (*domain.Activity, error) {
	if idempotencyKey == "" {
		return nil, nil
	}

	query := `SELECT ` + activityColumns + `
        FROM activities WHERE tenant_id=$1 AND site_id=$2 AND idempotency_key=$3`

	row := r.pool.QueryRow(ctx, query, tenantID, siteID, idempotencyKey)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return activity, nil
}

// Create persists the activity and records the activity.logged outbox event
// inside a single transaction.
func (r *Repository) Create(ctx context.Context, activity domain.Activity, idempotencyKey string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	if _, err = tx.Exec(ctx, "SELECT set_config('app.tenant_id', $1, true)", activity.TenantID); err != nil {
		return err
	}

	insertActivity := `INSERT INTO activities (activity_id, tenant_id, site_id, user_id, activity_type, value, fuel_type, standard_ef, sustainable_ef, description, occurred_at, idempotency_key, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err = tx.Exec(ctx, insertActivity,
		activity.ID,
		activity.TenantID,
		activity.SiteID,
		activity.UserID,
		string(activity.Type),
		activity.Value,
		nullIfEmpty(string(activity.FuelType)),
		activity.StandardEF,
		activity.SustainEF,
		activity.Description,
		activity.OccurredAt,
		nullIfEmpty(idempotencyKey),
		activity.CreatedAt,
	)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(outbox.NewActivityLogged(activity))
	if err != nil {
		return err
	}

	insertOutbox := `INSERT INTO outbox (tenant_id, aggregate_id, event_type, topic, partition_key, payload, attempts)
        VALUES ($1,$2,$3,$4,$5,$6,0)`

	_, err = tx.Exec(ctx, insertOutbox,
		activity.TenantID,
		activity.ID,
		outbox.EventTypeActivityLogged,
		r.eventsTopic,
		activity.SiteID,
		payload,
	)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}

	observability.RecordActivityLogged(activity.CreatedAt)
	return nil
}

// Get fetches one activity by ID within a tenant.
func (r *Repository) Get(ctx context.Context, tenantID, activityID string) (*domain.Activity, error) {
	query := `SELECT ` + activityColumns + `
        FROM activities WHERE tenant_id=$1 AND activity_id=$2`

	row := r.pool.QueryRow(ctx, query, tenantID, activityID)
	activity, err := scanActivity(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return activity, nil
}

// ListBySite returns a page of activities newest first, with a cursor to the next page.
func (r *Repository) ListBySite(ctx context.Context, tenantID, siteID string, cursor *domain.Cursor, limit int) ([]domain.Activity, *domain.Cursor, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + activityColumns + `
        FROM activities
        WHERE tenant_id=$1 AND site_id=$2`
	args := []any{tenantID, siteID}

	if cursor != nil {
		query += ` AND (occurred_at, activity_id) < ($3, $4)`
		args = append(args, cursor.OccurredAt, cursor.ID)
	}
	query += ` ORDER BY occurred_at DESC, activity_id DESC LIMIT $` + itoa(len(args)+1)
	args = append(args, limit+1)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	activities, err := collectActivities(rows)
	if err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(activities) > limit {
		activities = activities[:limit]
		last := activities[len(activities)-1]
		next = &domain.Cursor{OccurredAt: last.OccurredAt, ID: last.ID}
	}
	return activities, next, nil
}

// ListForRange returns the complete activity set for a site and period,
// oldest first, ready for aggregation. Zero bounds are open-ended.
func (r *Repository) ListForRange(ctx context.Context, tenantID, siteID string, from, to time.Time) ([]domain.Activity, error) {
	query := `SELECT ` + activityColumns + `
        FROM activities
        WHERE tenant_id=$1 AND site_id=$2`
	args := []any{tenantID, siteID}

	if !from.IsZero() {
		args = append(args, from)
		query += ` AND occurred_at >= $` + itoa(len(args))
	}
	if !to.IsZero() {
		args = append(args, to)
		query += ` AND occurred_at <= $` + itoa(len(args))
	}
	query += ` ORDER BY occurred_at ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectActivities(rows)
}

// ListMaterials returns catalog entries, optionally filtered by category.
func (r *Repository) ListMaterials(ctx context.Context, category string) ([]materials.Material, error) {
	query := `SELECT material_id, name, category, cost, unit, carbon_footprint, water_usage, recyclability, renewable, local, supplier_name, supplier_rating, supplier_location
        FROM materials`
	args := []any{}
	if category != "" {
		query += ` WHERE category=$1`
		args = append(args, category)
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]materials.Material, 0)
	for rows.Next() {
		var m materials.Material
		var supplierName, supplierLocation *string
		var supplierRating *float64
		if err := rows.Scan(&m.ID, &m.Name, &m.Category, &m.Cost, &m.Unit,
			&m.Eco.CarbonFootprint, &m.Eco.WaterUsage, &m.Eco.Recyclability, &m.Eco.Renewable, &m.Eco.Local,
			&supplierName, &supplierRating, &supplierLocation); err != nil {
			return nil, err
		}
		if supplierName != nil {
			m.Supplier = &materials.Supplier{Name: *supplierName}
			if supplierRating != nil {
				m.Supplier.Rating = *supplierRating
			}
			if supplierLocation != nil {
				m.Supplier.Location = *supplierLocation
			}
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var activity domain.Activity
	var fuelType *string
	if err := row.Scan(&activity.ID, &activity.TenantID, &activity.SiteID, &activity.UserID,
		&activity.Type, &activity.Value, &fuelType, &activity.StandardEF, &activity.SustainEF,
		&activity.Description, &activity.OccurredAt, &activity.CreatedAt); err != nil {
		return nil, err
	}
	if fuelType != nil {
		activity.FuelType = carbon.FuelType(*fuelType)
	}
	return &activity, nil
}

func collectActivities(rows pgx.Rows) ([]domain.Activity, error) {
	out := make([]domain.Activity, 0)
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *activity)
	}
	return out, rows.Err()
}

func nullIfEmpty(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

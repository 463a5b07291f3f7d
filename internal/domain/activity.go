package domain

import (
	"time"

	"example.com/sustainability/internal/carbon"
)

// Activity is the canonical logged site event stored in PostgreSQL. Rows are
// append-only: the dashboard never edits an activity, it logs a new one.
type Activity struct {
	ID          string
	TenantID    string
	SiteID      string
	UserID      string
	Type        carbon.ActivityType
	Value       float64
	FuelType    carbon.FuelType
	StandardEF  *float64
	SustainEF   *float64
	Description string
	OccurredAt  time.Time
	CreatedAt   time.Time
}

// Record converts the stored activity into the engine's input shape.
func (a Activity) Record() carbon.Record {
	return carbon.Record{
		ID:          a.ID,
		Timestamp:   a.OccurredAt,
		Type:        a.Type,
		Value:       a.Value,
		FuelType:    a.FuelType,
		StandardEF:  a.StandardEF,
		SustainEF:   a.SustainEF,
		Description: a.Description,
	}
}

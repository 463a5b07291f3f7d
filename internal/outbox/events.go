package outbox

import (
	"time"

	"example.com/sustainability/internal/domain"
)

// EventTypeActivityLogged identifies the append event emitted for every
// persisted activity.
const EventTypeActivityLogged = "activity.logged"

// ActivityLogged is the payload published when a site activity is recorded.
// Downstream report generators and dashboard caches consume it instead of
// polling the activities table.
type ActivityLogged struct {
	ActivityID string    `json:"activityId"`
	TenantID   string    `json:"tenantId"`
	SiteID     string    `json:"siteId"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	Value      float64   `json:"value"`
	FuelType   string    `json:"fuelType,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// NewActivityLogged builds the event payload from a stored activity.
func NewActivityLogged(activity domain.Activity) ActivityLogged {
	return ActivityLogged{
		ActivityID: activity.ID,
		TenantID:   activity.TenantID,
		SiteID:     activity.SiteID,
		UserID:     activity.UserID,
		Type:       string(activity.Type),
		Value:      activity.Value,
		FuelType:   string(activity.FuelType),
		OccurredAt: activity.OccurredAt,
	}
}

package auth

// Known OAuth scopes used by the sustainability backend.
const (
	ScopeActivitiesWrite = "activities:write"
	ScopeActivitiesRead  = "activities:read"
	ScopeReportsRead     = "reports:read"
)

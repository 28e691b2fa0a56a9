package constants

import "time"

// Context keys used to pass data between middleware and handlers
const (
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "user"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
)

// Validation limits
const (
	MinPasswordLength    = 6
	MaxUserSearchResults = 10
)

// Pagination defaults
const (
	MinPage         = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Rate limiting defaults
const (
	DefaultRateLimitRequests = 100
	DefaultRateLimitWindow   = 15 * time.Minute
)

package domain

import "time"

// Idempotency records the outcome of a create request, keyed by
// (scope, route, key). Scope is the caller (user id or client IP) and route
// the resource path. A retry with the same key replays ResourceID/Status
// instead of inserting again.
type Idempotency struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	Scope      string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_scope_route_key,priority:1"`
	Route      string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_scope_route_key,priority:2"`
	Key        string    `gorm:"type:varchar(255);not null;uniqueIndex:ux_scope_route_key,priority:3"`
	ResourceID string    `gorm:"type:varchar(64);not null"`
	Status     int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt  time.Time `gorm:"not null;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }

package model

import "time"

// Event is a short tenant-scoped message. Events are append-only: created
// once, never mutated or deleted, and retained in memory for the process
// lifetime, partitioned by tenant.
type Event struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenant_id"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

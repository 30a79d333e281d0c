package domain

import "time"

// AuditEvent records one policy decision.
type AuditEvent struct {
	PrincipalID string    `json:"principal_id"`
	ResourceID  int64     `json:"resource_id"`
	Kind        Kind      `json:"kind"`
	Action      Action    `json:"action"`
	Decision    string    `json:"decision"`
	At          time.Time `json:"at"`
}

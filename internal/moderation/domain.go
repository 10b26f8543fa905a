// Package moderation drives the user lifecycle workflow of the admin
// console: permission-gated listing, lookup and status transitions over the
// backend's user records.
package moderation

import "time"

// Status is a user account lifecycle state. The values belong to the
// backend contract; the client never invents new ones.
type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusSuspend  Status = "SUSPEND"
	StatusInactive Status = "INACTIVE"
)

// User is the management view of a user record as the backend returns it.
// It is never mutated locally: after a successful transition callers
// re-fetch, so the console can not drift from server state.
type User struct {
	ID            int64     `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	PhoneNumber   string    `json:"phoneNumber"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	FullName      string    `json:"fullName"`
	RoleName      string    `json:"roleName"`
	Status        Status    `json:"status"`
	LastLogin     time.Time `json:"lastLogin"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
	HasProfile    bool      `json:"hasProfile"`
	PhotoCount    int       `json:"photoCount"`
	TotalMatches  int64     `json:"totalMatches"`
	TotalMessages int64     `json:"totalMessages"`
}

// StatusUpdate is the backend's acknowledgement of a status transition.
type StatusUpdate struct {
	UserID         int64  `json:"userId"`
	PreviousStatus Status `json:"previousStatus"`
	NewStatus      Status `json:"newStatus"`
	Reason         string `json:"reason,omitempty"`
	Message        string `json:"message"`
}

// statusUpdateRequest is the transition payload. The client transmits
// intent only; expiry dates are computed server-side.
type statusUpdateRequest struct {
	Status         Status `json:"status"`
	Reason         string `json:"reason,omitempty"`
	SuspensionDays *int   `json:"suspensionDays,omitempty"`
}

// DefaultSuspendReason is sent when the operator leaves the reason blank.
const DefaultSuspendReason = "Violated community guidelines"

// SuspensionDays are the durations the backend accepts for a suspension.
// A nil duration means the suspension is permanent.
var SuspensionDays = []int{1, 3, 7, 14, 30, 90}

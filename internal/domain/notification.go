package domain

import "time"

// Notification targets either a specific user or every active user holding a
// role (manager fan-out). Exactly one of UserID / Role is set.
type Notification struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	Role      *Role     `json:"role,omitempty"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	RefType   string    `json:"ref_type"`
	RefID     int64     `json:"ref_id"`
	IsRead    bool      `json:"is_read"`
	CreatedOn time.Time `json:"created_on"`
}

// LoanHistory is the per-loan audit trail.
type LoanHistory struct {
	ID        int64     `json:"id"`
	LoanID    int64     `json:"loan_id"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail"`
	ActorID   int64     `json:"actor_id"`
	CreatedOn time.Time `json:"created_on"`
}

package approval

import "time"

// Stage identifies which review step produced an audit entry.
type Stage string

const (
	StageLeader Stage = "leader"
	StageAdmin  Stage = "admin"
)

// Outcome is the result a reviewer recorded at a stage.
type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeReturned Outcome = "returned"
)

// AuditEntry is one approve/reject action on a ledger. All entries are
// retained; for a given stage only the newest one reflects whether that
// stage is currently satisfied.
type AuditEntry struct {
	ID        string    `json:"id"`
	LedgerID  string    `json:"ledger_id"`
	Stage     Stage     `json:"stage"`
	Outcome   Outcome   `json:"outcome"`
	ActorID   string    `json:"actor_id"`
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

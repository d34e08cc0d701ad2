package approval

import (
	"github.com/kintaihub/kintai-backend-go/internal/domain/timecard"
)

// Event is a requested status transition on a monthly ledger.
type Event string

const (
	EventSubmit        Event = "submit"
	EventLeaderApprove Event = "leader_approve"
	EventLeaderReject  Event = "leader_reject"
	EventAdminApprove  Event = "admin_approve"
	EventReopen        Event = "reopen"
)

// transitions is the closed table of allowed status moves. Anything not
// listed here is rejected with ErrWrongState; guards (validation, roles,
// comments) are enforced by the service on top of this table.
var transitions = map[timecard.LedgerStatus]map[Event]timecard.LedgerStatus{
	timecard.StatusDraft: {
		EventSubmit: timecard.StatusSubmitted,
	},
	timecard.StatusReturned: {
		EventSubmit: timecard.StatusSubmitted,
	},
	timecard.StatusSubmitted: {
		EventLeaderApprove: timecard.StatusLeaderApproved,
		EventLeaderReject:  timecard.StatusReturned,
		EventReopen:        timecard.StatusDraft,
	},
	timecard.StatusLeaderApproved: {
		EventAdminApprove: timecard.StatusAdminApproved,
		EventReopen:       timecard.StatusDraft,
	},
	timecard.StatusAdminApproved: {
		EventReopen: timecard.StatusDraft,
	},
}

// Transition resolves the next status for an event, or ErrWrongState when
// the event is not allowed from the current status.
func Transition(current timecard.LedgerStatus, event Event) (timecard.LedgerStatus, error) {
	next, ok := transitions[current][event]
	if !ok {
		return "", ErrWrongState
	}
	return next, nil
}

// AuditForEvent maps approve/reject events to their audit stage and
// outcome. Plain submit and reopen carry no audit entry.
func AuditForEvent(event Event) (Stage, Outcome, bool) {
	switch event {
	case EventLeaderApprove:
		return StageLeader, OutcomeApproved, true
	case EventLeaderReject:
		return StageLeader, OutcomeReturned, true
	case EventAdminApprove:
		return StageAdmin, OutcomeApproved, true
	default:
		return "", "", false
	}
}

package ordercalc

import "time"

// Status is the lifecycle status of an order-like document. The four
// persisted statuses are authoritative; OVERDUE exists only as a derived
// view of IN_PROGRESS and is never written to storage, so the passage of
// time alone transitions an order's visible state without a background job.
type Status string

const (
	StatusApprovalPending Status = "APPROVAL_PENDING"
	StatusInProgress      Status = "IN_PROGRESS"
	StatusCompleted       Status = "COMPLETED"
	StatusCancelled       Status = "CANCELLED"

	// StatusOverdue is derived at read time and must be recomputed on every
	// read; it must not be cached across day boundaries.
	StatusOverdue Status = "OVERDUE"
)

// IsValid checks if the status is one of the persisted statuses.
// StatusOverdue is not a valid persisted status.
func (s Status) IsValid() bool {
	switch s {
	case StatusApprovalPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true for statuses that admit no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo checks if the persisted status can transition to the target
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusApprovalPending:
		return target == StatusInProgress || target == StatusCancelled
	case StatusInProgress:
		return target == StatusCompleted || target == StatusCancelled
	}
	return false
}

// DisplayStatus derives the status shown to users from the persisted status
// and an optional due date. Only IN_PROGRESS orders can read as OVERDUE: an
// order awaiting approval has no delivery commitment yet, and terminal
// statuses stay terminal whatever the due date says. Dates are compared
// day-granular in the local zone of today; an order due today is not yet
// overdue. A nil or zero due date falls back to plain IN_PROGRESS.
func DisplayStatus(persisted Status, dueDate *time.Time, today time.Time) Status {
	if persisted != StatusInProgress {
		return persisted
	}
	if dueDate == nil || dueDate.IsZero() {
		return StatusInProgress
	}
	// Evaluate day-granular in the caller's zone so "today" means the local date
	if truncateToDay(dueDate.In(today.Location())).Before(truncateToDay(today)) {
		return StatusOverdue
	}
	return StatusInProgress
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

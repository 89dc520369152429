package ordercalc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var today = time.Date(2026, 3, 15, 10, 30, 0, 0, time.Local)

func dateOffset(days int) *time.Time {
	d := today.AddDate(0, 0, days)
	return &d
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  Status
		isValid bool
	}{
		{StatusApprovalPending, true},
		{StatusInProgress, true},
		{StatusCompleted, true},
		{StatusCancelled, true},
		{StatusOverdue, false}, // derived, never persisted
		{Status("INVALID"), false},
		{Status(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		canTrans bool
	}{
		{StatusApprovalPending, StatusInProgress, true},
		{StatusApprovalPending, StatusCancelled, true},
		{StatusApprovalPending, StatusCompleted, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusApprovalPending, false},
		// Terminal states
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusInProgress, false},
		{StatusCancelled, StatusCompleted, false},
		// Derived status is never a transition target or source
		{StatusInProgress, StatusOverdue, false},
		{StatusOverdue, StatusCompleted, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestDisplayStatus(t *testing.T) {
	tests := []struct {
		name      string
		persisted Status
		dueDate   *time.Time
		expected  Status
	}{
		{"in progress without due date", StatusInProgress, nil, StatusInProgress},
		{"in progress due tomorrow", StatusInProgress, dateOffset(1), StatusInProgress},
		{"in progress due today is not yet overdue", StatusInProgress, dateOffset(0), StatusInProgress},
		{"in progress due yesterday", StatusInProgress, dateOffset(-1), StatusOverdue},
		{"in progress long overdue", StatusInProgress, dateOffset(-30), StatusOverdue},
		{"pending approval ignores past due date", StatusApprovalPending, dateOffset(-5), StatusApprovalPending},
		{"completed is terminal whatever the due date", StatusCompleted, dateOffset(-5), StatusCompleted},
		{"cancelled is terminal whatever the due date", StatusCancelled, dateOffset(-5), StatusCancelled},
		{"zero due date treated as no due date", StatusInProgress, &time.Time{}, StatusInProgress},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayStatus(tt.persisted, tt.dueDate, today))
		})
	}
}

func TestDisplayStatus_Terminality(t *testing.T) {
	// Terminal statuses display as themselves for every due date offset
	for _, status := range []Status{StatusCompleted, StatusCancelled} {
		for days := -10; days <= 10; days++ {
			assert.Equal(t, status, DisplayStatus(status, dateOffset(days), today))
		}
	}
}

func TestDisplayStatus_DueEndOfDay(t *testing.T) {
	// A due date late yesterday evening is still overdue; time of day is stripped
	lateYesterday := time.Date(2026, 3, 14, 23, 59, 59, 0, time.Local)
	assert.Equal(t, StatusOverdue, DisplayStatus(StatusInProgress, &lateYesterday, today))

	// Early this morning is due today, not overdue
	earlyToday := time.Date(2026, 3, 15, 0, 0, 1, 0, time.Local)
	assert.Equal(t, StatusInProgress, DisplayStatus(StatusInProgress, &earlyToday, today))
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusApprovalPending.IsTerminal())
	assert.False(t, StatusInProgress.IsTerminal())
	assert.False(t, StatusOverdue.IsTerminal())
}

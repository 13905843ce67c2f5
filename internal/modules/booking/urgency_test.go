package booking

import (
	"testing"
	"time"
)

func TestClassifyUrgency(t *testing.T) {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		lead       time.Duration
		wantUrgent bool
	}{
		{"23 hours out", 23 * time.Hour, true},
		{"25 hours out", 25 * time.Hour, false},
		{"exactly 24 hours", 24 * time.Hour, false},
		{"just under 24 hours", 24*time.Hour - time.Minute, true},
		{"two hours out", 2 * time.Hour, true},
		{"a week out", 7 * 24 * time.Hour, false},
		{"scheduled in the past", -1 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := ClassifyUrgency(now.Add(tt.lead), now)
			if flag.IsUrgent != tt.wantUrgent {
				t.Errorf("IsUrgent = %v, want %v (lead %v)", flag.IsUrgent, tt.wantUrgent, tt.lead)
			}
			wantHours := tt.lead.Hours()
			if flag.HoursUntilPickup != wantHours {
				t.Errorf("HoursUntilPickup = %f, want %f", flag.HoursUntilPickup, wantHours)
			}
			if tt.wantUrgent && flag.CancellationFee.Amount != urgentCancellationFeeCents {
				t.Errorf("CancellationFee = %d, want %d", flag.CancellationFee.Amount, urgentCancellationFeeCents)
			}
			if !tt.wantUrgent && flag.CancellationFee.Amount != 0 {
				t.Errorf("CancellationFee = %d, want 0 for non-urgent", flag.CancellationFee.Amount)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to Status
		want     bool
	}{
		{StatusRequested, StatusNegotiating, true},
		{StatusNegotiating, StatusConfirmed, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusRequested, StatusCancelled, true},
		{StatusNegotiating, StatusCancelled, true},
		{StatusConfirmed, StatusCancelled, true},
		// terminal states have no outgoing transitions
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusRequested, false},
		// skipping states
		{StatusRequested, StatusConfirmed, false},
		{StatusRequested, StatusCompleted, false},
	}
	for _, tc := range cases {
		if got := CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

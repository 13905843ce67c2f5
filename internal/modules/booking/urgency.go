// README: Urgency classification for short-lead rides.
package booking

import (
	"time"

	"medride/internal/types"
)

// A ride scheduled inside this lead time is urgent: it carries a flat
// cancellation fee and downstream dispatch prioritizes it in fan-out.
const urgentLeadHours = 24.0

// urgentCancellationFeeCents is a flat amount, not a percentage of the
// fare; the fee exists to compensate a driver's blocked slot, which does
// not scale with trip length.
const urgentCancellationFeeCents = 2500

// ClassifyUrgency computes the urgency flag for a ride scheduled at
// scheduledAt, as of now. It is called exactly once, at booking
// confirmation; the result travels with the ride record.
func ClassifyUrgency(scheduledAt, now time.Time) UrgencyFlag {
	hours := scheduledAt.Sub(now).Hours()
	flag := UrgencyFlag{
		HoursUntilPickup: hours,
		CancellationFee:  types.USD(0),
	}
	if hours < urgentLeadHours {
		flag.IsUrgent = true
		flag.CancellationFee = types.USD(urgentCancellationFeeCents)
	}
	return flag
}

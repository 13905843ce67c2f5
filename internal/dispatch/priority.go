// README: Redis-backed priority queue; urgent rides rank ahead of scheduled ones.
package dispatch

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"medride/internal/types"
)

const pendingKey = "dispatch:pending"

// urgentBonusSeconds pulls urgent rides ahead in the queue: an urgent ride
// sorts as if it were scheduled three days earlier than it is, which beats
// any ride inside the normal booking horizon.
const urgentBonusSeconds = 3 * 24 * 60 * 60

// PriorityQueue orders pending rides for driver fan-out. Score is the
// scheduled pickup epoch, minus a bonus for urgent rides, so ZPopMin yields
// the next ride to offer.
type PriorityQueue struct {
	redis *redis.Client
}

func NewPriorityQueue(client *redis.Client) *PriorityQueue {
	return &PriorityQueue{redis: client}
}

func (q *PriorityQueue) Enqueue(ctx context.Context, rideID types.ID, scheduledAt time.Time, urgent bool) error {
	score := float64(scheduledAt.Unix())
	if urgent {
		score -= urgentBonusSeconds
	}
	return q.redis.ZAdd(ctx, pendingKey, redis.Z{Score: score, Member: string(rideID)}).Err()
}

func (q *PriorityQueue) Remove(ctx context.Context, rideID types.ID) error {
	return q.redis.ZRem(ctx, pendingKey, string(rideID)).Err()
}

// Next pops the highest-priority pending ride. Returns ("", false) when
// the queue is empty.
func (q *PriorityQueue) Next(ctx context.Context) (types.ID, bool, error) {
	res, err := q.redis.ZPopMin(ctx, pendingKey, 1).Result()
	if err != nil {
		return "", false, err
	}
	if len(res) == 0 {
		return "", false, nil
	}
	id, _ := res[0].Member.(string)
	return types.ID(id), true, nil
}

// README: Ride store interface and PostgreSQL implementation.
package booking

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medride/internal/modules/pricing"
	"medride/internal/types"
)

// StatusUpdate carries the optional columns a status transition may set.
type StatusUpdate struct {
	ChainID      *types.ID
	FinalAmount  *types.Money
	CancelReason *string
}

// Store defines persistence operations for rides. UpdateStatus is guarded
// by (from, version) so racing writers resolve to exactly one winner.
type Store interface {
	CreateRide(ctx context.Context, r *Ride) error
	GetRide(ctx context.Context, id types.ID) (*Ride, error)
	UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, upd StatusUpdate) (bool, error)
}

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateRide(ctx context.Context, r *Ride) error {
	quoteJSON, err := json.Marshal(r.Quote)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO rides (
			id, rider_id, status, status_version,
			pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
			vehicle_type, needs_ramp, needs_companion, needs_stair_chair, needs_wait_time,
			pickup_stairs, dropoff_stairs, round_trip,
			scheduled_at, is_urgent, hours_until_pickup, cancellation_fee,
			quote, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16,
			$17, $18, $19, $20,
			$21, $22
		)`,
		string(r.ID), string(r.RiderID), string(r.Status), r.StatusVersion,
		r.Pickup.Lat, r.Pickup.Lng, r.Dropoff.Lat, r.Dropoff.Lng,
		string(r.VehicleType),
		r.Services.NeedsRamp, r.Services.NeedsCompanion, r.Services.NeedsStairChair, r.Services.NeedsWaitTime,
		string(r.PickupStairs), string(r.DropoffStairs), r.RoundTrip,
		r.ScheduledAt, r.Urgency.IsUrgent, r.Urgency.HoursUntilPickup, r.Urgency.CancellationFee.Amount,
		quoteJSON, r.CreatedAt,
	)
	return err
}

func (s *PGStore) GetRide(ctx context.Context, id types.ID) (*Ride, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, rider_id, status, status_version,
		       pickup_lat, pickup_lng, dropoff_lat, dropoff_lng,
		       vehicle_type, needs_ramp, needs_companion, needs_stair_chair, needs_wait_time,
		       pickup_stairs, dropoff_stairs, round_trip,
		       scheduled_at, is_urgent, hours_until_pickup, cancellation_fee,
		       quote, chain_id, final_amount, created_at, cancelled_at, cancel_reason
		FROM rides
		WHERE id = $1`, string(id),
	)

	var r Ride
	var feeCents, finalCents *int64
	var chainID, cancelReason *string
	var cancelledAt *time.Time
	var quoteJSON []byte

	err := row.Scan(
		&r.ID, &r.RiderID, &r.Status, &r.StatusVersion,
		&r.Pickup.Lat, &r.Pickup.Lng, &r.Dropoff.Lat, &r.Dropoff.Lng,
		&r.VehicleType,
		&r.Services.NeedsRamp, &r.Services.NeedsCompanion, &r.Services.NeedsStairChair, &r.Services.NeedsWaitTime,
		&r.PickupStairs, &r.DropoffStairs, &r.RoundTrip,
		&r.ScheduledAt, &r.Urgency.IsUrgent, &r.Urgency.HoursUntilPickup, &feeCents,
		&quoteJSON, &chainID, &finalCents, &r.CreatedAt, &cancelledAt, &cancelReason,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if feeCents != nil {
		r.Urgency.CancellationFee = types.USD(*feeCents)
	}
	if chainID != nil {
		c := types.ID(*chainID)
		r.ChainID = &c
	}
	if finalCents != nil {
		m := types.USD(*finalCents)
		r.FinalAmount = &m
	}
	r.CancelledAt = cancelledAt
	r.CancelReason = cancelReason
	if len(quoteJSON) > 0 {
		var q pricing.Quote
		if err := json.Unmarshal(quoteJSON, &q); err != nil {
			return nil, err
		}
		r.Quote = &q
	}
	return &r, nil
}

func (s *PGStore) UpdateStatus(ctx context.Context, id types.ID, from, to Status, version int, upd StatusUpdate) (bool, error) {
	var chainID *string
	if upd.ChainID != nil {
		v := string(*upd.ChainID)
		chainID = &v
	}
	var finalCents *int64
	if upd.FinalAmount != nil {
		finalCents = &upd.FinalAmount.Amount
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE rides
		SET status = $1,
		    status_version = status_version + 1,
		    chain_id = COALESCE($2, chain_id),
		    final_amount = COALESCE($3, final_amount),
		    cancel_reason = COALESCE($4, cancel_reason),
		    cancelled_at = CASE WHEN $1 = 'cancelled' THEN NOW() ELSE cancelled_at END
		WHERE id = $5 AND status = $6 AND status_version = $7`,
		string(to), chainID, finalCents, upd.CancelReason,
		string(id), string(from), version,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// README: Negotiation chain store backed by PostgreSQL with optimistic versioning.
package negotiation

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"medride/internal/types"
)

type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) CreateChain(ctx context.Context, c *Chain) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO negotiation_chains (
			id, ride_id, original_amount, currency, max_rounds,
			current_round, status, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		string(c.ID), string(c.RideID),
		c.OriginalAmount.Amount, c.OriginalAmount.Currency,
		c.MaxRounds, c.CurrentRound, string(c.Status), c.Version,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return err
	}
	for _, b := range c.Bids {
		if err := insertBid(ctx, tx, b); err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func insertBid(ctx context.Context, tx pgx.Tx, b Bid) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO negotiation_bids (
			id, chain_id, amount, currency, notes, round, created_by, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		string(b.ID), string(b.ChainID),
		b.Amount.Amount, b.Amount.Currency,
		b.Notes, b.Round, string(b.CreatedBy), b.CreatedAt,
	)
	return err
}

func (s *PGStore) GetChain(ctx context.Context, id types.ID) (*Chain, error) {
	return s.getChain(ctx, `WHERE id = $1`, string(id))
}

func (s *PGStore) GetChainByRide(ctx context.Context, rideID types.ID) (*Chain, error) {
	return s.getChain(ctx, `WHERE ride_id = $1`, string(rideID))
}

func (s *PGStore) getChain(ctx context.Context, where string, arg any) (*Chain, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, ride_id, original_amount, currency, max_rounds,
		       current_round, status, agreed_amount, version, created_at, updated_at
		FROM negotiation_chains `+where, arg)

	var c Chain
	var agreed *int64
	err := row.Scan(
		&c.ID, &c.RideID, &c.OriginalAmount.Amount, &c.OriginalAmount.Currency,
		&c.MaxRounds, &c.CurrentRound, &c.Status, &agreed, &c.Version,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if agreed != nil {
		m := types.Money{Amount: *agreed, Currency: c.OriginalAmount.Currency}
		c.AgreedAmount = &m
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, chain_id, amount, currency, notes, round, created_by, created_at
		FROM negotiation_bids
		WHERE chain_id = $1
		ORDER BY round ASC, created_at ASC`, string(c.ID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var b Bid
		if err := rows.Scan(
			&b.ID, &b.ChainID, &b.Amount.Amount, &b.Amount.Currency,
			&b.Notes, &b.Round, &b.CreatedBy, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.Bids = append(c.Bids, b)
	}
	return &c, rows.Err()
}

func (s *PGStore) AppendBid(ctx context.Context, chainID types.ID, bid Bid, status Status, round int, expectVersion int) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE negotiation_chains
		SET status = $1,
		    current_round = $2,
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $3 AND version = $4`,
		string(status), round, string(chainID), expectVersion,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}
	if err := insertBid(ctx, tx, bid); err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *PGStore) SetStatus(ctx context.Context, chainID types.ID, status Status, agreed *types.Money, expectVersion int) (bool, error) {
	var agreedCents *int64
	if agreed != nil {
		agreedCents = &agreed.Amount
	}
	tag, err := s.db.Exec(ctx, `
		UPDATE negotiation_chains
		SET status = $1,
		    agreed_amount = COALESCE($2, agreed_amount),
		    version = version + 1,
		    updated_at = NOW()
		WHERE id = $3 AND version = $4`,
		string(status), agreedCents, string(chainID), expectVersion,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

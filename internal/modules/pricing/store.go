// README: Rate card store backed by PostgreSQL; falls back to compiled defaults.
package pricing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store loads operator-tuned rate overrides. A missing or empty table is not
// an error; the compiled-in defaults apply.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// LoadRateCard reads the current rate rows on top of the default card.
// Rows are keyed by item name so the operator can override a single charge
// without restating the whole card.
func (s *Store) LoadRateCard(ctx context.Context) (RateCard, error) {
	card := DefaultRateCard()
	if s.db == nil {
		return card, nil
	}

	rows, err := s.db.Query(ctx, `SELECT item, cents FROM fare_rates`)
	if err != nil {
		return card, fmt.Errorf("load fare rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item string
		var cents int64
		if err := rows.Scan(&item, &cents); err != nil {
			return card, fmt.Errorf("scan fare rate: %w", err)
		}
		applyRate(&card, item, cents)
	}
	return card, rows.Err()
}

func applyRate(card *RateCard, item string, cents int64) {
	switch item {
	case "base_standard":
		card.BaseFares[VehicleStandard] = cents
	case "base_wheelchair":
		card.BaseFares[VehicleWheelchair] = cents
	case "base_stretcher":
		card.BaseFares[VehicleStretcher] = cents
	case "per_mile":
		card.PerMileCents = cents
	case "stairs_few":
		card.StairCharges[StairsFew] = cents
	case "stairs_some":
		card.StairCharges[StairsSome] = cents
	case "stairs_many":
		card.StairCharges[StairsMany] = cents
	case "stairs_full_flight":
		card.StairCharges[StairsFullFlight] = cents
	case "ramp":
		card.RampCents = cents
	case "companion":
		card.CompanionCents = cents
	case "stair_chair":
		card.StairChairCents = cents
	case "wait_time":
		card.WaitTimeCents = cents
	case "platform_fee_bps":
		card.PlatformFeeBps = cents
	case "tax_bps":
		card.TaxBps = cents
	}
}

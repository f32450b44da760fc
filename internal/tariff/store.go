// README: Rate-override store backed by PostgreSQL.
package tariff

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxibordeaux/internal/config"
)

// Store loads per-year rate overrides. Regulated rates change by decree, so
// operations can push new values without a redeploy; config defaults apply
// when no row exists for the year.
type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// LoadRates returns the override for year, or found=false when the table has
// no row for it.
func (s *Store) LoadRates(ctx context.Context, year int, defaults config.TariffConfig) (config.TariffConfig, bool, error) {
	row := s.db.QueryRow(ctx, `
		SELECT base_fare, day_rate_km, night_rate_km, wait_rate_hour,
		       extra_passenger, extra_bag, minimum_fare
		FROM tariff_rates
		WHERE year = $1`, year,
	)

	rates := defaults
	err := row.Scan(
		&rates.BaseFare,
		&rates.DayRatePerKm,
		&rates.NightRatePerKm,
		&rates.HourlyWaitRate,
		&rates.ExtraPassengerRate,
		&rates.ExtraBagRate,
		&rates.MinimumFare,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return defaults, false, nil
	}
	if err != nil {
		return defaults, false, err
	}
	return rates, true, nil
}

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS public.bookings (
		id           uuid PRIMARY KEY DEFAULT gen_random_uuid(),
		booking_date text NOT NULL CHECK (booking_date ~ '^\d{4}-\d{2}-\d{2}$'),
		booking_time text NOT NULL CHECK (booking_time ~ '^\d{2}:\d{2}$'),
		name         text NOT NULL,
		contact      text NOT NULL,
		reason       text NOT NULL,
		created_at   timestamptz NOT NULL DEFAULT now(),
		CONSTRAINT bookings_slot_unique UNIQUE (booking_date, booking_time)
	)`,
	`CREATE INDEX IF NOT EXISTS bookings_date_idx ON public.bookings (booking_date)`,
}

// EnsureSchema creates the bookings table and its indexes if they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema failed: %w", err)
		}
	}
	return nil
}

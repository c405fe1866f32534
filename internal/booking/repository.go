package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the row store holding one row per booking.
type Repository interface {
	// List returns every booking ordered by date then time.
	List(ctx context.Context) ([]*Booking, error)
	CountByDate(ctx context.Context, date string) (int, error)
	ExistsSlot(ctx context.Context, date, hhmm string) (bool, error)
	// Create inserts b and fills ID and CreatedAt. It returns ErrSlotTaken
	// when (date, time) is already present.
	Create(ctx context.Context, b *Booking) error
	// DeleteFirstMatching removes the oldest row matching key and reports
	// whether a row was removed.
	DeleteFirstMatching(ctx context.Context, key CancelKey) (bool, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) List(ctx context.Context) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"id", "booking_date", "booking_time", "name", "contact", "reason", "created_at",
	).
		From("public.bookings").
		OrderBy("booking_date ASC", "booking_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := rows.Scan(
			&b.ID, &b.Date, &b.Time, &b.Name, &b.Contact, &b.Reason, &b.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings failed: %w", err)
	}

	return bookings, nil
}

func (r *pgxRepository) CountByDate(ctx context.Context, date string) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select("count(*)").
		From("public.bookings").
		Where(squirrel.Eq{"booking_date": date}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count bookings query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) ExistsSlot(ctx context.Context, date, hhmm string) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	subQuery := psql.Select("1").
		From("public.bookings").
		Where(squirrel.Eq{"booking_date": date, "booking_time": hhmm})

	sql, args, err := subQuery.ToSql()
	if err != nil {
		return false, fmt.Errorf("build slot exists query failed: %w", err)
	}

	query := "SELECT EXISTS (" + sql + ")"

	var exists bool
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slot exists failed: %w", err)
	}
	return exists, nil
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("booking_date", "booking_time", "name", "contact", "reason").
		Values(b.Date, b.Time, b.Name, b.Contact, b.Reason).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) DeleteFirstMatching(ctx context.Context, key CancelKey) (bool, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	// Inner query uses '?' so the outer builder renumbers all placeholders.
	sub, subArgs, err := squirrel.Select("id").
		From("public.bookings").
		Where(squirrel.Eq{
			"name":         key.Name,
			"contact":      key.Contact,
			"booking_date": key.Date,
			"booking_time": key.Time,
		}).
		OrderBy("created_at ASC").
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build match booking query failed: %w", err)
	}

	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Expr("id = ("+sub+")", subArgs...)).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete booking failed: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

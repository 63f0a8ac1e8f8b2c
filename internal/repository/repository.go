// Package repository implements all database queries for the volunteer board.
// It uses pgx directly (no ORM) for transparency and performance.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/masjidnoor/ramadan-volunteers/internal/apperr"
	"github.com/masjidnoor/ramadan-volunteers/internal/model"
)

// uniqueViolation is the PostgreSQL error code raised by the unique
// (date, phone_number) index on a duplicate sign-up.
const uniqueViolation = "23505"

// VolunteerRepository handles persistence for volunteer registrations.
type VolunteerRepository struct {
	db *pgxpool.Pool
}

// NewVolunteerRepository constructs a VolunteerRepository.
func NewVolunteerRepository(db *pgxpool.Pool) *VolunteerRepository {
	return &VolunteerRepository{db: db}
}

// Register inserts a registration after a capacity check, both inside one
// transaction. limit is the maximum number of registrations allowed for the
// day; zero or negative means unlimited (the Eid bucket).
//
// Unlike the usual SELECT ... FOR UPDATE pattern there is no parent row to
// lock here - a "day" only exists as a value in the date column, so locking
// the existing rows would not stop a concurrent INSERT for the same day.
// Instead the transaction takes a per-date advisory lock, which serialises
// concurrent registrations for one day without blocking other days. Two
// goroutines can therefore never both observe count < limit and overshoot.
//
// Duplicate phone numbers are enforced by the unique (date, phone_number)
// index; a unique violation maps to apperr.ErrAlreadyRegistered.
func (r *VolunteerRepository) Register(ctx context.Context, v model.Volunteer, limit int) (*model.Volunteer, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	// Ensure the transaction is always resolved.
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Serialise all registrations for this date. The lock is released
	// automatically at COMMIT or ROLLBACK.
	if _, err = tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, v.Date); err != nil {
		return nil, fmt.Errorf("lock date: %w", err)
	}

	if limit > 0 {
		var count int
		err = tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM volunteers WHERE date = $1`,
			v.Date,
		).Scan(&count)
		if err != nil {
			return nil, fmt.Errorf("count registrations: %w", err)
		}
		if count >= limit {
			err = apperr.ErrDayFull
			return nil, err
		}
	}

	reg := v
	err = tx.QueryRow(ctx,
		`INSERT INTO volunteers (date, first_name, last_name, phone_number)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		v.Date, v.FirstName, v.LastName, v.PhoneNumber,
	).Scan(&reg.ID, &reg.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			err = apperr.ErrAlreadyRegistered
			return nil, err
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	return &reg, nil
}

// ListAll returns every registration ordered by date, then insertion order.
func (r *VolunteerRepository) ListAll(ctx context.Context) ([]model.Volunteer, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, date, first_name, last_name, phone_number, created_at
		 FROM volunteers
		 ORDER BY date ASC, created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var vols []model.Volunteer
	for rows.Next() {
		var v model.Volunteer
		if err := rows.Scan(&v.ID, &v.Date, &v.FirstName, &v.LastName, &v.PhoneNumber, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		vols = append(vols, v)
	}
	return vols, rows.Err()
}

// Delete removes the registration with the given id, or returns
// apperr.ErrNotFound if no row matched.
func (r *VolunteerRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM volunteers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete registration: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

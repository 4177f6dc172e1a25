package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"parkconnect/internal/booking"
)

// ReservationRepository is the durable reservation log behind the booking
// coordinator. It implements booking.Store; the engine's in-memory state is
// rebuilt from it at startup.
type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(db *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: db}
}

func (r *ReservationRepository) CreateReservation(ctx context.Context, res *booking.Reservation) error {
	query := `
		INSERT INTO reservations
		(id, code, space_id, driver_id, date, start_minute, end_minute, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.DB.ExecContext(ctx, query,
		res.ID,
		res.Code,
		res.SpaceID,
		res.DriverID,
		res.Range.Date,
		res.Range.StartMinute,
		res.Range.EndMinute,
		res.TotalPrice,
		string(res.Status),
		res.CreatedAt,
		res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting reservation %s: %w", res.ID, err)
	}
	return nil
}

func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, id string, status booking.Status, updatedAt time.Time) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET status = $2, updated_at = $3 WHERE id = $1`,
		id, string(status), updatedAt)
	if err != nil {
		return fmt.Errorf("error updating reservation %s status: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("reservation %s not found: %w", id, booking.ErrReservationNotFound)
	}
	return nil
}

// ListActiveReservations returns the pending and confirmed reservations
// whose holds must be replayed when the coordinator restores its indexes.
func (r *ReservationRepository) ListActiveReservations(ctx context.Context) ([]booking.Reservation, error) {
	query := `
		SELECT id, code, space_id, driver_id, date, start_minute, end_minute, total_price, status, created_at, updated_at
		FROM reservations
		WHERE status = ANY($1)
		ORDER BY created_at`
	rows, err := r.DB.QueryContext(ctx, query,
		pq.Array([]string{string(booking.StatusPending), string(booking.StatusConfirmed)}))
	if err != nil {
		return nil, fmt.Errorf("error querying active reservations: %w", err)
	}
	defer rows.Close()

	var out []booking.Reservation
	for rows.Next() {
		var res booking.Reservation
		var status string
		err := rows.Scan(
			&res.ID, &res.Code, &res.SpaceID, &res.DriverID,
			&res.Range.Date, &res.Range.StartMinute, &res.Range.EndMinute,
			&res.TotalPrice, &status, &res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		res.Status = booking.Status(status)
		out = append(out, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return out, nil
}

// SetStripeSession links the checkout session created for a booking so the
// webhook can find its reservation later.
func (r *ReservationRepository) SetStripeSession(ctx context.Context, reservationID, sessionID string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE reservations SET stripe_session_id = $2 WHERE id = $1`,
		reservationID, sessionID)
	if err != nil {
		return fmt.Errorf("error linking stripe session for reservation %s: %w", reservationID, err)
	}
	return nil
}

func (r *ReservationRepository) GetReservationIDBySessionID(ctx context.Context, sessionID string) (string, error) {
	var id string
	err := r.DB.QueryRowContext(ctx,
		`SELECT id FROM reservations WHERE stripe_session_id = $1`, sessionID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", booking.ErrReservationNotFound
		}
		return "", fmt.Errorf("error querying reservation by session: %w", err)
	}
	return id, nil
}

func (r *ReservationRepository) GetStripeSessionID(ctx context.Context, reservationID string) (string, error) {
	var sessionID sql.NullString
	err := r.DB.QueryRowContext(ctx,
		`SELECT stripe_session_id FROM reservations WHERE id = $1`, reservationID).Scan(&sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", booking.ErrReservationNotFound
		}
		return "", fmt.Errorf("error querying stripe session for reservation %s: %w", reservationID, err)
	}
	return sessionID.String, nil
}

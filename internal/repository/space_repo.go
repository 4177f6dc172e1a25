package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"parkconnect/internal/booking"
)

type SpaceRepository struct {
	DB *sql.DB
}

func NewSpaceRepository(db *sql.DB) *SpaceRepository {
	return &SpaceRepository{DB: db}
}

func (r *SpaceRepository) CreateSpace(sp booking.Space) error {
	query := `
		INSERT INTO spaces
		(id, owner_id, title, address, latitude, longitude, price_per_hour, price_per_day,
		 rating, review_count, total_spots, available, open_minute, close_minute)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.DB.Exec(query,
		sp.ID, sp.OwnerID, sp.Title, sp.Address, sp.Latitude, sp.Longitude,
		sp.PricePerHour, sp.PricePerDay, sp.Rating, sp.ReviewCount,
		sp.TotalSpots, sp.Available, sp.OpenMinute, sp.CloseMinute)
	if err != nil {
		return fmt.Errorf("error inserting space %s: %w", sp.ID, err)
	}
	return nil
}

func (r *SpaceRepository) UpdateSpace(sp booking.Space) error {
	query := `
		UPDATE spaces SET
			title = $2, address = $3, latitude = $4, longitude = $5,
			price_per_hour = $6, price_per_day = $7, total_spots = $8,
			available = $9, open_minute = $10, close_minute = $11
		WHERE id = $1`
	result, err := r.DB.Exec(query,
		sp.ID, sp.Title, sp.Address, sp.Latitude, sp.Longitude,
		sp.PricePerHour, sp.PricePerDay, sp.TotalSpots,
		sp.Available, sp.OpenMinute, sp.CloseMinute)
	if err != nil {
		return fmt.Errorf("error updating space %s: %w", sp.ID, err)
	}
	n, err := result.RowsAffected()
	if err == nil && n == 0 {
		return booking.ErrSpaceNotFound
	}
	return nil
}

func (r *SpaceRepository) GetSpaceByID(id string) (*booking.Space, error) {
	var sp booking.Space
	err := r.DB.QueryRow(`
		SELECT id, owner_id, title, address, latitude, longitude, price_per_hour, price_per_day,
		       rating, review_count, total_spots, available, open_minute, close_minute
		FROM spaces WHERE id = $1`, id).Scan(
		&sp.ID, &sp.OwnerID, &sp.Title, &sp.Address, &sp.Latitude, &sp.Longitude,
		&sp.PricePerHour, &sp.PricePerDay, &sp.Rating, &sp.ReviewCount,
		&sp.TotalSpots, &sp.Available, &sp.OpenMinute, &sp.CloseMinute)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("error querying space %s: %w", id, err)
	}
	return &sp, nil
}

func (r *SpaceRepository) ListSpaces() ([]booking.Space, error) {
	rows, err := r.DB.Query(`
		SELECT id, owner_id, title, address, latitude, longitude, price_per_hour, price_per_day,
		       rating, review_count, total_spots, available, open_minute, close_minute
		FROM spaces ORDER BY title`)
	if err != nil {
		return nil, fmt.Errorf("error querying spaces: %w", err)
	}
	defer rows.Close()

	var spaces []booking.Space
	for rows.Next() {
		var sp booking.Space
		err := rows.Scan(
			&sp.ID, &sp.OwnerID, &sp.Title, &sp.Address, &sp.Latitude, &sp.Longitude,
			&sp.PricePerHour, &sp.PricePerDay, &sp.Rating, &sp.ReviewCount,
			&sp.TotalSpots, &sp.Available, &sp.OpenMinute, &sp.CloseMinute)
		if err != nil {
			return nil, fmt.Errorf("error scanning space: %w", err)
		}
		spaces = append(spaces, sp)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating spaces: %w", err)
	}
	return spaces, nil
}

package model

import "time"

// Show represents a scheduled screening of a film in a hall.
//
// Fields:
//  ID             – primary key identifier.
//  Title          – film title.
//  StartsAt       – when the screening begins (UTC).
//  HallID         – hall where the screening takes place.
//  BasePriceCents – seat price in cents.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Show struct {
	ID             uint64    // shows.id
	Title          string    // shows.title
	StartsAt       time.Time // shows.starts_at
	HallID         uint64    // shows.hall_id
	BasePriceCents uint32    // shows.base_price_cents
	CreatedAt      time.Time // shows.created_at
	UpdatedAt      time.Time // shows.updated_at
}

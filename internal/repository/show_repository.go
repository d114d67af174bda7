package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegsm/cinema-tickets/internal/model"
)

// ShowRepo manages persistence for shows. It holds the ticket repository
// because deleting a show must remove the show's tickets in the same
// transaction; the schema itself does not cascade.
type ShowRepo struct {
	db      *sql.DB
	tickets *TicketRepo
}

// NewShowRepo constructs a ShowRepo with the given DB handle and the
// ticket repository used for cascade deletes.
func NewShowRepo(db *sql.DB, tickets *TicketRepo) *ShowRepo {
	return &ShowRepo{db: db, tickets: tickets}
}

const showColumns = "id, title, starts_at, hall_id, base_price_cents, created_at, updated_at"

func scanShow(row interface{ Scan(...any) error }) (model.Show, error) {
	var s model.Show
	err := row.Scan(&s.ID, &s.Title, &s.StartsAt, &s.HallID, &s.BasePriceCents, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// FindAll returns every show ordered by start time ascending.
func (r *ShowRepo) FindAll(ctx context.Context) ([]model.Show, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+showColumns+" FROM shows ORDER BY starts_at ASC")
	if err != nil {
		return nil, fmt.Errorf("query shows: %w", err)
	}
	defer rows.Close()
	var shows []model.Show
	for rows.Next() {
		s, err := scanShow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan show: %w", err)
		}
		shows = append(shows, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shows: %w", err)
	}
	return shows, nil
}

// FindByID fetches a show by id. Returns ErrNotFound when absent.
func (r *ShowRepo) FindByID(ctx context.Context, id uint64) (model.Show, error) {
	s, err := scanShow(r.db.QueryRowContext(ctx,
		"SELECT "+showColumns+" FROM shows WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Show{}, ErrNotFound
	}
	if err != nil {
		return model.Show{}, fmt.Errorf("query show by id: %w", err)
	}
	return s, nil
}

// Create inserts the show and populates its generated ID.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO shows (title, starts_at, hall_id, base_price_cents) VALUES (?,?,?,?)",
		s.Title, s.StartsAt, s.HallID, s.BasePriceCents)
	if err != nil {
		return fmt.Errorf("insert show: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("show last insert id: %w", err)
	}
	s.ID = uint64(id)
	return nil
}

// Update rewrites all mutable columns by id. Returns ErrNotFound when no
// row matches.
func (r *ShowRepo) Update(ctx context.Context, s *model.Show) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE shows SET title = ?, starts_at = ?, hall_id = ?, base_price_cents = ? WHERE id = ?",
		s.Title, s.StartsAt, s.HallID, s.BasePriceCents, s.ID)
	if err != nil {
		return fmt.Errorf("update show: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update show rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a show together with all of its tickets. Both
// deletes run in one transaction so a failure leaves the show and its
// bookings intact. Returns ErrNotFound when no such show exists.
func (r *ShowRepo) DeleteByID(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete show tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	// Tickets first; the foreign key rejects deleting a show that still
	// has bookings.
	if err = r.tickets.DeleteByShowIDTx(ctx, tx, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM shows WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete show: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete show rows affected: %w", err)
	}
	if n == 0 {
		err = ErrNotFound
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete show tx: %w", err)
	}
	return nil
}

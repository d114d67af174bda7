package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/olegsm/cinema-tickets/internal/model"
)

// TicketRepo manages persistence for tickets. The uq_tickets_seat
// constraint on (show_id, pos_row, cell) is the correctness backstop
// against double-booked seats; Create surfaces it as ErrDuplicate.
type TicketRepo struct{ db *sql.DB }

// NewTicketRepo constructs a TicketRepo with the given DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{db: db} }

const ticketColumns = "id, show_id, pos_row, cell, user_id, created_at"

func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var t model.Ticket
	err := row.Scan(&t.ID, &t.ShowID, &t.PosRow, &t.Cell, &t.UserID, &t.CreatedAt)
	return t, err
}

// FindAll returns every ticket ordered by id.
func (r *TicketRepo) FindAll(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+ticketColumns+" FROM tickets ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

// FindByID fetches a ticket by id. Returns ErrNotFound when absent.
func (r *TicketRepo) FindByID(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := scanTicket(r.db.QueryRowContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Ticket{}, ErrNotFound
	}
	if err != nil {
		return model.Ticket{}, fmt.Errorf("query ticket by id: %w", err)
	}
	return t, nil
}

// FindAllByShowID returns all tickets of a show ordered by row and cell.
func (r *TicketRepo) FindAllByShowID(ctx context.Context, showID uint64) ([]model.Ticket, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+ticketColumns+" FROM tickets WHERE show_id = ? ORDER BY pos_row, cell", showID)
	if err != nil {
		return nil, fmt.Errorf("query tickets by show: %w", err)
	}
	defer rows.Close()
	return collectTickets(rows)
}

// Create inserts the ticket and populates its generated ID. An already
// booked (show, row, cell) triple surfaces as ErrDuplicate.
func (r *TicketRepo) Create(ctx context.Context, t *model.Ticket) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO tickets (show_id, pos_row, cell, user_id) VALUES (?,?,?,?)",
		t.ShowID, t.PosRow, t.Cell, t.UserID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("ticket last insert id: %w", err)
	}
	t.ID = uint64(id)
	return nil
}

// Update moves a ticket to another seat or show. ErrNotFound when no row
// matches, ErrDuplicate when the target seat is taken.
func (r *TicketRepo) Update(ctx context.Context, t *model.Ticket) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE tickets SET show_id = ?, pos_row = ?, cell = ?, user_id = ? WHERE id = ?",
		t.ShowID, t.PosRow, t.Cell, t.UserID, t.ID)
	if err != nil {
		if isDuplicate(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("update ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update ticket rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByID removes a ticket by id. Returns ErrNotFound when no row was deleted.
func (r *TicketRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM tickets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete ticket: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete ticket rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByShowIDTx removes every ticket of a show within the caller's
// transaction. Deleting zero rows is not an error: a show may simply have
// no bookings yet.
func (r *TicketRepo) DeleteByShowIDTx(ctx context.Context, tx *sql.Tx, showID uint64) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE show_id = ?", showID); err != nil {
		return fmt.Errorf("delete tickets by show: %w", err)
	}
	return nil
}

func collectTickets(rows *sql.Rows) ([]model.Ticket, error) {
	var tickets []model.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ticket: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tickets: %w", err)
	}
	return tickets, nil
}

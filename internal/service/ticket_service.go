package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/queue"
	"github.com/olegsm/cinema-tickets/internal/repository"
)

// TicketStore is the slice of the ticket repository the service depends on.
type TicketStore interface {
	FindAll(ctx context.Context) ([]model.Ticket, error)
	FindByID(ctx context.Context, id uint64) (model.Ticket, error)
	FindAllByShowID(ctx context.Context, showID uint64) ([]model.Ticket, error)
	Create(ctx context.Context, t *model.Ticket) error
	Update(ctx context.Context, t *model.Ticket) error
	DeleteByID(ctx context.Context, id uint64) error
}

// ShowFinder resolves shows for booking validation.
type ShowFinder interface {
	FindByID(ctx context.Context, id uint64) (model.Show, error)
}

// EventPublisher delivers a booking event to the message broker. Publishing
// is best effort: the booking stands even when the broker is down.
type EventPublisher func(ctx context.Context, ev queue.TicketBookedEvent) error

// TicketService books and releases seats. The unique constraint on
// (show_id, pos_row, cell) decides races between concurrent bookings.
type TicketService struct {
	tickets TicketStore
	shows   ShowFinder
	publish EventPublisher
}

// NewTicketService constructs a TicketService. publish may be nil to
// disable booking events.
func NewTicketService(tickets TicketStore, shows ShowFinder, publish EventPublisher) *TicketService {
	return &TicketService{tickets: tickets, shows: shows, publish: publish}
}

// FindAll returns all tickets.
func (s *TicketService) FindAll(ctx context.Context) ([]model.Ticket, error) {
	return s.tickets.FindAll(ctx)
}

// FindByID returns the ticket with the given id or ErrNotFound.
func (s *TicketService) FindByID(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := s.tickets.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Ticket{}, fmt.Errorf("ticket id %d: %w", id, ErrNotFound)
	}
	return t, err
}

// FindByIDForUser returns a ticket only to the user who booked it. Other
// users get ErrNotFound rather than a hint that the ticket exists.
func (s *TicketService) FindByIDForUser(ctx context.Context, id, userID uint64) (model.Ticket, error) {
	t, err := s.FindByID(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}
	if t.UserID != userID {
		return model.Ticket{}, fmt.Errorf("ticket id %d: %w", id, ErrNotFound)
	}
	return t, nil
}

// ByShow returns all tickets of a show, the seat map for the booking page.
func (s *TicketService) ByShow(ctx context.Context, showID uint64) ([]model.Ticket, error) {
	return s.tickets.FindAllByShowID(ctx, showID)
}

// Book reserves the seat (row, cell) of a show for a user. ErrNotFound
// when the show does not exist, ErrSeatTaken when the seat is already
// booked. On success the stored ticket is returned and a ticket.booked
// event is published.
func (s *TicketService) Book(ctx context.Context, userID, showID uint64, row, cell uint32) (model.Ticket, error) {
	sh, err := s.shows.FindByID(ctx, showID)
	if err != nil {
		return model.Ticket{}, err
	}
	t := model.Ticket{ShowID: showID, PosRow: row, Cell: cell, UserID: userID}
	if err := s.tickets.Create(ctx, &t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return model.Ticket{}, ErrSeatTaken
		}
		return model.Ticket{}, err
	}
	if s.publish != nil {
		ev := queue.TicketBookedEvent{
			TicketID:   t.ID,
			UserID:     userID,
			ShowID:     showID,
			ShowTitle:  sh.Title,
			StartsAt:   sh.StartsAt.UTC().Format(time.RFC3339),
			PosRow:     row,
			Cell:       cell,
			PriceCents: sh.BasePriceCents,
			BookedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.publish(ctx, ev); err != nil {
			log.Printf("ticket-service: publish booked event failed: %v", err)
		}
	}
	return t, nil
}

// Cancel releases a seat. Only the booking user may cancel; tickets of
// other users yield ErrNotFound.
func (s *TicketService) Cancel(ctx context.Context, ticketID, userID uint64) error {
	if _, err := s.FindByIDForUser(ctx, ticketID, userID); err != nil {
		return err
	}
	err := s.tickets.DeleteByID(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("ticket id %d: %w", ticketID, ErrNotFound)
	}
	return err
}

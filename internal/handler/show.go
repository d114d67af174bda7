package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olegsm/cinema-tickets/internal/middleware"
	"github.com/olegsm/cinema-tickets/internal/service"
)

// ShowHandler serves the public browse pages and the booking flow.
type ShowHandler struct {
	Shows   *service.ShowService
	Tickets *service.TicketService
}

// NewShowHandler constructs a ShowHandler.
func NewShowHandler(shows *service.ShowService, tickets *service.TicketService) *ShowHandler {
	return &ShowHandler{Shows: shows, Tickets: tickets}
}

// ListShows handles GET /shows.
func (h *ShowHandler) ListShows(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shows, err := h.Shows.FindAll(ctx)
	if err != nil {
		log.Printf("show: list failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.Render(http.StatusOK, "shows.html", echo.Map{
		"Shows": shows,
		"User":  middleware.SessionUser(c),
	})
}

// ShowPage handles GET /shows/:id. It renders the show together with the
// taken seats; the occupied query flag shows the seat-taken message after
// a failed booking redirect.
func (h *ShowHandler) ShowPage(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid show id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	show, err := h.Shows.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "show not found")
		}
		log.Printf("show: load failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	taken, err := h.Tickets.ByShow(ctx, id)
	if err != nil {
		log.Printf("show: load tickets failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}

	var msg string
	if c.QueryParam("occupied") != "" {
		msg = "That seat is already booked, please pick another one."
	}
	return c.Render(http.StatusOK, "show.html", echo.Map{
		"Show":         show,
		"Taken":        taken,
		"User":         middleware.SessionUser(c),
		"ErrorMessage": msg,
	})
}

// Book handles POST /shows/:id/book. A taken seat redirects back to the
// show page with the occupied flag; success redirects to the ticket page.
func (h *ShowHandler) Book(c echo.Context) error {
	u := middleware.SessionUser(c)
	if u == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || showID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid show id")
	}
	row, err := strconv.ParseUint(c.FormValue("pos_row"), 10, 32)
	if err != nil || row == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid row")
	}
	cell, err := strconv.ParseUint(c.FormValue("cell"), 10, 32)
	if err != nil || cell == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid seat")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.Book(ctx, u.ID, showID, uint32(row), uint32(cell))
	switch {
	case errors.Is(err, service.ErrSeatTaken):
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/shows/%d?occupied=true", showID))
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "show not found")
	case err != nil:
		log.Printf("show: book failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/tickets/%d", t.ID))
}

// TicketPage handles GET /tickets/:id, the booking confirmation. Tickets
// are visible only to the user who booked them.
func (h *ShowHandler) TicketPage(c echo.Context) error {
	u := middleware.SessionUser(c)
	if u == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ticket id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	t, err := h.Tickets.FindByIDForUser(ctx, id, u.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
		}
		log.Printf("show: load ticket failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	show, err := h.Shows.FindByID(ctx, t.ShowID)
	if err != nil {
		// The parent show disappeared under the ticket; tickets are deleted
		// with their show, so treat the ticket as gone too.
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
		}
		log.Printf("show: load ticket show failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	return c.Render(http.StatusOK, "ticket.html", echo.Map{"Ticket": t, "Show": show})
}

// CancelTicket handles POST /tickets/:id/cancel by releasing the seat and
// returning to the show page.
func (h *ShowHandler) CancelTicket(c echo.Context) error {
	u := middleware.SessionUser(c)
	if u == nil {
		return c.Redirect(http.StatusSeeOther, "/login")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid ticket id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	// Need the show id for the redirect before the ticket is gone.
	var showID uint64
	if t, err := h.Tickets.FindByIDForUser(ctx, id, u.ID); err == nil {
		showID = t.ShowID
	}
	if err := h.Tickets.Cancel(ctx, id, u.ID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "ticket not found")
		}
		log.Printf("show: cancel ticket failed: %v", err)
		return echo.NewHTTPError(http.StatusInternalServerError)
	}
	if showID != 0 {
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/shows/%d", showID))
	}
	return c.Redirect(http.StatusSeeOther, "/shows")
}

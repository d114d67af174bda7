package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/service"
)

// AdminShowHandler exposes the JSON API for managing shows. Write
// operations require the ADMIN role; listing is public so front-ends can
// reuse it.
type AdminShowHandler struct {
	Shows   *service.ShowService
	Tickets *service.TicketService
}

// NewAdminShowHandler constructs an AdminShowHandler.
func NewAdminShowHandler(shows *service.ShowService, tickets *service.TicketService) *AdminShowHandler {
	return &AdminShowHandler{Shows: shows, Tickets: tickets}
}

// ----- DTOs -----

type showReq struct {
	Title          string `json:"title"`
	StartsAt       string `json:"starts_at"` // RFC 3339
	HallID         uint64 `json:"hall_id"`
	BasePriceCents uint32 `json:"base_price_cents"`
}

type showResp struct {
	ID             uint64    `json:"id"`
	Title          string    `json:"title"`
	StartsAt       time.Time `json:"starts_at"`
	HallID         uint64    `json:"hall_id"`
	BasePriceCents uint32    `json:"base_price_cents"`
}

type ticketResp struct {
	ID     uint64 `json:"id"`
	ShowID uint64 `json:"show_id"`
	PosRow uint32 `json:"pos_row"`
	Cell   uint32 `json:"cell"`
	UserID uint64 `json:"user_id"`
}

func toShowResp(s model.Show) showResp {
	return showResp{ID: s.ID, Title: s.Title, StartsAt: s.StartsAt, HallID: s.HallID, BasePriceCents: s.BasePriceCents}
}

func (r showReq) toModel() (model.Show, error) {
	if r.Title == "" || r.HallID == 0 {
		return model.Show{}, errors.New("title and hall_id are required")
	}
	startsAt, err := time.Parse(time.RFC3339, r.StartsAt)
	if err != nil {
		return model.Show{}, errors.New("starts_at must be RFC 3339")
	}
	return model.Show{
		Title:          r.Title,
		StartsAt:       startsAt.UTC(),
		HallID:         r.HallID,
		BasePriceCents: r.BasePriceCents,
	}, nil
}

// ListShows handles GET /v1/shows.
func (h *AdminShowHandler) ListShows(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	shows, err := h.Shows.FindAll(ctx)
	if err != nil {
		log.Printf("admin: list shows failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]showResp, 0, len(shows))
	for _, s := range shows {
		out = append(out, toShowResp(s))
	}
	return c.JSON(http.StatusOK, out)
}

// GetShow handles GET /v1/shows/:id.
func (h *AdminShowHandler) GetShow(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Shows.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		log.Printf("admin: get show failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toShowResp(s))
}

// CreateShow handles POST /v1/shows (ADMIN).
func (h *AdminShowHandler) CreateShow(c echo.Context) error {
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Shows.Create(ctx, &s); err != nil {
		log.Printf("admin: create show failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, toShowResp(s))
}

// UpdateShow handles PUT /v1/shows/:id (ADMIN).
func (h *AdminShowHandler) UpdateShow(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	var req showReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	s, err := req.toModel()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	s.ID = id

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Shows.Update(ctx, &s); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		log.Printf("admin: update show failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toShowResp(s))
}

// DeleteShow handles DELETE /v1/shows/:id (ADMIN). The show's tickets are
// removed in the same transaction.
func (h *AdminShowHandler) DeleteShow(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Shows.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		log.Printf("admin: delete show failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ShowTickets handles GET /v1/shows/:id/tickets (ADMIN).
func (h *AdminShowHandler) ShowTickets(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid show id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Shows.FindByID(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		log.Printf("admin: get show failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	tickets, err := h.Tickets.ByShow(ctx, id)
	if err != nil {
		log.Printf("admin: list tickets failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]ticketResp, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, ticketResp{ID: t.ID, ShowID: t.ShowID, PosRow: t.PosRow, Cell: t.Cell, UserID: t.UserID})
	}
	return c.JSON(http.StatusOK, out)
}

package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olegsm/cinema-tickets/internal/model"
)

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAdminAPI_AuthRequired(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "Ann", "ann@example.com", "+15550001", "secret1", model.RoleUser)

	body := `{"title":"Dune","starts_at":"2026-09-01T19:00:00Z","hall_id":2,"base_price_cents":1200}`

	rec := app.do(jsonRequest(http.MethodPost, "/v1/shows", body))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", rec.Code)
	}

	req := jsonRequest(http.MethodPost, "/v1/shows", body)
	req.Header.Set("Authorization", bearerToken(t, user))
	rec = app.do(req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("USER role: expected 403, got %d", rec.Code)
	}
	if len(app.shows.byID) != 0 {
		t.Fatalf("expected no show created, got %d", len(app.shows.byID))
	}
}

func TestAdminAPI_CreateGetDelete(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(t, "Root", "root@example.com", "+15550000", "secret1", model.RoleAdmin)

	req := jsonRequest(http.MethodPost, "/v1/shows",
		`{"title":"Dune","starts_at":"2026-09-01T19:00:00Z","hall_id":2,"base_price_cents":1200}`)
	req.Header.Set("Authorization", bearerToken(t, admin))
	rec := app.do(req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d (body %q)", rec.Code, rec.Body.String())
	}
	var created struct {
		ID       uint64    `json:"id"`
		Title    string    `json:"title"`
		StartsAt time.Time `json:"starts_at"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.ID == 0 || created.Title != "Dune" {
		t.Fatalf("unexpected create response: %+v", created)
	}

	// Listing is public.
	rec = app.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/shows/%d", created.ID), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rec.Code)
	}

	// Delete removes the show's tickets too.
	tk := model.Ticket{ShowID: created.ID, PosRow: 1, Cell: 1, UserID: admin.ID}
	if err := app.tickets.Create(context.Background(), &tk); err != nil {
		t.Fatalf("seed ticket: %v", err)
	}
	req = httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/v1/shows/%d", created.ID), nil)
	req.Header.Set("Authorization", bearerToken(t, admin))
	rec = app.do(req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rec.Code)
	}
	if len(app.tickets.byID) != 0 {
		t.Fatalf("expected tickets cascaded, %d left", len(app.tickets.byID))
	}

	rec = app.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/shows/%d", created.ID), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: expected 404, got %d", rec.Code)
	}
}

func TestAdminAPI_UpdateValidation(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(t, "Root", "root@example.com", "+15550000", "secret1", model.RoleAdmin)

	req := jsonRequest(http.MethodPut, "/v1/shows/99",
		`{"title":"Dune","starts_at":"2026-09-01T19:00:00Z","hall_id":2}`)
	req.Header.Set("Authorization", bearerToken(t, admin))
	rec := app.do(req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing show: expected 404, got %d", rec.Code)
	}

	req = jsonRequest(http.MethodPut, "/v1/shows/1",
		`{"title":"","starts_at":"not-a-time","hall_id":0}`)
	req.Header.Set("Authorization", bearerToken(t, admin))
	rec = app.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad body: expected 400, got %d", rec.Code)
	}
}

func TestAdminAPI_ShowTickets(t *testing.T) {
	app := newTestApp(t)
	admin := app.seedUser(t, "Root", "root@example.com", "+15550000", "secret1", model.RoleAdmin)
	user := app.seedUser(t, "Ann", "ann@example.com", "+15550001", "secret1", model.RoleUser)

	show := seedShow(t, app)
	for cell := uint32(1); cell <= 2; cell++ {
		tk := model.Ticket{ShowID: show.ID, PosRow: 1, Cell: cell, UserID: user.ID}
		if err := app.tickets.Create(context.Background(), &tk); err != nil {
			t.Fatalf("seed ticket: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/shows/%d/tickets", show.ID), nil)
	req.Header.Set("Authorization", bearerToken(t, admin))
	rec := app.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out []struct {
		ID     uint64 `json:"id"`
		ShowID uint64 `json:"show_id"`
		UserID uint64 `json:"user_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode tickets: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 tickets, got %d", len(out))
	}
	for _, tk := range out {
		if tk.ShowID != show.ID || tk.UserID != user.ID {
			t.Fatalf("unexpected ticket row: %+v", tk)
		}
	}
}

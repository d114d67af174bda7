package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/olegsm/cinema-tickets/internal/config"
	"github.com/olegsm/cinema-tickets/internal/handler"
	"github.com/olegsm/cinema-tickets/internal/middleware"
	"github.com/olegsm/cinema-tickets/internal/model"
	"github.com/olegsm/cinema-tickets/internal/repository"
	"github.com/olegsm/cinema-tickets/internal/router"
	"github.com/olegsm/cinema-tickets/internal/service"
	"github.com/olegsm/cinema-tickets/internal/utils"
	"github.com/olegsm/cinema-tickets/internal/view"
)

const testSecret = "test-secret"

// ----- in-memory stores -----

type memUsers struct {
	seq  uint64
	byID map[uint64]model.User
}

func newMemUsers() *memUsers { return &memUsers{byID: make(map[uint64]model.User)} }

func (m *memUsers) FindAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range m.byID {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) FindByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) FindByPhone(_ context.Context, phone string) (model.User, error) {
	for _, u := range m.byID {
		if u.Phone == phone {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (m *memUsers) Create(_ context.Context, u *model.User) error {
	for _, ex := range m.byID {
		if ex.Email == u.Email || ex.Phone == u.Phone {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	u.ID = m.seq
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) Update(_ context.Context, u *model.User) error {
	if _, ok := m.byID[u.ID]; !ok {
		return repository.ErrNotFound
	}
	for id, ex := range m.byID {
		if id != u.ID && (ex.Email == u.Email || ex.Phone == u.Phone) {
			return repository.ErrDuplicate
		}
	}
	m.byID[u.ID] = *u
	return nil
}

func (m *memUsers) DeleteByID(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

type memShows struct {
	seq     uint64
	byID    map[uint64]model.Show
	tickets *memTickets
}

func newMemShows(tickets *memTickets) *memShows {
	return &memShows{byID: make(map[uint64]model.Show), tickets: tickets}
}

func (m *memShows) FindAll(_ context.Context) ([]model.Show, error) {
	var out []model.Show
	for _, s := range m.byID {
		out = append(out, s)
	}
	return out, nil
}

func (m *memShows) FindByID(_ context.Context, id uint64) (model.Show, error) {
	s, ok := m.byID[id]
	if !ok {
		return model.Show{}, repository.ErrNotFound
	}
	return s, nil
}

func (m *memShows) Create(_ context.Context, s *model.Show) error {
	m.seq++
	s.ID = m.seq
	m.byID[s.ID] = *s
	return nil
}

func (m *memShows) Update(_ context.Context, s *model.Show) error {
	if _, ok := m.byID[s.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[s.ID] = *s
	return nil
}

func (m *memShows) DeleteByID(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	for tid, t := range m.tickets.byID {
		if t.ShowID == id {
			delete(m.tickets.byID, tid)
		}
	}
	delete(m.byID, id)
	return nil
}

type memTickets struct {
	seq  uint64
	byID map[uint64]model.Ticket
}

func newMemTickets() *memTickets { return &memTickets{byID: make(map[uint64]model.Ticket)} }

func (m *memTickets) FindAll(_ context.Context) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range m.byID {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTickets) FindByID(_ context.Context, id uint64) (model.Ticket, error) {
	t, ok := m.byID[id]
	if !ok {
		return model.Ticket{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *memTickets) FindAllByShowID(_ context.Context, showID uint64) ([]model.Ticket, error) {
	var out []model.Ticket
	for _, t := range m.byID {
		if t.ShowID == showID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTickets) Create(_ context.Context, t *model.Ticket) error {
	for _, ex := range m.byID {
		if ex.ShowID == t.ShowID && ex.PosRow == t.PosRow && ex.Cell == t.Cell {
			return repository.ErrDuplicate
		}
	}
	m.seq++
	t.ID = m.seq
	m.byID[t.ID] = *t
	return nil
}

func (m *memTickets) Update(_ context.Context, t *model.Ticket) error {
	if _, ok := m.byID[t.ID]; !ok {
		return repository.ErrNotFound
	}
	m.byID[t.ID] = *t
	return nil
}

func (m *memTickets) DeleteByID(_ context.Context, id uint64) error {
	if _, ok := m.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

// ----- harness -----

// testApp wires the real handlers, services, renderer and routes over the
// in-memory stores so tests exercise the full request path.
type testApp struct {
	e       *echo.Echo
	users   *memUsers
	shows   *memShows
	tickets *memTickets
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	users := newMemUsers()
	tickets := newMemTickets()
	shows := newMemShows(tickets)

	cfg := config.Config{JWTSecret: testSecret, SessionTTLMin: 60, BcryptCost: bcrypt.MinCost}
	userSvc := service.NewUserService(users, cfg.BcryptCost)
	showSvc := service.NewShowService(shows)
	ticketSvc := service.NewTicketService(tickets, showSvc, nil)

	r, err := view.New()
	if err != nil {
		t.Fatalf("load templates: %v", err)
	}
	e := echo.New()
	e.Renderer = r

	noLimit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }

	router.RegisterRoutes(e)
	router.RegisterPages(e,
		handler.NewAuthHandler(cfg, userSvc),
		handler.NewShowHandler(showSvc, ticketSvc),
		middleware.Session(cfg.JWTSecret, userSvc),
		noLimit)
	router.RegisterAdminAPI(e, handler.NewAdminShowHandler(showSvc, ticketSvc), cfg.JWTSecret)

	return &testApp{e: e, users: users, shows: shows, tickets: tickets}
}

// seedUser inserts a user directly into the store and returns it.
func (a *testApp) seedUser(t *testing.T, username, email, phone, password, role string) model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := model.User{Username: username, Email: email, Phone: phone, PasswordHash: string(hash), Role: role}
	if err := a.users.Create(context.Background(), &u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// sessionCookie mints a valid session cookie for the given user.
func sessionCookie(t *testing.T, u model.User) *http.Cookie {
	t.Helper()
	tok, err := utils.NewSessionToken(testSecret, u.ID, u.Role, 60)
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}
	return &http.Cookie{Name: middleware.SessionCookie, Value: tok.Token}
}

// bearerToken mints an Authorization header value for the admin API.
func bearerToken(t *testing.T, u model.User) string {
	t.Helper()
	tok, err := utils.NewSessionToken(testSecret, u.ID, u.Role, 60)
	if err != nil {
		t.Fatalf("mint bearer token: %v", err)
	}
	return "Bearer " + tok.Token
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d (body %q)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

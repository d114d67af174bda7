package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4"

	"github.com/olegsm/cinema-tickets/internal/handler"
	"github.com/olegsm/cinema-tickets/internal/middleware"
	"github.com/olegsm/cinema-tickets/internal/model"
)

// RegisterRoutes registers routes that need no dependencies. Currently it
// exposes only the health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPages registers the form flows and browse pages. The session
// middleware runs on every page so handlers always see the request-scoped
// user (or its absence); rateLimit guards the credential endpoints.
func RegisterPages(e *echo.Echo, a *handler.AuthHandler, s *handler.ShowHandler,
	session echo.MiddlewareFunc, rateLimit echo.MiddlewareFunc) {

	pages := e.Group("", session)

	pages.GET("/registration", a.RegistrationPage)
	pages.POST("/registration", a.Register, rateLimit)
	pages.GET("/login", a.LoginPage)
	pages.POST("/login", a.Login, rateLimit)
	pages.POST("/logout", a.Logout)

	pages.GET("/shows", s.ListShows)
	pages.GET("/shows/:id", s.ShowPage)

	// Booking needs a logged-in user.
	booked := pages.Group("", middleware.RequireSession())
	booked.POST("/shows/:id/book", s.Book)
	booked.GET("/tickets/:id", s.TicketPage)
	booked.POST("/tickets/:id/cancel", s.CancelTicket)
}

// RegisterAdminAPI registers the JSON show-management API under /v1.
// Listing stays public; every write requires an ADMIN bearer token.
func RegisterAdminAPI(e *echo.Echo, h *handler.AdminShowHandler, jwtSecret string) {
	e.GET("/v1/shows", h.ListShows)
	e.GET("/v1/shows/:id", h.GetShow)

	admin := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(model.RoleAdmin))
	admin.POST("/shows", h.CreateShow)
	admin.PUT("/shows/:id", h.UpdateShow)
	admin.DELETE("/shows/:id", h.DeleteShow)
	admin.GET("/shows/:id/tickets", h.ShowTickets)
}

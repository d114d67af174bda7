package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/olegsm/cinema-tickets/internal/config"
	"github.com/olegsm/cinema-tickets/internal/middleware"
	"github.com/olegsm/cinema-tickets/internal/service"
	"github.com/olegsm/cinema-tickets/internal/utils"
)

// AuthHandler serves the registration and login form flows. Validation
// failures never reach the success path: the service reports them as
// sentinel errors and the handler maps each to its redirect flag.
type AuthHandler struct {
	Cfg   config.Config
	Users *service.UserService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(cfg config.Config, users *service.UserService) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users}
}

// registrationForm carries submitted values back into the template so the
// user does not retype everything after a validation error.
type registrationForm struct {
	ErrorMessage string
	Username     string
	Email        string
	Phone        string
}

type loginForm struct {
	ErrorMessage string
	Email        string
}

// RegistrationPage handles GET /registration. The password and account
// query flags select the message shown above the form; any non-empty
// value activates a flag. The form is pre-populated from the session user
// when one is present.
func (h *AuthHandler) RegistrationPage(c echo.Context) error {
	form := registrationForm{}
	if c.QueryParam("password") != "" {
		form.ErrorMessage = "Passwords must match!"
	} else if c.QueryParam("account") != "" {
		form.ErrorMessage = "A user with this email or phone is already registered!"
	}
	if u := middleware.SessionUser(c); u != nil {
		form.Username = u.Username
		form.Email = u.Email
		form.Phone = u.Phone
	}
	return c.Render(http.StatusOK, "registration.html", form)
}

// Register handles POST /registration. Field-level validation failures
// re-render the form with the submitted values; business-rule failures
// redirect back with the flag the GET page understands; success redirects
// to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	phone := strings.TrimSpace(c.FormValue("phone"))
	password := c.FormValue("password")
	repassword := c.FormValue("repassword")

	if msg := validateRegistrationFields(username, email, phone, password); msg != "" {
		return c.Render(http.StatusOK, "registration.html", registrationForm{
			ErrorMessage: msg,
			Username:     username,
			Email:        email,
			Phone:        phone,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Users.Register(ctx, username, email, phone, password, repassword)
	switch {
	case errors.Is(err, service.ErrPasswordMismatch):
		return c.Redirect(http.StatusSeeOther, "/registration?password=true")
	case errors.Is(err, service.ErrDuplicateAccount):
		return c.Redirect(http.StatusSeeOther, "/registration?account=true")
	case err != nil:
		log.Printf("auth: register failed: %v", err)
		return c.Render(http.StatusInternalServerError, "registration.html", registrationForm{
			ErrorMessage: "Something went wrong, please try again.",
			Username:     username,
			Email:        email,
			Phone:        phone,
		})
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// LoginPage handles GET /login. The error flag selects the bad-credentials
// message.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	form := loginForm{}
	if c.QueryParam("error") != "" {
		form.ErrorMessage = "Invalid email or password."
	}
	return c.Render(http.StatusOK, "login.html", form)
}

// Login handles POST /login. On success it issues a session JWT in an
// HttpOnly cookie and redirects to the show list.
func (h *AuthHandler) Login(c echo.Context) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")
	if email == "" || password == "" {
		return c.Redirect(http.StatusSeeOther, "/login?error=true")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			return c.Redirect(http.StatusSeeOther, "/login?error=true")
		}
		log.Printf("auth: login failed: %v", err)
		return c.Render(http.StatusInternalServerError, "login.html", loginForm{
			ErrorMessage: "Something went wrong, please try again.",
			Email:        email,
		})
	}

	tok, err := utils.NewSessionToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.SessionTTLMin)
	if err != nil {
		log.Printf("auth: issue session token failed: %v", err)
		return c.Render(http.StatusInternalServerError, "login.html", loginForm{
			ErrorMessage: "Something went wrong, please try again.",
			Email:        email,
		})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/shows")
}

// Logout handles POST /logout by expiring the session cookie.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/login")
}

// validateRegistrationFields checks the form fields themselves, before any
// business rule runs. It returns an empty string when the fields are fine.
func validateRegistrationFields(username, email, phone, password string) string {
	switch {
	case username == "" || email == "" || phone == "" || password == "":
		return "All fields are required."
	case !strings.Contains(email, "@"):
		return fmt.Sprintf("%q is not a valid email address.", email)
	case len(password) < 6:
		return "Password must be at least 6 characters."
	}
	return ""
}

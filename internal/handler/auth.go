package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/powertune/garage/internal/config"
	"github.com/powertune/garage/internal/middleware"
	"github.com/powertune/garage/internal/repository"
	"github.com/powertune/garage/internal/utils"
)

// AuthHandler bundles dependencies for login, logout and user management.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// Index handles GET / and simply forwards to the login page.
func (h *AuthHandler) Index(c echo.Context) error {
	return redirect(c, "/login")
}

// LoginForm renders the login page.
func (h *AuthHandler) LoginForm(c echo.Context) error {
	return render(c, http.StatusOK, "login.html", nil)
}

// Login verifies the submitted credentials and starts a session by setting
// the signed session cookie.  Bad credentials redisplay the form with a
// danger notice; the error message does not reveal which of the two fields
// was wrong.
func (h *AuthHandler) Login(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	if username == "" || password == "" {
		utils.SetFlash(c, "danger", "Username and password are required.")
		return redirect(c, "/login")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return serverError(c, err)
	}
	if err != nil || !utils.VerifyPassword(u.PasswordHash, password) {
		utils.SetFlash(c, "danger", "Invalid username or password.")
		return redirect(c, "/login")
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, u.ID, u.Username, u.Role, h.Cfg.SessionTTLMin)
	if err != nil {
		return serverError(c, err)
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
	})
	utils.SetFlash(c, "success", "Login successful!")
	return redirect(c, "/dashboard")
}

// Logout clears the session cookie and returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	utils.SetFlash(c, "info", "Logged out successfully.")
	return redirect(c, "/login")
}

// ChangePasswordForm renders the password change page.
func (h *AuthHandler) ChangePasswordForm(c echo.Context) error {
	return render(c, http.StatusOK, "change_password.html", nil)
}

// ChangePassword updates the logged-in user's password after verifying the
// current one.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return redirect(c, "/login")
	}
	current := c.FormValue("current_password")
	next := c.FormValue("new_password")
	confirm := c.FormValue("confirm_password")
	if next == "" || next != confirm {
		utils.SetFlash(c, "danger", "New passwords do not match.")
		return redirect(c, "/change_password")
	}

	ctx := c.Request().Context()
	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return serverError(c, err)
	}
	if !utils.VerifyPassword(u.PasswordHash, current) {
		utils.SetFlash(c, "danger", "Current password is incorrect.")
		return redirect(c, "/change_password")
	}
	if err := h.Users.UpdatePassword(ctx, userID, next, h.Cfg.BcryptCost); err != nil {
		return serverError(c, err)
	}
	utils.SetFlash(c, "success", "Password changed.")
	return redirect(c, "/dashboard")
}

// AddUserForm renders the user creation page.  The route is admin-gated by
// the router.
func (h *AuthHandler) AddUserForm(c echo.Context) error {
	return render(c, http.StatusOK, "add_user.html", nil)
}

// AddUser creates a new account.  Role defaults to "user"; only the
// literal "admin" grants elevated rights.
func (h *AuthHandler) AddUser(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	role := strings.ToLower(strings.TrimSpace(c.FormValue("role")))
	if username == "" || password == "" {
		utils.SetFlash(c, "danger", "Username and password are required.")
		return redirect(c, "/users/add")
	}

	if _, err := h.Users.Create(c.Request().Context(), username, password, role, h.Cfg.BcryptCost); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			utils.SetFlash(c, "danger", "That username is already taken.")
			return redirect(c, "/users/add")
		}
		return serverError(c, err)
	}
	utils.SetFlash(c, "success", "User created.")
	return redirect(c, "/dashboard")
}

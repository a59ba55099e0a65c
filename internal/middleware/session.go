package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/powertune/garage/internal/utils"
)

// SessionCookie is the name of the cookie carrying the signed session token.
const SessionCookie = "garage_session"

// SessionAuth returns an Echo middleware that validates the session cookie
// and injects the logged-in user's identity into the request context.  The
// provided secret must match the one used when issuing tokens.  This
// middleware wraps every protected page so that handlers can read the
// current user via c.Get("user_id"), c.Get("username") and c.Get("role").
// Requests without a valid session are redirected to the login page with a
// warning notice; no ambient global holds the logged-in user.
func SessionAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ck, err := c.Cookie(SessionCookie)
			if err != nil || ck.Value == "" {
				utils.SetFlash(c, "warning", "Please log in to access this page.")
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			claims, err := utils.ParseSessionToken(secret, ck.Value)
			if err != nil {
				utils.SetFlash(c, "warning", "Please log in to access this page.")
				return c.Redirect(http.StatusSeeOther, "/login")
			}
			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}

// RequireAdmin returns a middleware that enforces the admin role on
// destructive and administrative operations (vehicle edit/delete, customer
// delete, user creation).  It assumes SessionAuth already stored the role
// in context.  Violations redirect to the dashboard with a danger notice
// and the wrapped handler never runs, so no mutation can occur.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if role != "admin" {
				utils.SetFlash(c, "danger", "You do not have permission to perform this action.")
				return c.Redirect(http.StatusSeeOther, "/dashboard")
			}
			return next(c)
		}
	}
}

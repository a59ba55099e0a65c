package utils

// flash.go implements one-shot notices carried between requests in a
// cookie.  A handler sets a flash before redirecting; the next rendered
// page pops and displays it.  Values are encoded as level|message and
// base64-wrapped so arbitrary text survives cookie transport.

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const flashCookie = "garage_flash"

// Flash is a transient notice shown on the next rendered page.  Level is
// one of "success", "info", "warning" or "danger" and maps directly to the
// stylesheet class used by the base layout.
type Flash struct {
	Level   string
	Message string
}

// SetFlash queues a notice for the next page view.  Only one notice is
// carried at a time; a later SetFlash before the cookie is consumed
// replaces the earlier one, which matches how the flows use it (every
// mutation ends in a redirect).
func SetFlash(c echo.Context, level, message string) {
	v := base64.URLEncoding.EncodeToString([]byte(level + "|" + message))
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    v,
		Path:     "/",
		HttpOnly: true,
	})
}

// PopFlash returns the pending notice, if any, and clears the cookie so it
// is shown exactly once.
func PopFlash(c echo.Context) *Flash {
	ck, err := c.Cookie(flashCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	// Expire the cookie regardless of whether the payload decodes.
	c.SetCookie(&http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	raw, err := base64.URLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	level, msg, ok := strings.Cut(string(raw), "|")
	if !ok {
		return nil
	}
	return &Flash{Level: level, Message: msg}
}

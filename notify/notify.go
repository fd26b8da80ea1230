// Package notify carries one toast message from an action to the page the
// browser is redirected to. The message rides on a short-lived cookie, so
// it belongs to a single request/response pair and no server state is kept.
package notify

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	cookieName = "rb_toast"
	maxAge     = 60
)

type Variant string

const (
	Default     Variant = "default"
	Success     Variant = "success"
	Destructive Variant = "destructive"
)

type Toast struct {
	Title       string  `json:"title"`
	Description string  `json:"description,omitempty"`
	Variant     Variant `json:"variant,omitempty"`
	ActionURL   string  `json:"action_url,omitempty"`
	ActionLabel string  `json:"action_label,omitempty"`
}

// Push replaces any pending toast; only one is shown at a time.
func Push(c *gin.Context, t Toast) {
	if t.Variant == "" {
		t.Variant = Default
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Pop returns the pending toast, if any, and clears it.
func Pop(c *gin.Context) (*Toast, bool) {
	ck, err := c.Request.Cookie(cookieName)
	if err != nil || ck.Value == "" {
		return nil, false
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil, false
	}
	var t Toast
	if err := json.Unmarshal(raw, &t); err != nil || t.Title == "" {
		return nil, false
	}
	return &t, true
}

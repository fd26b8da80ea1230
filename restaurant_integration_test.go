package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-biller/config"
	"github.com/yeremiapane/restaurant-biller/router"
	"github.com/yeremiapane/restaurant-biller/session"
	"github.com/yeremiapane/restaurant-biller/testutil"
)

type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (d *memoryDenylist) Revoke(_ context.Context, id string, _ time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[id] = true
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.revoked[id], nil
}

type client struct {
	t      *testing.T
	app    http.Handler
	cookie *http.Cookie
}

func (cl *client) send(req *http.Request) *httptest.ResponseRecorder {
	if cl.cookie != nil {
		req.AddCookie(cl.cookie)
	}
	w := httptest.NewRecorder()
	cl.app.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == session.CookieName && ck.Value != "" {
			cl.cookie = ck
		}
	}
	return w
}

func (cl *client) form(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "text/html")
	return cl.send(req)
}

func (cl *client) json(path string, payload interface{}) map[string]interface{} {
	cl.t.Helper()
	raw, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	w := cl.send(req)
	require.Equal(cl.t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(cl.t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp["data"].(map[string]interface{})
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Accept", "text/html")
	return cl.send(req)
}

// TestEndToEndBilling walks the owner flow:
// sign up, set up the restaurant, add menu items, create a bill,
// then open the bill anonymously as the customer would.
func TestEndToEndBilling(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db := testutil.NewDB(t)
	sessions := session.NewJWTManager("integration-secret-0123456789abcdef", time.Hour,
		&memoryDenylist{revoked: map[string]bool{}})

	app, err := router.SetupRouter(router.Deps{
		Config: &config.Config{
			Env:             "test",
			SiteURL:         "https://bills.example.com",
			SessionTTL:      time.Hour,
			LoginRateLimit:  5,
			LoginRateWindow: time.Minute,
			MetricsPrefix:   "integration",
		},
		DB:       db,
		Sessions: sessions,
	})
	require.NoError(t, err)

	owner := &client{t: t, app: app}

	// 1. Sign up
	w := owner.form("/signup", url.Values{"email": {"owner@dosa.example"}, "password": {"dosa-and-chutney"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	require.NotNil(t, owner.cookie)

	// 2. Without a restaurant the dashboard sends the owner to onboarding
	w = owner.get("/dashboard")
	assert.Equal(t, "/onboarding", w.Header().Get("Location"))

	w = owner.form("/onboarding", url.Values{"name": {"Dosa Corner"}, "address": {"4 Beach Rd"}, "contact": {"044-1234"}})
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())

	// 3. Menu
	dosa := owner.json("/dashboard/menu", map[string]interface{}{"name": "Masala Dosa", "price": 10, "available": true})
	coffee := owner.json("/dashboard/menu", map[string]interface{}{"name": "Filter Coffee", "price": 5, "available": true})

	// 4. Bill
	bill := owner.json("/dashboard/billing", map[string]interface{}{
		"table_number":   6,
		"customer_phone": "9876543210",
		"items": []map[string]interface{}{
			{"id": dosa["id"], "quantity": 2, "price": 10},
			{"id": coffee["id"], "quantity": 1, "price": 5},
		},
	})
	billID := bill["bill_id"].(string)
	assert.Equal(t, 25.0, bill["total_amount"])
	assert.Contains(t, bill["whatsapp_url"], "wa.me/919876543210")

	w = owner.get("/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "₹25.00")

	// 5. The customer opens the bill with no session
	customer := &client{t: t, app: app}
	w = customer.get("/api/get-bill/" + billID)
	require.Equal(t, http.StatusOK, w.Code)
	var public map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &public))
	assert.Equal(t, 25.0, public["total_amount"])
	assert.Equal(t, "Dosa Corner", public["restaurants"].(map[string]interface{})["name"])

	w = customer.get("/bill/" + billID)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Masala Dosa")

	w = customer.get("/dashboard")
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// 6. Logout revokes the session server-side
	token := owner.cookie
	w = owner.form("/logout", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	replay := &client{t: t, app: app, cookie: token}
	w = replay.get("/dashboard")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

package controllers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-biller/models"
	"github.com/yeremiapane/restaurant-biller/notify"
	"github.com/yeremiapane/restaurant-biller/testutil"
)

func decodeToast(t *testing.T, value string) notify.Toast {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(value)
	require.NoError(t, err)
	var toast notify.Toast
	require.NoError(t, json.Unmarshal(raw, &toast))
	return toast
}

func TestCreateBillJSON(t *testing.T) {
	env := setupControllers(t)
	naan := testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Naan", 10, true)
	dal := testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Dal", 5, true)

	w := env.postJSON("/dashboard/billing", map[string]interface{}{
		"table_number":   4,
		"customer_phone": "9876543210",
		"items": []map[string]interface{}{
			{"id": naan.ID, "quantity": 2, "price": 10},
			{"id": dal.ID, "quantity": 1, "price": 5},
		},
	}, withToken(env.token))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decodeEnvelope(t, w)
	assert.Equal(t, true, resp["status"])
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, 25.0, data["total_amount"])
	billID := data["bill_id"].(string)
	assert.Equal(t, testSiteURL+"/bill/"+billID, data["bill_url"])
	assert.True(t, strings.HasPrefix(data["whatsapp_url"].(string), "https://wa.me/"))

	var bill models.Bill
	require.NoError(t, env.db.Preload("Items").First(&bill, "id = ?", billID).Error)
	assert.Equal(t, env.restaurant.ID, bill.RestaurantID)
	assert.Len(t, bill.Items, 2)
}

func TestCreateBillRejectsEmptyItems(t *testing.T) {
	env := setupControllers(t)

	w := env.postJSON("/dashboard/billing", map[string]interface{}{
		"table_number":   4,
		"customer_phone": "9876543210",
		"items":          []interface{}{},
	}, withToken(env.token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "Add at least one item to the bill.", resp["message"])
	assert.Zero(t, testutil.Count(t, env.db, &models.Bill{}))
	assert.Zero(t, testutil.Count(t, env.db, &models.BillItem{}))
}

func TestBillingPageGroupsByCategory(t *testing.T) {
	env := setupControllers(t)
	testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Naan", 10, true)
	testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Off Menu", 9, false)
	require.NoError(t, env.db.Create([]models.MenuItem{
		{RestaurantID: env.restaurant.ID, Name: "Mango Lassi", Price: 80, Category: "Drinks", Available: true},
		{RestaurantID: env.restaurant.ID, Name: "Papad", Price: 2, Available: true},
	}).Error)

	w := env.do(http.MethodGet, "/dashboard/billing", nil, acceptHTML, withToken(env.token))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := w.Body.String()
	assert.Contains(t, body, "<th colspan=\"3\">Drinks</th>")
	assert.Contains(t, body, "<th colspan=\"3\">Mains</th>")
	assert.Contains(t, body, "<th colspan=\"3\">Uncategorized</th>")
	assert.Less(t, strings.Index(body, ">Drinks<"), strings.Index(body, ">Mains<"))
	assert.Less(t, strings.Index(body, ">Mains<"), strings.Index(body, ">Uncategorized<"))
	assert.Less(t, strings.Index(body, "Naan"), strings.Index(body, "Papad"))
	assert.NotContains(t, body, "Off Menu")
}

func TestCreateBillJSONBindingRules(t *testing.T) {
	env := setupControllers(t)
	naan := testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Naan", 10, true)
	line := func(id string, qty int) []map[string]interface{} {
		return []map[string]interface{}{{"id": id, "quantity": qty, "price": 10}}
	}

	cases := []struct {
		name string
		body map[string]interface{}
		want string
	}{
		{"zero table", map[string]interface{}{"table_number": 0, "customer_phone": "9876543210", "items": line(naan.ID, 1)}, "Table number must be a positive number."},
		{"negative table", map[string]interface{}{"table_number": -3, "customer_phone": "9876543210", "items": line(naan.ID, 1)}, "Table number must be a positive number."},
		{"missing phone", map[string]interface{}{"table_number": 2, "items": line(naan.ID, 1)}, "Customer phone number is required."},
		{"missing items", map[string]interface{}{"table_number": 2, "customer_phone": "9876543210"}, "Add at least one item to the bill."},
		{"missing item id", map[string]interface{}{"table_number": 2, "customer_phone": "9876543210", "items": line("", 1)}, "Every bill item must reference a menu item."},
		{"zero quantity", map[string]interface{}{"table_number": 2, "customer_phone": "9876543210", "items": line(naan.ID, 0)}, "Item quantities must be at least 1."},
		{"quantity over limit", map[string]interface{}{"table_number": 2, "customer_phone": "9876543210", "items": line(naan.ID, 10001)}, "Item quantities cannot exceed 10000."},
		{"malformed body", map[string]interface{}{"table_number": "four"}, "Invalid bill data."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := env.postJSON("/dashboard/billing", tc.body, withToken(env.token))
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.want, decodeEnvelope(t, w)["message"])
		})
	}
	assert.Zero(t, testutil.Count(t, env.db, &models.Bill{}))
}

func TestCreateBillIgnoresOtherTenantsItems(t *testing.T) {
	env := setupControllers(t)
	_, other := testutil.CreateOwner(t, env.db, "rival@example.com", "Curry House")
	foreign := testutil.CreateMenuItem(t, env.db, other.ID, "Biryani", 12, true)

	w := env.postJSON("/dashboard/billing", map[string]interface{}{
		"table_number":   1,
		"customer_phone": "9876543210",
		"items":          []map[string]interface{}{{"id": foreign.ID, "quantity": 1, "price": 12}},
	}, withToken(env.token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, testutil.Count(t, env.db, &models.Bill{}))
}

func TestCreateBillForm(t *testing.T) {
	env := setupControllers(t)
	naan := testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Naan", 10, true)

	items, _ := json.Marshal([]map[string]interface{}{{"id": naan.ID, "quantity": 3, "price": 10}})
	w := env.postForm("/dashboard/billing", url.Values{
		"table_number":   {"7"},
		"customer_phone": {"9876543210"},
		"items":          {string(items)},
	}, acceptHTML, withToken(env.token))
	require.Equal(t, http.StatusSeeOther, w.Code, w.Body.String())
	assert.Equal(t, "/dashboard/billing", w.Header().Get("Location"))

	ck := cookieNamed(w, "rb_toast")
	require.NotNil(t, ck)
	toast := decodeToast(t, ck.Value)
	assert.Equal(t, notify.Success, toast.Variant)
	assert.Contains(t, toast.Title, "created successfully!")
	assert.True(t, strings.HasPrefix(toast.ActionURL, "https://wa.me/"))

	var bill models.Bill
	require.NoError(t, env.db.First(&bill).Error)
	assert.Equal(t, 30.0, bill.TotalAmount)
	assert.Equal(t, 7, bill.TableNumber)
}

func TestCreateBillFormQuantityFallback(t *testing.T) {
	env := setupControllers(t)
	naan := testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Naan", 10, true)
	dal := testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Dal", 5, true)

	w := env.postForm("/dashboard/billing", url.Values{
		"table_number":     {"2"},
		"customer_phone":   {"9876543210"},
		"qty_" + naan.ID:   {"2"},
		"price_" + naan.ID: {"10"},
		"qty_" + dal.ID:    {"0"},
		"price_" + dal.ID:  {"5"},
	}, acceptHTML, withToken(env.token))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var bill models.Bill
	require.NoError(t, env.db.Preload("Items").First(&bill).Error)
	assert.Equal(t, 20.0, bill.TotalAmount)
	require.Len(t, bill.Items, 1)
	assert.Equal(t, "Naan", bill.Items[0].Name)
}

func TestCreateBillFormFailureToast(t *testing.T) {
	env := setupControllers(t)

	w := env.postForm("/dashboard/billing", url.Values{
		"table_number":   {"abc"},
		"customer_phone": {"9876543210"},
	}, acceptHTML, withToken(env.token))
	require.Equal(t, http.StatusSeeOther, w.Code)

	ck := cookieNamed(w, "rb_toast")
	require.NotNil(t, ck)
	toast := decodeToast(t, ck.Value)
	assert.Equal(t, notify.Destructive, toast.Variant)
	assert.Equal(t, "Table number must be a positive number.", toast.Description)
	assert.Zero(t, testutil.Count(t, env.db, &models.Bill{}))
}

func TestBillingPageListsAvailableItems(t *testing.T) {
	env := setupControllers(t)
	testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Naan", 10, true)
	testutil.CreateMenuItem(t, env.db, env.restaurant.ID, "Seasonal Soup", 8, false)

	w := env.do(http.MethodGet, "/dashboard/billing", nil, acceptHTML, withToken(env.token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Naan")
	assert.NotContains(t, w.Body.String(), "Seasonal Soup")
}

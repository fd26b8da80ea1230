package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-biller/models"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/session"
	"github.com/yeremiapane/restaurant-biller/testutil"
	"github.com/yeremiapane/restaurant-biller/views"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	testSecret  = "0123456789abcdef0123456789abcdef"
	testSiteURL = "https://bills.example.com"
)

type testEnv struct {
	db         *gorm.DB
	router     *gin.Engine
	sessions   *session.JWTManager
	owner      *models.User
	restaurant *models.Restaurant
	token      string
}

// setupControllers mounts every controller without the request guard.
func setupControllers(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	sessions := session.NewJWTManager(testSecret, time.Hour, nil)
	tenants := services.NewTenantResolver(db)
	menu := services.NewMenuService(db)
	accounts := services.NewAccountService(db).WithCost(bcrypt.MinCost)
	pages := NewPageAuthorizer(sessions, tenants, false)

	authCtrl := NewAuthController(accounts, sessions, pages, false)
	onboardingCtrl := NewOnboardingController(accounts, tenants, pages)
	dashboardCtrl := NewDashboardController(services.NewDashboardService(services.NewSQLReports(db)), pages)
	menuCtrl := NewMenuController(menu, pages)
	billingCtrl := NewBillingController(services.NewBillService(db, testSiteURL), menu, pages)
	analyticsCtrl := NewAnalyticsController(services.NewAnalyticsService(db), pages)
	billCtrl := NewBillController(services.NewBillService(db, testSiteURL))

	router := gin.New()
	tmpl, err := views.Templates()
	require.NoError(t, err)
	router.SetHTMLTemplate(tmpl)

	router.GET("/login", authCtrl.LoginPage)
	router.POST("/login", authCtrl.Login)
	router.GET("/signup", authCtrl.SignupPage)
	router.POST("/signup", authCtrl.Signup)
	router.POST("/logout", authCtrl.Logout)
	router.GET("/onboarding", onboardingCtrl.Page)
	router.POST("/onboarding", onboardingCtrl.Submit)
	router.GET("/dashboard", dashboardCtrl.Show)
	router.GET("/dashboard/menu", menuCtrl.Page)
	router.POST("/dashboard/menu", menuCtrl.Create)
	router.POST("/dashboard/menu/:itemId", menuCtrl.Update)
	router.POST("/dashboard/menu/:itemId/delete", menuCtrl.Delete)
	router.GET("/dashboard/billing", billingCtrl.Page)
	router.POST("/dashboard/billing", billingCtrl.Create)
	router.GET("/dashboard/analytics", analyticsCtrl.Page)
	router.GET("/dashboard/analytics/charts/:chart", analyticsCtrl.Chart)
	router.GET("/bill/:billId", billCtrl.Page)
	router.GET("/bill/:billId/receipt.pdf", billCtrl.ReceiptPDF)
	router.GET("/api/get-bill", billCtrl.GetBill)
	router.GET("/api/get-bill/:billId", billCtrl.GetBill)

	owner, restaurant := testutil.CreateOwner(t, db, "owner@example.com", "Spice Route")
	token, _, err := sessions.Issue(context.Background(), owner.ID, owner.Email)
	require.NoError(t, err)

	return &testEnv{db: db, router: router, sessions: sessions, owner: owner, restaurant: restaurant, token: token}
}

type requestOpt func(*http.Request)

func withToken(token string) requestOpt {
	return func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: session.CookieName, Value: token})
	}
}

func acceptHTML(r *http.Request) {
	r.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
}

func acceptJSON(r *http.Request) {
	r.Header.Set("Accept", "application/json")
}

func (e *testEnv) do(method, path string, body io.Reader, opts ...requestOpt) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	for _, opt := range opts {
		opt(req)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(path string, payload interface{}, opts ...requestOpt) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(payload)
	opts = append([]requestOpt{func(r *http.Request) {
		r.Header.Set("Content-Type", "application/json")
	}}, opts...)
	return e.do(http.MethodPost, path, strings.NewReader(string(raw)), opts...)
}

func (e *testEnv) postForm(path string, form url.Values, opts ...requestOpt) *httptest.ResponseRecorder {
	opts = append([]requestOpt{func(r *http.Request) {
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}}, opts...)
	return e.do(http.MethodPost, path, strings.NewReader(form.Encode()), opts...)
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func cookieNamed(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

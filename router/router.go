package router

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-biller/access"
	"github.com/yeremiapane/restaurant-biller/config"
	"github.com/yeremiapane/restaurant-biller/controllers"
	"github.com/yeremiapane/restaurant-biller/middlewares"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/session"
	"github.com/yeremiapane/restaurant-biller/views"
	"gorm.io/gorm"
)

type Deps struct {
	Config   *config.Config
	DB       *gorm.DB
	Redis    *redis.Client // optional
	Sessions session.Manager
	Registry *prometheus.Registry
}

// App is the HTTP handler together with the route table it was built from.
type App struct {
	*gin.Engine
	Routes *access.Table
}

func SetupRouter(deps Deps) (*App, error) {
	cfg := deps.Config
	if deps.Registry == nil {
		deps.Registry = prometheus.NewRegistry()
	}

	r := gin.New()
	// gin trusts every proxy by default, which would let clients pick their
	// own IP for rate limiting.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.SecurityHeaders(cfg.IsProduction()))

	metrics := middlewares.NewMetrics(cfg.MetricsPrefix, deps.Registry)
	r.Use(middlewares.MetricsMiddleware(metrics))

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(tmpl)

	secure := cfg.SecureCookies()

	tenants := services.NewTenantResolver(deps.DB)
	menu := services.NewMenuService(deps.DB)
	pages := controllers.NewPageAuthorizer(deps.Sessions, tenants, secure)

	authCtrl := controllers.NewAuthController(services.NewAccountService(deps.DB), deps.Sessions, pages, secure)
	onboardingCtrl := controllers.NewOnboardingController(services.NewAccountService(deps.DB), tenants, pages)
	dashboardCtrl := controllers.NewDashboardController(services.NewDashboardService(services.NewSQLReports(deps.DB)), pages)
	menuCtrl := controllers.NewMenuController(menu, pages)
	billingCtrl := controllers.NewBillingController(services.NewBillService(deps.DB, cfg.SiteURL), menu, pages)
	analyticsCtrl := controllers.NewAnalyticsController(services.NewAnalyticsService(deps.DB), pages)
	billCtrl := controllers.NewBillController(services.NewBillService(deps.DB, cfg.SiteURL))
	healthCtrl := controllers.NewHealthController(deps.DB, deps.Redis)

	limiter := middlewares.NewLoginRateLimiter(deps.Redis, cfg.LoginRateLimit, cfg.LoginRateWindow, metrics).Limit()

	corsCfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Accept", "Content-Type"},
		ExposeHeaders: []string{middlewares.RequestIDHeader},
	}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	publicAPI := cors.New(corsCfg)

	h := func(fns ...gin.HandlerFunc) []gin.HandlerFunc { return fns }
	routes := []access.Route{
		{Method: http.MethodGet, Path: "/", Class: access.Public, Handlers: h(func(c *gin.Context) {
			c.Redirect(http.StatusFound, middlewares.DashboardPath)
		})},

		{Method: http.MethodGet, Path: "/login", Class: access.AuthOnly, Handlers: h(authCtrl.LoginPage)},
		{Method: http.MethodPost, Path: "/login", Class: access.AuthOnly, Handlers: h(limiter, authCtrl.Login)},
		{Method: http.MethodGet, Path: "/signup", Class: access.AuthOnly, Handlers: h(authCtrl.SignupPage)},
		{Method: http.MethodPost, Path: "/signup", Class: access.AuthOnly, Handlers: h(limiter, authCtrl.Signup)},
		{Method: http.MethodPost, Path: "/logout", Class: access.Protected, Handlers: h(authCtrl.Logout)},

		{Method: http.MethodGet, Path: "/onboarding", Class: access.Protected, Handlers: h(onboardingCtrl.Page)},
		{Method: http.MethodPost, Path: "/onboarding", Class: access.Protected, Handlers: h(onboardingCtrl.Submit)},

		{Method: http.MethodGet, Path: "/dashboard", Class: access.Protected, Handlers: h(dashboardCtrl.Show)},
		{Method: http.MethodGet, Path: "/dashboard/menu", Class: access.Protected, Handlers: h(menuCtrl.Page)},
		{Method: http.MethodPost, Path: "/dashboard/menu", Class: access.Protected, Handlers: h(menuCtrl.Create)},
		{Method: http.MethodPost, Path: "/dashboard/menu/:itemId", Class: access.Protected, Handlers: h(menuCtrl.Update)},
		{Method: http.MethodPost, Path: "/dashboard/menu/:itemId/delete", Class: access.Protected, Handlers: h(menuCtrl.Delete)},
		{Method: http.MethodGet, Path: "/dashboard/billing", Class: access.Protected, Handlers: h(billingCtrl.Page)},
		{Method: http.MethodPost, Path: "/dashboard/billing", Class: access.Protected, Handlers: h(billingCtrl.Create)},
		{Method: http.MethodGet, Path: "/dashboard/analytics", Class: access.Protected, Handlers: h(analyticsCtrl.Page)},
		{Method: http.MethodGet, Path: "/dashboard/analytics/charts/:chart", Class: access.Protected, Handlers: h(analyticsCtrl.Chart)},

		{Method: http.MethodGet, Path: "/bill/:billId", Class: access.Public, Handlers: h(billCtrl.Page)},
		{Method: http.MethodGet, Path: "/bill/:billId/receipt.pdf", Class: access.Public, Handlers: h(billCtrl.ReceiptPDF)},
		{Method: http.MethodGet, Path: "/api/get-bill", Class: access.Public, Handlers: h(publicAPI, billCtrl.GetBill)},
		{Method: http.MethodGet, Path: "/api/get-bill/:billId", Class: access.Public, Handlers: h(publicAPI, billCtrl.GetBill)},
		{Method: http.MethodOptions, Path: "/api/get-bill/:billId", Class: access.Public, Handlers: h(publicAPI)},

		{Method: http.MethodGet, Path: "/healthz", Class: access.Public, Handlers: h(healthCtrl.Check)},
		{Method: http.MethodGet, Path: "/metrics", Class: access.Public, Handlers: h(gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))},
		{Method: http.MethodGet, Path: "/static/*filepath", Class: access.Public, Handlers: h(views.StaticHandler())},
	}

	table, err := access.NewTable(routes)
	if err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}

	r.Use(middlewares.RequestGuard(table, deps.Sessions, middlewares.GuardOptions{
		SecureCookies: secure,
		Metrics:       metrics,
	}))
	table.Register(r)

	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"Title": "Page not found", "Message": "The page you are looking for does not exist.",
			"Nav": "", "Restaurant": nil, "Toast": nil,
		})
	})

	return &App{Engine: r, Routes: table}, nil
}

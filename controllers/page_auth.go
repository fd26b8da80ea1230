package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-biller/middlewares"
	"github.com/yeremiapane/restaurant-biller/models"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/session"
	"github.com/yeremiapane/restaurant-biller/utils"
)

const OnboardingPath = "/onboarding"

// PageAuthorizer repeats the session check inside each protected handler,
// so a page stays closed even when mounted without the request guard.
type PageAuthorizer struct {
	Sessions      session.Manager
	Tenants       *services.TenantResolver
	SecureCookies bool
}

func NewPageAuthorizer(sessions session.Manager, tenants *services.TenantResolver, secureCookies bool) *PageAuthorizer {
	return &PageAuthorizer{Sessions: sessions, Tenants: tenants, SecureCookies: secureCookies}
}

// RequireSession returns the signed-in user's session or redirects to the
// login page and aborts.
func (pa *PageAuthorizer) RequireSession(c *gin.Context) (*session.Session, bool) {
	if s, ok := middlewares.CurrentSession(c); ok {
		return s, true
	}

	token := session.TokenFromRequest(c.Request)
	s, rotated, err := pa.Sessions.Current(c.Request.Context(), token)
	if err != nil {
		if !session.IsUnauthenticated(err) {
			utils.ErrorLogger.WithError(err).Error("session store unavailable during page authorization")
		}
		if token != "" {
			session.ClearCookie(c.Writer, pa.SecureCookies)
		}
		c.Redirect(http.StatusFound, middlewares.LoginPath)
		c.Abort()
		return nil, false
	}
	if rotated != "" {
		session.SetCookie(c.Writer, rotated, pa.Sessions.TTL(), pa.SecureCookies)
	}
	c.Set(session.ContextKey, s)
	return s, true
}

// RequireTenant additionally resolves the user's restaurant, redirecting to
// onboarding when there is none.
func (pa *PageAuthorizer) RequireTenant(c *gin.Context) (*session.Session, *models.Restaurant, bool) {
	s, ok := pa.RequireSession(c)
	if !ok {
		return nil, nil, false
	}

	r, found, err := pa.Tenants.Resolve(c.Request.Context(), s.UserID)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("user_id", s.UserID).Error("tenant resolution failed")
		renderError(c, http.StatusInternalServerError, "Something went wrong", "We couldn't load your restaurant. Please try again.")
		return nil, nil, false
	}
	if !found {
		c.Redirect(http.StatusFound, OnboardingPath)
		c.Abort()
		return nil, nil, false
	}
	return s, r, true
}

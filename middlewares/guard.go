package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-biller/access"
	"github.com/yeremiapane/restaurant-biller/session"
	"github.com/yeremiapane/restaurant-biller/utils"
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

type GuardOptions struct {
	SecureCookies bool
	Metrics       *Metrics
}

// RequestGuard runs before every handler. It only decides between letting
// the request through and redirecting; per-page authorization happens again
// in the controllers.
//
// A session store failure is treated as "not signed in".
func RequestGuard(table *access.Table, sessions session.Manager, opts GuardOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		class, known := table.Classify(c.FullPath())
		if !known {
			opts.Metrics.guardDecision("unknown")
			c.Next()
			return
		}
		if class == access.Public {
			opts.Metrics.guardDecision("public")
			c.Next()
			return
		}

		token := session.TokenFromRequest(c.Request)
		s, rotated, err := sessions.Current(c.Request.Context(), token)
		if err != nil {
			if !session.IsUnauthenticated(err) {
				utils.ErrorLogger.WithError(err).WithFields(logrus.Fields{
					"route": c.FullPath(),
				}).Error("session store unavailable, treating request as signed out")
			}
			if token != "" {
				session.ClearCookie(c.Writer, opts.SecureCookies)
			}
			s = nil
		}

		switch {
		case s == nil && class == access.Protected:
			opts.Metrics.guardDecision("redirect_login")
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		case s != nil && class == access.AuthOnly:
			opts.Metrics.guardDecision("redirect_dashboard")
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}

		if s != nil {
			if rotated != "" {
				session.SetCookie(c.Writer, rotated, sessions.TTL(), opts.SecureCookies)
			}
			c.Set(session.ContextKey, s)
			opts.Metrics.guardDecision("authenticated")
		} else {
			opts.Metrics.guardDecision("anonymous")
		}
		c.Next()
	}
}

// CurrentSession returns the session the guard attached to c, if any.
func CurrentSession(c *gin.Context) (*session.Session, bool) {
	v, ok := c.Get(session.ContextKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok && s != nil
}

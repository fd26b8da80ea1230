package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-biller/notify"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/utils"
)

type DashboardController struct {
	Dashboard *services.DashboardService
	Pages     *PageAuthorizer
	Now       func() time.Time
}

func NewDashboardController(dashboard *services.DashboardService, pages *PageAuthorizer) *DashboardController {
	return &DashboardController{Dashboard: dashboard, Pages: pages, Now: time.Now}
}

// Show renders stats and bills from ?startDate=YYYY-MM-DD (default today)
// up to now.
func (dc *DashboardController) Show(c *gin.Context) {
	_, restaurant, ok := dc.Pages.RequireTenant(c)
	if !ok {
		return
	}

	now := dc.Now().UTC()
	from := now
	var toast *notify.Toast
	if raw := c.Query("startDate"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil || parsed.After(now) {
			if wantsJSONStrict(c) {
				utils.RespondJSON(c, http.StatusBadRequest, "startDate must be a past date in YYYY-MM-DD format", nil)
				return
			}
			toast = &notify.Toast{Title: "Invalid start date", Description: "Showing today instead.", Variant: notify.Destructive}
		} else {
			from = parsed
		}
	}

	d, err := dc.Dashboard.Load(c.Request.Context(), restaurant.ID, from, now)
	if err != nil {
		code, msg := errorStatus(err)
		logIfInternal(c, code, err, "dashboard load failed")
		if wantsJSONStrict(c) {
			utils.RespondJSON(c, code, msg, nil)
			return
		}
		renderError(c, code, "Dashboard unavailable", "We couldn't load your dashboard. Please try again.")
		return
	}

	if wantsJSONStrict(c) {
		utils.RespondJSON(c, http.StatusOK, "Dashboard loaded", gin.H{
			"from":  d.From,
			"to":    d.To,
			"stats": d.Stats,
			"bills": d.Bills,
		})
		return
	}

	data := gin.H{"Title": "Dashboard", "Nav": "dashboard", "Restaurant": restaurant, "Dashboard": d}
	if toast != nil {
		data["Toast"] = toast
	}
	render(c, http.StatusOK, "dashboard.html", data)
}

// wantsJSONStrict is for pages: HTML unless the client explicitly prefers
// JSON.
func wantsJSONStrict(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

package controllers

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/utils"
)

type AnalyticsController struct {
	Analytics *services.AnalyticsService
	Pages     *PageAuthorizer
}

func NewAnalyticsController(analytics *services.AnalyticsService, pages *PageAuthorizer) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics, Pages: pages}
}

func (ac *AnalyticsController) Page(c *gin.Context) {
	_, restaurant, ok := ac.Pages.RequireTenant(c)
	if !ok {
		return
	}

	sales, err := ac.Analytics.Sales(c.Request.Context(), restaurant.ID)
	if err != nil {
		logIfInternal(c, http.StatusInternalServerError, err, "analytics failed")
		renderError(c, http.StatusInternalServerError, "Analytics unavailable", genericErrorMessage)
		return
	}
	if wantsJSONStrict(c) {
		utils.RespondJSON(c, http.StatusOK, "Analytics loaded", sales)
		return
	}
	render(c, http.StatusOK, "analytics.html", gin.H{"Title": "Analytics", "Nav": "analytics", "Restaurant": restaurant, "Sales": sales})
}

// Chart renders one of the analytics charts as a PNG. 204 when there is
// nothing to plot.
func (ac *AnalyticsController) Chart(c *gin.Context) {
	_, restaurant, ok := ac.Pages.RequireTenant(c)
	if !ok {
		return
	}

	name := c.Param("chart")
	if name != "best-sellers" && name != "daily-revenue" {
		c.Status(http.StatusNotFound)
		return
	}

	sales, err := ac.Analytics.Sales(c.Request.Context(), restaurant.ID)
	if err != nil {
		logIfInternal(c, http.StatusInternalServerError, err, "analytics chart failed")
		c.Status(http.StatusInternalServerError)
		return
	}

	var (
		title string
		bars  []chart.Value
	)
	switch name {
	case "best-sellers":
		title = "Best-selling items"
		for _, it := range sales.BestSellers {
			bars = append(bars, chart.Value{Label: it.Name, Value: float64(it.Quantity)})
		}
	case "daily-revenue":
		title = "Revenue by day"
		for _, d := range sales.DailyRevenue {
			bars = append(bars, chart.Value{Label: d.Day, Value: d.Revenue})
		}
	}

	png, err := renderBarChart(title, bars)
	if err != nil {
		logIfInternal(c, http.StatusInternalServerError, err, "chart render failed")
		c.Status(http.StatusInternalServerError)
		return
	}
	if png == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// renderBarChart returns nil, nil when every bar is zero; the chart library
// cannot draw an empty range.
func renderBarChart(title string, bars []chart.Value) ([]byte, error) {
	peak := 0.0
	for _, b := range bars {
		if b.Value > peak {
			peak = b.Value
		}
	}
	if peak <= 0 {
		return nil, nil
	}

	graph := chart.BarChart{
		Title:      title,
		Width:      800,
		Height:     400,
		BarWidth:   40,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 10}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: peak * 1.1},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

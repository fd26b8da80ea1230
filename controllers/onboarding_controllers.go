package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-biller/middlewares"
	"github.com/yeremiapane/restaurant-biller/notify"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/utils"
)

type OnboardingController struct {
	Accounts *services.AccountService
	Tenants  *services.TenantResolver
	Pages    *PageAuthorizer
}

func NewOnboardingController(accounts *services.AccountService, tenants *services.TenantResolver, pages *PageAuthorizer) *OnboardingController {
	return &OnboardingController{Accounts: accounts, Tenants: tenants, Pages: pages}
}

// alreadyOnboarded redirects users who have a restaurant to the dashboard.
func (oc *OnboardingController) alreadyOnboarded(c *gin.Context, userID string) bool {
	_, found, err := oc.Tenants.Resolve(c.Request.Context(), userID)
	if err != nil {
		utils.ErrorLogger.WithError(err).WithField("user_id", userID).Error("tenant resolution failed")
		renderError(c, http.StatusInternalServerError, "Something went wrong", genericErrorMessage)
		return true
	}
	if found {
		c.Redirect(http.StatusFound, middlewares.DashboardPath)
		c.Abort()
		return true
	}
	return false
}

func (oc *OnboardingController) Page(c *gin.Context) {
	s, ok := oc.Pages.RequireSession(c)
	if !ok || oc.alreadyOnboarded(c, s.UserID) {
		return
	}
	render(c, http.StatusOK, "onboarding.html", gin.H{"Title": "Set up", "Form": services.OnboardingInput{}})
}

var onboardingMessages = map[string]string{
	"Name": "Restaurant name is required.",
}

func (oc *OnboardingController) submitFailed(c *gin.Context, in services.OnboardingInput, err error) {
	code, msg := errorStatus(err)
	logIfInternal(c, code, err, "onboarding failed")
	switch {
	case wantsJSON(c):
		utils.RespondError(c, code, msg)
	case code == http.StatusConflict:
		c.Redirect(http.StatusSeeOther, middlewares.DashboardPath)
	default:
		render(c, code, "onboarding.html", gin.H{"Title": "Set up", "Error": msg, "Form": in})
	}
}

func (oc *OnboardingController) Submit(c *gin.Context) {
	s, ok := oc.Pages.RequireSession(c)
	if !ok {
		return
	}

	var in services.OnboardingInput
	if err := c.ShouldBind(&in); err != nil {
		oc.submitFailed(c, in, bindingError(err, onboardingMessages, "Invalid restaurant details."))
		return
	}

	r, err := oc.Accounts.Onboard(c.Request.Context(), s.UserID, in)
	if err != nil {
		oc.submitFailed(c, in, err)
		return
	}

	utils.InfoLogger.WithField("restaurant_id", r.ID).Info("restaurant onboarded")
	actionSucceeded(c, http.StatusCreated,
		notify.Toast{Title: "Welcome, " + r.Name + "!", Description: "Add your menu items to start billing.", Variant: notify.Success},
		"/dashboard/menu",
		gin.H{"restaurant_id": r.ID})
}

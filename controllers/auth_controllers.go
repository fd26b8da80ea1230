package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-biller/middlewares"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/session"
	"github.com/yeremiapane/restaurant-biller/utils"
)

type AuthController struct {
	Accounts      *services.AccountService
	Sessions      session.Manager
	Pages         *PageAuthorizer
	SecureCookies bool
}

func NewAuthController(accounts *services.AccountService, sessions session.Manager, pages *PageAuthorizer, secureCookies bool) *AuthController {
	return &AuthController{Accounts: accounts, Sessions: sessions, Pages: pages, SecureCookies: secureCookies}
}

type credentials struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

var credentialMessages = map[string]string{
	"Email.email": "Enter a valid email address.",
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"Title": "Sign in"})
}

func (ac *AuthController) SignupPage(c *gin.Context) {
	render(c, http.StatusOK, "signup.html", gin.H{"Title": "Sign up"})
}

func (ac *AuthController) Login(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		ac.formFailed(c, "login.html", req.Email, http.StatusBadRequest, bindingError(err, credentialMessages, "Email and password are required.").Message)
		return
	}

	user, err := ac.Accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		code, msg := errorStatus(err)
		logIfInternal(c, code, err, "login failed")
		ac.formFailed(c, "login.html", req.Email, code, msg)
		return
	}

	if !ac.startSession(c, user.ID, user.Email) {
		return
	}
	utils.InfoLogger.WithField("user_id", user.ID).Info("user signed in")

	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusOK, "Signed in", gin.H{"user_id": user.ID})
		return
	}
	c.Redirect(http.StatusSeeOther, middlewares.DashboardPath)
}

func (ac *AuthController) Signup(c *gin.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		ac.formFailed(c, "signup.html", req.Email, http.StatusBadRequest, bindingError(err, credentialMessages, "Email and password are required.").Message)
		return
	}

	user, err := ac.Accounts.SignUp(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		code, msg := errorStatus(err)
		logIfInternal(c, code, err, "signup failed")
		ac.formFailed(c, "signup.html", req.Email, code, msg)
		return
	}

	if !ac.startSession(c, user.ID, user.Email) {
		return
	}
	utils.InfoLogger.WithField("user_id", user.ID).Info("new user registered")

	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusCreated, "Account created", gin.H{"user_id": user.ID})
		return
	}
	c.Redirect(http.StatusSeeOther, OnboardingPath)
}

func (ac *AuthController) Logout(c *gin.Context) {
	s, ok := ac.Pages.RequireSession(c)
	if !ok {
		return
	}
	if err := ac.Sessions.Revoke(c.Request.Context(), s); err != nil {
		// The cookie is cleared regardless; the token still expires on its own.
		utils.ErrorLogger.WithError(err).WithField("user_id", s.UserID).Error("session revoke failed")
	}
	session.ClearCookie(c.Writer, ac.SecureCookies)

	if wantsJSON(c) {
		utils.RespondJSON(c, http.StatusOK, "Signed out", nil)
		return
	}
	c.Redirect(http.StatusSeeOther, middlewares.LoginPath)
}

func (ac *AuthController) startSession(c *gin.Context, userID, email string) bool {
	token, _, err := ac.Sessions.Issue(c.Request.Context(), userID, email)
	if err != nil {
		code, msg := errorStatus(err)
		logIfInternal(c, code, err, "session issue failed")
		if wantsJSON(c) {
			utils.RespondError(c, code, msg)
		} else {
			renderError(c, code, "Something went wrong", msg)
		}
		return false
	}
	session.SetCookie(c.Writer, token, ac.Sessions.TTL(), ac.SecureCookies)
	return true
}

func (ac *AuthController) formFailed(c *gin.Context, page, email string, code int, msg string) {
	if wantsJSON(c) {
		utils.RespondError(c, code, msg)
		return
	}
	render(c, code, page, gin.H{"Error": msg, "Email": email})
}

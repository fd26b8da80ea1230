package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-biller/notify"
	"github.com/yeremiapane/restaurant-biller/services"
	"github.com/yeremiapane/restaurant-biller/utils"
)

const genericErrorMessage = "Something went wrong. Please try again."

// render fills the keys every page template reads, then merges data.
func render(c *gin.Context, code int, name string, data gin.H) {
	page := gin.H{
		"Title":      "",
		"Nav":        "",
		"Restaurant": nil,
		"Toast":      nil,
		"Error":      "",
		"Email":      "",
	}
	if t, ok := notify.Pop(c); ok {
		page["Toast"] = t
	}
	for k, v := range data {
		page[k] = v
	}
	c.HTML(code, name, page)
}

func renderError(c *gin.Context, code int, title, message string) {
	render(c, code, "error.html", gin.H{"Title": title, "Message": message})
	c.Abort()
}

// wantsJSON is true for API clients. Browsers list text/html first in
// Accept; a missing Accept header picks JSON.
func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEJSON
}

// errorStatus maps a service error to a status and a message safe for
// the client. Unknown errors are reported as 500 with a generic message.
func errorStatus(err error) (int, string) {
	var v *services.ValidationError
	switch {
	case errors.As(err, &v):
		return http.StatusBadRequest, v.Message
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound, "The requested item was not found."
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid email or password."
	case errors.Is(err, services.ErrEmailTaken):
		return http.StatusConflict, "An account with this email already exists."
	case errors.Is(err, services.ErrAlreadyOnboarded):
		return http.StatusConflict, "Your restaurant is already set up."
	default:
		return http.StatusInternalServerError, genericErrorMessage
	}
}

func logIfInternal(c *gin.Context, code int, err error, msg string) {
	if code < http.StatusInternalServerError {
		return
	}
	utils.ErrorLogger.WithError(err).WithField("route", c.FullPath()).Error(msg)
	_ = c.Error(err)
}

// actionFailed answers a failed data action: a JSON envelope for API
// clients, a toast and a redirect back for forms.
func actionFailed(c *gin.Context, err error, back string) {
	code, msg := errorStatus(err)
	logIfInternal(c, code, err, "action failed")

	if wantsJSON(c) {
		utils.RespondError(c, code, msg)
		return
	}
	notify.Push(c, notify.Toast{Title: "Error", Description: msg, Variant: notify.Destructive})
	c.Redirect(http.StatusSeeOther, back)
}

func actionSucceeded(c *gin.Context, code int, toast notify.Toast, back string, data interface{}) {
	if wantsJSON(c) {
		utils.RespondJSON(c, code, toast.Title, data)
		return
	}
	notify.Push(c, toast)
	c.Redirect(http.StatusSeeOther, back)
}

package notify

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushThenPop(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/dashboard/billing", nil)
	Push(c, Toast{Title: "First"})
	Push(c, Toast{Title: "Bill 3f2a9c1b created successfully!", Variant: Success, ActionURL: "https://wa.me/91", ActionLabel: "Send"})

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	last := cookies[len(cookies)-1]

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/dashboard/billing", nil)
	c2.Request.AddCookie(last)

	toast, ok := Pop(c2)
	require.True(t, ok)
	assert.Equal(t, "Bill 3f2a9c1b created successfully!", toast.Title)
	assert.Equal(t, Success, toast.Variant)
	assert.Equal(t, "Send", toast.ActionLabel)
	assert.Contains(t, w2.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestPopWithoutToast(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := Pop(c)
	assert.False(t, ok)
}

func TestPopIgnoresGarbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: cookieName, Value: "%%%"})

	_, ok := Pop(c)
	assert.False(t, ok)
}

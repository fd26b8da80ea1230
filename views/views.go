// Package views embeds the HTML templates and static assets.
package views

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-biller/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

func FuncMap() template.FuncMap {
	return template.FuncMap{
		"currency": utils.FormatCurrency,
		"shortID":  utils.ShortID,
		"date": func(t time.Time) string {
			return t.Format("02 Jan 2006, 15:04")
		},
		"isoDate": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"mul": func(qty int, price float64) float64 {
			return utils.FromCents(utils.ToCents(price) * int64(qty))
		},
	}
}

// Templates parses every page; pages are addressed by file name
// ("dashboard.html").
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// StaticHandler serves the embedded assets under /static/*filepath.
func StaticHandler() gin.HandlerFunc {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.StripPrefix("/static", http.FileServer(http.FS(sub)))
	return func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}

// Package web renders the landing and chat pages. The chat page keeps its
// transcript in browser memory and talks to the relay through /api/chat.
package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/RichardoC/advisory-board/internal/advisor"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templates embed.FS

// ErrorFallback is shown in place of a reply when the relay call fails.
const ErrorFallback = "Sorry, I encountered an error. Please try again."

func Templates() (*template.Template, error) {
	return template.ParseFS(templates, "templates/*.html")
}

// Register installs the page templates and routes on r.
func Register(r *gin.Engine) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"Personas": advisor.Personas,
		})
	})
	r.GET("/chat", func(c *gin.Context) {
		c.HTML(http.StatusOK, "chat.html", gin.H{
			"Fallback": ErrorFallback,
		})
	})
	return nil
}

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RichardoC/advisory-board/internal/advisor"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	require.NoError(t, Register(r))
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestLandingPage_ListsBoard(t *testing.T) {
	w := get(newEngine(t), "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")

	body := w.Body.String()
	assert.Contains(t, body, "Welcome to Advisory Board")
	for _, p := range advisor.Personas {
		assert.Contains(t, body, "<h3>"+p.Name+"</h3>")
	}
	// html/template escapes the ampersand in the focus labels.
	assert.Contains(t, body, "Purpose &amp; Infinite Game")
	assert.Contains(t, body, `action="/chat"`)
}

func TestChatPage(t *testing.T) {
	w := get(newEngine(t), "/chat")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Advisory Board Chat")
	assert.Contains(t, body, "/api/chat")
	assert.Contains(t, body, "Analyzing through 4 lenses...")
	assert.Contains(t, body, `"Sorry, I encountered an error. Please try again."`)
}

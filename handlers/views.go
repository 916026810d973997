package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
)

const fallbackIndex = `<!doctype html><html><head><meta charset="utf-8"><title>Food Ordering</title></head><body><div id="root"></div></body></html>`

// View serves the single page app shell. Routing between views happens in
// the browser; the server only decides whether the shell may be served.
func (h *Handler) View(c *gin.Context) {
	index := filepath.Join(h.WebDir, "index.html")
	if _, err := os.Stat(index); err != nil {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(fallbackIndex))
		return
	}
	c.File(index)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Food Ordering API",
		"version": "1.0.0",
	})
}

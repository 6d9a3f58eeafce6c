// Package httpapi implements component C18: a small gin router exposing
// the driver's live progress, echoing the teacher's own gin handlers in
// main.go that expose task status during a running mining job.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rockrules.io/syndrome/engine"
)

// NewRouter builds a gin engine exposing GET /healthz and GET /progress.
func NewRouter(progress *engine.Progress) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/progress", func(c *gin.Context) {
		c.JSON(http.StatusOK, progress.Read())
	})
	return r
}

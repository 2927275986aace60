package handlers

import (
	"cmp"
	"net/http"
	"slices"
	"sync"

	intconfig "backoffice/internal/config"

	"github.com/gin-gonic/gin"
)

var (
	engineMu sync.RWMutex
	engine   *gin.Engine
)

// SetRouter registers the engine listed by /api/routes.
func SetRouter(r *gin.Engine) {
	engineMu.Lock()
	defer engineMu.Unlock()
	engine = r
}

// GET /api/health
func Health(c *gin.Context) {
	d := current()
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"agency":   d.Env.AgencyName,
		"currency": d.Env.Currency,
		"time":     clockNow(d).UTC(),
	})
}

// GET /api/db-check
func DBCheck(c *gin.Context) {
	if err := intconfig.PingDB(c.Request.Context()); err != nil {
		respondError(c, http.StatusServiceUnavailable, "db_unavailable", "database unreachable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "reachable"})
}

type routeInfo struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// GET /api/routes lists the mounted routes ordered by path then method.
func Routes(c *gin.Context) {
	engineMu.RLock()
	r := engine
	engineMu.RUnlock()
	if r == nil {
		respondError(c, http.StatusServiceUnavailable, "router_not_ready", "router not ready", nil)
		return
	}

	out := make([]routeInfo, 0, len(r.Routes()))
	for _, rt := range r.Routes() {
		out = append(out, routeInfo{Method: rt.Method, Path: rt.Path})
	}
	slices.SortFunc(out, func(a, b routeInfo) int {
		return cmp.Or(cmp.Compare(a.Path, b.Path), cmp.Compare(a.Method, b.Method))
	})
	c.JSON(http.StatusOK, gin.H{"count": len(out), "routes": out})
}

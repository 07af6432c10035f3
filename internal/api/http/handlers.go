package http

import (
	"net/http"
	"strings"

	"github.com/GriffinCanCode/assetpack/internal/domain/loader"
	"github.com/GriffinCanCode/assetpack/internal/domain/update"
	"github.com/gin-gonic/gin"
)

// RunSource reports the most recent update run, nil before the first
type RunSource interface {
	LastRun() *update.Result
}

// Handlers serves status from the process-wide loader and the last run
type Handlers struct {
	loader func() *loader.Synchronized
	runs   RunSource
}

// NewHandlers creates handlers. A nil loader func reads loader.Default.
func NewHandlers(loaderFn func() *loader.Synchronized, runs RunSource) *Handlers {
	if loaderFn == nil {
		loaderFn = loader.Default
	}
	return &Handlers{loader: loaderFn, runs: runs}
}

// Health reports liveness and the size of the catalog and registry
func (h *Handlers) Health(c *gin.Context) {
	resp := gin.H{
		"status":   "healthy",
		"started":  false,
		"catalog":  0,
		"resident": 0,
	}
	if l := h.loader(); l != nil {
		resp["started"] = true
		resp["catalog"] = l.Catalog().Len()
		resp["resident"] = len(l.Resident())
	}
	if run := h.lastRun(); run != nil {
		resp["update_state"] = run.State.String()
	}
	c.JSON(http.StatusOK, resp)
}

// ListPackages lists every registry entry
func (h *Handlers) ListPackages(c *gin.Context) {
	l := h.loader()
	if l == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "loader not started"})
		return
	}

	entries := l.Entries()
	c.JSON(http.StatusOK, gin.H{
		"packages": entries,
		"count":    len(entries),
	})
}

// GetPackage returns one registry entry
func (h *Handlers) GetPackage(c *gin.Context) {
	l := h.loader()
	if l == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "loader not started"})
		return
	}

	name := strings.TrimPrefix(c.Param("name"), "/")
	for _, e := range l.Entries() {
		if e.Name == name {
			c.JSON(http.StatusOK, e)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "package not resident", "name": name})
}

// GetUpdate returns the most recent update run
func (h *Handlers) GetUpdate(c *gin.Context) {
	run := h.lastRun()
	if run == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no update run yet"})
		return
	}

	transitions := make([]string, 0, len(run.Transitions))
	for _, s := range run.Transitions {
		transitions = append(transitions, s.String())
	}
	c.JSON(http.StatusOK, gin.H{
		"run_id":          run.RunID.String(),
		"state":           run.State.String(),
		"outcome":         run.Outcome.String(),
		"local_version":   run.Local.Version,
		"remote_version":  run.Remote.Version,
		"remote_fallback": run.RemoteFallback,
		"stale":           run.Stale,
		"excluded":        run.Excluded,
		"applied":         run.Applied,
		"transitions":     transitions,
		"duration_ms":     run.Duration.Milliseconds(),
	})
}

func (h *Handlers) lastRun() *update.Result {
	if h.runs == nil {
		return nil
	}
	return h.runs.LastRun()
}

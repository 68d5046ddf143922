// Package handlers holds the Gin handlers for the user API and the
// operational /-/ endpoints.
package handlers

import (
	"net/http"

	goversion "github.com/caarlos0/go-version"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/user-sync-service/internal/ports"
)

const (
	appName        = "user-sync-service"
	appDescription = "Imports GoREST users into relational storage and serves them over HTTP"
)

// BuildInfo is served on /-/build.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	TreeState string `json:"treeState,omitempty"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform,omitempty"`
}

// NewBuildInfo combines the ldflags values with the VCS data embedded in
// the binary; empty arguments keep the embedded value.
func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}

	info := goversion.GetVersionInfo(
		goversion.WithAppDetails(appName, appDescription, ""),
		func(i *goversion.Info) {
			override(&i.GitVersion, version)
			override(&i.GitCommit, commit)
			override(&i.BuildDate, buildTime)
		},
	)

	return BuildInfo{
		Version:   info.GitVersion,
		Commit:    info.GitCommit,
		BuildTime: info.BuildDate,
		TreeState: info.GitTreeState,
		GoVersion: info.GoVersion,
		Platform:  info.Platform,
	}
}

// HealthHandler serves the probes, build info and Prometheus metrics.
type HealthHandler struct {
	registry  ports.HealthRegistry
	buildInfo BuildInfo
}

// NewHealthHandler returns a handler; a nil registry reports ready with
// no checks.
func NewHealthHandler(registry ports.HealthRegistry, buildInfo BuildInfo) *HealthHandler {
	return &HealthHandler{registry: registry, buildInfo: buildInfo}
}

// Mount registers the operational routes under /-.
func (h *HealthHandler) Mount(r gin.IRouter) {
	ops := r.Group("/-")
	ops.GET("/live", h.Liveness)
	ops.GET("/ready", h.Readiness)
	ops.GET("/build", h.Build)
	ops.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Liveness only proves the process answers; it never touches the store or
// GoREST.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type readinessResponse struct {
	Status ports.HealthStatus            `json:"status"`
	Checks map[string]*ports.CheckResult `json:"checks,omitempty"`
}

// Readiness answers 503 while any registered dependency is unhealthy.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.registry == nil {
		c.JSON(http.StatusOK, readinessResponse{Status: ports.HealthStatusHealthy})
		return
	}

	result := h.registry.CheckAll(c.Request.Context())

	code := http.StatusOK
	if result.Status != ports.HealthStatusHealthy {
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, readinessResponse{Status: result.Status, Checks: result.Checks})
}

func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.buildInfo)
}

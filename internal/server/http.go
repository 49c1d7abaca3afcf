package server

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/muurk/promodeck/internal/logging"
	"github.com/muurk/promodeck/internal/version"
	"github.com/muurk/promodeck/internal/view"
)

//go:embed templates/index.html
var templates embed.FS

// pageTemplate is the name the index template is registered under
const pageTemplate = "index.html"

// pageData is what the index template renders
type pageData struct {
	Page          view.Page
	RingRadius    int
	RingStroke    int
	RingNormal    int
	Circumference float64
}

func (s *Server) routes() (*gin.Engine, error) {
	tmpl, err := template.New(pageTemplate).Funcs(template.FuncMap{
		"statusClass": func(m view.Mode) string { return "card--" + string(m) },
	}).ParseFS(templates, "templates/"+pageTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(s.metrics))
	engine.SetHTMLTemplate(tmpl)

	engine.GET("/", s.handleIndex)
	engine.GET("/api/catalog", s.handleCatalog)
	engine.GET("/healthz", s.handleHealth)
	engine.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	engine.GET("/ws", s.handleWebSocket)

	return engine, nil
}

// requestLogger logs every request through zap and counts it by route
func requestLogger(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		metrics.httpRequest(c.FullPath(), status)
		logging.LogHTTPRequest(c.ClientIP(), c.Request.Method, c.Request.URL.Path, status)
		logging.Debug("HTTP request timing",
			zap.String("path", c.Request.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
}

func (s *Server) handleIndex(c *gin.Context) {
	c.HTML(http.StatusOK, pageTemplate, pageData{
		Page:          view.InitialPage(s.game),
		RingRadius:    view.RingRadius,
		RingStroke:    view.RingStroke,
		RingNormal:    view.RingNormalRadius,
		Circumference: view.RingCircumference,
	})
}

// handleCatalog returns the header and every card in the Locked state
func (s *Server) handleCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, view.InitialPage(s.game))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  version.Get(),
		"sessions": s.ActiveSessions(),
	})
}

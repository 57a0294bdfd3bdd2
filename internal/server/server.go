// Package server wires the portfolio's HTTP surface: the rendered pages,
// the HTMX fragments, the SSE hero-text stream, and the session bootstrap
// endpoint.
package server

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Jaysinghgautam/jay-portfolio/internal/content"
	"github.com/Jaysinghgautam/jay-portfolio/internal/identity"
	"github.com/Jaysinghgautam/jay-portfolio/internal/metrics"
	"github.com/Jaysinghgautam/jay-portfolio/internal/typing"
)

// Config carries everything the server needs, passed in explicitly at
// construction rather than read from globals.
type Config struct {
	Content *content.Store
	Issuer  *identity.Issuer
	Metrics *metrics.Store // nil disables visitor tracking

	// Timings paces the hero animation. Zero fields use the defaults.
	Timings typing.Timings

	// TemplatesGlob and StaticDir are empty in tests that only exercise
	// the JSON and SSE endpoints.
	TemplatesGlob string
	StaticDir     string
	ImagesDir     string
}

// New builds the gin engine with all routes registered.
func New(cfg Config) *gin.Engine {
	r := gin.Default()

	if cfg.TemplatesGlob != "" {
		r.LoadHTMLGlob(cfg.TemplatesGlob)
	}
	if cfg.StaticDir != "" {
		r.Static("/static", cfg.StaticDir)
	}
	if cfg.ImagesDir != "" {
		r.Static("/images", cfg.ImagesDir)
	}

	if cfg.Metrics != nil {
		r.Use(trackVisitors(cfg.Metrics))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	r.GET("/", func(c *gin.Context) {
		site := cfg.Content.Site()
		c.HTML(http.StatusOK, "index.html", gin.H{
			"hero":     site.Hero,
			"about":    site.About,
			"projects": site.Projects,
			"skills":   site.Skills,
			"contact":  site.Contact,
		})
	})

	// HTMX fragment endpoints, loaded on demand by the page.
	r.GET("/contact-form", func(c *gin.Context) {
		c.HTML(http.StatusOK, "contact.html", gin.H{
			"contact": cfg.Content.Site().Contact,
		})
	})
	r.GET("/work-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "experience.html", gin.H{
			"heading": "Work Experience",
			"entries": cfg.Content.Site().Work,
		})
	})
	r.GET("/education-content", func(c *gin.Context) {
		c.HTML(http.StatusOK, "experience.html", gin.H{
			"heading": "Education",
			"entries": cfg.Content.Site().Education,
		})
	})

	r.GET("/hero-stream", heroStream(cfg))
	r.POST("/session", session(cfg.Issuer))

	return r
}

// heroStream runs one typing animation per connection and pushes frames to
// the browser over SSE. The request context cancels the animator when the
// client goes away, so a disconnected stream leaves nothing running.
func heroStream(cfg Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctrl, err := typing.New(cfg.Content.Site().Hero.Phrases, cfg.Timings)
		if err != nil {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		ctx := c.Request.Context()
		frames := make(chan typing.Frame, 1)
		anim := typing.Animate(ctx, ctrl, func(f typing.Frame) {
			select {
			case frames <- f:
			case <-ctx.Done():
			}
		})
		defer anim.Stop()

		c.Stream(func(w io.Writer) bool {
			select {
			case f := <-frames:
				c.SSEvent("frame", f)
				return true
			case <-ctx.Done():
				return false
			}
		})
	}
}

type sessionRequest struct {
	Token string `json:"token"`
}

// session bootstraps a visitor identity. With no token the visitor gets a
// fresh anonymous ID; with a custom token the embedded ID is returned after
// verification.
func session(issuer *identity.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req sessionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request"})
				return
			}
		}

		if req.Token != "" {
			uid, err := issuer.Verify(req.Token)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"uid": uid})
			return
		}
		c.JSON(http.StatusOK, gin.H{"uid": issuer.Anonymous()})
	}
}

// trackVisitors records page views, skipping assets and infrastructure
// endpoints and honoring Do Not Track.
func trackVisitors(store *metrics.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/static/") ||
			strings.HasPrefix(path, "/images/") ||
			strings.HasPrefix(path, "/favicon") ||
			path == "/healthz" ||
			path == "/hero-stream" {
			c.Next()
			return
		}
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		// Off the request path; a lost row is fine.
		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			if err := store.Record(ip, ua, path); err != nil {
				log.Printf("error recording visit: %v", err)
			}
		}()
		c.Next()
	}
}

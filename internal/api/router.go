package api

import (
	"go-bi-stack/internal/api/handler"
	"go-bi-stack/pkg/router"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-bi-stack/docs"
)

func RegisterRoutes(r *router.Router, h *handler.Handler) {
	r.POST("/generate", h.Generate)
	r.GET("/download/*", h.Download)

	r.GET("/api/v1/generations", h.ListGenerations)
	r.GET("/api/v1/generations/*", h.GetGeneration)

	// More specific routes first
	r.GET("/api/v1/dashboard/export", h.ExportDashboard)
	r.GET("/api/v1/dashboard", h.Dashboard)

	r.GET("/healthz", h.Health)
	r.GET("/metrics", h.Metrics().Handler().ServeHTTP)
	r.Mount("/swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
}

// Package httpapi wires the HTTP routes of the render service.
package httpapi

import (
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/josmany3000/Render-videos04/internal/httpapi/handlers"
	"github.com/josmany3000/Render-videos04/internal/httpkit"
	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/pkg/middleware"
	"github.com/josmany3000/Render-videos04/internal/registry"
)

type Deps struct {
	Registry     registry.Store
	Dispatcher   handlers.JobDispatcher
	ProviderName string
	// StaticRoot, when set, is served under /files/ so locally stored
	// renders are reachable through their public URLs.
	StaticRoot string
	Log        *logger.Logger
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.Recovery(d.Log))

	allowedOrigins := envCSV("CORS_ALLOWED_ORIGINS", []string{"*"})
	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(handlers.Deps{
		Registry:     d.Registry,
		Dispatcher:   d.Dispatcher,
		ProviderName: d.ProviderName,
		Log:          d.Log,
	})

	// ---- PROBES ----
	r.Get("/", h.GetLiveness)
	r.Get("/health", h.GetHealth)

	// ---- RENDER JOBS ----
	r.Post("/api/render-video", middleware.WrapHandler(d.Log, h.PostRenderVideo))
	r.Get("/api/job-status/{jobId}", middleware.WrapHandler(d.Log, h.GetJobStatus))

	// ---- EDIT PLANS ----
	r.Post("/generate-video-json", middleware.WrapHandler(d.Log, h.PostGenerateVideoJSON))

	// ---- LOCAL ARTIFACTS ----
	if d.StaticRoot != "" {
		fs := http.StripPrefix("/files/", http.FileServer(http.Dir(d.StaticRoot)))
		r.Get("/files/*", fs.ServeHTTP)
	}

	return r
}

func envCSV(key string, def []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}

package main

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/josmany3000/Render-videos04/internal/adapters/media/ffmpeg"
	"github.com/josmany3000/Render-videos04/internal/httpapi"
	"github.com/josmany3000/Render-videos04/internal/pkg/logger"
	"github.com/josmany3000/Render-videos04/internal/pkg/shutdown"
	"github.com/josmany3000/Render-videos04/internal/registry"
	"github.com/josmany3000/Render-videos04/internal/storage"
	"github.com/josmany3000/Render-videos04/internal/worker"
	"github.com/josmany3000/Render-videos04/internal/worker/fetcher"
	"github.com/josmany3000/Render-videos04/internal/worker/processor"
	"github.com/josmany3000/Render-videos04/internal/worker/util"
)

func main() {
	// Local development convenience; ignored when no .env file exists.
	_ = godotenv.Load()

	log := logger.New(logger.Config{
		Level:       util.Env("LOG_LEVEL", "info"),
		Format:      util.Env("LOG_FORMAT", "json"),
		ServiceName: "render-videos",
		AddSource:   util.BoolEnv("LOG_SOURCE", false),
	})

	log.Info("starting render service", "version", "0.1.0")

	httpPort := util.Env("HTTP_PORT", "8080")
	workRoot := util.Env("WORK_ROOT", "/tmp/render-videos")

	shutdownMgr := shutdown.NewManager(log, 30*time.Second)

	// Job registry (in-memory by default, Redis when configured)
	store, err := registry.New(log)
	if err != nil {
		log.LogFatal("failed to initialize job registry", err)
	}
	if closer, ok := store.(io.Closer); ok {
		shutdownMgr.Register("registry", func(ctx context.Context) error {
			return closer.Close()
		})
	}

	// Storage provider for published artifacts
	log.Info("initializing storage provider")
	sp, err := storage.NewProvider()
	if err != nil {
		log.LogFatal("failed to initialize storage provider", err)
	}
	log.Info("storage provider initialized", "provider", sp.Provider())

	// Media engine
	engine := ffmpeg.New(util.Env("FFMPEG_BIN", "ffmpeg"))

	// Asset fetcher
	fetchTimeout, err := time.ParseDuration(util.Env("FETCH_TIMEOUT", "2m"))
	if err != nil {
		log.LogFatal("invalid FETCH_TIMEOUT", err)
	}

	proc := processor.New(processor.Deps{
		Registry: store,
		Fetcher:  fetcher.NewHTTPClient(fetchTimeout),
		Media:    engine,
		Storage:  sp,
		WorkRoot: workRoot,
		Log:      log,
	})

	dispatcher := worker.NewDispatcher(store, proc, log)
	shutdownMgr.Register("dispatcher", dispatcher.Drain)

	// Local provider renders are served back through /files/
	staticRoot := ""
	if sp.Provider() == "localfs" {
		staticRoot = util.Env("STORAGE_LOCAL_ROOT", "")
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Registry:     store,
		Dispatcher:   dispatcher,
		ProviderName: sp.Provider(),
		StaticRoot:   staticRoot,
		Log:          log,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + httpPort,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	shutdownMgr.Register("http-server", func(ctx context.Context) error {
		log.Info("shutting down HTTP server")
		return server.Shutdown(ctx)
	})

	go func() {
		log.Info("HTTP server listening",
			"addr", server.Addr,
			"port", httpPort,
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.LogFatal("HTTP server failed", err)
		}
	}()

	shutdownMgr.Wait()
}

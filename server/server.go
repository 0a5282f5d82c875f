package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mixfm/cache"
	"mixfm/config"
	"mixfm/core/llm"
	"mixfm/core/mix"
	"mixfm/core/tags"
	"mixfm/db"
	"mixfm/logger"
	"mixfm/model"
	"mixfm/repository"
	"mixfm/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()
	logger.InitLogger(logger.Config{
		Level:      logger.LogLevel(cfg.LogLevel),
		OutputPath: cfg.LogPath,
		MaxSize:    100,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	if err := storage.InitMinio(cfg); err != nil {
		logger.Fatal("Failed to initialize MinIO", logger.ErrorField(err))
	}

	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()
	if err := db.AutoMigrateModels(&model.Playlist{}, &model.PlaylistItem{}); err != nil {
		logger.Fatal("Failed to migrate playlist tables", logger.ErrorField(err))
	}

	// Redis is optional: without it the top-tracks endpoint just skips the cache.
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, continuing without cache", logger.ErrorField(err))
	} else {
		defer cache.CloseRedis()
	}

	trackRepo := repository.NewMySQLTrackRepository()
	tagRepo := repository.NewMySQLTagRepository()
	playlistRepo := repository.NewGormPlaylistRepository(db.GormDB)

	llmClient := llm.FromAppConfig(cfg)
	if llmClient == nil {
		logger.Warn("No LLM API key configured, mixes will use random selection")
	}

	statsCache := cache.NewTopTracksCache()
	planner := mix.NewPlanner(trackRepo, tagRepo, llmClient)
	materializer := mix.NewMaterializer(trackRepo, playlistRepo, statsCache)
	suggester := tags.NewSuggester(tagRepo, llmClient)

	apiHandler := NewAPIHandler(trackRepo, tagRepo, playlistRepo, planner, materializer, suggester, statsCache, cfg)

	router := mux.NewRouter()
	router.Use(corsMiddleware)

	router.HandleFunc("/tracks/upload/", apiHandler.UploadTrackHandler).Methods(http.MethodPost)
	router.HandleFunc("/tracks/", apiHandler.GetTracksHandler).Methods(http.MethodGet)
	router.HandleFunc("/tracks/{id:[0-9]+}/", apiHandler.DeleteTrackHandler).Methods(http.MethodDelete)

	router.HandleFunc("/tags/", apiHandler.GetTagsHandler).Methods(http.MethodGet)
	router.HandleFunc("/tags/suggest/", apiHandler.SuggestTagsHandler).Methods(http.MethodPost)

	router.HandleFunc("/generate-mix/", apiHandler.GenerateMixHandler).Methods(http.MethodPost)
	router.HandleFunc("/playlists/{id:[0-9]+}/", apiHandler.GetPlaylistHandler).Methods(http.MethodGet)

	router.HandleFunc("/stats/top-tracks/", apiHandler.TopTracksHandler).Methods(http.MethodGet)

	router.PathPrefix("/media/").HandlerFunc(apiHandler.MediaHandler).Methods(http.MethodGet)

	server.Handler = router

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Server starting", logger.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", logger.ErrorField(err))
		}
	}()

	<-stop
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	logger.Info("Server stopped")
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"flightchat/config"
	"flightchat/handlers"
	"flightchat/logger"
	"flightchat/metrics"
	"flightchat/middleware"
	"flightchat/nlp"
	"flightchat/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	log := logger.New(os.Stdout, cfg.IsDevelopment())
	slog.SetDefault(log)

	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The NER model is loaded once here and shared read-only by every request.
	dates := nlp.NewWhenDateParser()
	recognizer, err := nlp.LoadRecognizer(cfg.NERModelPath, dates, log)
	if err != nil {
		log.Error("Failed to load NER model", slog.Any("error", err))
		os.Exit(1)
	}
	extractor := nlp.NewExtractor(recognizer, dates)

	m := metrics.New()

	skyScrapper := services.NewSkyScrapper(services.SkyScrapperConfig{
		BaseURL: cfg.SkyScrapperURL,
		APIKey:  cfg.RapidAPIKey,
		APIHost: cfg.RapidAPIHost,
		Locale:  cfg.AirportLocale,
		Timeout: cfg.ProviderTimeout,
	}, m, log)

	chat := services.NewChatClient(services.ChatConfig{
		BaseURL: cfg.ChatBaseURL,
		APIKey:  cfg.ChatAPIKey,
		APIHost: cfg.ChatAPIHost,
		Model:   cfg.ChatModel,
		Timeout: cfg.ProviderTimeout,
	}, m, log)

	assistant := services.NewAssistant(extractor, chat, skyScrapper, log)

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Metrics(m),
	)

	// CORS: localhost dev servers plus configured frontend origins
	allowedOrigins := append([]string{"http://localhost:5173", "http://localhost:3000"}, cfg.FrontendURL...)
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	handlers.New(extractor, recognizer, assistant, skyScrapper, log).Register(r)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelError),
	}

	go func() {
		log.Info("flightchat backend starting", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server stopped", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
		return
	}
	log.Info("HTTP server gracefully stopped")
}

package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/servicetrack/backend/internal/auth"
	"github.com/servicetrack/backend/internal/config"
	"github.com/servicetrack/backend/internal/garage"
	"github.com/servicetrack/backend/internal/middleware"
	"github.com/servicetrack/backend/internal/store"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect")
	}
	defer pgPool.Close()
	pgStore := store.NewPostgres(pgPool)
	if err := pgStore.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres migrate")
	}

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()
	tokens := auth.NewRedisTokenStore(rdb)

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(pgStore, tokens)
	garageHandler := garage.NewHandler(garage.NewService(pgStore, garage.NewVINClient(cfg.VINDecoderURL)))

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	requireAuth := middleware.RequireAuth(tokens)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.With(requireAuth).Get("/profile", authHandler.Profile)
		r.With(requireAuth).Put("/update", authHandler.Update)
	})

	// Vehicle routes (protected)
	r.Route("/vehicles", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", garageHandler.CreateVehicle)
		r.Get("/", garageHandler.ListVehicles)
		r.Get("/{id}", garageHandler.GetVehicle)
		r.Put("/{id}", garageHandler.UpdateVehicle)
		r.Delete("/{id}", garageHandler.DeleteVehicle)
	})

	// Service record routes (protected)
	r.Route("/service-records", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", garageHandler.CreateServiceRecord)
		r.Get("/", garageHandler.ListServiceRecords)
		r.Get("/{id}", garageHandler.GetServiceRecord)
		r.Put("/{id}", garageHandler.UpdateServiceRecord)
		r.Delete("/{id}", garageHandler.DeleteServiceRecord)
	})

	// Reminder routes (protected)
	r.Route("/reminders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", garageHandler.CreateReminder)
		r.Get("/", garageHandler.ListReminders)
		r.Get("/{id}", garageHandler.GetReminder)
		r.Put("/{id}", garageHandler.UpdateReminder)
		r.Delete("/{id}", garageHandler.DeleteReminder)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}

package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"datefinder/internal/api"
	"datefinder/internal/config"
	"datefinder/internal/realtime"
	"datefinder/internal/repository"
	"datefinder/internal/repository/memory"
	"datefinder/internal/service"
)

func main() {
	godotenv.Load()

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	var store service.EventStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open database")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		store = repository.NewEventRepository(db)
	} else {
		log.Warn().Msg("DATEFINDER_DATABASE_URL not set, using in-memory store")
		store = memory.NewStore()
	}

	hub := realtime.NewHub()
	svc := service.NewEventService(store, hub)
	sender := service.NewSenderService(cfg.BaseURL)
	jobs := service.NewJobService(store, hub)

	c := cron.New()
	if _, err := c.AddFunc(cfg.PurgeCron, func() {
		if err := jobs.PurgeEndedEvents(context.Background(), cfg.RetentionDays); err != nil {
			log.Error().Err(err).Msg("purge job failed")
		}
	}); err != nil {
		log.Fatal().Err(err).Str("spec", cfg.PurgeCron).Msg("invalid purge cron spec")
	}
	c.Start()

	eventHandler := api.NewEventHandler(svc, hub, cfg.RankedLimit)
	identityHandler := api.NewIdentityHandler(svc)
	inviteHandler := api.NewInviteHandler(svc, sender)

	r := mux.NewRouter()

	r.HandleFunc("/api/events", eventHandler.CreateEvent).Methods("POST")
	r.HandleFunc("/api/events/{code}", eventHandler.GetEvent).Methods("GET")
	r.HandleFunc("/api/events/{code}/calendar", eventHandler.GetCalendar).Methods("GET")
	r.HandleFunc("/api/events/{code}/results", eventHandler.GetResults).Methods("GET")
	r.HandleFunc("/api/events/{code}/stream", eventHandler.Stream).Methods("GET")
	r.HandleFunc("/api/events/{code}/dates/{date}/ics", eventHandler.DownloadICS).Methods("GET")

	r.HandleFunc("/api/events/{code}/participants/{participantID}/toggle", eventHandler.ToggleDate).Methods("POST")
	r.HandleFunc("/api/events/{code}/participants/{participantID}/dates", eventHandler.ReplaceDates).Methods("PUT")

	r.HandleFunc("/api/events/{code}/names", identityHandler.ProposeName).Methods("POST")
	r.HandleFunc("/api/events/{code}/names/confirm", identityHandler.ConfirmName).Methods("POST")

	r.HandleFunc("/api/events/{code}/invites", inviteHandler.SendInvite).Methods("POST")

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)

	addr := cfg.HTTPAddr()
	log.Info().Str("addr", addr).Msg("server listening")
	if err := http.ListenAndServe(addr, handlers.LoggingHandler(os.Stdout, cors(r))); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

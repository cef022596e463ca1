package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"tactics-arena/internal/api"
	"tactics-arena/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables only")
	}

	appConfig := config.Load()

	log.Println("tactics-arena match server")
	log.Printf("config: action_timeout=%dms death_choice_timeout=%dms draft_timeout=%dms",
		appConfig.Timers.ActionTimeoutMS, appConfig.Timers.DeathChoiceTimeoutMS, appConfig.Timers.DraftTimeoutMS)
	log.Printf("config: max_concurrent_matches=%d mailbox_buffer=%d match_grace_ms=%d",
		appConfig.Limits.MaxConcurrentMatches, appConfig.Limits.MailboxBuffer, appConfig.Limits.MatchGraceMS)

	debugCfg := api.DefaultObservabilityConfig()
	if appConfig.Server.ObservabilityAddr != "" {
		debugCfg.ListenAddr = appConfig.Server.ObservabilityAddr
	}
	if os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(debugCfg); err != nil {
			log.Printf("observability server disabled: %v", err)
		}
	}

	server := api.NewServer(appConfig)

	go func() {
		addr := appConfig.Server.ListenAddr
		log.Printf("api: listening on %s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")
	server.Stop()
	log.Println("goodbye")
}

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/motion-studio/briefing-backend/config"
	"github.com/motion-studio/briefing-backend/internal/auth"
	"github.com/motion-studio/briefing-backend/internal/bootstrap"
	"github.com/motion-studio/briefing-backend/internal/briefing/mirror"
	"github.com/motion-studio/briefing-backend/internal/briefing/snapshot"
	"github.com/motion-studio/briefing-backend/internal/briefing/workspace"
)

const serviceName = "briefing-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	localMirror, err := mirror.OpenSQLite(cfg.Storage.MirrorPath)
	if err != nil {
		log.Fatalf("mirror: %v", err)
	}
	defer localMirror.Close()

	gate := auth.NewGate(auth.StaticVerifier{
		Client: auth.Credential{Username: cfg.Auth.ClientUsername, Password: cfg.Auth.ClientPassword},
		Admin:  auth.Credential{Username: cfg.Auth.AdminUsername, Password: cfg.Auth.AdminPassword},
	}, cfg.Auth.ClientUsername)

	if cfg.Snapshot.Enabled {
		scheduler := snapshot.NewScheduler(store.Gateway, cfg.Snapshot.Dir, cfg.Auth.ClientUsername)
		if err := scheduler.Start(cfg.Snapshot.Schedule); err != nil {
			log.Fatalf("snapshot: %v", err)
		}
		defer scheduler.Stop()
	}

	registry := workspace.NewRegistry(store.Gateway, localMirror, workspace.WithMaxSessions(cfg.Session.MaxSessions))
	if cfg.Session.IdleTimeout > 0 {
		stopSweeper, err := registry.StartSweeper(cfg.Session.IdleTimeout)
		if err != nil {
			log.Fatalf("sessions: %v", err)
		}
		defer stopSweeper()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		Backend:        cfg.Storage.Backend,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		GatewayAPIKey:  cfg.Server.GatewayAPIKey,
		LoginRate:      cfg.Server.LoginRate,
		LoginBurst:     cfg.Server.LoginBurst,
		Store:          store.Gateway,
		Pinger:         store.Pinger,
		Gate:           gate,
		Registry:       registry,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("listening on :%s (backend=%s)", cfg.Server.Port, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

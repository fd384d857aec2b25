package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"journal/internal/adapter/firestore"
	adapthttp "journal/internal/adapter/http"
	"journal/internal/adapter/memory"
	"journal/internal/adapter/postgres"
	"journal/internal/adapter/sqlite"
	"journal/internal/app"
	"journal/internal/config"
	"journal/internal/domain"
	"journal/internal/logger"
	"journal/internal/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// store bundles the repositories of one backend.
type store struct {
	entries  domain.EntryRepository
	users    domain.UserRepository
	sessions domain.SessionRepository
	ping     func(context.Context) error
	close    func() error
}

func openStore(ctx context.Context, cfg config.Journald) (*store, error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		return &store{db, db, postgres.NewSessionRepo(db), db.Ping, db.Close}, nil
	case config.StoreSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite: %w", err)
		}
		return &store{db, db, sqlite.NewSessionRepo(db), db.Ping, db.Close}, nil
	case config.StoreFirestore:
		db, err := firestore.Open(ctx, cfg.FirestoreProject, cfg.FirestoreCredentials)
		if err != nil {
			return nil, fmt.Errorf("firestore: %w", err)
		}
		return &store{db, db, firestore.NewSessionRepo(db), db.Ping, db.Close}, nil
	}
	db := memory.New()
	return &store{
		entries:  db,
		users:    db,
		sessions: db.NewSessionRepo(),
		ping:     func(context.Context) error { return nil },
		close:    func() error { return nil },
	}, nil
}

func main() {
	log := logger.New("journald")
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	if err := run(log); err != nil {
		log.Fatal().Stack().Err(err).Msg("journald stopped")
	}
}

func run(log zerolog.Logger) error {
	var cfg config.Journald
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.close() }()

	authSvc := app.NewAuthService(st.users, st.sessions, cfg.SessionTTL)
	journalSvc := app.NewJournalService(st.entries)

	srv := adapthttp.New(journalSvc, authSvc, log).
		WithMetrics(metrics.New("api")).
		WithSecureCookies(cfg.SecureCookies).
		WithHealthCheck(st.ping)
	if cfg.OIDC.Enabled() {
		oidcCfg, err := adapthttp.NewOIDCConfig(ctx, cfg.OIDC.Issuer, cfg.OIDC.ClientID, cfg.OIDC.ClientSecret, cfg.OIDC.RedirectURL)
		if err != nil {
			return fmt.Errorf("oidc: %w", err)
		}
		srv = srv.WithOIDC(oidcCfg)
		log.Info().Str("issuer", cfg.OIDC.Issuer).Msg("single sign-on enabled")
	}

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("store", cfg.Store).Msg("listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		sweepSessions(ctx, authSvc, cfg.SweepInterval, log)
		return nil
	})
	return g.Wait()
}

// sweepSessions removes expired sessions every interval until ctx ends.
func sweepSessions(ctx context.Context, auth *app.AuthService, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := auth.SweepExpired(ctx); err != nil {
				log.Error().Err(err).Msg("sweep expired sessions")
			}
		}
	}
}

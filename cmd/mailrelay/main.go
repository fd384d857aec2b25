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

	adapthttp "journal/internal/adapter/http"
	"journal/internal/adapter/mail"
	"journal/internal/app"
	"journal/internal/config"
	"journal/internal/domain"
	"journal/internal/logger"
	"journal/internal/metrics"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

func newMailer(cfg config.Relay) (domain.Mailer, error) {
	if cfg.Provider == config.MailEmailJS {
		return mail.NewEmailJS(mail.EmailJSConfig{
			BaseURL:    cfg.EmailJS.BaseURL,
			ServiceID:  cfg.EmailJS.ServiceID,
			TemplateID: cfg.EmailJS.TemplateID,
			PublicKey:  cfg.EmailJS.PublicKey,
			PrivateKey: cfg.EmailJS.PrivateKey,
			To:         cfg.To,
			Timeout:    cfg.EmailJS.Timeout,
		}), nil
	}
	return mail.NewSMTP(mail.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		To:       cfg.To,
	})
}

func main() {
	log := logger.New("mailrelay")
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	if err := run(log); err != nil {
		log.Fatal().Stack().Err(err).Msg("mailrelay stopped")
	}
}

func run(log zerolog.Logger) error {
	var cfg config.Relay
	if err := config.ParseEnv(&cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	mailer, err := newMailer(cfg)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}
	relay := adapthttp.NewRelay(app.NewContactService(mailer), log).
		WithMetrics(metrics.New("relay")).
		WithAllowedOrigins(cfg.AllowedOrigins)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           relay.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("provider", cfg.Provider).Msg("listening")
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
	return g.Wait()
}

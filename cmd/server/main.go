// Command server wires high-level dependencies, exposes the HTTP router, and
// keeps the process lifecycle small. Business logic lives in the internal
// services packages.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"streamgate/internal/admin"
	"streamgate/internal/adminauth"
	"streamgate/internal/admintoken"
	"streamgate/internal/magiclink"
	"streamgate/internal/payment"
	"streamgate/internal/platform/config"
	"streamgate/internal/platform/httpserver"
	"streamgate/internal/platform/logger"
	"streamgate/internal/platform/metrics"
	"streamgate/internal/platform/postgres"
	platformredis "streamgate/internal/platform/redis"
	"streamgate/internal/session"
	httptransport "streamgate/internal/transport/http"
	"streamgate/internal/user"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// Config problems must stop the process before it serves anything.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	redisClient, err := platformredis.New(ctx, cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var (
		sessionStore session.Store
		userStore    user.Store
		adminStore   admin.Store
		paymentStore payment.Store
	)
	if db != nil {
		sessionStore = session.NewPostgresStore(db)
		userStore = user.NewPostgresStore(db)
		adminStore = admin.NewPostgresStore(db)
		paymentStore = payment.NewPostgresStore(db)
	} else {
		log.Warn("no DATABASE_URL configured, using in-memory stores")
		sessionStore = session.NewMemoryStore()
		userStore = user.NewMemoryStore()
		adminStore = admin.NewMemoryStore()
		paymentStore = payment.NewMemoryStore()
	}

	var tokenStore magiclink.TokenStore
	if redisClient != nil {
		tokenStore = magiclink.NewRedisTokenStore(redisClient.Client)
	} else {
		log.Warn("no REDIS_URL configured, magic links will not survive restarts")
		tokenStore = magiclink.NewMemoryTokenStore()
	}

	var mailer magiclink.Mailer
	if cfg.ResendAPIKey != "" {
		mailer = magiclink.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom)
	} else {
		log.Warn("no RESEND_API_KEY configured, magic links will be logged instead of sent")
		mailer = logMailer{log: log}
	}

	m := metrics.New()
	codec := admintoken.New(cfg.SigningSecret)
	guard := adminauth.NewGuard(codec, log)

	sessions := session.NewManager(sessionStore, log)
	gate := session.NewGate(sessions, m, log)
	reaper := session.NewReaper(sessions, m, log, cfg.SessionIdleTTL, cfg.ReapInterval)

	magic := magiclink.NewService(userStore, tokenStore, mailer, m, log, cfg.BaseURL, cfg.MagicLinkTTL)
	admins := admin.NewService(adminStore, codec, m, log)
	payments := payment.NewService(paymentStore, userStore, log)

	handler := httptransport.NewHandler(magic, gate, sessions, admins, guard, payments, m, log, cfg.WebhookSecret)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting streamgate", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reaper.Run(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// logMailer is the development fallback when no delivery service is
// configured. It logs the link instead of sending it.
type logMailer struct {
	log interface {
		Info(msg string, args ...any)
	}
}

func (m logMailer) SendMagicLink(_ context.Context, recipient, link string, expiry time.Duration) error {
	m.log.Info("magic link (not sent)", "recipient", recipient, "link", link, "expires_in", expiry)
	return nil
}

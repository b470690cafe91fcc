package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/altilhabela/portal/internal/auth"
	"github.com/altilhabela/portal/internal/candidatura"
	"github.com/altilhabela/portal/internal/config"
	"github.com/altilhabela/portal/internal/db"
	internalhttp "github.com/altilhabela/portal/internal/http"
	"github.com/altilhabela/portal/internal/imovel"
	"github.com/altilhabela/portal/internal/lifecycle"
	"github.com/altilhabela/portal/internal/noticia"
	"github.com/altilhabela/portal/internal/notify"
	"github.com/altilhabela/portal/internal/parceiro"
	"github.com/altilhabela/portal/internal/service"
	"github.com/altilhabela/portal/internal/storage"
	"github.com/altilhabela/portal/internal/usuario"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	var mailer notify.Mailer
	if cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP não configurado; e-mails serão descartados")
		mailer = notify.NewNoopMailer(log.Logger)
	}
	notifier := notify.NewDispatcher(mailer, log.Logger)
	defer notifier.Wait()

	var objectStore storage.ObjectStore
	if cfg.Storage.Bucket != "" {
		objectStore, err = storage.NewS3Store(cfg.Storage)
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
	} else {
		log.Warn().Msg("bucket não configurado; uploads desabilitados")
		objectStore = storage.NoopStore{}
	}

	usuarios := usuario.NewRepository(pool)
	candidaturas := candidatura.NewService(candidatura.NewRepository(pool), usuarios, log.Logger)
	imoveis := imovel.NewService(imovel.NewRepository(pool), log.Logger)
	parceiros := parceiro.NewService(parceiro.NewRepository(pool), log.Logger)
	noticias := noticia.NewService(noticia.NewRepository(pool), log.Logger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	sessions := service.NewRedisSessions(redisClient)
	authService := service.NewAuthService(usuarios, sessions, jwtManager, notifier, cfg.JWTRefreshTTL, cfg.PortalURL, log.Logger)

	engine := lifecycle.NewService(lifecycle.NewPgStore(pool), notifier, cfg.PortalURL, log.Logger)

	handler := internalhttp.NewRouter(internalhttp.Deps{
		Cfg:          cfg,
		AuthService:  authService,
		Usuarios:     usuarios,
		Candidaturas: candidaturas,
		Imoveis:      imoveis,
		Parceiros:    parceiros,
		Noticias:     noticias,
		Engine:       engine,
		Notifier:     notifier,
		Storage:      objectStore,
		JWT:          jwtManager,
		Ready: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return fmt.Errorf("postgres: %w", err)
			}
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			return nil
		},
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

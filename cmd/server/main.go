package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"account-api/internal/config"
	apphttp "account-api/internal/http"
	"account-api/internal/mail"
	"account-api/internal/password"
	"account-api/internal/repository"
	"account-api/internal/repository/postgres"
	"account-api/internal/repository/sqlite"
	"account-api/internal/service"
	"account-api/internal/token"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	configureLogger(logger, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open database: %v", err)
	}
	defer store.Close()

	if err := store.Init(ctx); err != nil {
		logger.Fatalf("init store: %v", err)
	}

	privateKey, publicKey, err := token.LoadKeyPair(cfg.JWT.PrivateKeyPath, cfg.JWT.PublicKeyPath)
	if err != nil {
		logger.Fatalf("load jwt keys: %v", err)
	}
	codec := token.NewCodec(privateKey, publicKey)

	smtpClient, err := mail.NewSMTPClient(mail.SMTPConfig{
		Host:     cfg.Email.Host,
		Port:     cfg.Email.Port,
		Username: cfg.Email.Username,
		Password: cfg.Email.Password,
		TLS:      cfg.Email.TLS,
	})
	if err != nil {
		logger.Fatalf("setup smtp: %v", err)
	}
	sender := mail.NewSender(mail.Config{
		From:      cfg.Email.Sender,
		Subject:   cfg.Email.Subject,
		PlainText: cfg.Email.PlainText,
	}, smtpClient)

	hasher := password.NewBcryptHasher(cfg.Auth.BcryptCost)
	userService := service.NewUserService(store, hasher, logger)
	authService, err := service.NewAuthService(store, hasher, codec, sender, service.TokenConfig{
		AccessTTL:  time.Duration(cfg.JWT.AccessTokenExpireMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.JWT.RefreshTokenExpireDays) * 24 * time.Hour,
	}, logger)
	if err != nil {
		logger.Fatalf("setup auth service: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	handler := apphttp.NewHandler(userService, authService, logger)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Infof("listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("http server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}

	logger.Info("bye")
}

func configureLogger(logger *logrus.Logger, cfg config.Config) {
	if cfg.Log.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		logger.Warnf("unknown log level %q, using info", cfg.Log.Level)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
}

func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		db, err := sqlite.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		return sqlite.NewStore(db), nil
	case "postgres":
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

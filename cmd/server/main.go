package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"lensfolio/internal/app"
	"lensfolio/internal/config"
	"lensfolio/internal/notify"
	"lensfolio/internal/ratelimit"
	"lensfolio/internal/server"
	"lensfolio/internal/util"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	sessionTTL, err := config.ParseSessionTTL(cfg.SessionTTL)
	if err != nil {
		log.Fatalf("failed to parse session TTL: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	appCore, err := app.New(app.Config{
		DatabaseURL:    cfg.DatabaseURL,
		RedisAddr:      cfg.RedisAddr,
		RedisPassword:  cfg.RedisPassword,
		SessionSecret:  cfg.SessionSecret,
		SessionTTL:     sessionTTL,
		UploadsDir:     cfg.UploadsDir,
		MinioEndpoint:  cfg.MinioEndpoint,
		MinioAccessKey: cfg.MinioAccessKey,
		MinioSecretKey: cfg.MinioSecretKey,
		MinioBucket:    cfg.MinioBucket,
		MinioUseSSL:    cfg.MinioUseSSL,
		AdminUsername:  cfg.AdminUsername,
		AdminPassword:  cfg.AdminPassword,
		Notifier:       buildNotifier(cfg),
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	var loginLimiter *ratelimit.FixedWindowLimiter
	if cfg.RedisAddr != "" && cfg.LoginRateLimitPerMinute > 0 {
		loginLimiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "login", cfg.LoginRateLimitPerMinute, time.Minute)
		if err != nil {
			log.Fatalf("failed to init login rate limiter: %v", err)
		}
	}

	httpServer := server.New(server.Config{
		App:            appCore,
		LoginLimiter:   loginLimiter,
		AllowedOrigins: cfg.AllowedOrigins,
		TrustForwarded: cfg.TrustForwarded,
		SessionTTL:     sessionTTL,
		MaxUploadBytes: cfg.MaxUploadBytes,
		SecureCookies:  cfg.SecureCookies,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

// buildNotifier checks channel configuration once at startup; a channel
// missing any credential stays unconfigured for the process lifetime.
func buildNotifier(cfg config.FileConfig) *notify.Notifier {
	var email notify.EmailSender
	if cfg.EmailAPIKey != "" && cfg.EmailFrom != "" && cfg.EmailTo != "" {
		email = notify.NewEmailService(cfg.EmailAPIKey, cfg.EmailFrom, cfg.EmailTo)
	} else {
		slog.Warn("email credentials absent, contact emails disabled")
	}

	var sms notify.SMSSender
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" && cfg.TwilioFromNumber != "" && cfg.TwilioToNumber != "" {
		sms = notify.NewSMSService(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.TwilioToNumber)
	} else {
		slog.Warn("SMS credentials absent, contact SMS disabled")
	}

	return notify.NewNotifier(email, sms)
}

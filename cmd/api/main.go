package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/resqlink/dispatch-api/internal/config"
	"github.com/resqlink/dispatch-api/internal/email"
	"github.com/resqlink/dispatch-api/internal/handler"
	casesHandler "github.com/resqlink/dispatch-api/internal/handler/cases"
	hospitalHandler "github.com/resqlink/dispatch-api/internal/handler/hospital"
	memberHandler "github.com/resqlink/dispatch-api/internal/handler/member"
	"github.com/resqlink/dispatch-api/internal/middleware"
	"github.com/resqlink/dispatch-api/internal/repository/postgres"
	"github.com/resqlink/dispatch-api/internal/router"
	auditService "github.com/resqlink/dispatch-api/internal/service/audit"
	casesService "github.com/resqlink/dispatch-api/internal/service/cases"
	hospitalService "github.com/resqlink/dispatch-api/internal/service/hospital"
	memberService "github.com/resqlink/dispatch-api/internal/service/member"
	"github.com/resqlink/dispatch-api/internal/service/sbar"
	"github.com/resqlink/dispatch-api/pkg/auth"
	"github.com/resqlink/dispatch-api/pkg/logger"
	"github.com/resqlink/dispatch-api/pkg/metrics"
	"github.com/resqlink/dispatch-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("dispatch")

	base := postgres.NewBaseRepository(db)
	caseRepo := postgres.NewCaseRepository(base)
	auditRepo := postgres.NewAuditRepository(base)
	memberRepo := postgres.NewMemberRepository(base)
	hospitalRepo := postgres.NewHospitalRepository(base)

	auditSvc := auditService.NewService(auditRepo)
	caseSvc := casesService.NewService(&base, caseRepo, memberRepo, hospitalRepo, auditSvc, appMetrics)
	memberSvc := memberService.NewService(memberRepo)
	hospitalSvc := hospitalService.NewService(hospitalRepo)
	sbarGen := sbar.NewGenerator(cfg.Service.Name)
	mailer := email.NewService(cfg.SMTP)

	validate := validator.New()

	casesH := casesHandler.NewHandler(caseSvc, auditSvc, sbarGen, mailer, appLogger)
	memberH := memberHandler.NewHandler(memberSvc, validate)
	hospitalH := hospitalHandler.NewHandler(hospitalSvc, validate)
	h := handler.NewHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(auth.NewTokenService(cfg.JWT.Secret))

	r := router.NewRouter(authMiddleware, casesH, memberH, hospitalH, h, router.RouterConfig{
		RateLimitRPS:  50,
		RateBurst:     100,
		Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		CORSConfig:    middleware.DefaultCORSConfig(),
		MetricsPrefix: "dispatch_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}

package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "rentdesk-backend/internal/adapter/http"
	"rentdesk-backend/internal/adapter/middleware"
	"rentdesk-backend/internal/adapter/repository/mysql"
	"rentdesk-backend/internal/config"
	"rentdesk-backend/internal/infrastructure/cache"
	"rentdesk-backend/internal/infrastructure/db"
	agreementuc "rentdesk-backend/internal/usecase/agreement"
	tenancyuc "rentdesk-backend/internal/usecase/tenancy"
	unituc "rentdesk-backend/internal/usecase/unit"
	useruc "rentdesk-backend/internal/usecase/user"
	"rentdesk-backend/internal/wizard"
	"rentdesk-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	zl := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = zl.Sync() }()

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		zl.Fatal("mysql connect failed", zap.Error(err))
	}
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		zl.Fatal("redis connect failed", zap.Error(err))
	}

	// repositories
	userRepo := mysql.NewUserRepository(gdb)
	unitRepo := mysql.NewUnitRepository(gdb)
	agreementRepo := mysql.NewAgreementRepository(gdb)
	tenancyRepo := mysql.NewTenancyRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	// usecases
	userUC := useruc.NewUsecase(userRepo, cfg.JWTSecret, 24*time.Hour)
	unitUC := unituc.NewUsecase(unitRepo)
	agreementUC := agreementuc.NewUsecase(uow, agreementRepo, unitRepo, userRepo)
	tenancyUC := tenancyuc.NewUsecase(uow, tenancyRepo)

	// wizard: drafts in redis, resource operations through the local usecases
	wizardStore := wizard.NewRedisStore(rdb, time.Duration(cfg.WizardTTLSecs)*time.Second)
	orc := wizard.NewOrchestrator(wizardStore, agreementUC, tenancyUC, userUC, wizard.LogNotifier{Log: zl}, zl)

	// handlers
	h := httpadp.NewHandler()
	userH := httpadp.NewUserHandler(userUC)
	unitH := httpadp.NewUnitHandler(unitUC)
	agreementH := httpadp.NewAgreementHandler(agreementUC)
	tenancyH := httpadp.NewTenancyHandler(tenancyUC)
	wizardH := httpadp.NewWizardHandler(orc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover(), echomw.RequestID())

	e.GET("/health", h.Health)
	e.POST("/auth/signup", userH.Signup)
	e.POST("/auth/login", userH.Login)

	auth := e.Group("", middleware.JWTAuth(cfg.JWTSecret))
	auth.GET("/auth/me", userH.Me)

	auth.POST("/units", unitH.CreateUnit)
	auth.GET("/units", unitH.ListUnits)
	auth.GET("/units/:unit_id", unitH.GetUnit)

	auth.GET("/users", userH.ListUsers)
	auth.GET("/users/:user_id", userH.GetUser)

	auth.POST("/agreements", agreementH.CreateAgreement)
	auth.GET("/agreements/:agreement_id", agreementH.GetAgreement)
	auth.POST("/agreements/:agreement_id/sign", agreementH.SignAgreement)

	auth.POST("/tenancies", tenancyH.CreateTenancy)
	auth.GET("/tenancies", tenancyH.ListTenancies)
	auth.GET("/tenancies/:tenancy_id", tenancyH.GetTenancy)

	// Wizard mutations are deduped by X-Request-Id so retries never create a
	// second agreement or tenancy.
	idem := middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second, zl)
	wiz := e.Group("/wizard", middleware.JWTAuth(cfg.JWTSecret))
	wiz.POST("", wizardH.Start, idem)
	wiz.GET("/:session_id", wizardH.GetState)
	wiz.PUT("/:session_id/selection", wizardH.SubmitSelection, idem)
	wiz.PUT("/:session_id/rent", wizardH.SubmitRent, idem)
	wiz.POST("/:session_id/clauses", wizardH.SubmitClauses, idem)
	wiz.GET("/:session_id/sign", wizardH.EnterSign)
	wiz.POST("/:session_id/sign/intent", wizardH.SignIntent, idem)
	wiz.POST("/:session_id/sign/confirm", wizardH.SignConfirm, idem)
	wiz.POST("/:session_id/sign/cancel", wizardH.SignCancel, idem)
	wiz.POST("/:session_id/review", wizardH.GoToReview, idem)
	wiz.POST("/:session_id/back", wizardH.Back, idem)
	wiz.POST("/:session_id/tenancy", wizardH.CreateTenancy, idem)
	wiz.POST("/:session_id/reset", wizardH.Reset, idem)

	addr := ":" + cfg.AppPort
	zl.Info("listening", zap.String("addr", addr))
	if err := e.Start(addr); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

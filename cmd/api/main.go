package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paulrajswetha/netcurea-api/internal/config"
	v1 "github.com/paulrajswetha/netcurea-api/internal/handler/v1"
	"github.com/paulrajswetha/netcurea-api/internal/repository"
	"github.com/paulrajswetha/netcurea-api/internal/service"
	"github.com/paulrajswetha/netcurea-api/pkg/auth"
	"github.com/paulrajswetha/netcurea-api/pkg/database"
	"github.com/paulrajswetha/netcurea-api/pkg/logger"
	"github.com/paulrajswetha/netcurea-api/pkg/metrics"
	"github.com/paulrajswetha/netcurea-api/pkg/tracer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		_, _ = os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	tp, err := tracer.Init(cfg.Tracing)
	if err != nil {
		log.Fatal("initializing tracer", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Warn("tracer shutdown", zap.Error(err))
		}
	}()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatal("connecting to database", zap.Error(err))
	}
	if err := database.Migrate(db, log); err != nil {
		log.Fatal("migrating database", zap.Error(err))
	}

	collector := metrics.NewCollector("netcurea")
	jwtMgr := auth.NewJWTManager(cfg.JWT)

	slotRepo := repository.NewSlotRepository(db)
	apptRepo := repository.NewAppointmentRepository(db, slotRepo)
	userRepo := repository.NewUserRepository(db)
	doctorRepo := repository.NewDoctorRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditSvc := service.NewAuditService(auditRepo, collector, log)
	defer auditSvc.Shutdown()

	svcs := v1.Services{
		Auth:         service.NewAuthService(userRepo, jwtMgr, auditSvc, log),
		Availability: service.NewAvailabilityService(slotRepo, apptRepo, doctorRepo, collector, log),
		Appointments: service.NewAppointmentService(apptRepo, doctorRepo, auditSvc, collector, log),
		Doctors:      service.NewDoctorService(doctorRepo),
	}

	router := v1.NewRouter(svcs, jwtMgr, collector, log)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("server listening",
			zap.String("address", cfg.Server.Address()),
			zap.String("environment", cfg.App.Environment),
			zap.String("version", cfg.App.Version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}

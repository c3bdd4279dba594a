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

	"github.com/clinicore/ehr-api/internal/config"
	"github.com/clinicore/ehr-api/internal/email"
	"github.com/clinicore/ehr-api/internal/handler"
	appointmentHandler "github.com/clinicore/ehr-api/internal/handler/appointment"
	authHandler "github.com/clinicore/ehr-api/internal/handler/auth"
	billingHandler "github.com/clinicore/ehr-api/internal/handler/billing"
	clinicalHandler "github.com/clinicore/ehr-api/internal/handler/clinical"
	dashboardHandler "github.com/clinicore/ehr-api/internal/handler/dashboard"
	identityHandler "github.com/clinicore/ehr-api/internal/handler/identity"
	patientHandler "github.com/clinicore/ehr-api/internal/handler/patient"
	reportHandler "github.com/clinicore/ehr-api/internal/handler/report"
	"github.com/clinicore/ehr-api/internal/middleware"
	"github.com/clinicore/ehr-api/internal/repository/postgres"
	"github.com/clinicore/ehr-api/internal/router"
	authService "github.com/clinicore/ehr-api/internal/service/auth"
	billingService "github.com/clinicore/ehr-api/internal/service/billing"
	dashboardService "github.com/clinicore/ehr-api/internal/service/dashboard"
	eventService "github.com/clinicore/ehr-api/internal/service/event"
	identityService "github.com/clinicore/ehr-api/internal/service/identity"
	medicalService "github.com/clinicore/ehr-api/internal/service/medical"
	patientService "github.com/clinicore/ehr-api/internal/service/patient"
	reportService "github.com/clinicore/ehr-api/internal/service/report"
	schedulingService "github.com/clinicore/ehr-api/internal/service/scheduling"
	"github.com/clinicore/ehr-api/pkg/auth"
	"github.com/clinicore/ehr-api/pkg/logger"
	"github.com/clinicore/ehr-api/pkg/validator"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	if err := validator.RegisterCustom(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validations")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	identityRepo := postgres.NewIdentityRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	prescriptionRepo := postgres.NewPrescriptionRepository(db)
	testResultRepo := postgres.NewTestResultRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)
	billingRepo := postgres.NewBillingRepository(db)
	vitalsRepo := postgres.NewVitalsRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	emailSvc := email.NewService(cfg.SMTP)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	identitySvc := identityService.NewService(identityRepo, eventSvc, emailSvc, appLogger)
	authSvc := authService.NewService(identityRepo, jwtSvc)
	dashboardSvc := dashboardService.NewService(doctorRepo, patientRepo, appointmentRepo, prescriptionRepo, testResultRepo, consultationRepo, billingRepo)
	schedulingSvc := schedulingService.NewService(appointmentRepo, patientRepo, doctorRepo, identityRepo, eventSvc, emailSvc, appLogger)
	patientSvc := patientService.NewService(patientRepo, vitalsRepo, eventSvc, appLogger)
	medicalSvc := medicalService.NewService(doctorRepo, patientRepo, prescriptionRepo, consultationRepo, testResultRepo, eventSvc, appLogger)
	billingSvc := billingService.NewService(billingRepo, patientRepo, eventSvc, appLogger)
	reportSvc := reportService.NewService(patientRepo, identityRepo, appointmentRepo, prescriptionRepo, testResultRepo, consultationRepo)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		handler.NewHealthHandler(db),
		authHandler.NewHandler(identitySvc, authSvc),
		identityHandler.NewHandler(identitySvc),
		dashboardHandler.NewHandler(dashboardSvc),
		patientHandler.NewHandler(patientSvc),
		clinicalHandler.NewHandler(medicalSvc),
		appointmentHandler.NewHandler(schedulingSvc),
		billingHandler.NewHandler(billingSvc),
		reportHandler.NewHandler(reportSvc),
		router.RouterConfig{
			RPS:           cfg.RateLimit.RequestsPerSecond,
			Burst:         cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "ehr_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hms/hms/internal/config"
	"github.com/hms/hms/internal/domain/appointment"
	"github.com/hms/hms/internal/domain/bill"
	"github.com/hms/hms/internal/domain/dashboard"
	"github.com/hms/hms/internal/domain/doctor"
	"github.com/hms/hms/internal/domain/labtest"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/treatment"
	"github.com/hms/hms/internal/domain/user"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/httperr"
	"github.com/hms/hms/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "hms-server",
		Short: "Hospital Management API Server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			fmt.Println("---------- ---------------------------------------- ---------- --------------------")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

// seedCmd creates one account per role so a fresh install is usable
// immediately. Existing accounts are left alone.
func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create default accounts for each role",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
			users := user.NewService(user.NewRepoPG(pool), issuer)

			defaults := []user.RegisterInput{
				{Email: "admin@hospital.local", Password: "admin123", FirstName: "System", LastName: "Admin", Role: auth.RoleAdmin},
				{Email: "doctor@hospital.local", Password: "doctor123", FirstName: "Default", LastName: "Doctor", Role: auth.RoleDoctor},
				{Email: "reception@hospital.local", Password: "reception123", FirstName: "Front", LastName: "Desk", Role: auth.RoleReception},
				{Email: "lab@hospital.local", Password: "lab123", FirstName: "Lab", LastName: "Technician", Role: auth.RoleLab},
			}
			for _, in := range defaults {
				u, err := users.Register(ctx, in)
				if err != nil {
					if httperr.IsConflict(err) {
						fmt.Printf("skipped %s (already exists)\n", in.Email)
						continue
					}
					return err
				}
				fmt.Printf("created %s (%s)\n", u.Email, u.Role)
			}
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httperr.EchoHandler(logger, cfg.IsDev())
	e.RouteNotFound("/*", httperr.NotFoundHandler)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1MB"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	// API group
	api := e.Group("/api")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	api.Use(middleware.RateLimit(rateLimitCfg))

	// Services
	issuer := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)

	userSvc := user.NewService(user.NewRepoPG(pool), issuer)
	patientSvc := patient.NewService(patient.NewRepoPG(pool))
	doctorSvc := doctor.NewService(doctor.NewRepoPG(pool))
	apptSvc := appointment.NewService(appointment.NewRepoPG(pool), patientSvc, doctorSvc)
	treatmentSvc := treatment.NewService(treatment.NewRepoPG(pool), patientSvc, doctorSvc)
	labSvc := labtest.NewService(labtest.NewRepoPG(pool), patientSvc, doctorSvc)
	billSvc := bill.NewService(bill.NewRepoPG(pool), patientSvc, doctorSvc, func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.InTx(ctx, pool, fn)
	})

	dashSvc := dashboard.NewService(dashboard.Sources{
		PatientCount:      patientSvc.TotalCount,
		AppointmentCount:  apptSvc.TotalCount,
		AppointmentsToday: apptSvc.CountToday,
		DoctorCount:       doctorSvc.TotalCount,
		LabStats:          labSvc.Overview,
		BillStats:         billSvc.Overview,
		UserStats:         userSvc.Overview,
		DoctorIDForUser: func(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
			d, err := doctorSvc.GetByUserID(ctx, userID)
			if err != nil {
				return uuid.Nil, err
			}
			return d.ID, nil
		},
		DoctorAppointments:      apptSvc.CountForDoctor,
		DoctorAppointmentsToday: apptSvc.CountTodayForDoctor,
		DoctorPatients:          apptSvc.DistinctPatientsForDoctor,
		DoctorTreatments:        treatmentSvc.CountForDoctor,
		DoctorLabTests:          labSvc.CountForDoctor,
	})

	// Routes. Auth routes register themselves partly outside the bearer
	// middleware; everything else goes through it.
	authed := auth.Middleware(issuer, userSvc)

	userHandler := user.NewHandler(userSvc)
	userHandler.RegisterAuthRoutes(api, authed)

	protected := api.Group("", authed)
	userHandler.RegisterUserRoutes(protected)
	patient.NewHandler(patientSvc, patient.SubResources{
		Appointments: func(ctx context.Context, patientID uuid.UUID) (interface{}, error) {
			return apptSvc.ListByPatient(ctx, patientID)
		},
		Treatments: func(ctx context.Context, patientID uuid.UUID) (interface{}, error) {
			return treatmentSvc.ListByPatient(ctx, patientID)
		},
		LabTests: func(ctx context.Context, patientID uuid.UUID) (interface{}, error) {
			return labSvc.ListByPatient(ctx, patientID)
		},
		Bills: func(ctx context.Context, patientID uuid.UUID) (interface{}, error) {
			return billSvc.ListByPatient(ctx, patientID)
		},
	}).RegisterRoutes(protected)
	doctor.NewHandler(doctorSvc).RegisterRoutes(protected)
	appointment.NewHandler(apptSvc).RegisterRoutes(protected)
	treatment.NewHandler(treatmentSvc).RegisterRoutes(protected)
	labtest.NewHandler(labSvc).RegisterRoutes(protected)
	bill.NewHandler(billSvc).RegisterRoutes(protected)
	dashboard.NewHandler(dashSvc).RegisterRoutes(protected)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

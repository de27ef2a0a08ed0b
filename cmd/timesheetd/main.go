package main

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hamworks/timesheet-system/internal/common/clock"
	"github.com/hamworks/timesheet-system/internal/common/config"
	"github.com/hamworks/timesheet-system/internal/common/crypto"
	"github.com/hamworks/timesheet-system/internal/common/db"
	commonhttp "github.com/hamworks/timesheet-system/internal/common/http"
	"github.com/hamworks/timesheet-system/internal/common/logger"
	"github.com/hamworks/timesheet-system/internal/common/server"
	employeehttp "github.com/hamworks/timesheet-system/internal/employee/http"
	employeerepo "github.com/hamworks/timesheet-system/internal/employee/repository"
	employeeservice "github.com/hamworks/timesheet-system/internal/employee/service"
	"github.com/hamworks/timesheet-system/internal/session/cleanup"
	sessionhttp "github.com/hamworks/timesheet-system/internal/session/http"
	sessionrepo "github.com/hamworks/timesheet-system/internal/session/repository"
	sessionservice "github.com/hamworks/timesheet-system/internal/session/service"
	"github.com/hamworks/timesheet-system/internal/sessionauth"
	timesheethttp "github.com/hamworks/timesheet-system/internal/timesheet/http"
	timesheetrepo "github.com/hamworks/timesheet-system/internal/timesheet/repository"
	timesheetservice "github.com/hamworks/timesheet-system/internal/timesheet/service"
)

const serviceName = "timesheet"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.LogDir, serviceName, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	pool := db.NewPool(appLog, cfg.DatabaseURL)
	defer pool.Close()

	clk := clock.NewRealClock()
	hasher := &crypto.BcryptHasher{}
	tokens := &crypto.UUIDGenerator{}

	employees := employeerepo.NewPgRepository(pool)
	sessions := sessionrepo.NewPgRepository(pool)
	timesheets := timesheetrepo.NewPgRepository(pool)

	authority := sessionservice.NewTokenAuthority(
		employees, sessions, hasher, tokens, clk, cfg.SessionTTLMonths, appLog,
	)
	employeeSvc := employeeservice.NewService(employees, hasher, clk, appLog)
	timesheetSvc := timesheetservice.NewService(timesheets, clk, appLog)

	sweeper := cleanup.NewSweeper(sessions, clk, cfg.SessionCleanupInterval, appLog)
	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	go sweeper.Run(sweepCtx)

	sessionHandler := sessionhttp.NewHandler(authority, appLog)
	timesheetHandler := timesheethttp.NewHandler(timesheetSvc, appLog)
	employeeHandler := employeehttp.NewHandler(employeeSvc, appLog)

	authenticate := sessionauth.Middleware(authority)
	withTimeout := commonhttp.WithTimeout(cfg.RequestTimeout)
	registrationLimiter := commonhttp.NewStrictRateLimiter()

	mux := http.NewServeMux()
	mux.Handle("/registration", registrationLimiter.Middleware(
		http.HandlerFunc(commonhttp.RequireMethod(http.MethodPost)(withTimeout(sessionHandler.Registration))),
	))
	mux.Handle("/timesheet", authenticate(http.HandlerFunc(withTimeout(timesheetHandler.Timesheet))))
	mux.Handle("/timesheet/current", authenticate(http.HandlerFunc(
		commonhttp.RequireMethod(http.MethodGet)(withTimeout(timesheetHandler.Current)),
	)))
	mux.HandleFunc("/user/status", withTimeout(employeeHandler.Status))
	mux.Handle("/user", authenticate(http.HandlerFunc(withTimeout(employeeHandler.Users))))
	mux.Handle("/user/", authenticate(http.HandlerFunc(withTimeout(employeeHandler.UserByID))))
	mux.HandleFunc("/health", commonhttp.HealthHandler(appLog))
	mux.Handle("/metrics", promhttp.Handler())

	handler := commonhttp.BuildBaseHandler(serviceName, appLog, mux)
	srv := server.NewServer(server.DefaultServerConfig(cfg.HTTPPort), handler)

	server.StartWithGracefulShutdownAndHooks(srv, appLog, serviceName, []server.ShutdownHook{
		func(ctx context.Context) error {
			stopSweeper()
			return nil
		},
	})
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shiftwise/attendance-backend-go/internal/config"
	appHTTP "github.com/shiftwise/attendance-backend-go/internal/handler/http"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/cron"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/database"
	"github.com/shiftwise/attendance-backend-go/internal/pkg/jwt"
	"github.com/shiftwise/attendance-backend-go/internal/repository/postgresql"
	attendanceService "github.com/shiftwise/attendance-backend-go/internal/service/attendance"
	authService "github.com/shiftwise/attendance-backend-go/internal/service/auth"
	leaveService "github.com/shiftwise/attendance-backend-go/internal/service/leave"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dsn := cfg.DatabaseURL()
	if err := database.Migrate(dsn); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	leaveTypeRepo := postgresql.NewLeaveTypeRepository(db)
	leaveBalanceRepo := postgresql.NewLeaveBalanceRepository(db)
	leaveRequestRepo := postgresql.NewLeaveRequestRepository(db)
	txRunner := postgresql.NewTxRunner(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := authService.NewService(userRepo, jwtService)
	attendanceSvc := attendanceService.NewService(txRunner, attendanceRepo, employeeRepo)
	ledgerSvc := leaveService.NewLedgerService(leaveBalanceRepo)
	requestSvc := leaveService.NewRequestService(txRunner, leaveRequestRepo, leaveTypeRepo, ledgerSvc, attendanceRepo)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	attendanceHandler := appHTTP.NewAttendanceHandler(attendanceSvc)
	leaveHandler := appHTTP.NewLeaveHandler(requestSvc, ledgerSvc)

	router := appHTTP.NewRouter(jwtService, cfg.App.AllowedOrigins, authHandler, attendanceHandler, leaveHandler)

	scheduler := cron.NewScheduler()
	cron.NewJobs(attendanceRepo, employeeRepo, ledgerSvc).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/paycore/payroll-engine-go/internal/config"
	appHTTP "github.com/paycore/payroll-engine-go/internal/handler/http"
	"github.com/paycore/payroll-engine-go/internal/pkg/cron"
	"github.com/paycore/payroll-engine-go/internal/pkg/database"
	"github.com/paycore/payroll-engine-go/internal/pkg/lock"
	"github.com/paycore/payroll-engine-go/internal/repository/postgresql"
	payrollService "github.com/paycore/payroll-engine-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := db.Migrate(ctx); err != nil {
		fmt.Println("Error applying migrations:", err)
		return
	}

	payrollRepo := postgresql.NewPayrollRepository(db)
	workforceRepo := postgresql.NewWorkforceRepository(db)
	financeRepo := postgresql.NewFinanceRepository(db)
	txRunner := postgresql.NewTxRunner(db)
	clusterLock := lock.NewPostgres(db.Pool)

	loc := cfg.Location()
	statusStore := payrollService.NewStatusStore(
		cfg.Payroll.AutomationEnabled,
		cfg.Payroll.RunHour,
		cfg.Payroll.RunMinute,
		cfg.Payroll.Timezone,
	)
	payrollSvc := payrollService.NewService(payrollRepo, txRunner, financeRepo, financeRepo)
	runner := payrollService.NewRunner(
		workforceRepo,
		workforceRepo,
		workforceRepo,
		workforceRepo,
		payrollSvc,
		financeRepo,
		statusStore,
		loc,
	)

	scheduler := cron.NewScheduler()
	if cfg.Payroll.AutomationEnabled {
		payrollJobs := cron.NewPayrollJobs(runner, clusterLock, statusStore)
		payrollJobs.RegisterJobs(scheduler, cfg.Payroll.RunHour, cfg.Payroll.RunMinute, loc)
		scheduler.Start()
		defer scheduler.Stop()
	} else {
		slog.Info("Payroll automation disabled")
	}

	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc, runner, statusStore)
	router := appHTTP.NewRouter(cfg.App.Env, payrollHandler)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
	}

	go func() {
		slog.Info("Server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", "error", err)
	}
}

package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"coursefront/config"
	"coursefront/logger"
	"coursefront/utils"
)

func main() {
	cfg := config.LoadConfig()

	appLog, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer appLog.Sync()

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		appLog.Fatal("could not open browser state store", "driver", cfg.StoreDriver, "error", err)
	}

	app, panels, err := newApp(cfg, st, appLog)
	if err != nil {
		appLog.Fatal("could not build app", "error", err)
	}

	housekeeper := utils.NewHousekeeper(st, cfg.SessionTTL, appLog, panels)
	scheduler, err := utils.StartSessionScheduler(cfg.HousekeepingCron, housekeeper)
	if err != nil {
		appLog.Fatal("could not start session scheduler", "spec", cfg.HousekeepingCron, "error", err)
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		appLog.Info("shutting down")
		<-scheduler.Stop().Done()
		if err := app.Shutdown(); err != nil {
			appLog.Error("shutdown failed", "error", err)
		}
	}()

	appLog.Info("server is running", "port", cfg.Port, "api", cfg.APIBaseURL)
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("server stopped", "error", err)
	}
}

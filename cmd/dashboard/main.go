package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/tyler180/fpl-championship-analysis/internal/config"
	"github.com/tyler180/fpl-championship-analysis/internal/dashboard"
	"github.com/tyler180/fpl-championship-analysis/internal/logging"
)

func main() {
	dev := config.Getenv("ENV", "development") == "development"
	log := logging.InitLogger("", dev)

	cfg, err := config.Load(config.Dir())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	port := config.Getenv("PORT", "8080")

	if dev {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	h := dashboard.NewHandler(cfg.DataDir, cfg.TopN, cfg.DashboardMinChampionshipGoals, log)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: dashboard.NewRouter(h),
	}

	go func() {
		logging.WithComponent("dashboard").WithFields(logrus.Fields{"port": port, "data_dir": cfg.DataDir}).Info("dashboard started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.WithComponent("dashboard").Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("dashboard forced to shutdown: %v", err)
	}
}

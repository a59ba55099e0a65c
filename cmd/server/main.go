package main // Entry point package

import (
	"context"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/powertune/garage/internal/config"
	"github.com/powertune/garage/internal/database"
	"github.com/powertune/garage/internal/handler"
	"github.com/powertune/garage/internal/repository"
	"github.com/powertune/garage/internal/router"
	"github.com/powertune/garage/internal/view"
)

func main() {
	// Load .env when present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logrus.WithError(err).Fatal("database connection failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.Migrate(ctx, db); err != nil {
		logrus.WithError(err).Fatal("schema bootstrap failed")
	}
	if err := database.SeedAdmin(ctx, db, cfg.BcryptCost); err != nil {
		logrus.WithError(err).Fatal("admin seed failed")
	}

	users := repository.NewUserRepo(db)
	customers := repository.NewCustomerRepo(db)
	vehicles := repository.NewVehicleRepo(db)
	visits := repository.NewVisitRepo(db)

	e := echo.New()
	e.HideBanner = true

	renderer, err := view.New("web/templates/*.html")
	if err != nil {
		logrus.WithError(err).Fatal("template parse failed")
	}
	e.Renderer = renderer

	// Redis is optional; a nil client disables login rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logrus.Warn("redis unavailable, login rate limiting disabled")
	}

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		Dashboard: handler.NewDashboardHandler(vehicles, customers, visits),
		Customers: handler.NewCustomerHandler(customers),
		Vehicles:  handler.NewVehicleHandler(cfg, vehicles, customers, visits),
	}, cfg.SessionSecret, rdb)

	addr := ":" + cfg.Port
	logrus.WithFields(logrus.Fields{"addr": addr, "env": cfg.Env}).Info("listening")
	if err := e.Start(addr); err != nil {
		logrus.WithError(err).Fatal("server stopped")
	}
}

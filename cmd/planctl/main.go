package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rehabib/plan-report-tourism/config"
	"github.com/rehabib/plan-report-tourism/internal/cli"
	"github.com/rehabib/plan-report-tourism/internal/repository"
	"github.com/rehabib/plan-report-tourism/internal/service"
	"github.com/rehabib/plan-report-tourism/pkg/database"
	applogger "github.com/rehabib/plan-report-tourism/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(os.Getenv("PLAN_CONFIG"))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()

	repo := repository.NewRepository(db)
	engine, err := service.NewEngine(&cfg.Workflow)
	if err != nil {
		return err
	}

	app := &cli.App{
		Departments: service.NewDepartmentService(repo, logger),
		Users:       service.NewUserService(repo, logger),
		Export:      service.NewExportService(repo, engine, logger),
		Migrate: func(context.Context) error {
			return database.Migrate(db, cfg.Database.Driver, logger)
		},
	}
	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

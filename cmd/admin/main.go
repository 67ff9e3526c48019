package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload" // Autoload .env file.
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vietanh2810/school-portal-api/internal/cache"
	"github.com/vietanh2810/school-portal-api/internal/config"
	"github.com/vietanh2810/school-portal-api/internal/db"
	"github.com/vietanh2810/school-portal-api/internal/grading"
	"github.com/vietanh2810/school-portal-api/internal/logger"
	"github.com/vietanh2810/school-portal-api/internal/notify"
	"github.com/vietanh2810/school-portal-api/internal/repository"
	"github.com/vietanh2810/school-portal-api/internal/repository/dao"
	"github.com/vietanh2810/school-portal-api/internal/service"
)

func main() {
	if err := start(os.Args); err != nil {
		if errors.Is(err, errHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func start(args []string) error {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./cmd/app/config.yml"
	}
	conf, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("config.Load -> %w", err)
	}
	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("logger.Init -> %w", err)
	}
	defer func() { _ = zap.L().Sync() }()

	var postgresDB *gorm.DB
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	resultScheme, err := grading.SchemeByName(conf.Grading.ResultScheme)
	if err != nil {
		return err
	}
	cumulativeScheme, err := grading.SchemeByName(conf.Grading.CumulativeScheme)
	if err != nil {
		return err
	}

	students := repository.NewStudentRepository(dao.NewStudentDAO(postgresDB))
	results := repository.NewResultRepository(dao.NewResultDAO(postgresDB))
	school := service.NewSchoolService(
		repository.NewSchoolInfoRepository(dao.NewSchoolInfoDAO(postgresDB)),
		cache.NewLoader(cache.NewMemoryStore()),
	)

	cli := &commandLine{
		admins:  service.NewAuthService(repository.NewAdminRepository(dao.NewAdminDAO(postgresDB))),
		cards:   service.NewScratchCardService(repository.NewScratchCardRepository(dao.NewScratchCardDAO(postgresDB)), students, results, notify.NewHub()),
		results: service.NewResultService(results, students, school, resultScheme, cumulativeScheme),
		migrate: func() error { return dao.InitTables(postgresDB) },
		out:     os.Stdout,
		now:     time.Now,
	}

	return cli.run(context.Background(), args)
}

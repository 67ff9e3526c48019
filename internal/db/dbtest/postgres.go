// Package dbtest starts a throwaway PostgreSQL container for integration tests.
package dbtest

import (
	"fmt"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"gorm.io/gorm"

	"github.com/vietanh2810/school-portal-api/internal/db"
)

type Postgres struct {
	DB       *gorm.DB
	pool     *dockertest.Pool
	resource *dockertest.Resource
}

// StartPostgres runs postgres:16-alpine and waits until it accepts connections.
func StartPostgres() (*Postgres, error) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		return nil, fmt.Errorf("dockertest.NewPool -> %w", err)
	}
	if err = pool.Client.Ping(); err != nil {
		return nil, fmt.Errorf("pool.Client.Ping -> %w", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=school",
			"POSTGRES_PASSWORD=school",
			"POSTGRES_DB=school_test",
			"listen_addresses = '*'",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		return nil, fmt.Errorf("pool.RunWithOptions -> %w", err)
	}
	_ = resource.Expire(300)

	url := fmt.Sprintf("postgres://school:school@%s/school_test?sslmode=disable", resource.GetHostPort("5432/tcp"))

	var gormDB *gorm.DB
	err = pool.Retry(func() error {
		var openErr error
		gormDB, openErr = db.OpenPostgresWithURL(url)
		return openErr
	})
	if err != nil {
		_ = pool.Purge(resource)
		return nil, fmt.Errorf("pool.Retry -> %w", err)
	}

	return &Postgres{DB: gormDB, pool: pool, resource: resource}, nil
}

func (p *Postgres) Close() error {
	if sqlDB, err := p.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return p.pool.Purge(p.resource)
}

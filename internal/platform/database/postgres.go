package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	MaxRetries      int
	RetryDelay      time.Duration
}

func NewPostgresDB(cfg Config, log *logrus.Logger) (*sqlx.DB, error) {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 10
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 2 * time.Second
	}

	var db *sqlx.DB
	var err error

	for i := 1; i <= cfg.MaxRetries; i++ {
		log.WithField("attempt", fmt.Sprintf("%d/%d", i, cfg.MaxRetries)).Info("connecting to database")

		db, err = sqlx.Connect("postgres", cfg.DSN)
		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
			log.Info("database connected")
			return db, nil
		}

		log.WithError(err).Warnf("database not ready yet, waiting %s", cfg.RetryDelay)
		time.Sleep(cfg.RetryDelay)
	}

	return nil, fmt.Errorf("failed to connect to database: %w", err)
}

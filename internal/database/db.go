// Package database connects to the MySQL store behind microcourse and applies its schema migrations.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/microcourse/internal/config"
)

const defaultCharset = "utf8mb4"

// mysqlConfig maps cfg to driver settings. Enrollment and registration timestamps
// are stored and scanned in UTC, and connections default to utf8mb4 for learner names.
func mysqlConfig(cfg config.DatabaseConfig) *mysql.Config {
	mysqlCfg := mysql.NewConfig()
	mysqlCfg.User = cfg.Username
	mysqlCfg.Passwd = cfg.Password
	mysqlCfg.Net = "tcp"
	mysqlCfg.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	mysqlCfg.DBName = cfg.Database
	mysqlCfg.ParseTime = true
	mysqlCfg.Loc = time.UTC
	// migrations run as one Exec per file
	mysqlCfg.MultiStatements = true
	// UPDATE reports matched rows, so writing an unchanged status is not mistaken for a missing enrollment.
	mysqlCfg.ClientFoundRows = true
	if cfg.TLS {
		mysqlCfg.TLSConfig = "true"
	}

	mysqlCfg.Params = map[string]string{"charset": defaultCharset}
	for k, v := range cfg.Params {
		mysqlCfg.Params[k] = v
	}
	return mysqlCfg
}

// Open returns the pooled handle shared by the learner, course, enrollment and account repositories.
func Open(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Open("mysql", mysqlConfig(cfg).FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open microcourse database %s/%s > %w", cfg.Host, cfg.Database, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
	}
	return db, nil
}

// RunInTx commits fn's writes together or not at all.
// Registration approval uses it to create the account and mark the request approved in one step.
func RunInTx(ctx context.Context, db *sqlx.DB, fn func(ctx context.Context, tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(ctx, tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

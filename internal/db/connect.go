package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"offer-export/internal/config"

	"github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// PingTimeout bounds the connect ping. Zero leaves it to the driver.
	PingTimeout time.Duration
}

// DefaultOptions sizes the pool for a single session per run.
func DefaultOptions() Options {
	return Options{
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// OpenFunc opens and pings a database handle.
type OpenFunc func(ctx context.Context, cfg config.DBConfig, opt Options) (*sql.DB, error)

func Open(ctx context.Context, cfg config.DBConfig, opt Options) (*sql.DB, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	driverName, dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	if opt.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opt.MaxOpenConns)
	}
	if opt.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opt.MaxIdleConns)
	}
	if opt.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opt.ConnMaxLifetime)
	}

	if opt.PingTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.PingTimeout)
		defer cancel()
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

func buildDSN(cfg config.DBConfig) (driverName string, dsn string, err error) {
	if cfg.Driver == config.DBDriverSQLite {
		if cfg.Database == "" {
			return "", "", errors.New("db.database must name the sqlite file")
		}
		return "sqlite", cfg.Database, nil
	}

	if cfg.Port <= 0 || cfg.Port > 65535 {
		return "", "", errors.New("db.port is invalid")
	}
	hostPort := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	switch cfg.Driver {
	case config.DBDriverPostgres:
		u := &url.URL{
			Scheme: "postgres",
			Host:   hostPort,
			Path:   "/" + cfg.Database,
		}
		if cfg.User != "" {
			u.User = url.UserPassword(cfg.User, cfg.Password)
		}
		if cfg.SSLMode != "" {
			q := url.Values{}
			q.Set("sslmode", cfg.SSLMode)
			u.RawQuery = q.Encode()
		}
		return "pgx", u.String(), nil

	case config.DBDriverMSSQL:
		u := &url.URL{
			Scheme: "sqlserver",
			User:   url.UserPassword(cfg.User, cfg.Password),
			Host:   hostPort,
		}
		q := url.Values{}
		if cfg.Database != "" {
			q.Set("database", cfg.Database)
		}
		if cfg.SSLMode != "" {
			q.Set("encrypt", cfg.SSLMode)
		}
		u.RawQuery = q.Encode()
		return "sqlserver", u.String(), nil

	case config.DBDriverMySQL:
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = hostPort
		mc.DBName = cfg.Database
		mc.ParseTime = true
		if cfg.SSLMode != "" {
			mc.TLSConfig = cfg.SSLMode
		}
		return "mysql", mc.FormatDSN(), nil

	default:
		return "", "", fmt.Errorf("unsupported driver: %q", cfg.Driver)
	}
}

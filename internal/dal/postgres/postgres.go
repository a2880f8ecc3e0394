package postgres

import (
	"context"
	"embed"
	"fmt"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/spf13/viper"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Conn is an interface that works with both pgxpool.Pool and pgx.Tx.
type Conn interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Client represents a Postgres client.
type Client struct {
	pool *pgxpool.Pool
}

// Pool returns the underlying connection pool.
func (p *Client) Pool() *pgxpool.Pool {
	return p.pool
}

// Ping checks that the database is reachable.
func (p *Client) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close closes the database connection for graceful shutdown.
func (p *Client) Close() {
	p.pool.Close()
}

// DSN builds the connection string from the postgres.* config keys.
func DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		viper.GetString("postgres.host"),
		viper.GetInt("postgres.port"),
		viper.GetString("postgres.user"),
		viper.GetString("postgres.password"),
		viper.GetString("postgres.db"),
		viper.GetString("postgres.sslmode"),
	)
}

// MustNewClient creates a new Postgres client from config and applies migrations when enabled.
func MustNewClient() *Client {
	client, err := NewClient(context.Background(), DSN())
	if err != nil {
		panic(err)
	}

	if viper.GetBool("postgres.migrations_enabled") {
		if err := client.Migrate(); err != nil {
			panic(err)
		}
	}

	return client
}

// NewClient connects to dsn and registers the decimal codec on every connection.
func NewClient(ctx context.Context, dsn string) (*Client, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	if maxConns := viper.GetInt32("postgres.max_conns"); maxConns > 0 {
		config.MaxConns = maxConns
	}

	// NUMERIC columns scan into decimal.Decimal
	config.AfterConnect = func(_ context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())

		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	return &Client{
		pool: pool,
	}, nil
}

// Migrate runs the embedded goose migrations.
func (p *Client) Migrate() error {
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(p.pool)
	defer db.Close()

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

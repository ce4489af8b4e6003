package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"shopfloor/internal/adapters/out/postgres/pgerr"
	"shopfloor/internal/adapters/out/postgres/projectrepo"
	"shopfloor/internal/adapters/out/postgres/tokenrepo"
	"shopfloor/internal/adapters/out/postgres/workorderrepo"

	_ "github.com/lib/pq" // database/sql driver "postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options describe a PostgreSQL connection.
type Options struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the options as a lib/pq connection string.
func (o Options) DSN() string {
	sslMode := o.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		o.Host, o.Port, o.User, o.Password, o.Name, sslMode)
}

// Open connects through lib/pq and hands the pool to GORM. Unique violations
// are translated to gorm.ErrDuplicatedKey.
func Open(ctx context.Context, dsn string, log *slog.Logger) (*gorm.DB, error) {
	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, pgerr.Wrap("ping postgres", err)
	}

	db, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("open gorm: %w", err)
	}

	log.InfoContext(ctx, "connected to postgres")
	return db, nil
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&projectrepo.ProjectDTO{},
		&workorderrepo.WorkOrderDTO{},
		&workorderrepo.ProcessInstanceDTO{},
		&tokenrepo.TokenDTO{},
	)
}

// Truncate empties every table. Used by tests and trackctl seed --reset.
func Truncate(db *gorm.DB) error {
	return db.Exec("TRUNCATE TABLE scan_tokens, process_instances, work_orders, projects").Error
}

package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	authdomain "github.com/smallbiznis/fluxcrm/internal/auth/domain"
	documentdomain "github.com/smallbiznis/fluxcrm/internal/document/domain"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	leadnotedomain "github.com/smallbiznis/fluxcrm/internal/leadnote/domain"
	leadstagedomain "github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	milestonedomain "github.com/smallbiznis/fluxcrm/internal/milestone/domain"
	organizationdomain "github.com/smallbiznis/fluxcrm/internal/organization/domain"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	referencedomain "github.com/smallbiznis/fluxcrm/internal/reference/domain"
	salesflowdomain "github.com/smallbiznis/fluxcrm/internal/salesflow/domain"
	"github.com/smallbiznis/fluxcrm/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table owned by the application, in dependency order.
var Models = []any{
	&authdomain.User{},
	&orgtypedomain.OrganizationType{},
	&leadstagedomain.LeadStage{},
	&organizationdomain.Organization{},
	&leaddomain.Lead{},
	&leaddomain.LeadSequence{},
	&milestonedomain.Milestone{},
	&documentdomain.Document{},
	&leadnotedomain.LeadNote{},
	&salesflowdomain.Step{},
	&referencedomain.IndianState{},
}

// Apply brings the schema up to date. Postgres runs the embedded SQL
// migrations; the other dialects fall back to gorm AutoMigrate.
func Apply(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if strings.EqualFold(strings.TrimSpace(dbType), db.TypePostgres) {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}
	if err := conn.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// RunMigrations applies the embedded postgres migrations.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Closing the migrator would close the shared *sql.DB.

	return nil
}

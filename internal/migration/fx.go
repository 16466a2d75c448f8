package migration

import (
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	compliancedomain "github.com/mokaihq/essential-eight/internal/compliance/domain"
	"github.com/mokaihq/essential-eight/internal/config"
	"github.com/mokaihq/essential-eight/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// The versioned migrations target postgres; other dialects are
			// for local development and get the gorm schema directly.
			if err := conn.AutoMigrate(
				&compliancedomain.Organization{},
				&compliancedomain.Control{},
				&auditdomain.AuditLog{},
			); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoOrg(conn)
		}
		return nil
	}),
)

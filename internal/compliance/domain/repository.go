package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrganization(ctx context.Context, org Organization) error
	CreateControls(ctx context.Context, controls []Control) error
	ListOrganizations(ctx context.Context) ([]Organization, error)
	GetOrganization(ctx context.Context, orgID snowflake.ID) (*Organization, error)
	ListControls(ctx context.Context, orgID snowflake.ID) ([]Control, error)
	GetControl(ctx context.Context, orgID snowflake.ID, controlID string) (*Control, error)
	UpdateControl(ctx context.Context, control Control) error
}

package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// ListFilter scopes an audit log listing to one organization.
type ListFilter struct {
	OrgID snowflake.ID
	Limit int
}

// Repository takes the db handle per call so callers can pass a transaction
// and have the audit row commit with the primary mutation.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditLog, error)
}

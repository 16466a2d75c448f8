package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultListLimit caps audit listings when no limit is supplied.
const DefaultListLimit = 50

type AppendRequest struct {
	OrgID   snowflake.ID
	Action  string
	Details datatypes.JSONMap
}

type ListRequest struct {
	OrgID snowflake.ID
	Limit int
}

type AuditLogResponse struct {
	ID             string            `json:"id"`
	OrganizationID string            `json:"organization_id"`
	Action         string            `json:"action"`
	Details        datatypes.JSONMap `json:"details"`
	IPAddress      string            `json:"ip_address"`
	CreatedAt      time.Time         `json:"created_at"`
}

type Service interface {
	Append(ctx context.Context, req AppendRequest) (*AuditLogResponse, error)
	// AppendTx writes the entry inside the caller's transaction.
	AppendTx(ctx context.Context, tx *gorm.DB, req AppendRequest) (*AuditLog, error)
	List(ctx context.Context, req ListRequest) ([]AuditLogResponse, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidAction       = errors.New("invalid_action")
)

// Package domain contains the append-only audit trail model. Rows are never
// updated or deleted.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Actions recorded by the system.
const (
	ActionOrganizationCreated = "organization.created"
	ActionControlUpdated      = "control.updated"
	ActionAssessmentCompleted = "assessment.completed"
)

// AuditLog is one append-only record of a state-changing action.
type AuditLog struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID      `gorm:"column:org_id;not null;index:ix_audit_logs_org_created,priority:1" json:"organization_id"`
	Action    string            `gorm:"type:text;not null" json:"action"`
	Details   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"details"`
	IPAddress string            `gorm:"column:ip_address;type:text;not null;default:'unknown'" json:"ip_address"`
	CreatedAt time.Time         `gorm:"not null;index:ix_audit_logs_org_created,priority:2" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// OrganizationCreatedDetails is the payload for organization.created.
type OrganizationCreatedDetails struct {
	Name string
	ABN  string
}

func (d OrganizationCreatedDetails) Map() datatypes.JSONMap {
	return datatypes.JSONMap{
		"name": d.Name,
		"abn":  d.ABN,
	}
}

// ControlUpdatedDetails is the payload for control.updated. PreviousLevel is
// the maturity level read in the same transaction as the update, so the pair
// is a true before/after even under concurrent writes.
type ControlUpdatedDetails struct {
	ControlID     string
	MaturityLevel int
	PreviousLevel int
}

func (d ControlUpdatedDetails) Map() datatypes.JSONMap {
	return datatypes.JSONMap{
		"controlId":     d.ControlID,
		"maturityLevel": d.MaturityLevel,
		"previousLevel": d.PreviousLevel,
	}
}

// AssessmentCompletedDetails is the payload for assessment.completed.
type AssessmentCompletedDetails struct {
	Assessor    string
	CompletedAt time.Time
}

func (d AssessmentCompletedDetails) Map() datatypes.JSONMap {
	return datatypes.JSONMap{
		"assessor": d.Assessor,
		"date":     d.CompletedAt.Format(time.RFC3339),
	}
}

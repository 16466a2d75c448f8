// Package domain contains persistence models for the compliance service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ReviewInterval is how far the next-review deadline moves on every mutation.
// The review clock restarts on any touch, not only on escalation.
const ReviewInterval = 90 * 24 * time.Hour

// InitialEvidence is the placeholder every control starts with.
const InitialEvidence = "Initial assessment pending"

// Organization is an assessed tenant. Rows are created once and never
// updated or deleted.
type Organization struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"type:text;not null" json:"name"`
	ABN       string       `gorm:"column:abn;type:text;not null" json:"abn"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// Control records one organization's maturity against one catalog entry.
// Exactly one row exists per (org, catalog entry) pair from organization
// creation onward.
type Control struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID `gorm:"column:org_id;not null;uniqueIndex:ux_controls_org_control,priority:1" json:"organization_id"`
	ControlID     string       `gorm:"column:control_id;type:text;not null;uniqueIndex:ux_controls_org_control,priority:2" json:"control_id"`
	MaturityLevel int          `gorm:"not null;default:0" json:"maturity_level"`
	Evidence      string       `gorm:"type:text;not null" json:"evidence"`
	LastUpdated   time.Time    `gorm:"column:last_updated;not null" json:"last_updated"`
	NextReview    time.Time    `gorm:"column:next_review;not null" json:"next_review"`
}

// TableName sets the database table name.
func (Control) TableName() string { return "controls" }

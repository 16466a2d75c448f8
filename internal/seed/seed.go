// Package seed bootstraps a demo organization for local and self-hosted
// environments.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	"github.com/mokaihq/essential-eight/internal/catalog"
	compliancedomain "github.com/mokaihq/essential-eight/internal/compliance/domain"
	"gorm.io/gorm"
)

const (
	demoOrgName  = "Department of Digital Services"
	demoOrgABN   = "12345678901"
	demoAssessor = "System Administrator"
)

// EnsureDemoOrg seeds the demo organization with its full control set and
// bootstrap audit trail. It is a no-op when any organization already exists.
func EnsureDemoOrg(db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.WithContext(ctx).Model(&compliancedomain.Organization{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		org := compliancedomain.Organization{
			ID:        node.Generate(),
			Name:      demoOrgName,
			ABN:       demoOrgABN,
			CreatedAt: now,
		}
		if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
			return err
		}

		for _, entry := range catalog.Controls() {
			control := compliancedomain.Control{
				ID:            node.Generate(),
				OrgID:         org.ID,
				ControlID:     entry.ID,
				MaturityLevel: 0,
				Evidence:      compliancedomain.InitialEvidence,
				LastUpdated:   now,
				NextReview:    now.Add(compliancedomain.ReviewInterval),
			}
			if err := tx.WithContext(ctx).Create(&control).Error; err != nil {
				return err
			}
		}

		entries := []auditdomain.AuditLog{
			{
				ID:     node.Generate(),
				OrgID:  org.ID,
				Action: auditdomain.ActionOrganizationCreated,
				Details: auditdomain.OrganizationCreatedDetails{
					Name: demoOrgName,
					ABN:  demoOrgABN,
				}.Map(),
				IPAddress: "unknown",
				CreatedAt: now,
			},
			{
				ID:     node.Generate(),
				OrgID:  org.ID,
				Action: auditdomain.ActionAssessmentCompleted,
				Details: auditdomain.AssessmentCompletedDetails{
					Assessor:    demoAssessor,
					CompletedAt: now,
				}.Map(),
				IPAddress: "unknown",
				CreatedAt: now,
			},
		}
		for i := range entries {
			if err := tx.WithContext(ctx).Create(&entries[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

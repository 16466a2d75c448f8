package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/mokaihq/essential-eight/internal/compliance/domain"
	"github.com/mokaihq/essential-eight/pkg/db"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateOrganization(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, name, abn, created_at)
		 VALUES (?, ?, ?, ?)`,
		org.ID,
		org.Name,
		org.ABN,
		org.CreatedAt,
	).Error
}

func (r *repository) CreateControls(ctx context.Context, controls []domain.Control) error {
	for _, control := range controls {
		err := r.db.WithContext(ctx).Exec(
			`INSERT INTO controls (id, org_id, control_id, maturity_level, evidence, last_updated, next_review)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			control.ID,
			control.OrgID,
			control.ControlID,
			control.MaturityLevel,
			control.Evidence,
			control.LastUpdated,
			control.NextReview,
		).Error
		if err != nil {
			if db.IsDuplicateKeyErr(err) {
				return domain.ErrControlExists
			}
			return err
		}
	}
	return nil
}

func (r *repository) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	var orgs []domain.Organization
	err := r.db.WithContext(ctx).
		Model(&domain.Organization{}).
		Order("created_at desc, id desc").
		Find(&orgs).Error
	if err != nil {
		return nil, err
	}
	return orgs, nil
}

func (r *repository) GetOrganization(ctx context.Context, orgID snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).
		First(&org, "id = ?", orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *repository) ListControls(ctx context.Context, orgID snowflake.ID) ([]domain.Control, error) {
	var controls []domain.Control
	err := r.db.WithContext(ctx).
		Model(&domain.Control{}).
		Where("org_id = ?", orgID).
		Order("control_id asc").
		Find(&controls).Error
	if err != nil {
		return nil, err
	}
	return controls, nil
}

func (r *repository) GetControl(ctx context.Context, orgID snowflake.ID, controlID string) (*domain.Control, error) {
	var control domain.Control
	err := r.db.WithContext(ctx).
		First(&control, "org_id = ? AND control_id = ?", orgID, controlID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrControlNotFound
		}
		return nil, err
	}
	return &control, nil
}

func (r *repository) UpdateControl(ctx context.Context, control domain.Control) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE controls
		 SET maturity_level = ?, evidence = ?, last_updated = ?, next_review = ?
		 WHERE org_id = ? AND control_id = ?`,
		control.MaturityLevel,
		control.Evidence,
		control.LastUpdated,
		control.NextReview,
		control.OrgID,
		control.ControlID,
	).Error
}

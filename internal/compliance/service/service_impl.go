package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	"github.com/mokaihq/essential-eight/internal/catalog"
	"github.com/mokaihq/essential-eight/internal/clock"
	"github.com/mokaihq/essential-eight/internal/compliance/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
	Audit auditdomain.Service
}

type service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
	audit auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &service{
		db:    p.DB,
		log:   p.Log.Named("compliance.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
		audit: p.Audit,
	}
}

// CreateOrganization provisions the organization row, its eight control rows
// and the organization.created audit entry in a single transaction, so no
// reader ever observes a partial control set.
func (s *service) CreateOrganization(ctx context.Context, req domain.CreateOrganizationRequest) (*domain.OrganizationResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	// ABN is an opaque string; no checksum validation.
	abn := strings.TrimSpace(req.ABN)
	if abn == "" {
		return nil, domain.ErrInvalidABN
	}

	now := s.clock.Now()
	orgID := s.genID.Generate()
	org := domain.Organization{
		ID:        orgID,
		Name:      name,
		ABN:       abn,
		CreatedAt: now,
	}

	controls := make([]domain.Control, 0, catalog.Size)
	for _, entry := range catalog.Controls() {
		controls = append(controls, domain.Control{
			ID:            s.genID.Generate(),
			OrgID:         orgID,
			ControlID:     entry.ID,
			MaturityLevel: 0,
			Evidence:      domain.InitialEvidence,
			LastUpdated:   now,
			NextReview:    now.Add(domain.ReviewInterval),
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateOrganization(ctx, org); err != nil {
			return err
		}
		if err := repo.CreateControls(ctx, controls); err != nil {
			return err
		}

		_, err := s.audit.AppendTx(ctx, tx, auditdomain.AppendRequest{
			OrgID:  orgID,
			Action: auditdomain.ActionOrganizationCreated,
			Details: auditdomain.OrganizationCreatedDetails{
				Name: name,
				ABN:  abn,
			}.Map(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("org_id", orgID.String()),
		zap.String("name", name),
	)

	resp := toOrganizationResponse(org)
	resp.Controls = make([]domain.ControlResponse, 0, len(controls))
	for _, control := range controls {
		resp.Controls = append(resp.Controls, toControlResponse(control))
	}
	return &resp, nil
}

func (s *service) ListOrganizations(ctx context.Context) ([]domain.OrganizationResponse, error) {
	orgs, err := s.repo.ListOrganizations(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.OrganizationResponse, 0, len(orgs))
	for _, org := range orgs {
		resp = append(resp, toOrganizationResponse(org))
	}
	return resp, nil
}

// ListControls returns the persisted rows ordered by control id. An unknown
// organization yields an empty slice, not an error; the store does not
// distinguish "no such org" from "org with no rows" on reads.
func (s *service) ListControls(ctx context.Context, orgID snowflake.ID) ([]domain.ControlResponse, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	controls, err := s.repo.ListControls(ctx, orgID)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.ControlResponse, 0, len(controls))
	for _, control := range controls {
		resp = append(resp, toControlResponse(control))
	}
	return resp, nil
}

// UpdateControlMaturity overwrites the maturity level and restarts the review
// clock. The previous level is read inside the same transaction that performs
// the update and the audit append, so the audit pair is a true before/after.
func (s *service) UpdateControlMaturity(ctx context.Context, req domain.UpdateControlRequest) (*domain.ControlResponse, error) {
	if req.OrgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}
	controlID := strings.TrimSpace(req.ControlID)
	if controlID == "" {
		return nil, domain.ErrInvalidControl
	}
	if !catalog.IsValidLevel(req.MaturityLevel) {
		return nil, domain.ErrInvalidMaturityLevel
	}

	var updated domain.Control
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.GetControl(ctx, req.OrgID, controlID)
		if err != nil {
			return err
		}
		previousLevel := current.MaturityLevel

		now := s.clock.Now()
		current.MaturityLevel = req.MaturityLevel
		if req.Evidence != nil && strings.TrimSpace(*req.Evidence) != "" {
			current.Evidence = strings.TrimSpace(*req.Evidence)
		}
		current.LastUpdated = now
		current.NextReview = now.Add(domain.ReviewInterval)

		if err := repo.UpdateControl(ctx, *current); err != nil {
			return err
		}

		_, err = s.audit.AppendTx(ctx, tx, auditdomain.AppendRequest{
			OrgID:  req.OrgID,
			Action: auditdomain.ActionControlUpdated,
			Details: auditdomain.ControlUpdatedDetails{
				ControlID:     controlID,
				MaturityLevel: req.MaturityLevel,
				PreviousLevel: previousLevel,
			}.Map(),
		})
		if err != nil {
			return err
		}

		updated = *current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("control updated",
		zap.String("org_id", req.OrgID.String()),
		zap.String("control_id", controlID),
		zap.Int("maturity_level", req.MaturityLevel),
	)

	resp := toControlResponse(updated)
	return &resp, nil
}

// GetDashboard joins persisted rows against the catalog. A catalog entry with
// no row renders with level 0 defaults; the overall score always runs over
// all eight entries.
func (s *service) GetDashboard(ctx context.Context, orgID snowflake.ID) (*domain.DashboardResponse, error) {
	if orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	org, err := s.repo.GetOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	controls, err := s.repo.ListControls(ctx, orgID)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Control, len(controls))
	for _, control := range controls {
		byID[control.ControlID] = control
	}

	entries := make([]domain.DashboardControl, 0, catalog.Size)
	levels := make([]int, 0, catalog.Size)
	for _, entry := range catalog.Controls() {
		row, ok := byID[entry.ID]
		level := 0
		evidence := "No evidence provided yet"
		var lastUpdated, nextReview = org.CreatedAt, org.CreatedAt.Add(domain.ReviewInterval)
		if ok {
			level = row.MaturityLevel
			evidence = row.Evidence
			lastUpdated = row.LastUpdated
			nextReview = row.NextReview
		}
		levels = append(levels, level)

		ml, _ := catalog.LevelByValue(level)
		entries = append(entries, domain.DashboardControl{
			ControlID:       entry.ID,
			Name:            entry.Name,
			MaturityLevel:   level,
			MaturityName:    ml.Name,
			SeverityColor:   ml.Color,
			ProgressPercent: level * 100 / catalog.MaxLevel,
			Evidence:        evidence,
			LastUpdated:     lastUpdated,
			NextReview:      nextReview,
		})
	}

	return &domain.DashboardResponse{
		Organization:    toOrganizationResponse(*org),
		OverallMaturity: domain.OverallMaturity(levels),
		Controls:        entries,
	}, nil
}

func toOrganizationResponse(org domain.Organization) domain.OrganizationResponse {
	return domain.OrganizationResponse{
		ID:        org.ID.String(),
		Name:      org.Name,
		ABN:       org.ABN,
		CreatedAt: org.CreatedAt,
	}
}

func toControlResponse(control domain.Control) domain.ControlResponse {
	name := control.ControlID
	if entry, ok := catalog.ControlByID(control.ControlID); ok {
		name = entry.Name
	}
	return domain.ControlResponse{
		ID:             control.ID.String(),
		OrganizationID: control.OrgID.String(),
		ControlID:      control.ControlID,
		Name:           name,
		MaturityLevel:  control.MaturityLevel,
		Evidence:       control.Evidence,
		LastUpdated:    control.LastUpdated,
		NextReview:     control.NextReview,
	}
}

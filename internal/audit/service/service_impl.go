package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	"github.com/mokaihq/essential-eight/internal/auditcontext"
	"github.com/mokaihq/essential-eight/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Append(ctx context.Context, req auditdomain.AppendRequest) (*auditdomain.AuditLogResponse, error) {
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, s.db, entry); err != nil {
		s.log.Warn("failed to write audit log", zap.String("action", entry.Action), zap.Error(err))
		return nil, err
	}

	resp := toResponse(entry)
	return &resp, nil
}

func (s *Service) AppendTx(ctx context.Context, tx *gorm.DB, req auditdomain.AppendRequest) (*auditdomain.AuditLog, error) {
	entry, err := s.buildEntry(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Insert(ctx, tx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) List(ctx context.Context, req auditdomain.ListRequest) ([]auditdomain.AuditLogResponse, error) {
	if req.OrgID == 0 {
		return nil, auditdomain.ErrInvalidOrganization
	}

	limit := req.Limit
	if limit <= 0 {
		limit = auditdomain.DefaultListLimit
	}

	items, err := s.repo.List(ctx, s.db, auditdomain.ListFilter{
		OrgID: req.OrgID,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	logs := make([]auditdomain.AuditLogResponse, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		logs = append(logs, toResponse(item))
	}
	return logs, nil
}

func (s *Service) buildEntry(ctx context.Context, req auditdomain.AppendRequest) (*auditdomain.AuditLog, error) {
	if req.OrgID == 0 {
		return nil, auditdomain.ErrInvalidOrganization
	}
	action := strings.TrimSpace(req.Action)
	if action == "" {
		return nil, auditdomain.ErrInvalidAction
	}

	details := req.Details
	if details == nil {
		details = datatypes.JSONMap{}
	}

	ipAddress := auditcontext.IPAddressFromContext(ctx)
	if ipAddress == "" {
		ipAddress = "unknown"
	}

	return &auditdomain.AuditLog{
		ID:        s.genID.Generate(),
		OrgID:     req.OrgID,
		Action:    action,
		Details:   details,
		IPAddress: ipAddress,
		CreatedAt: s.clock.Now(),
	}, nil
}

func toResponse(entry *auditdomain.AuditLog) auditdomain.AuditLogResponse {
	return auditdomain.AuditLogResponse{
		ID:             entry.ID.String(),
		OrganizationID: entry.OrgID.String(),
		Action:         entry.Action,
		Details:        entry.Details,
		IPAddress:      entry.IPAddress,
		CreatedAt:      entry.CreatedAt,
	}
}

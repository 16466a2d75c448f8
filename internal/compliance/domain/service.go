package domain

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/mokaihq/essential-eight/internal/catalog"
)

type Service interface {
	CreateOrganization(ctx context.Context, req CreateOrganizationRequest) (*OrganizationResponse, error)
	ListOrganizations(ctx context.Context) ([]OrganizationResponse, error)
	ListControls(ctx context.Context, orgID snowflake.ID) ([]ControlResponse, error)
	UpdateControlMaturity(ctx context.Context, req UpdateControlRequest) (*ControlResponse, error)
	GetDashboard(ctx context.Context, orgID snowflake.ID) (*DashboardResponse, error)
}

type CreateOrganizationRequest struct {
	Name string
	ABN  string
}

// UpdateControlRequest overwrites one control's maturity level. Evidence is
// only applied when non-empty; a nil or empty value leaves the stored
// evidence untouched.
type UpdateControlRequest struct {
	OrgID         snowflake.ID
	ControlID     string
	MaturityLevel int
	Evidence      *string
}

type ControlResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	ControlID      string    `json:"control_id"`
	Name           string    `json:"name"`
	MaturityLevel  int       `json:"maturity_level"`
	Evidence       string    `json:"evidence"`
	LastUpdated    time.Time `json:"last_updated"`
	NextReview     time.Time `json:"next_review"`
}

type OrganizationResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	ABN       string            `json:"abn"`
	CreatedAt time.Time         `json:"created_at"`
	Controls  []ControlResponse `json:"controls,omitempty"`
}

// DashboardControl is one row of the dashboard view, joined against the
// catalog so all eight entries render even if a persisted row were missing.
type DashboardControl struct {
	ControlID       string    `json:"control_id"`
	Name            string    `json:"name"`
	MaturityLevel   int       `json:"maturity_level"`
	MaturityName    string    `json:"maturity_name"`
	SeverityColor   string    `json:"severity_color"`
	ProgressPercent int       `json:"progress_percent"`
	Evidence        string    `json:"evidence"`
	LastUpdated     time.Time `json:"last_updated"`
	NextReview      time.Time `json:"next_review"`
}

type DashboardResponse struct {
	Organization    OrganizationResponse `json:"organization"`
	OverallMaturity int                  `json:"overall_maturity"`
	Controls        []DashboardControl   `json:"controls"`
}

var (
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidABN           = errors.New("invalid_abn")
	ErrInvalidOrganization  = errors.New("invalid_organization")
	ErrInvalidControl       = errors.New("invalid_control")
	ErrInvalidMaturityLevel = errors.New("invalid_maturity_level")
	ErrOrganizationNotFound = errors.New("organization_not_found")
	ErrControlNotFound      = errors.New("control_not_found")
	ErrControlExists        = errors.New("control_exists")
)

// OverallMaturity computes round(sum / 8 * 100 / 3) over the eight canonical
// controls. Callers substitute 0 for any catalog entry missing a row, so the
// denominator is always the full catalog.
func OverallMaturity(levels []int) int {
	sum := 0
	for _, level := range levels {
		sum += level
	}
	return int(math.Round(float64(sum) / float64(catalog.Size) * 100 / float64(catalog.MaxLevel)))
}

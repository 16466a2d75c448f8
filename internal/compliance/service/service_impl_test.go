package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	auditrepository "github.com/mokaihq/essential-eight/internal/audit/repository"
	auditservice "github.com/mokaihq/essential-eight/internal/audit/service"
	"github.com/mokaihq/essential-eight/internal/catalog"
	"github.com/mokaihq/essential-eight/internal/clock"
	"github.com/mokaihq/essential-eight/internal/compliance/domain"
	"github.com/mokaihq/essential-eight/internal/compliance/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type testEnv struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   domain.Service
	audit auditdomain.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.Organization{},
		&domain.Control{},
		&auditdomain.AuditLog{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	logger := zaptest.NewLogger(t)
	fakeClock := clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	auditSvc := auditservice.NewService(auditservice.Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: fakeClock,
		Repo:  auditrepository.Provide(),
	})

	svc := NewService(Params{
		DB:    db,
		Log:   logger,
		GenID: node,
		Clock: fakeClock,
		Repo:  repository.NewRepository(db),
		Audit: auditSvc,
	})

	return &testEnv{db: db, clock: fakeClock, svc: svc, audit: auditSvc}
}

func (e *testEnv) createOrg(t *testing.T) *domain.OrganizationResponse {
	t.Helper()
	org, err := e.svc.CreateOrganization(context.Background(), domain.CreateOrganizationRequest{
		Name: "Department of Digital Services",
		ABN:  "12345678901",
	})
	require.NoError(t, err)
	return org
}

func (e *testEnv) orgID(t *testing.T, org *domain.OrganizationResponse) snowflake.ID {
	t.Helper()
	id, err := snowflake.ParseString(org.ID)
	require.NoError(t, err)
	return id
}

func TestCreateOrganization(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	now := env.clock.Now()

	org := env.createOrg(t)
	assert.Equal(t, "Department of Digital Services", org.Name)
	assert.Equal(t, "12345678901", org.ABN)
	require.Len(t, org.Controls, catalog.Size)

	seen := make(map[string]bool)
	for _, control := range org.Controls {
		assert.Equal(t, 0, control.MaturityLevel)
		assert.Equal(t, domain.InitialEvidence, control.Evidence)
		assert.True(t, control.NextReview.Equal(now.Add(domain.ReviewInterval)))
		seen[control.ControlID] = true
	}
	for _, entry := range catalog.Controls() {
		assert.True(t, seen[entry.ID], "missing control %s", entry.ID)
	}

	orgID := env.orgID(t, org)
	logs, err := env.audit.List(ctx, auditdomain.ListRequest{OrgID: orgID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, auditdomain.ActionOrganizationCreated, logs[0].Action)
	assert.Equal(t, "Department of Digital Services", logs[0].Details["name"])
	assert.Equal(t, "12345678901", logs[0].Details["abn"])
	assert.Equal(t, "unknown", logs[0].IPAddress)
}

func TestCreateOrganization_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.svc.CreateOrganization(ctx, domain.CreateOrganizationRequest{Name: "  ", ABN: "12345678901"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = env.svc.CreateOrganization(ctx, domain.CreateOrganizationRequest{Name: "Acme", ABN: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidABN)

	orgs, err := env.svc.ListOrganizations(ctx)
	require.NoError(t, err)
	assert.Empty(t, orgs)
}

func TestListOrganizations_NewestFirst(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.svc.CreateOrganization(ctx, domain.CreateOrganizationRequest{Name: "First", ABN: "11111111111"})
	require.NoError(t, err)
	env.clock.Advance(time.Hour)
	second, err := env.svc.CreateOrganization(ctx, domain.CreateOrganizationRequest{Name: "Second", ABN: "22222222222"})
	require.NoError(t, err)

	orgs, err := env.svc.ListOrganizations(ctx)
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, second.ID, orgs[0].ID)
	assert.Equal(t, first.ID, orgs[1].ID)
}

func TestListControls(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.createOrg(t)
	orgID := env.orgID(t, org)

	controls, err := env.svc.ListControls(ctx, orgID)
	require.NoError(t, err)
	require.Len(t, controls, catalog.Size)

	for i := 1; i < len(controls); i++ {
		assert.LessOrEqual(t, controls[i-1].ControlID, controls[i].ControlID)
	}

	// Reads do not touch timestamps.
	again, err := env.svc.ListControls(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, controls, again)
}

func TestListControls_UnknownOrganization(t *testing.T) {
	env := newTestEnv(t)

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)

	controls, err := env.svc.ListControls(context.Background(), node.Generate())
	require.NoError(t, err)
	assert.Empty(t, controls)
}

func TestUpdateControlMaturity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.createOrg(t)
	orgID := env.orgID(t, org)

	env.clock.Advance(48 * time.Hour)
	now := env.clock.Now()

	evidence := "MFA enforced for all privileged accounts"
	updated, err := env.svc.UpdateControlMaturity(ctx, domain.UpdateControlRequest{
		OrgID:         orgID,
		ControlID:     "mfa",
		MaturityLevel: 2,
		Evidence:      &evidence,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.MaturityLevel)
	assert.Equal(t, evidence, updated.Evidence)
	assert.True(t, updated.LastUpdated.Equal(now))
	assert.True(t, updated.NextReview.Equal(now.Add(domain.ReviewInterval)))

	controls, err := env.svc.ListControls(ctx, orgID)
	require.NoError(t, err)
	for _, control := range controls {
		if control.ControlID == "mfa" {
			assert.Equal(t, 2, control.MaturityLevel)
			assert.Equal(t, evidence, control.Evidence)
			continue
		}
		assert.Equal(t, 0, control.MaturityLevel)
		assert.Equal(t, domain.InitialEvidence, control.Evidence)
	}

	logs, err := env.audit.List(ctx, auditdomain.ListRequest{OrgID: orgID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, auditdomain.ActionControlUpdated, logs[0].Action)
	assert.Equal(t, "mfa", logs[0].Details["controlId"])
	assert.Equal(t, json.Number("2"), logs[0].Details["maturityLevel"])
	assert.Equal(t, json.Number("0"), logs[0].Details["previousLevel"])
}

func TestUpdateControlMaturity_PreviousLevelTracksLastWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.createOrg(t)
	orgID := env.orgID(t, org)

	for _, level := range []int{1, 3} {
		env.clock.Advance(time.Hour)
		_, err := env.svc.UpdateControlMaturity(ctx, domain.UpdateControlRequest{
			OrgID:         orgID,
			ControlID:     "backups",
			MaturityLevel: level,
		})
		require.NoError(t, err)
	}

	logs, err := env.audit.List(ctx, auditdomain.ListRequest{OrgID: orgID})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	assert.Equal(t, json.Number("3"), logs[0].Details["maturityLevel"])
	assert.Equal(t, json.Number("1"), logs[0].Details["previousLevel"])
	assert.Equal(t, json.Number("1"), logs[1].Details["maturityLevel"])
	assert.Equal(t, json.Number("0"), logs[1].Details["previousLevel"])
}

func TestUpdateControlMaturity_EvidenceKeptWhenOmitted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.createOrg(t)
	orgID := env.orgID(t, org)

	evidence := "Application allowlisting deployed"
	_, err := env.svc.UpdateControlMaturity(ctx, domain.UpdateControlRequest{
		OrgID:         orgID,
		ControlID:     "app-control",
		MaturityLevel: 1,
		Evidence:      &evidence,
	})
	require.NoError(t, err)

	empty := "   "
	for _, next := range []*string{nil, &empty} {
		updated, err := env.svc.UpdateControlMaturity(ctx, domain.UpdateControlRequest{
			OrgID:         orgID,
			ControlID:     "app-control",
			MaturityLevel: 2,
			Evidence:      next,
		})
		require.NoError(t, err)
		assert.Equal(t, evidence, updated.Evidence)
	}
}

func TestUpdateControlMaturity_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.createOrg(t)
	orgID := env.orgID(t, org)

	for _, level := range []int{-1, 4} {
		_, err := env.svc.UpdateControlMaturity(ctx, domain.UpdateControlRequest{
			OrgID:         orgID,
			ControlID:     "mfa",
			MaturityLevel: level,
		})
		assert.ErrorIs(t, err, domain.ErrInvalidMaturityLevel)
	}

	_, err := env.svc.UpdateControlMaturity(ctx, domain.UpdateControlRequest{
		OrgID:         orgID,
		ControlID:     "not-a-control",
		MaturityLevel: 1,
	})
	assert.ErrorIs(t, err, domain.ErrControlNotFound)

	// Rejected updates leave no trace.
	controls, err := env.svc.ListControls(ctx, orgID)
	require.NoError(t, err)
	for _, control := range controls {
		assert.Equal(t, 0, control.MaturityLevel)
	}
	logs, err := env.audit.List(ctx, auditdomain.ListRequest{OrgID: orgID})
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestGetDashboard(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	org := env.createOrg(t)
	orgID := env.orgID(t, org)

	_, err := env.svc.UpdateControlMaturity(ctx, domain.UpdateControlRequest{
		OrgID:         orgID,
		ControlID:     "patch-os",
		MaturityLevel: 3,
	})
	require.NoError(t, err)

	dashboard, err := env.svc.GetDashboard(ctx, orgID)
	require.NoError(t, err)
	assert.Equal(t, org.ID, dashboard.Organization.ID)
	require.Len(t, dashboard.Controls, catalog.Size)
	assert.Equal(t, 13, dashboard.OverallMaturity)

	for _, entry := range dashboard.Controls {
		if entry.ControlID == "patch-os" {
			assert.Equal(t, 3, entry.MaturityLevel)
			assert.Equal(t, "Fully Implemented", entry.MaturityName)
			assert.Equal(t, "green", entry.SeverityColor)
			assert.Equal(t, 100, entry.ProgressPercent)
			continue
		}
		assert.Equal(t, 0, entry.MaturityLevel)
		assert.Equal(t, "Not Implemented", entry.MaturityName)
		assert.Equal(t, "red", entry.SeverityColor)
		assert.Equal(t, 0, entry.ProgressPercent)
	}
}

func TestGetDashboard_UnknownOrganization(t *testing.T) {
	env := newTestEnv(t)

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	_, err = env.svc.GetDashboard(context.Background(), node.Generate())
	assert.ErrorIs(t, err, domain.ErrOrganizationNotFound)
}

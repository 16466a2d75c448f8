package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/mokaihq/essential-eight/internal/audit/domain"
	"github.com/mokaihq/essential-eight/internal/audit/repository"
	"github.com/mokaihq/essential-eight/internal/auditcontext"
	"github.com/mokaihq/essential-eight/internal/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *clock.FakeClock, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.AuditLog{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC))

	svc := NewService(Params{
		DB:    db,
		Log:   zaptest.NewLogger(t),
		GenID: node,
		Clock: fakeClock,
		Repo:  repository.Provide(),
	})
	return svc, fakeClock, node
}

func TestAppend(t *testing.T) {
	svc, fakeClock, node := newTestService(t)
	orgID := node.Generate()

	ctx := auditcontext.WithIPAddress(context.Background(), "203.0.113.7")
	entry, err := svc.Append(ctx, domain.AppendRequest{
		OrgID:  orgID,
		Action: domain.ActionAssessmentCompleted,
		Details: domain.AssessmentCompletedDetails{
			Assessor:    "Jordan Lee",
			CompletedAt: fakeClock.Now(),
		}.Map(),
	})
	require.NoError(t, err)
	assert.Equal(t, orgID.String(), entry.OrganizationID)
	assert.Equal(t, domain.ActionAssessmentCompleted, entry.Action)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
	assert.True(t, entry.CreatedAt.Equal(fakeClock.Now()))

	logs, err := svc.List(context.Background(), domain.ListRequest{OrgID: orgID})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Jordan Lee", logs[0].Details["assessor"])
}

func TestAppend_DefaultsIPToUnknown(t *testing.T) {
	svc, _, node := newTestService(t)
	orgID := node.Generate()

	entry, err := svc.Append(context.Background(), domain.AppendRequest{
		OrgID:  orgID,
		Action: domain.ActionControlUpdated,
	})
	require.NoError(t, err)
	assert.Equal(t, "unknown", entry.IPAddress)
	assert.Equal(t, datatypes.JSONMap{}, entry.Details)
}

func TestAppend_Validation(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Append(context.Background(), domain.AppendRequest{
		Action: domain.ActionControlUpdated,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)

	_, err = svc.Append(context.Background(), domain.AppendRequest{
		OrgID:  node.Generate(),
		Action: "  ",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAction)
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	svc, fakeClock, node := newTestService(t)
	orgID := node.Generate()
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		_, err := svc.Append(ctx, domain.AppendRequest{
			OrgID:   orgID,
			Action:  domain.ActionControlUpdated,
			Details: datatypes.JSONMap{"seq": i},
		})
		require.NoError(t, err)
		fakeClock.Advance(time.Minute)
	}

	logs, err := svc.List(ctx, domain.ListRequest{OrgID: orgID})
	require.NoError(t, err)
	require.Len(t, logs, domain.DefaultListLimit)
	assert.Equal(t, json.Number("59"), logs[0].Details["seq"])

	for i := 1; i < len(logs); i++ {
		assert.False(t, logs[i].CreatedAt.After(logs[i-1].CreatedAt))
	}

	limited, err := svc.List(ctx, domain.ListRequest{OrgID: orgID, Limit: 5})
	require.NoError(t, err)
	assert.Len(t, limited, 5)
}

func TestList_ScopedToOrganization(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := context.Background()
	orgA := node.Generate()
	orgB := node.Generate()

	_, err := svc.Append(ctx, domain.AppendRequest{OrgID: orgA, Action: domain.ActionOrganizationCreated})
	require.NoError(t, err)
	_, err = svc.Append(ctx, domain.AppendRequest{OrgID: orgB, Action: domain.ActionOrganizationCreated})
	require.NoError(t, err)

	logs, err := svc.List(ctx, domain.ListRequest{OrgID: orgA})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, orgA.String(), logs[0].OrganizationID)

	_, err = svc.List(ctx, domain.ListRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

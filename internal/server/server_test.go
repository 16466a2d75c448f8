package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	compliancedomain "github.com/mokaihq/essential-eight/internal/compliance/domain"
	"gorm.io/gorm"
)

type fakeComplianceService struct {
	createCalls int
	lastCreate  compliancedomain.CreateOrganizationRequest
	createErr   error

	updateCalls int
	lastUpdate  compliancedomain.UpdateControlRequest
	updateErr   error

	listControlsCalls int
	lastListOrgID     snowflake.ID
}

func (f *fakeComplianceService) CreateOrganization(ctx context.Context, req compliancedomain.CreateOrganizationRequest) (*compliancedomain.OrganizationResponse, error) {
	f.createCalls++
	f.lastCreate = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &compliancedomain.OrganizationResponse{
		ID:   snowflake.ID(100).String(),
		Name: req.Name,
		ABN:  req.ABN,
	}, nil
}

func (f *fakeComplianceService) ListOrganizations(ctx context.Context) ([]compliancedomain.OrganizationResponse, error) {
	return nil, nil
}

func (f *fakeComplianceService) ListControls(ctx context.Context, orgID snowflake.ID) ([]compliancedomain.ControlResponse, error) {
	f.listControlsCalls++
	f.lastListOrgID = orgID
	return []compliancedomain.ControlResponse{}, nil
}

func (f *fakeComplianceService) UpdateControlMaturity(ctx context.Context, req compliancedomain.UpdateControlRequest) (*compliancedomain.ControlResponse, error) {
	f.updateCalls++
	f.lastUpdate = req
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &compliancedomain.ControlResponse{
		ControlID:     req.ControlID,
		MaturityLevel: req.MaturityLevel,
	}, nil
}

func (f *fakeComplianceService) GetDashboard(ctx context.Context, orgID snowflake.ID) (*compliancedomain.DashboardResponse, error) {
	return &compliancedomain.DashboardResponse{}, nil
}

type fakeAuditService struct {
	lastList auditdomain.ListRequest
}

func (f *fakeAuditService) Append(ctx context.Context, req auditdomain.AppendRequest) (*auditdomain.AuditLogResponse, error) {
	return &auditdomain.AuditLogResponse{Action: req.Action}, nil
}

func (f *fakeAuditService) AppendTx(ctx context.Context, tx *gorm.DB, req auditdomain.AppendRequest) (*auditdomain.AuditLog, error) {
	return &auditdomain.AuditLog{}, nil
}

func (f *fakeAuditService) List(ctx context.Context, req auditdomain.ListRequest) ([]auditdomain.AuditLogResponse, error) {
	f.lastList = req
	return []auditdomain.AuditLogResponse{}, nil
}

func newTestRouter(srv *Server) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	srv.engine = router
	srv.registerAPIRoutes()
	return router
}

func doJSON(router *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateOrganizationHandler(t *testing.T) {
	complianceSvc := &fakeComplianceService{}
	router := newTestRouter(&Server{complianceSvc: complianceSvc, auditSvc: &fakeAuditService{}})

	resp := doJSON(router, http.MethodPost, "/api/organizations", `{"name":"  Acme  ","abn":"12345678901"}`)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", resp.Code)
	}
	if complianceSvc.createCalls != 1 {
		t.Fatalf("expected one create call, got %d", complianceSvc.createCalls)
	}
	if complianceSvc.lastCreate.Name != "Acme" {
		t.Fatalf("expected trimmed name, got %q", complianceSvc.lastCreate.Name)
	}
}

func TestCreateOrganizationHandlerValidationError(t *testing.T) {
	complianceSvc := &fakeComplianceService{createErr: compliancedomain.ErrInvalidABN}
	router := newTestRouter(&Server{complianceSvc: complianceSvc, auditSvc: &fakeAuditService{}})

	resp := doJSON(router, http.MethodPost, "/api/organizations", `{"name":"Acme","abn":""}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	var payload errorResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if payload.Error.Type != "validation_error" {
		t.Fatalf("expected validation_error, got %q", payload.Error.Type)
	}
}

func TestUpdateControlHandler(t *testing.T) {
	complianceSvc := &fakeComplianceService{}
	router := newTestRouter(&Server{complianceSvc: complianceSvc, auditSvc: &fakeAuditService{}})

	resp := doJSON(router, http.MethodPut, "/api/controls",
		`{"organization_id":"100","control_id":"mfa","maturity_level":2,"evidence":"enforced"}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if complianceSvc.lastUpdate.ControlID != "mfa" || complianceSvc.lastUpdate.MaturityLevel != 2 {
		t.Fatalf("unexpected update request: %+v", complianceSvc.lastUpdate)
	}
	if complianceSvc.lastUpdate.Evidence == nil || *complianceSvc.lastUpdate.Evidence != "enforced" {
		t.Fatal("expected evidence to be forwarded")
	}
}

func TestUpdateControlHandlerMissingLevel(t *testing.T) {
	complianceSvc := &fakeComplianceService{}
	router := newTestRouter(&Server{complianceSvc: complianceSvc, auditSvc: &fakeAuditService{}})

	resp := doJSON(router, http.MethodPut, "/api/controls",
		`{"organization_id":"100","control_id":"mfa"}`)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	if complianceSvc.updateCalls != 0 {
		t.Fatal("expected service not to be called")
	}
}

func TestUpdateControlHandlerNotFound(t *testing.T) {
	complianceSvc := &fakeComplianceService{updateErr: compliancedomain.ErrControlNotFound}
	router := newTestRouter(&Server{complianceSvc: complianceSvc, auditSvc: &fakeAuditService{}})

	resp := doJSON(router, http.MethodPut, "/api/controls",
		`{"organization_id":"100","control_id":"nope","maturity_level":1}`)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestListControlsHandlerRequiresOrgID(t *testing.T) {
	complianceSvc := &fakeComplianceService{}
	router := newTestRouter(&Server{complianceSvc: complianceSvc, auditSvc: &fakeAuditService{}})

	resp := doJSON(router, http.MethodGet, "/api/controls", "")
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}

	resp = doJSON(router, http.MethodGet, "/api/controls?org_id=100", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if complianceSvc.lastListOrgID != snowflake.ID(100) {
		t.Fatalf("expected org 100, got %v", complianceSvc.lastListOrgID)
	}
}

func TestListAuditLogsHandlerForwardsLimit(t *testing.T) {
	auditSvc := &fakeAuditService{}
	router := newTestRouter(&Server{complianceSvc: &fakeComplianceService{}, auditSvc: auditSvc})

	resp := doJSON(router, http.MethodGet, "/api/audit-logs?org_id=100&limit=5", "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if auditSvc.lastList.OrgID != snowflake.ID(100) || auditSvc.lastList.Limit != 5 {
		t.Fatalf("unexpected list request: %+v", auditSvc.lastList)
	}
}

func TestCatalogHandlers(t *testing.T) {
	router := newTestRouter(&Server{complianceSvc: &fakeComplianceService{}, auditSvc: &fakeAuditService{}})

	for _, target := range []string{"/api/catalog/controls", "/api/catalog/maturity-levels"} {
		resp := doJSON(router, http.MethodGet, target, "")
		if resp.Code != http.StatusOK {
			t.Fatalf("expected status 200 for %s, got %d", target, resp.Code)
		}
	}
}

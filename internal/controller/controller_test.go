package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-finance-be/internal/dto"
	"campus-finance-be/internal/entity"
	"campus-finance-be/internal/pkg/apperror"
	"campus-finance-be/internal/pkg/logger"
	"campus-finance-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- fakes ---

type MockAuthService struct {
	mock.Mock
	users map[string]*entity.User
}

func (m *MockAuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*dto.LoginResponse)
	return res, args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, session *entity.Session) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockAuthService) ChangePassword(ctx context.Context, actor *entity.User, req *dto.ChangePasswordRequest) error {
	return m.Called(ctx, actor, req).Error(0)
}

// Authenticate resolves fixed tokens without going through the mock so route
// tests only set expectations on the handler under test.
func (m *MockAuthService) Authenticate(ctx context.Context, rawToken string) (*entity.User, *entity.Session, error) {
	user, ok := m.users[rawToken]
	if !ok {
		return nil, nil, apperror.Unauthenticated("Unauthorized")
	}
	return user, &entity.Session{TokenID: "jti-" + rawToken, UserId: user.Id, Role: user.Role, ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type MockAdminService struct{ mock.Mock }

func (m *MockAdminService) ListOperators(ctx context.Context) ([]dto.OperatorListResponse, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]dto.OperatorListResponse)
	return res, args.Error(1)
}

func (m *MockAdminService) CreateOperator(ctx context.Context, actor *entity.User, req dto.CreateOperatorRequest) (*dto.CreateOperatorResponse, error) {
	args := m.Called(ctx, actor, req)
	res, _ := args.Get(0).(*dto.CreateOperatorResponse)
	return res, args.Error(1)
}

func (m *MockAdminService) AvailableScopes(ctx context.Context) (*dto.AvailableScopesResponse, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*dto.AvailableScopesResponse)
	return res, args.Error(1)
}

type MockMahasiswaService struct{ mock.Mock }

func (m *MockMahasiswaService) List(ctx context.Context, actor *entity.User) ([]dto.MahasiswaResponse, error) {
	args := m.Called(ctx, actor)
	res, _ := args.Get(0).([]dto.MahasiswaResponse)
	return res, args.Error(1)
}

type MockTagihanService struct{ mock.Mock }

func (m *MockTagihanService) List(ctx context.Context, actor *entity.User, page, limit int) (*dto.TagihanPage, error) {
	args := m.Called(ctx, actor, page, limit)
	res, _ := args.Get(0).(*dto.TagihanPage)
	return res, args.Error(1)
}

func (m *MockTagihanService) Create(ctx context.Context, actor *entity.User, req *dto.CreateTagihanRequest) (*dto.TagihanResponse, error) {
	args := m.Called(ctx, actor, req)
	res, _ := args.Get(0).(*dto.TagihanResponse)
	return res, args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Dashboard(ctx context.Context, actor *entity.User) (*dto.UserDashboardResponse, error) {
	args := m.Called(ctx, actor)
	res, _ := args.Get(0).(*dto.UserDashboardResponse)
	return res, args.Error(1)
}

// --- harness ---

type harness struct {
	app       *fiber.App
	auth      *MockAuthService
	admin     *MockAdminService
	mahasiswa *MockMahasiswaService
	tagihan   *MockTagihanService
	user      *MockUserService

	adminUser    *entity.User
	operatorUser *entity.User
	studentUser  *entity.User
}

func strPtr(s string) *string { return &s }

func newHarness() *harness {
	h := &harness{
		auth:         &MockAuthService{},
		admin:        &MockAdminService{},
		mahasiswa:    &MockMahasiswaService{},
		tagihan:      &MockTagihanService{},
		user:         &MockUserService{},
		adminUser:    &entity.User{Id: uuid.New(), Role: entity.UserRoleAdmin, IsActive: true},
		operatorUser: &entity.User{Id: uuid.New(), Role: entity.UserRoleOperator, Prodi: strPtr("TI"), Angkatan: strPtr("2023"), IsActive: true},
		studentUser:  &entity.User{Id: uuid.New(), Role: entity.UserRoleUser, Prodi: strPtr("TI"), Angkatan: strPtr("2023"), IsActive: true},
	}
	h.auth.users = map[string]*entity.User{
		"admin":    h.adminUser,
		"operator": h.operatorUser,
		"student":  h.studentUser,
	}

	log := logger.NewNopLogger()
	gate := serverutils.NewAuthGate(h.auth, log)

	h.app = fiber.New(fiber.Config{ErrorHandler: serverutils.ErrorHandlerMiddleware(log)})
	api := h.app.Group("/api")
	NewAuthController(h.auth, gate, log).RegisterRoutes(api)
	NewAdminController(h.admin, gate, log).RegisterRoutes(api)
	NewOperatorController(h.mahasiswa, h.tagihan, gate, log).RegisterRoutes(api)
	NewUserController(h.user, gate, log).RegisterRoutes(api)
	return h
}

func (h *harness) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)

	var out map[string]interface{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

// --- auth ---

func TestAuthController_Login(t *testing.T) {
	h := newHarness()
	h.auth.On("Login", mock.Anything, &dto.LoginRequest{Identifier: "OPTI0001", Password: "secret1"}).
		Return(&dto.LoginResponse{AccessToken: "tok", MustChangePassword: true}, nil)

	resp, body := h.do(t, "POST", "/api/auth/login", "", map[string]string{"identifier": "OPTI0001", "password": "secret1"})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	data := body["data"].(map[string]interface{})
	assert.Equal(t, "tok", data["accessToken"])
	assert.Equal(t, true, data["mustChangePassword"])
	h.auth.AssertExpectations(t)
}

func TestAuthController_Login_MissingFields(t *testing.T) {
	h := newHarness()

	resp, body := h.do(t, "POST", "/api/auth/login", "", map[string]string{"identifier": "OPTI0001"})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Password wajib diisi", body["error"])
	h.auth.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestAuthController_Login_BadCredentials(t *testing.T) {
	h := newHarness()
	h.auth.On("Login", mock.Anything, mock.Anything).
		Return(nil, apperror.Unauthenticated("Identifier atau password salah"))

	resp, body := h.do(t, "POST", "/api/auth/login", "", map[string]string{"identifier": "x", "password": "y"})

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Identifier atau password salah", body["error"])
}

func TestAuthController_Logout_RevokesCurrentSession(t *testing.T) {
	h := newHarness()
	h.auth.On("Logout", mock.Anything, mock.MatchedBy(func(s *entity.Session) bool {
		return s.TokenID == "jti-student" && s.UserId == h.studentUser.Id
	})).Return(nil)

	resp, _ := h.do(t, "POST", "/api/auth/logout", "student", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	h.auth.AssertExpectations(t)
}

func TestAuthController_Logout_RequiresToken(t *testing.T) {
	h := newHarness()

	resp, _ := h.do(t, "POST", "/api/auth/logout", "", nil)

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthController_ChangePassword(t *testing.T) {
	h := newHarness()
	h.auth.On("ChangePassword", mock.Anything, h.operatorUser, &dto.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"}).
		Return(nil)

	resp, body := h.do(t, "POST", "/api/auth/change-password", "operator", map[string]string{"oldPassword": "secret1", "newPassword": "secret2"})

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	h.auth.AssertExpectations(t)
}

// --- admin ---

func TestAdminController_RoleGate(t *testing.T) {
	h := newHarness()
	h.admin.On("AvailableScopes", mock.Anything).Return(&dto.AvailableScopesResponse{ProdiList: []string{"TI"}}, nil)

	tests := []struct {
		name       string
		token      string
		wantStatus int
	}{
		{"anonymous", "", fiber.StatusUnauthorized},
		{"operator", "operator", fiber.StatusForbidden},
		{"student", "student", fiber.StatusForbidden},
		{"admin", "admin", fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := h.do(t, "GET", "/api/admin/available-scopes", tt.token, nil)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
	h.admin.AssertNumberOfCalls(t, "AvailableScopes", 1)
}

func TestAdminController_CreateOperator(t *testing.T) {
	h := newHarness()
	req := dto.CreateOperatorRequest{Name: "Budi", Prodi: "ti", Angkatan: "2023", Password: "secret1"}
	h.admin.On("CreateOperator", mock.Anything, h.adminUser, req).
		Return(&dto.CreateOperatorResponse{Identifier: "OPTI0042", Prodi: "TI", Angkatan: "2023"}, nil)

	resp, body := h.do(t, "POST", "/api/admin/operators", "admin", req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Operator TI 2023 berhasil dibuat", body["message"])
	assert.Equal(t, "OPTI0042", body["data"].(map[string]interface{})["identifier"])
	h.admin.AssertExpectations(t)
}

func TestAdminController_CreateOperator_DuplicateScope(t *testing.T) {
	h := newHarness()
	h.admin.On("CreateOperator", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.DuplicateScope("TI", "2023"))

	resp, body := h.do(t, "POST", "/api/admin/operators", "admin",
		dto.CreateOperatorRequest{Name: "Budi", Prodi: "TI", Angkatan: "2023", Password: "secret1"})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Operator untuk TI angkatan 2023 sudah ada", body["error"])
}

func TestAdminController_ListOperators(t *testing.T) {
	h := newHarness()
	h.admin.On("ListOperators", mock.Anything).Return([]dto.OperatorListResponse{{Identifier: "OPTI0001"}}, nil)

	resp, body := h.do(t, "GET", "/api/admin/operators", "admin", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, body["data"], 1)
}

// --- operator ---

func TestOperatorController_Mahasiswa_OperatorOnly(t *testing.T) {
	h := newHarness()
	h.mahasiswa.On("List", mock.Anything, h.operatorUser).
		Return([]dto.MahasiswaResponse{{Identifier: "2023001", HasPaidThisWeek: true}}, nil)

	resp, body := h.do(t, "GET", "/api/operator/mahasiswa", "operator", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	items := body["data"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, true, items[0].(map[string]interface{})["hasPaidThisWeek"])

	resp, _ = h.do(t, "GET", "/api/operator/mahasiswa", "admin", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestOperatorController_Mahasiswa_ScopeMissing(t *testing.T) {
	h := newHarness()
	h.mahasiswa.On("List", mock.Anything, mock.Anything).Return(nil, apperror.ScopeMissing())

	resp, _ := h.do(t, "GET", "/api/operator/mahasiswa", "operator", nil)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestOperatorController_GetTagihan_Defaults(t *testing.T) {
	h := newHarness()
	h.tagihan.On("List", mock.Anything, h.adminUser, 1, 10).
		Return(&dto.TagihanPage{Items: []dto.TagihanListItem{{PaidCount: 3}}, Total: 1, Page: 1, Limit: 10, TotalPages: 1}, nil)

	resp, body := h.do(t, "GET", "/api/operator/tagihan", "admin", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(1), body["totalPages"])
	assert.Len(t, body["data"], 1)
	h.tagihan.AssertExpectations(t)
}

func TestOperatorController_GetTagihan_QueryParams(t *testing.T) {
	h := newHarness()
	h.tagihan.On("List", mock.Anything, h.operatorUser, 4, 10).
		Return(&dto.TagihanPage{Total: 37, Page: 4, Limit: 10, TotalPages: 4}, nil)

	resp, body := h.do(t, "GET", "/api/operator/tagihan?page=4&limit=10", "operator", nil)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(4), body["totalPages"])
	assert.Equal(t, []interface{}{}, body["data"])
}

func TestOperatorController_GetTagihan_InvalidLimit(t *testing.T) {
	h := newHarness()

	resp, body := h.do(t, "GET", "/api/operator/tagihan?limit=500", "operator", nil)

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Limit maksimal 100", body["error"])
	h.tagihan.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOperatorController_GetTagihan_StudentForbidden(t *testing.T) {
	h := newHarness()

	resp, _ := h.do(t, "GET", "/api/operator/tagihan", "student", nil)

	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestOperatorController_CreateTagihan(t *testing.T) {
	h := newHarness()
	req := &dto.CreateTagihanRequest{Title: "Kas Minggu 3", Jenis: "Kas", Nominal: 5000, Deadline: "2026-11-01"}
	h.tagihan.On("Create", mock.Anything, h.operatorUser, req).
		Return(&dto.TagihanResponse{Title: "Kas Minggu 3", ProdiTarget: "TI", AngkatanTarget: "2023"}, nil)

	resp, body := h.do(t, "POST", "/api/operator/tagihan", "operator", req)

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tagihan berhasil dibuat untuk TI 2023", body["message"])
	assert.Equal(t, "TI", body["data"].(map[string]interface{})["prodiTarget"])
	h.tagihan.AssertExpectations(t)
}

func TestOperatorController_CreateTagihan_BadDeadline(t *testing.T) {
	h := newHarness()

	resp, body := h.do(t, "POST", "/api/operator/tagihan", "operator",
		dto.CreateTagihanRequest{Title: "Kas", Jenis: "Kas", Nominal: 5000, Deadline: "besok"})

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Format deadline tidak valid", body["error"])
}

// --- user ---

func TestUserController_Dashboard(t *testing.T) {
	h := newHarness()
	h.user.On("Dashboard", mock.Anything, h.studentUser).
		Return(&dto.UserDashboardResponse{Balance: 125000}, nil)

	resp, body := h.do(t, "GET", "/api/user/dashboard", "student", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(125000), body["data"].(map[string]interface{})["balance"])

	resp, _ = h.do(t, "GET", "/api/user/dashboard", "operator", nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUserController_Dashboard_ServerErrorIsGeneric(t *testing.T) {
	h := newHarness()
	h.user.On("Dashboard", mock.Anything, mock.Anything).
		Return(nil, apperror.Internal(assert.AnError))

	resp, body := h.do(t, "GET", "/api/user/dashboard", "student", nil)

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, apperror.MsgServerError, body["error"])
}

func TestListEndpoints_EmptyDataIsArray(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		token string
		setup func(h *harness)
	}{
		{"mahasiswa nil", "/api/operator/mahasiswa", "operator", func(h *harness) {
			h.mahasiswa.On("List", mock.Anything, mock.Anything).Return(nil, nil)
		}},
		{"mahasiswa empty", "/api/operator/mahasiswa", "operator", func(h *harness) {
			h.mahasiswa.On("List", mock.Anything, mock.Anything).Return([]dto.MahasiswaResponse{}, nil)
		}},
		{"operators nil", "/api/admin/operators", "admin", func(h *harness) {
			h.admin.On("ListOperators", mock.Anything).Return(nil, nil)
		}},
		{"operators empty", "/api/admin/operators", "admin", func(h *harness) {
			h.admin.On("ListOperators", mock.Anything).Return([]dto.OperatorListResponse{}, nil)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			tt.setup(h)

			resp, body := h.do(t, "GET", tt.path, tt.token, nil)

			assert.Equal(t, fiber.StatusOK, resp.StatusCode)
			require.Contains(t, body, "data")
			assert.Equal(t, []interface{}{}, body["data"])
		})
	}
}

func TestOperatorController_GetTagihan_BlankParamsUseDefaults(t *testing.T) {
	h := newHarness()
	h.tagihan.On("List", mock.Anything, h.operatorUser, 1, 10).
		Return(&dto.TagihanPage{Page: 1, Limit: 10}, nil)

	for _, path := range []string{"/api/operator/tagihan?page=&limit=", "/api/operator/tagihan?page=%20&limit="} {
		resp, body := h.do(t, "GET", path, "operator", nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		assert.Equal(t, float64(1), body["page"])
		assert.Equal(t, float64(10), body["limit"])
	}
	h.tagihan.AssertNumberOfCalls(t, "List", 2)
}

func TestOperatorController_GetTagihan_InvalidParams(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantMsg string
	}{
		{"non numeric page", "?page=abc", "Parameter halaman tidak valid"},
		{"zero page", "?page=0", "Halaman minimal 1"},
		{"zero limit", "?limit=0", "Limit minimal 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()

			resp, body := h.do(t, "GET", "/api/operator/tagihan"+tt.query, "operator", nil)

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Equal(t, tt.wantMsg, body["error"])
			h.tagihan.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

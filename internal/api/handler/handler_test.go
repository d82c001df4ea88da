package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"schooltt/backend/internal/dto"
	"schooltt/backend/internal/service"
	"schooltt/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutErr     error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock UserService ──

type mockUserService struct {
	getResult *dto.UserResponse
	getErr    error
}

func (m *mockUserService) Create(_ context.Context, _ *dto.CreateUserRequest, _ string) (*dto.UserResponse, error) {
	return nil, nil
}
func (m *mockUserService) GetByID(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockUserService) List(_ context.Context, _ *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	return nil, 0, nil
}
func (m *mockUserService) Update(_ context.Context, _ string, _ *dto.UpdateUserRequest, _ string) (*dto.UserResponse, error) {
	return nil, nil
}
func (m *mockUserService) Delete(_ context.Context, _, _ string) error {
	return nil
}

// ── Mock TimetableService ──

type mockTimetableService struct {
	bindResult    *dto.TimetableResponse
	bindErr       error
	getResult     *dto.TimetableResponse
	getErr        error
	listResult    []dto.TimetableResponse
	listErr       error
	unbindErr     error
	addResult     *dto.TimetableResponse
	addErr        error
	removeErr     error
	gridResult    *dto.GridResponse
	gridErr       error
	previewResult *dto.DayPreviewResponse
	previewErr    error
}

func (m *mockTimetableService) Bind(_ context.Context, _ *dto.BindTimetableRequest, _ string) (*dto.TimetableResponse, error) {
	return m.bindResult, m.bindErr
}
func (m *mockTimetableService) GetByID(_ context.Context, _ string) (*dto.TimetableResponse, error) {
	return m.getResult, m.getErr
}
func (m *mockTimetableService) ListBySection(_ context.Context, _ string) ([]dto.TimetableResponse, error) {
	return m.listResult, m.listErr
}
func (m *mockTimetableService) Unbind(_ context.Context, _ string, _ string) error {
	return m.unbindErr
}
func (m *mockTimetableService) AddActivity(_ context.Context, _ string, _ *dto.AddActivityRequest, _ string) (*dto.TimetableResponse, error) {
	return m.addResult, m.addErr
}
func (m *mockTimetableService) RemoveActivity(_ context.Context, _ string, _ string) error {
	return m.removeErr
}
func (m *mockTimetableService) Grid(_ context.Context, _ string) (*dto.GridResponse, error) {
	return m.gridResult, m.gridErr
}
func (m *mockTimetableService) PreviewDay(_ context.Context, _ string, _ string) (*dto.DayPreviewResponse, error) {
	return m.previewResult, m.previewErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportGrid(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportEvents(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ── Mock FeedService ──

type mockFeedService struct {
	feed string
	err  error
}

func (m *mockFeedService) TimetableFeed(_ context.Context, _ string) (string, error) {
	return m.feed, m.err
}
func (m *mockFeedService) PersonFeed(_ context.Context, _ string) (string, error) {
	return m.feed, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

func setupGin() (*gin.Engine, *gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, r := gin.CreateTestContext(w)
	return r, c, w
}

func setAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "admin")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{
		loginResult: &dto.TokenResponse{
			AccessToken:  "test-access-token",
			RefreshToken: "test-refresh-token",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, &mockUserService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "zhang",
		Password: "Test1234",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockUserService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", bytes.NewReader([]byte("invalid json")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	mock := &mockAuthService{loginErr: service.ErrInvalidCredentials}
	h := NewAuthHandler(mock, &mockUserService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/login", jsonBody(dto.LoginRequest{
		Username: "zhang",
		Password: "wrong",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/login", h.Login)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11001 {
		t.Errorf("expected error code 11001, got %d", resp.Code)
	}
}

func TestAuthHandler_RefreshToken_Success(t *testing.T) {
	mock := &mockAuthService{
		refreshResult: &dto.TokenResponse{
			AccessToken:  "new-access",
			RefreshToken: "new-refresh",
			ExpiresIn:    900,
		},
	}
	h := NewAuthHandler(mock, &mockUserService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "old-refresh",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	mock := &mockAuthService{refreshErr: service.ErrRefreshInvalid}
	h := NewAuthHandler(mock, &mockUserService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{
		RefreshToken: "stale-refresh",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/auth/refresh", h.RefreshToken)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11002 {
		t.Errorf("expected error code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Success(t *testing.T) {
	userMock := &mockUserService{
		getResult: &dto.UserResponse{ID: "test-user-id", Name: "张老师"},
	}
	h := NewAuthHandler(&mockAuthService{}, userMock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", func(c *gin.Context) {
		setAuth(c)
		h.GetCurrentUser(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAuthHandler_GetCurrentUser_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, &mockUserService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/auth/me", nil)

	r := gin.New()
	r.GET("/auth/me", h.GetCurrentUser)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAuthHandler_ChangePassword_WrongOld(t *testing.T) {
	mock := &mockAuthService{changePassErr: service.ErrOldPasswordWrong}
	h := NewAuthHandler(mock, &mockUserService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("PUT", "/auth/password", jsonBody(dto.ChangePasswordRequest{
		OldPassword: "Old12345",
		NewPassword: "New12345",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.PUT("/auth/password", func(c *gin.Context) {
		setAuth(c)
		h.ChangePassword(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 11003 {
		t.Errorf("expected error code 11003, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// TimetableHandler Tests
// ═══════════════════════════════════════════════════════════

func TestTimetableHandler_Bind_Success(t *testing.T) {
	mock := &mockTimetableService{
		bindResult: &dto.TimetableResponse{ID: "tt-1"},
	}
	h := NewTimetableHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timetables", jsonBody(dto.BindTimetableRequest{
		SectionID: "11111111-1111-1111-1111-111111111111",
		TermID:    "22222222-2222-2222-2222-222222222222",
		SchemaID:  "33333333-3333-3333-3333-333333333333",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timetables", func(c *gin.Context) {
		setAuth(c)
		h.Bind(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestTimetableHandler_Bind_BadJSON(t *testing.T) {
	h := NewTimetableHandler(&mockTimetableService{})

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timetables", bytes.NewReader([]byte("bad")))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timetables", func(c *gin.Context) {
		setAuth(c)
		h.Bind(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTimetableHandler_AddActivity_Invalid(t *testing.T) {
	mock := &mockTimetableService{addErr: service.ErrActivityInvalid}
	h := NewTimetableHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("POST", "/timetables/tt-1/activities", jsonBody(dto.AddActivityRequest{
		DayID:    "C",
		PeriodID: "P1",
		Title:    "数学",
	}))
	req.Header.Set("Content-Type", "application/json")

	r := gin.New()
	r.POST("/timetables/:id/activities", func(c *gin.Context) {
		setAuth(c)
		h.AddActivity(c)
	})
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 24003 {
		t.Errorf("expected error code 24003, got %d", resp.Code)
	}
}

func TestTimetableHandler_Grid_NotFound(t *testing.T) {
	mock := &mockTimetableService{gridErr: service.ErrTimetableNotFound}
	h := NewTimetableHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/no-such/grid", nil)

	r := gin.New()
	r.GET("/timetables/:id/grid", h.Grid)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 24002 {
		t.Errorf("expected error code 24002, got %d", resp.Code)
	}
}

func TestTimetableHandler_PreviewDay_BadDate(t *testing.T) {
	mock := &mockTimetableService{previewErr: service.ErrBindDateInvalid}
	h := NewTimetableHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/tt-1/days/not-a-date", nil)

	r := gin.New()
	r.GET("/timetables/:id/days/:date", h.PreviewDay)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestTimetableHandler_Bind_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"SectionNotFound", service.ErrSectionNotFound, 404, 23001},
		{"TermNotFound", service.ErrTermNotFound, 404, 21002},
		{"SchemaNotFound", service.ErrSchemaNotFound, 404, 22002},
		{"BindDateInvalid", service.ErrBindDateInvalid, 400, 24001},
		{"SchemaInvalid", service.ErrSchemaInvalid, 400, 22001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockTimetableService{bindErr: tt.err}
			h := NewTimetableHandler(mock)

			_, _, w := setupGin()
			req := httptest.NewRequest("POST", "/timetables", jsonBody(dto.BindTimetableRequest{
				SectionID: "11111111-1111-1111-1111-111111111111",
				TermID:    "22222222-2222-2222-2222-222222222222",
				SchemaID:  "33333333-3333-3333-3333-333333333333",
			}))
			req.Header.Set("Content-Type", "application/json")

			r := gin.New()
			r.POST("/timetables", func(c *gin.Context) {
				setAuth(c)
				h.Bind(c)
			})
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Grid_Success(t *testing.T) {
	buf := bytes.NewBufferString("excel content")
	mock := &mockExportService{
		buf:      buf,
		filename: "timetable_两日轮换.xlsx",
	}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/tt-1/export/grid", nil)

	r := gin.New()
	r.GET("/timetables/:id/export/grid", h.ExportGrid)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	ct := w.Header().Get("Content-Type")
	if ct != xlsxContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if cd == "" {
		t.Error("expected Content-Disposition header")
	}
}

func TestExportHandler_Events_NoEvents(t *testing.T) {
	mock := &mockExportService{err: service.ErrExportNoEvents}
	h := NewExportHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/tt-1/export/events", nil)

	r := gin.New()
	r.GET("/timetables/:id/export/events", h.ExportEvents)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// FeedHandler Tests
// ═══════════════════════════════════════════════════════════

func TestFeedHandler_TimetableFeed_Success(t *testing.T) {
	mock := &mockFeedService{feed: "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n"}
	h := NewFeedHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/tt-1/feed.ics", nil)

	r := gin.New()
	r.GET("/timetables/:id/feed.ics", h.TimetableFeed)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != icsContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("BEGIN:VCALENDAR")) {
		t.Error("expected VCALENDAR body")
	}
}

func TestFeedHandler_TimetableFeed_NoEvents(t *testing.T) {
	mock := &mockFeedService{err: service.ErrFeedNoEvents}
	h := NewFeedHandler(mock)

	_, _, w := setupGin()
	req := httptest.NewRequest("GET", "/timetables/tt-1/feed.ics", nil)

	r := gin.New()
	r.GET("/timetables/:id/feed.ics", h.TimetableFeed)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

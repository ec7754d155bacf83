package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell-report-backend/internal/catalog"
	"inkwell-report-backend/internal/config"
	"inkwell-report-backend/internal/db"
	"inkwell-report-backend/internal/llm"
	"inkwell-report-backend/internal/model"
	"inkwell-report-backend/internal/repository"
	"inkwell-report-backend/internal/service"
	"inkwell-report-backend/utilities"
)

type testServer struct {
	router *gin.Engine
	mock   *llm.MockClient
	bus    *utilities.EventBus
}

func newTestServer(t *testing.T, reportAuth bool, formats ...string) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	database, err := db.InitDBFromConfig(config.DBConfig{
		Driver:       "sqlite",
		Path:         filepath.Join(t.TempDir(), "api.db"),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database))

	log := utilities.NewNopLogger()
	reportRepo := repository.NewReportRepository(database)
	userRepo := repository.NewUserRepository(database)
	bus := utilities.NewEventBus()
	service.InitReportEventListeners(bus, reportRepo, log)

	mock := &llm.MockClient{Respond: func(prompt string) (string, error) {
		return "açıklama", nil
	}}
	outputDir := t.TempDir()
	tokens := utilities.NewJWTManager("access", "refresh", 0, 0)
	reports := service.NewReportService(mock, catalog.Default(), reportRepo,
		service.NewReportPersister(outputDir, log), bus, log,
		service.ReportServiceConfig{Parallelism: 2, PersistFormats: formats})

	opts := RouteOptions{UserAuth: utilities.AuthMiddleware(tokens), OutputDir: outputDir, ModelID: "mock"}
	if reportAuth {
		opts.ReportAuth = utilities.AuthMiddleware(tokens)
	}

	r := gin.New()
	RegisterRoutes(r, reports, service.NewAuthService(userRepo, tokens), service.NewUserService(userRepo), log, opts)
	return &testServer{router: r, mock: mock, bus: bus}
}

func (s *testServer) do(t *testing.T, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env.Error.Code
}

const fullReportBody = `{
	"name": "Ayşe",
	"surname": "Yılmaz",
	"birth_date": "2015-04-12",
	"grade": "3-A",
	"age_group": "primary",
	"interests": ["müzik"],
	"assessor_name": "Zeynep Kaya",
	"assessor_role": "teacher",
	"responses": {
		"skills": {"problem_solving": "Çok yetkin"},
		"academic": {"performance": "Beklentilerin altında"}
	},
	"comments": "Derse katılımı yüksek."
}`

func TestHealth(t *testing.T) {
	s := newTestServer(t, false)
	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","model":"mock"}`, rec.Body.String())
}

func TestStudentFullReport(t *testing.T) {
	s := newTestServer(t, false, "json")
	rec := s.do(t, http.MethodPost, "/student-full-report", fullReportBody)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out service.FullReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "Ayşe Yılmaz", out.Report.Content.StudentName)
	assert.Equal(t, []string{"skills", "academic"}, out.Assessment.Responses.Categories(), "recorded order is preserved")
	assert.Equal(t, map[string]int{"skills": 1, "academic": 1}, out.Report.Content.Summary)
	assert.Len(t, out.Report.Content.Strengths, 1)
	assert.Len(t, out.Report.Content.GrowthAreas, 1)
	assert.Contains(t, out.Files, "json")
	assert.Equal(t, 2, s.mock.CallCount())

	s.bus.Wait()
	rec = s.do(t, http.MethodGet, "/reports/"+out.Report.ReportID, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var archived model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &archived))
	assert.Equal(t, *out.Report, archived)

	rec = s.do(t, http.MethodGet, "/students/"+out.Student.StudentID+"/reports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), out.Report.ReportID)

	rec = s.do(t, http.MethodGet, "/students/"+out.Student.StudentID+"/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var progress model.StudentProgress
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &progress))
	assert.Equal(t, int64(1), progress.ReportCount)

	rec = s.do(t, http.MethodGet, "/reports/"+out.Report.ReportID+"/files/json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	rec = s.do(t, http.MethodGet, "/reports/"+out.Report.ReportID+"/files/pdf", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStudentFullReportValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing assessor_name", strings.Replace(fullReportBody, `"assessor_name": "Zeynep Kaya",`, "", 1)},
		{"bad age group", strings.Replace(fullReportBody, `"primary"`, `"adult"`, 1)},
		{"non-string answer", strings.Replace(fullReportBody, `"Çok yetkin"`, `5`, 1)},
		{"not json", `{"name":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, false)
			rec := s.do(t, http.MethodPost, "/student-full-report", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, "validation_failed", errorCode(t, rec))
			assert.Equal(t, 0, s.mock.CallCount())
		})
	}
}

func TestStudentFullReportExternalFailure(t *testing.T) {
	s := newTestServer(t, false)
	s.mock.Respond = func(string) (string, error) {
		return "", &llm.ErrProviderUnavailable{Err: errors.New("401 invalid api key")}
	}

	rec := s.do(t, http.MethodPost, "/student-full-report", fullReportBody)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "external_service_failure", errorCode(t, rec))
}

func TestGenerateReport(t *testing.T) {
	s := newTestServer(t, false)
	s.mock.AddResponse(llm.MockResponse{Text: "Fen raporu"})

	rec := s.do(t, http.MethodPost, "/generate-report",
		`{"subject_name":"Fen","strengths":"deney","growth_areas":"rapor yazma","suggestions":"okuma"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"rapor":"Fen raporu"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/generate-report", `{"subject_name":"Fen"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, s.mock.CallCount())
}

func TestCatalogAndUnknownReport(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"performance"`)

	rec = s.do(t, http.MethodGet, "/reports/RPT-none", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/reports/RPT-none/files/docx", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthFlowAndProtectedReports(t *testing.T) {
	s := newTestServer(t, true)

	rec := s.do(t, http.MethodPost, "/student-full-report", fullReportBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/register", `{"username":"zeynep","email":"zeynep@okul.test","password":"gizli"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "gizli")

	rec = s.do(t, http.MethodPost, "/auth/register", `{"email":"zeynep@okul.test","password":"x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", `{"email":"zeynep@okul.test","password":"yanlis"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/login", `{"email":"zeynep@okul.test","password":"gizli"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	bearer := "Bearer " + login.AccessToken

	rec = s.do(t, http.MethodPost, "/student-full-report", fullReportBody, "Authorization", bearer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/user/me", "", "Authorization", bearer)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"zeynep@okul.test"`)

	rec = s.do(t, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+login.RefreshToken+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodPost, "/auth/refresh", `{"refresh_token":"`+login.AccessToken+`"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterIgnoresPrivilegedFields(t *testing.T) {
	s := newTestServer(t, false)

	rec := s.do(t, http.MethodPost, "/auth/register",
		`{"id":99,"role":"admin","username":"ali","email":"ali@okul.test","password":"gizli","first_name":"Ali"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var out struct {
		User model.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, "teacher", out.User.Role)
	assert.Equal(t, uint(1), out.User.ID)
	assert.Equal(t, "Ali", out.User.FirstName)

	rec = s.do(t, http.MethodPost, "/auth/register", `{"id":1,"email":"veli@okul.test","password":"gizli"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, "a client-chosen id never clashes")
}

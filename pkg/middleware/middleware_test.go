package middleware

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"inkwell-report-backend/internal/model"
	"inkwell-report-backend/utilities"
)

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"wildcard", []string{"*"}, "http://framer.example", "*"},
		{"listed origin", []string{"http://localhost:5173"}, "http://localhost:5173", "http://localhost:5173"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(CORS(tt.origins))
			r.POST("/generate-report", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(http.MethodOptions, "/generate-report", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestDumpRestoresBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestDumpMiddleware(utilities.NewNopLogger()), RequestLogger(utilities.NewNopLogger()))
	r.POST("/echo", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	req := httptest.NewRequest(http.MethodPost, "/echo", bytes.NewBufferString(`{"subject_name":"Fen"}`))
	req.Header.Set("Authorization", "Bearer secret")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `{"subject_name":"Fen"}`, rec.Body.String())
	assert.Equal(t, "Bearer secret", req.Header.Get("Authorization"), "dump must not mutate request headers")
}

func TestRequestDumpRedactsCredentials(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := &utilities.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(RequestDumpMiddleware(log))
	r.POST("/auth/login", func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		c.String(http.StatusOK, string(body))
	})

	login := `{"email":"zeynep@okul.test","password":"hunter2","nested":{"refresh_token":"abc.def"}}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(login))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, login, rec.Body.String(), "handler still sees the original body")
	require.Equal(t, 1, logs.Len())
	dumped := fmt.Sprint(logs.All()[0].ContextMap()["body"])
	assert.NotContains(t, dumped, "hunter2")
	assert.NotContains(t, dumped, "abc.def")
	assert.Contains(t, dumped, `"email":"zeynep@okul.test"`)
	assert.Contains(t, dumped, `"password":"[REDACTED]"`)
}

func TestRequestDumpNonJSONBodyLogsSizeOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	log := &utilities.Logger{SugaredLogger: zap.New(core).Sugar()}

	r := gin.New()
	r.Use(RequestDumpMiddleware(log))
	r.POST("/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString("email=a&password=hunter2"))
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	dumped := fmt.Sprint(logs.All()[0].ContextMap()["body"])
	assert.NotContains(t, dumped, "hunter2")
	assert.Equal(t, "[24 bytes, not JSON]", dumped)
}

func TestRequestLoggerRecordsCaller(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.InfoLevel)
	log := &utilities.Logger{SugaredLogger: zap.New(core).Sugar()}
	tokens := utilities.NewJWTManager("access", "refresh", 0, 0)
	access, _, err := tokens.GenerateTokens(&model.User{ID: 3, Email: "zeynep@okul.test", Role: "teacher"})
	require.NoError(t, err)

	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/user/me", utilities.AuthMiddleware(tokens), func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	r.ServeHTTP(httptest.NewRecorder(), req)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "/user/me", fields["path"])
	assert.EqualValues(t, 3, fields["user_id"])
	assert.Equal(t, "teacher", fields["role"])
}

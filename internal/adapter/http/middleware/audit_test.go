package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuditRouter(buf *strings.Builder, status int) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), AuditLog(zerolog.New(buf)))
	handler := func(c *gin.Context) {
		c.Set(CtxSubject, "ops")
		c.Set(CtxTokenID, "jti-42")
		c.JSON(status, gin.H{"ok": status < 300})
	}
	r.POST("/api/v1/accounts/:id/deposit", handler)
	r.GET("/api/v1/accounts/:id", handler)
	r.DELETE("/api/v1/accounts/:id/employees/:employee_id", handler)
	return r
}

func TestAuditLog_DepositSuccess(t *testing.T) {
	var buf strings.Builder
	r := newAuditRouter(&buf, http.StatusOK)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/1000/deposit", nil)
	req.Header.Set(HeaderIdempotencyKey, "k-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &entry))
	assert.Equal(t, "account.deposit", entry["action"])
	assert.Equal(t, "1000", entry["account_id"])
	assert.Equal(t, "ops", entry["subject"])
	assert.Equal(t, "jti-42", entry["token_id"])
	assert.Equal(t, "k-1", entry["idempotency_key"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestAuditLog_EmployeeRemoval(t *testing.T) {
	var buf strings.Builder
	r := newAuditRouter(&buf, http.StatusOK)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/v1/accounts/1002/employees/e-1", nil))

	assert.Contains(t, buf.String(), `"action":"employee.remove"`)
}

func TestAuditLog_SkipsGET(t *testing.T) {
	var buf strings.Builder
	r := newAuditRouter(&buf, http.StatusOK)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/accounts/1000", nil))

	assert.Empty(t, buf.String())
}

func TestAuditLog_SkipsFailures(t *testing.T) {
	var buf strings.Builder
	r := newAuditRouter(&buf, http.StatusPaymentRequired)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/accounts/1000/deposit", nil))

	assert.Empty(t, buf.String())
}

func TestMapRouteToAction(t *testing.T) {
	assert.Equal(t, "account.open", mapRouteToAction("/api/v1/accounts", http.MethodPost))
	assert.Equal(t, "", mapRouteToAction("/api/v1/accounts", http.MethodGet))
	assert.Equal(t, "employee.add", mapRouteToAction("/api/v1/accounts/:id/employees", http.MethodPost))
	assert.Equal(t, "", mapRouteToAction("/health", http.MethodGet))
}

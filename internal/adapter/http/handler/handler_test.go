package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bank-ledger/internal/adapter/http/middleware"
	redisStore "bank-ledger/internal/adapter/storage/redis"
	"bank-ledger/internal/core/domain"
	"bank-ledger/internal/core/ports"
	"bank-ledger/internal/core/ports/mocks"
	"bank-ledger/internal/service"
	"bank-ledger/pkg/apperror"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLedgerService(cache ports.IdempotencyCache) *service.LedgerServiceImpl {
	ledger := domain.NewLedger("Test Bank", domain.DefaultFirstAccountNumber, domain.DefaultParams())
	return service.NewLedgerService(ledger, nil, nil, nil, cache, time.Hour, zerolog.Nop())
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	return SetupRouter(RouterDeps{LedgerSvc: newLedgerService(nil), Logger: zerolog.Nop()})
}

type apiResponse struct {
	Code int
	Body map[string]interface{}
	Raw  *httptest.ResponseRecorder
}

func (r apiResponse) data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

func (r apiResponse) list() []interface{} {
	l, _ := r.Body["data"].([]interface{})
	return l
}

func do(t *testing.T, router http.Handler, method, path, body string, headers ...string) apiResponse {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := apiResponse{Code: w.Code, Raw: w}
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp.Body))
	}
	return resp
}

func assertMoney(t *testing.T, want string, got interface{}) {
	t.Helper()
	s, ok := got.(string)
	require.True(t, ok, "money should be a JSON string, got %T", got)
	assert.True(t, decimal.RequireFromString(want).Equal(decimal.RequireFromString(s)), "want %s, got %s", want, s)
}

func assertErrorCode(t *testing.T, resp apiResponse, status int, code string) {
	t.Helper()
	assert.Equal(t, status, resp.Code)
	assert.Equal(t, code, resp.Body["error_code"])
	assert.NotEmpty(t, resp.Body["request_id"])
}

func open(t *testing.T, router http.Handler, body string) string {
	t.Helper()
	resp := do(t, router, http.MethodPost, "/api/v1/accounts", body)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Raw.Body.String())
	return resp.data()["id"].(string)
}

// --- Accounts ---

func TestOpenAccount_Savings(t *testing.T) {
	r := newTestRouter(t)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts", `{"kind":"Savings","owner":"Alice","opening_balance":"1000","interest_rate":0.05}`)

	assert.Equal(t, http.StatusCreated, resp.Code)
	data := resp.data()
	assert.Equal(t, "1000", data["id"])
	assert.Equal(t, "SAVINGS", data["kind"])
	assert.Equal(t, "Alice", data["owner"])
	assert.Equal(t, true, data["active"])
	assertMoney(t, "1000", data["balance"])
	assertMoney(t, "0.05", data["interest_rate"])
	assertMoney(t, "100", data["minimum_balance"])
	assert.NotContains(t, data, "overdraft_limit")
}

func TestOpenAccount_NumbersIncrement(t *testing.T) {
	r := newTestRouter(t)

	assert.Equal(t, "1000", open(t, r, `{"kind":"checking","owner":"Bob"}`))
	assert.Equal(t, "1001", open(t, r, `{"kind":"business","owner":"Acme","opening_balance":"5000"}`))

	resp := do(t, r, http.MethodGet, "/api/v1/accounts", "")
	assert.Equal(t, float64(2), resp.Body["count"])
	list := resp.list()
	require.Len(t, list, 2)
	assert.Equal(t, "1000", list[0].(map[string]interface{})["id"])
	assert.Equal(t, "LLC", list[1].(map[string]interface{})["business_type"])
}

func TestOpenAccount_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"unknown kind", `{"kind":"crypto","owner":"Alice"}`, http.StatusBadRequest, "LED_007"},
		{"malformed opening balance", `{"kind":"savings","owner":"Alice","opening_balance":"lots"}`, http.StatusBadRequest, "LED_001"},
		{"negative opening balance", `{"kind":"savings","owner":"Alice","opening_balance":"-5"}`, http.StatusBadRequest, "LED_001"},
		{"opening balance too precise", `{"kind":"savings","owner":"Alice","opening_balance":"1e-30000000"}`, http.StatusBadRequest, "LED_001"},
		{"negative overdraft limit", `{"kind":"checking","owner":"Bob","overdraft_limit":"-1"}`, http.StatusBadRequest, "LED_009"},
		{"missing owner", `{"kind":"savings"}`, http.StatusBadRequest, "LED_001"},
		{"empty body", "", http.StatusBadRequest, "LED_001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t)
			resp := do(t, r, http.MethodPost, "/api/v1/accounts", tt.body)
			assertErrorCode(t, resp, tt.status, tt.code)

			// A rejected open consumes no account number.
			assert.Equal(t, "1000", open(t, r, `{"kind":"savings","owner":"Alice"}`))
		})
	}
}

func TestGetAccount_NotFound(t *testing.T) {
	r := newTestRouter(t)

	resp := do(t, r, http.MethodGet, "/api/v1/accounts/9999", "")

	assertErrorCode(t, resp, http.StatusNotFound, "LED_006")
	assert.Equal(t, "Account not found", resp.Body["message"])
}

// --- Movements ---

func TestDepositAndWithdraw(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"savings","owner":"Alice","opening_balance":"1000"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"250.50"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assertMoney(t, "1250.50", resp.data()["balance"])
	assert.Equal(t, true, resp.data()["recorded"])
	tx := resp.data()["transaction"].(map[string]interface{})
	assert.Equal(t, "DEPOSIT", tx["kind"])
	assert.Equal(t, float64(1), tx["sequence"])
	assert.NotEmpty(t, tx["id"])

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/withdraw", `{"amount":200}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assertMoney(t, "1050.50", resp.data()["balance"])

	txs := do(t, r, http.MethodGet, "/api/v1/accounts/"+id+"/transactions", "").list()
	require.Len(t, txs, 2)
	assert.Equal(t, "DEPOSIT", txs[0].(map[string]interface{})["kind"])
	assert.Equal(t, "WITHDRAWAL", txs[1].(map[string]interface{})["kind"])
}

func TestWithdraw_Rejections(t *testing.T) {
	r := newTestRouter(t)
	savings := open(t, r, `{"kind":"savings","owner":"Alice","opening_balance":"500"}`)
	checking := open(t, r, `{"kind":"checking","owner":"Bob","opening_balance":"100","overdraft_limit":"50"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+savings+"/withdraw", `{"amount":"450"}`)
	assertErrorCode(t, resp, http.StatusUnprocessableEntity, "LED_004")
	assert.NotEmpty(t, resp.Body["detail"])

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+checking+"/withdraw", `{"amount":"151"}`)
	assertErrorCode(t, resp, http.StatusUnprocessableEntity, "LED_005")

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+checking+"/withdraw", `{"amount":"0"}`)
	assertErrorCode(t, resp, http.StatusBadRequest, "LED_001")

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+checking+"/withdraw", `{"amount":"ten"}`)
	assertErrorCode(t, resp, http.StatusBadRequest, "LED_001")

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+checking+"/withdraw", `{}`)
	assertErrorCode(t, resp, http.StatusBadRequest, "LED_001")

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+checking+"/deposit", `{"amount":"1e-30000000"}`)
	assertErrorCode(t, resp, http.StatusBadRequest, "LED_001")

	acct := do(t, r, http.MethodGet, "/api/v1/accounts/"+checking, "").data()
	assertMoney(t, "100", acct["balance"])
	assert.Equal(t, float64(0), acct["transaction_count"])
}

func TestWithdraw_Overdraft(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"checking","owner":"Bob","opening_balance":"150"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/withdraw", `{"amount":"500"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assertMoney(t, "0", resp.data()["balance"])
	assert.Equal(t, "OVERDRAFT_WITHDRAWAL", resp.data()["transaction"].(map[string]interface{})["kind"])

	acct := do(t, r, http.MethodGet, "/api/v1/accounts/"+id, "").data()
	assertMoney(t, "350", acct["overdraft_used"])
}

func TestInactiveAccount(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"savings","owner":"Alice","opening_balance":"500"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deactivate", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, resp.data()["active"])

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"10"}`)
	assertErrorCode(t, resp, http.StatusConflict, "LED_002")

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/interest", "")
	assertErrorCode(t, resp, http.StatusConflict, "LED_002")

	resp = do(t, r, http.MethodGet, "/api/v1/accounts/"+id, "")
	assert.Equal(t, http.StatusOK, resp.Code, "reads keep working")

	do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/activate", "")
	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"10"}`)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestAddInterest(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"savings","owner":"Alice","opening_balance":"1000","interest_rate":"0.05"}`)
	zero := open(t, r, `{"kind":"savings","owner":"Carol","opening_balance":"1000","interest_rate":"0"}`)
	checking := open(t, r, `{"kind":"checking","owner":"Bob"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/interest", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assertMoney(t, "50", resp.data()["amount"])
	assertMoney(t, "1050", resp.data()["balance"])
	assert.Equal(t, "INTEREST_ACCRUAL", resp.data()["transaction"].(map[string]interface{})["kind"])

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+zero+"/interest", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, false, resp.data()["recorded"])
	assertMoney(t, "0", resp.data()["amount"])
	assert.Empty(t, do(t, r, http.MethodGet, "/api/v1/accounts/"+zero+"/transactions", "").list())

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+checking+"/interest", "")
	assertErrorCode(t, resp, http.StatusBadRequest, "LED_010")
}

func TestChargeFee(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"business","owner":"Acme","opening_balance":"10","monthly_fee":"25"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/fee", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assertMoney(t, "-15", resp.data()["balance"])
	assert.Equal(t, "FEE", resp.data()["transaction"].(map[string]interface{})["kind"])
}

// --- Employees ---

func TestEmployees(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"business","owner":"Acme"}`)
	path := "/api/v1/accounts/" + id + "/employees"

	resp := do(t, r, http.MethodPost, path, `{"id":"e-1","name":"Bob"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.Len(t, resp.list(), 1)

	do(t, r, http.MethodPost, path, `{"id":"e-2","name":"  Carol  "}`)

	resp = do(t, r, http.MethodPost, path, `{"id":"e-1","name":"Bobby"}`)
	assertErrorCode(t, resp, http.StatusConflict, "LED_008")

	resp = do(t, r, http.MethodPost, path, `{"id":"e 3","name":"Dan"}`)
	assertErrorCode(t, resp, http.StatusBadRequest, "LED_001")

	roster := do(t, r, http.MethodGet, path, "").list()
	require.Len(t, roster, 2)
	assert.Equal(t, "Bob", roster[0].(map[string]interface{})["name"])
	assert.Equal(t, "Carol", roster[1].(map[string]interface{})["name"])

	resp = do(t, r, http.MethodDelete, path+"/e-1", "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Bob", resp.data()["name"])

	resp = do(t, r, http.MethodDelete, path+"/e-1", "")
	assertErrorCode(t, resp, http.StatusNotFound, "LED_006")

	acct := do(t, r, http.MethodGet, "/api/v1/accounts/"+id, "").data()
	assert.Equal(t, float64(0), acct["transaction_count"], "roster changes are not transactions")
}

func TestEmployees_WrongKind(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"savings","owner":"Alice"}`)

	resp := do(t, r, http.MethodGet, "/api/v1/accounts/"+id+"/employees", "")
	assertErrorCode(t, resp, http.StatusBadRequest, "LED_010")
}

// --- Ledger ---

func TestSummary(t *testing.T) {
	r := newTestRouter(t)
	open(t, r, `{"kind":"savings","owner":"Alice","opening_balance":"1000"}`)
	id := open(t, r, `{"kind":"checking","owner":"Bob","opening_balance":"250.25"}`)
	do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deactivate", "")

	resp := do(t, r, http.MethodGet, "/api/v1/ledger/summary", "")
	require.Equal(t, http.StatusOK, resp.Code)
	data := resp.data()
	assert.Equal(t, "Test Bank", data["name"])
	assert.Equal(t, float64(2), data["accounts"])
	assert.Equal(t, float64(1), data["active_accounts"])
	assertMoney(t, "1250.25", data["total_balance"])
}

// --- Idempotency ---

func TestDeposit_IdempotentReplay(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	svc := newLedgerService(redisStore.NewIdempotencyCache(client))
	r := SetupRouter(RouterDeps{LedgerSvc: svc, Logger: zerolog.Nop()})
	id := open(t, r, `{"kind":"savings","owner":"Alice","opening_balance":"1000"}`)

	first := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"100"}`, middleware.HeaderIdempotencyKey, "dep-1")
	second := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"100"}`, middleware.HeaderIdempotencyKey, "dep-1")

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.data()["transaction"], second.data()["transaction"])
	assertMoney(t, "1100", second.data()["balance"])
	assert.Len(t, do(t, r, http.MethodGet, "/api/v1/accounts/"+id+"/transactions", "").list(), 1)

	// The same key on a different operation is a different request.
	third := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/withdraw", `{"amount":"100"}`, middleware.HeaderIdempotencyKey, "dep-1")
	require.Equal(t, http.StatusOK, third.Code)
	assertMoney(t, "1000", third.data()["balance"])

	reused := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"250"}`, middleware.HeaderIdempotencyKey, "dep-1")
	assertErrorCode(t, reused, http.StatusUnprocessableEntity, "LED_012")
	assertMoney(t, "1000", do(t, r, http.MethodGet, "/api/v1/accounts/"+id, "").data()["balance"])
}

func TestDeposit_InvalidIdempotencyKey(t *testing.T) {
	r := newTestRouter(t)
	id := open(t, r, `{"kind":"savings","owner":"Alice"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"1"}`, middleware.HeaderIdempotencyKey, "not a key")

	assertErrorCode(t, resp, http.StatusBadRequest, "LED_001")
}

// --- Service error mapping ---

func TestServiceErrors_MapToEnvelope(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockLedgerService(ctrl)
	r := SetupRouter(RouterDeps{LedgerSvc: svc, Logger: zerolog.Nop()})

	svc.EXPECT().Deposit(gomock.Any(), ports.MovementRequest{
		AccountID:      "1000",
		Amount:         decimal.RequireFromString("5"),
		IdempotencyKey: "k-1",
	}).Return(nil, apperror.ErrRequestInProgress())
	svc.EXPECT().ListAccounts(gomock.Any()).Return(nil, errors.New("boom"))

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/1000/deposit", `{"amount":"5"}`, middleware.HeaderIdempotencyKey, "k-1")
	assertErrorCode(t, resp, http.StatusConflict, "LED_011")

	resp = do(t, r, http.MethodGet, "/api/v1/accounts", "")
	assertErrorCode(t, resp, http.StatusInternalServerError, "SYS_000")
	assert.NotContains(t, resp.Raw.Body.String(), "boom")
}

// --- Router-level concerns ---

func TestRouter_JWTAuth(t *testing.T) {
	tokenSvc := service.NewJWTTokenService("test-secret", time.Hour, "bank-ledger")
	r := SetupRouter(RouterDeps{LedgerSvc: newLedgerService(nil), TokenSvc: tokenSvc, Logger: zerolog.Nop()})

	resp := do(t, r, http.MethodGet, "/api/v1/accounts", "")
	assertErrorCode(t, resp, http.StatusUnauthorized, "AUTH_001")

	token, _, err := tokenSvc.Generate("ops")
	require.NoError(t, err)
	resp = do(t, r, http.MethodGet, "/api/v1/accounts", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, resp.Code, "health stays public")
}

func TestRouter_RateLimitsMutations(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	r := SetupRouter(RouterDeps{
		LedgerSvc:      newLedgerService(nil),
		RateLimitStore: redisStore.NewRateLimitStore(client),
		RateLimitRules: middleware.RateLimitRules(0, 2),
		Logger:         zerolog.Nop(),
	})
	id := open(t, r, `{"kind":"savings","owner":"Alice","opening_balance":"1000"}`)

	resp := do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"1"}`)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, r, http.MethodPost, "/api/v1/accounts/"+id+"/deposit", `{"amount":"1"}`)
	assertErrorCode(t, resp, http.StatusTooManyRequests, "RATE_001")

	// Reads are unlimited in this configuration.
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/accounts/"+id, "").Code)
	}
}

func TestRouter_PayloadTooLarge(t *testing.T) {
	r := SetupRouter(RouterDeps{LedgerSvc: newLedgerService(nil), MaxBodyBytes: 32, Logger: zerolog.Nop()})

	body := `{"kind":"savings","owner":"` + strings.Repeat("A", 64) + `"}`
	resp := do(t, r, http.MethodPost, "/api/v1/accounts", body)

	assertErrorCode(t, resp, http.StatusRequestEntityTooLarge, "REQ_001")
}

func TestRouter_RequestIDHeader(t *testing.T) {
	r := newTestRouter(t)

	resp := do(t, r, http.MethodGet, "/api/v1/accounts/404", "", middleware.HeaderRequestID, "req-42")

	assert.Equal(t, "req-42", resp.Raw.Header().Get(middleware.HeaderRequestID))
	assert.Equal(t, "req-42", resp.Body["request_id"])
}

// --- Health ---

type stubChecker struct {
	name string
	err  error
}

func (s stubChecker) Ping(context.Context) error { return s.err }
func (s stubChecker) Name() string               { return s.name }

func TestHealthCheck(t *testing.T) {
	resp := do(t, newTestRouter(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "healthy", resp.Body["status"])
}

func TestHealthCheck_Degraded(t *testing.T) {
	r := SetupRouter(RouterDeps{
		LedgerSvc: newLedgerService(nil),
		HealthCheckers: []ports.HealthChecker{
			stubChecker{name: "postgresql"},
			stubChecker{name: "redis", err: errors.New("connection refused")},
		},
		Logger: zerolog.Nop(),
	})

	resp := do(t, r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "degraded", resp.Body["status"])
	deps := resp.Body["dependencies"].(map[string]interface{})
	assert.Equal(t, "healthy", deps["postgresql"].(map[string]interface{})["status"])
	assert.Equal(t, "connection refused", deps["redis"].(map[string]interface{})["error"])
}

// --- Swagger ---

func TestSwaggerUI(t *testing.T) {
	resp := do(t, newTestRouter(t), http.MethodGet, "/swagger", "")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Raw.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, resp.Raw.Body.String(), "/swagger/spec")
}

func TestSwaggerSpec(t *testing.T) {
	resp := do(t, newTestRouter(t), http.MethodGet, "/swagger/spec", "")

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Raw.Body.String(), "openapi: 3.0.3")
	assert.Contains(t, resp.Raw.Body.String(), "/accounts/{id}/deposit")
	assert.NotEmpty(t, resp.Raw.Header().Get("ETag"))
}

func TestSwaggerSpec_NotModified(t *testing.T) {
	r := newTestRouter(t)
	etag := do(t, r, http.MethodGet, "/swagger/spec", "").Raw.Header().Get("ETag")

	resp := do(t, r, http.MethodGet, "/swagger/spec", "", "If-None-Match", etag)

	assert.Equal(t, http.StatusNotModified, resp.Code)
	assert.Empty(t, resp.Raw.Body.String())
}

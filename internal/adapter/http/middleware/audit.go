package middleware

import (
	"net/http"

	"bank-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HeaderIdempotencyKey carries the client's idempotency key on mutating requests.
const HeaderIdempotencyKey = "Idempotency-Key"

// AuditLog creates a middleware that writes one audit entry per successful
// write operation. Entries go to log, which callers scope to an audit component.
func AuditLog(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return
		}

		action := mapRouteToAction(c.FullPath(), c.Request.Method)
		if action == "" {
			return
		}

		event := log.Info().
			Str("action", action).
			Str("request_id", c.GetString(response.CtxRequestID)).
			Str("subject", c.GetString(CtxSubject)).
			Str("client_ip", c.ClientIP()).
			Int("status", status)
		if id := c.Param("id"); id != "" {
			event = event.Str("account_id", id)
		}
		if jti := c.GetString(CtxTokenID); jti != "" {
			event = event.Str("token_id", jti)
		}
		if key := c.GetHeader(HeaderIdempotencyKey); key != "" {
			event = event.Str("idempotency_key", key)
		}
		event.Msg("audit")
	}
}

func mapRouteToAction(route, method string) string {
	switch {
	case route == "/api/v1/accounts" && method == http.MethodPost:
		return "account.open"
	case route == "/api/v1/accounts/:id/deposit":
		return "account.deposit"
	case route == "/api/v1/accounts/:id/withdraw":
		return "account.withdraw"
	case route == "/api/v1/accounts/:id/interest":
		return "account.interest"
	case route == "/api/v1/accounts/:id/fee":
		return "account.fee"
	case route == "/api/v1/accounts/:id/activate":
		return "account.activate"
	case route == "/api/v1/accounts/:id/deactivate":
		return "account.deactivate"
	case route == "/api/v1/accounts/:id/employees" && method == http.MethodPost:
		return "employee.add"
	case route == "/api/v1/accounts/:id/employees/:employee_id" && method == http.MethodDelete:
		return "employee.remove"
	}
	return ""
}

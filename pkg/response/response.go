package response

import (
	"errors"
	"net/http"
	"reflect"
	"time"

	"bank-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CtxRequestID is the gin context key holding the request ID.
const CtxRequestID = "request_id"

// Meta is stamped on every envelope.
type Meta struct {
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// SuccessResponse wraps a result. Count is set only for collections.
type SuccessResponse struct {
	Data  interface{} `json:"data"`
	Count *int        `json:"count,omitempty"`
	Meta
}

// ErrorResponse reports a rejected or failed request.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	Detail    string `json:"detail,omitempty"` // cause of a rejected operation; never set for 5xx
	Meta
}

// OK sends 200 with data.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, SuccessResponse{Data: data, Meta: meta(c)})
}

// Created sends 201 with the created resource.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, SuccessResponse{Data: data, Meta: meta(c)})
}

// List sends 200 with a slice and its length. A nil slice is sent as [].
func List(c *gin.Context, items interface{}) {
	n := 0
	if v := reflect.ValueOf(items); v.Kind() == reflect.Slice {
		n = v.Len()
		if v.IsNil() {
			items = []interface{}{}
		}
	}
	c.JSON(http.StatusOK, SuccessResponse{Data: items, Count: &n, Meta: meta(c)})
}

// Error sends the status and code of an *apperror.AppError anywhere in the
// chain. Anything else is an unexpected failure and becomes SYS_000.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			ErrorCode: "SYS_000",
			Message:   "Internal server error",
			Meta:      meta(c),
		})
		return
	}

	resp := ErrorResponse{
		ErrorCode: appErr.Code,
		Message:   appErr.Message,
		Meta:      meta(c),
	}
	if appErr.Err != nil && appErr.HTTPStatus < http.StatusInternalServerError {
		resp.Detail = appErr.Err.Error()
	}
	c.JSON(appErr.HTTPStatus, resp)
}

func meta(c *gin.Context) Meta {
	return Meta{
		RequestID: requestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// requestID falls back to a fresh ID when no middleware assigned one.
func requestID(c *gin.Context) string {
	if id := c.GetString(CtxRequestID); id != "" {
		return id
	}
	return uuid.NewString()
}

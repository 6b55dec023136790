package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"bank-ledger/internal/adapter/http/dto"
	"bank-ledger/internal/adapter/http/middleware"
	"bank-ledger/internal/core/domain"
	"bank-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes and validates the body into req, mapping failures to
// the error codes clients see for the same mistake made deeper in.
func bindJSON(c *gin.Context, req interface{}) *apperror.AppError {
	err := c.ShouldBindJSON(req)
	if err == nil {
		dto.SanitizeStruct(req)
		return nil
	}

	var tooLarge *http.MaxBytesError
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &tooLarge):
		return apperror.ErrPayloadTooLarge()
	case errors.Is(err, io.EOF):
		return apperror.Validation("request body is required")
	case errors.Is(err, dto.ErrMalformedMoney):
		return apperror.ErrInvalidAmount(fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err))
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			if fe.Tag() == "account_kind" {
				return apperror.ErrUnknownAccountKind(fmt.Errorf("%w: %q", domain.ErrUnknownAccountKind, fe.Value()))
			}
		}
		return apperror.Validation(verrs.Error())
	}
	return apperror.Validation(err.Error())
}

// idempotencyKey returns the request's Idempotency-Key header, if any.
func idempotencyKey(c *gin.Context) (string, *apperror.AppError) {
	key := c.GetHeader(middleware.HeaderIdempotencyKey)
	if key == "" {
		return "", nil
	}
	if !dto.ValidIdempotencyKey(key) {
		return "", apperror.Validation("invalid Idempotency-Key header")
	}
	return key, nil
}

package controllers

import (
	"errors"
	"net/http"

	"github.com/shashiranjanraj/lojinha/app/services"
	"github.com/shashiranjanraj/lojinha/pkg/ctx"
	"github.com/shashiranjanraj/lojinha/pkg/logger"
)

// statusFor maps service errors to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrDuplicateEmail),
		errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, services.ErrInvalidCheckout),
		errors.Is(err, services.ErrPaymentDeclined):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

func fail(c *ctx.Context, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		logger.WithCtx(c.Context()).Error("request failed", "error", err)
		c.Error(code, "Erro interno")
		return
	}
	c.Error(code, err.Error())
}

package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/lojinha/app/repositories"
	"github.com/shashiranjanraj/lojinha/app/services"
	"github.com/shashiranjanraj/lojinha/pkg/auth"
	"github.com/shashiranjanraj/lojinha/pkg/ctx"
)

type fixture struct {
	users    *UserController
	checkout *CheckoutController
	auth     *services.AuthService
}

func newFixture() fixture {
	authSvc := services.NewAuthService(repositories.NewMemoryUserStore(), auth.NewJWT("test", time.Hour), nil)
	checkoutSvc := services.NewCheckoutService(authSvc, repositories.NewMemoryCatalog(), services.LoggingProcessor{}, nil)
	return fixture{
		users:    NewUserController(authSvc),
		checkout: NewCheckoutController(checkoutSvc, authSvc),
		auth:     authSvc,
	}
}

func call(h ctx.HandlerFunc, method, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ctx.Wrap(h)(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRegister(t *testing.T) {
	f := newFixture()
	body := `{"name":"Ana","email":"ana@example.com","password":"123456"}`

	rec := call(f.users.Register, http.MethodPost, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"user":{"name":"Ana","email":"ana@example.com"}}`, rec.Body.String())

	rec = call(f.users.Register, http.MethodPost, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Email já cadastrado"}`, rec.Body.String())
}

func TestRegister_InvalidBody(t *testing.T) {
	f := newFixture()

	rec := call(f.users.Register, http.MethodPost, `{"name":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Dados inválidos", decode(t, rec)["error"])

	rec = call(f.users.Register, http.MethodPost, `{"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "Dados inválidos", out["error"])
	assert.Contains(t, out["fields"], "email")
	assert.Contains(t, out["fields"], "password")
}

func TestLogin(t *testing.T) {
	f := newFixture()
	call(f.users.Register, http.MethodPost, `{"name":"Ana","email":"ana@example.com","password":"123456"}`)

	rec := call(f.users.Login, http.MethodPost, `{"email":"ana@example.com","password":"123456"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.NotEmpty(t, out["token"])
	assert.Equal(t, map[string]any{"name": "Ana", "email": "ana@example.com"}, out["user"])

	rec = call(f.users.Login, http.MethodPost, `{"email":"ana@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Credenciais inválidas"}`, rec.Body.String())
}

func TestIndex(t *testing.T) {
	f := newFixture()

	rec := call(f.users.Index, http.MethodGet, "")
	assert.JSONEq(t, `{"users":[]}`, rec.Body.String())

	call(f.users.Register, http.MethodPost, `{"name":"Ana","email":"ana@example.com","password":"123456"}`)
	rec = call(f.users.Index, http.MethodGet, "")
	assert.JSONEq(t, `{"users":[{"name":"Ana","email":"ana@example.com"}]}`, rec.Body.String())
}

func TestCheckout(t *testing.T) {
	f := newFixture()
	call(f.users.Register, http.MethodPost, `{"name":"Ana","email":"ana@example.com","password":"123456"}`)
	token, _, err := f.auth.Login(context.Background(), "ana@example.com", "123456")
	require.NoError(t, err)

	body := `{"items":[{"productId":1,"quantity":2}],"freight":15.5,"paymentMethod":"pix"}`

	t.Run("no token", func(t *testing.T) {
		rec := call(f.checkout.Checkout, http.MethodPost, body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Token inválido"}`, rec.Body.String())
	})

	t.Run("bad token", func(t *testing.T) {
		rec := call(f.checkout.Checkout, http.MethodPost, body, "Authorization", "Bearer nope")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown product", func(t *testing.T) {
		rec := call(f.checkout.Checkout, http.MethodPost,
			`{"items":[{"productId":1,"quantity":1},{"productId":999,"quantity":1}],"freight":0,"paymentMethod":"pix"}`,
			"Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"Produto não encontrado"}`, rec.Body.String())
	})

	t.Run("valid", func(t *testing.T) {
		rec := call(f.checkout.Checkout, http.MethodPost, body, "Authorization", "Bearer "+token)
		require.Equal(t, http.StatusOK, rec.Code)
		out := decode(t, rec)
		assert.Equal(t, 135.3, out["valorFinal"])
		assert.Equal(t, 15.5, out["freight"])
		assert.Equal(t, "pix", out["paymentMethod"])
		assert.NotZero(t, out["userId"])
		assert.Len(t, out["items"], 1)
	})
}

func TestStatusFor(t *testing.T) {
	cases := map[error]int{
		services.ErrDuplicateEmail:     http.StatusBadRequest,
		services.ErrProductNotFound:    http.StatusBadRequest,
		services.ErrInvalidCheckout:    http.StatusBadRequest,
		services.ErrInvalidCredentials: http.StatusUnauthorized,
		services.ErrInvalidToken:       http.StatusUnauthorized,
		services.ErrPaymentDeclined:    http.StatusBadRequest,
		errors.New("db down"):          http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, statusFor(err), err.Error())
	}
}

func TestHealth(t *testing.T) {
	rec := call(Health, http.MethodGet, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

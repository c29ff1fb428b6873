package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodPost, "/v1/users", "", map[string]string{
		"email": "cook@example.com", "password": "secret1", "name": "Cook",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var resp struct {
		ID    uint64 `json:"id"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decode(t, rec, &resp)
	assert.NotZero(t, resp.ID)
	assert.Equal(t, "cook@example.com", resp.Email)
	assert.Equal(t, "Cook", resp.Name)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := newAPI(t)
	a.signup(t, "cook@example.com", "secret1")

	rec := a.do(t, http.MethodPost, "/v1/users", "", map[string]string{
		"email": "Cook@Example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "normalized spelling collides")
}

func TestRegisterValidation(t *testing.T) {
	a := newAPI(t)

	rec := a.do(t, http.MethodPost, "/v1/users", "", map[string]string{
		"email": "", "password": "pw",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &resp)
	assert.Contains(t, resp.Errors, "email")
	assert.Contains(t, resp.Errors, "password")
}

func TestTokenEndpoint(t *testing.T) {
	a := newAPI(t)
	a.signup(t, "cook@example.com", "secret1")

	rec := a.do(t, http.MethodPost, "/v1/users/token", "", map[string]string{
		"email": "cook@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var first struct {
		Token string `json:"token"`
	}
	decode(t, rec, &first)
	require.Len(t, first.Token, 40)

	// asking again returns the identical key
	rec = a.do(t, http.MethodPost, "/v1/users/token", "", map[string]string{
		"email": "cook@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var second struct {
		Token string `json:"token"`
	}
	decode(t, rec, &second)
	assert.Equal(t, first.Token, second.Token)

	rec = a.do(t, http.MethodPost, "/v1/users/token", "", map[string]string{
		"email": "cook@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodPost, "/v1/users/token", "", map[string]string{
		"email": "cook@example.com", "password": "",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMe(t *testing.T) {
	a := newAPI(t)
	token := a.signup(t, "cook@example.com", "secret1")

	rec := a.do(t, http.MethodGet, "/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "auth required")

	rec = a.do(t, http.MethodGet, "/v1/users/me", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = a.do(t, http.MethodGet, "/v1/users/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "cook@example.com", resp.Email)
}

func TestUpdateMe(t *testing.T) {
	a := newAPI(t)
	token := a.signup(t, "cook@example.com", "secret1")

	rec := a.do(t, http.MethodPatch, "/v1/users/me", token, map[string]string{
		"name": "Head Chef",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	decode(t, rec, &resp)
	assert.Equal(t, "Head Chef", resp.Name)
	assert.Equal(t, "cook@example.com", resp.Email)

	// password change takes effect for the next login
	rec = a.do(t, http.MethodPatch, "/v1/users/me", token, map[string]string{
		"password": "newsecret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/v1/users/token", "", map[string]string{
		"email": "cook@example.com", "password": "newsecret",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(t, http.MethodPost, "/v1/users/token", "", map[string]string{
		"email": "cook@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// short replacement password is rejected
	rec = a.do(t, http.MethodPatch, "/v1/users/me", token, map[string]string{
		"password": "pw",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

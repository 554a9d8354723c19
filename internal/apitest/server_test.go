package apitest

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServer_Preflight(t *testing.T) {
	s := New(t)

	req, err := http.NewRequest(http.MethodOptions, s.BaseURL()+"/orders/ord_1/status", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", BrowserOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, X-Request-ID")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, BrowserOrigin, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Empty(t, s.Requests(), "preflights are answered before recording")
}

func TestServer_RoleGate(t *testing.T) {
	s := New(t)

	resp, err := http.Post(s.BaseURL()+"/orders", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = http.Post(s.BaseURL()+"/auth/login", "application/json", strings.NewReader(`{"email":"customer@example.com"}`))
	require.NoError(t, err)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodPut, s.BaseURL()+"/orders/ord_1/status", strings.NewReader(`{"status":"shipped"}`))
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+TokenFor("customer"))
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	rec, ok := s.Last()
	require.True(t, ok)
	assert.Equal(t, "/orders/ord_1/status", rec.Path)
	assert.Equal(t, "shipped", rec.Body["status"])
}

package ping

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"subscription-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) PingContext(ctx context.Context) error {
	return f(ctx)
}

func servePing(p Pinger) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	utils.Logger.SetOutput(io.Discard)

	r := gin.New()
	r.GET("/ping", New(p).HandlePing)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHandlePing(t *testing.T) {
	w := servePing(pingerFunc(func(ctx context.Context) error { return nil }))

	assert.Equal(t, http.StatusOK, w.Code)

	var response utils.Response
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.True(t, response.Success)
	assert.Equal(t, "Ping successful", response.Message)

	data, ok := response.Data.(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "pong", data["message"])
	assert.Equal(t, "up", data["database"])
}

func TestHandlePing_DatabaseDown(t *testing.T) {
	w := servePing(pingerFunc(func(ctx context.Context) error { return errors.New("connection refused") }))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var response utils.Response
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
	assert.Equal(t, "database unavailable", response.Error)
}

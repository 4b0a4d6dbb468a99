package binder_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pencraft/pencraft/pkg/binder"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func jsonRequest(body, contentType string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req
}

func TestJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes valid body", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON(jsonRequest(`{"name":"go","count":3}`, "application/json"), &p)
		require.NoError(t, err)
		assert.Equal(t, payload{Name: "go", Count: 3}, p)
	})

	t.Run("accepts charset parameter", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON(jsonRequest(`{"name":"go"}`, "application/json; charset=utf-8"), &p)
		assert.NoError(t, err)
	})

	t.Run("rejects missing content type", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON(jsonRequest(`{"name":"go"}`, ""), &p)
		assert.ErrorIs(t, err, binder.ErrMissingContentType)
	})

	t.Run("rejects wrong media type", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON(jsonRequest(`name=go`, "application/x-www-form-urlencoded"), &p)
		assert.ErrorIs(t, err, binder.ErrUnsupportedMediaType)
	})

	t.Run("rejects empty body", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON(jsonRequest("", "application/json"), &p)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		t.Parallel()
		var p payload
		err := binder.JSON(jsonRequest(`{"name":`, "application/json"), &p)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		t.Parallel()
		big := `{"name":"` + strings.Repeat("a", binder.DefaultMaxJSONSize) + `"}`
		var p payload
		err := binder.JSON(jsonRequest(big, "application/json"), &p)
		assert.ErrorIs(t, err, binder.ErrFailedToParseJSON)
	})
}

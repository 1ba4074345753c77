package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, http.StatusNotFound, "person not found")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"person not found"}`, rec.Body.String())
}

func TestRespondFieldErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondFieldErrors(rec, http.StatusUnprocessableEntity, "invalid person", map[string]string{"age": "field required"})

	assert.JSONEq(t, `{"error":"invalid person","fields":{"age":"field required"}}`, rec.Body.String())
}

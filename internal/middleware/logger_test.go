package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("genera request id", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/clientes", nil))
		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.NotEmpty(t, rr.Header().Get(HeaderRequestID))
		assert.Contains(t, buf.String(), `"status":418`)
	})

	t.Run("propaga request id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ordenes", nil)
		req.Header.Set(HeaderRequestID, "abc-123")
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		assert.Equal(t, "abc-123", rr.Header().Get(HeaderRequestID))
	})
}

package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	server := gin.New()
	server.Use(RequestLogger(logger))
	server.GET("/ok", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside handler")
		c.Status(http.StatusNoContent)
	})
	server.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	testCases := []struct {
		name       string
		path       string
		requestID  string
		wantStatus int
		wantLevel  string
	}{
		{name: "GeneratesRequestID", path: "/ok", wantStatus: http.StatusNoContent, wantLevel: "info"},
		{name: "KeepsRequestID", path: "/ok", requestID: "abc-123", wantStatus: http.StatusNoContent, wantLevel: "info"},
		{name: "RecoversPanic", path: "/panic", requestID: "def-456", wantStatus: http.StatusInternalServerError, wantLevel: "error"},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			buf.Reset()

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.requestID != "" {
				req.Header.Set(RequestIDHeader, tc.requestID)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			require.Equal(t, tc.wantStatus, recorder.Code)

			requestID := recorder.Header().Get(RequestIDHeader)
			require.NotEmpty(t, requestID)

			if tc.requestID != "" {
				require.Equal(t, tc.requestID, requestID)
			}

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			require.NotEmpty(t, lines)

			for _, line := range lines {
				var entry map[string]any
				require.NoError(t, json.Unmarshal(line, &entry))
				require.Equal(t, requestID, entry["request_id"])
			}

			var last map[string]any
			require.NoError(t, json.Unmarshal(lines[len(lines)-1], &last))
			require.Equal(t, tc.wantLevel, last["level"])
			require.Equal(t, float64(tc.wantStatus), last["status_code"])
			require.Equal(t, tc.path, last["path"])
		})
	}
}

func TestCreateLogger(t *testing.T) {
	require.Equal(t, zerolog.InfoLevel, CreateLogger(configpkg.Config{}).GetLevel())
	require.Equal(t, zerolog.TraceLevel, CreateLogger(configpkg.Config{Environement: "development"}).GetLevel())
}

package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/pkg/configpkg"
)

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger(configpkg.Config{Environment: "production"}, &buf, zerolog.InfoLevel)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()
	server.Use(RequestLogger(logger))

	var sawLogger bool
	server.GET("/ping", func(gctx *gin.Context) {
		sawLogger = zerolog.Ctx(gctx.Request.Context()).GetLevel() != zerolog.Disabled
		gctx.Status(http.StatusNoContent)
	})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/ping", nil)
	request.Header.Set(RequestIDHeader, "req-1")

	server.ServeHTTP(recorder, request)

	if !sawLogger {
		t.Error("handler context carries no logger")
	}

	if got := recorder.Header().Get(RequestIDHeader); got != "req-1" {
		t.Errorf("response %s = %q, want %q", RequestIDHeader, got, "req-1")
	}

	for _, want := range []string{`"request_id":"req-1"`, `"status_code":204`, `"path":"/ping"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output %q does not contain %s", buf.String(), want)
		}
	}
}

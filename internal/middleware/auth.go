package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Authorization header values.
const (
	AuthHeaderKey  = "authorization"
	AuthTypeBearer = "bearer"
	AuthPayloadKey = "authorization_payload"
)

var (
	// ErrAuthHeaderNotFound indicates a request without the authorization header.
	ErrAuthHeaderNotFound = errors.New("authorization header is not provided")
	// ErrBadAuthHeaderFormat indicates an authorization header that is not "<type> <token>".
	ErrBadAuthHeaderFormat = errors.New("invalid authorization header format")
	// ErrUnsupportedAuthType indicates an authorization type other than bearer.
	ErrUnsupportedAuthType = errors.New("unsupported authorization type")
)

// AddAuthorization creates a token for taxID and sets it as the authorization header of r.
func AddAuthorization(r *http.Request, maker tokenpkg.Maker, authType, taxID string, duration time.Duration) error {
	token, _, err := maker.CreateToken(taxID, duration)
	if err != nil {
		return err
	}

	r.Header.Set(AuthHeaderKey, fmt.Sprintf("%s %s", authType, token))

	return nil
}

// AuthMiddleware verifies the bearer token and stores its payload under AuthPayloadKey.
func AuthMiddleware(maker tokenpkg.Maker) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		l := zerolog.Ctx(gctx.Request.Context())

		abort := func(err error) {
			l.Info().Err(err).Send()
			gctx.AbortWithStatusJSON(http.StatusUnauthorized, web.CodedError(domain.CodeUnauthorized, err))
		}

		header := gctx.GetHeader(AuthHeaderKey)
		if header == "" {
			abort(ErrAuthHeaderNotFound)
			return
		}

		fields := strings.Fields(header)
		if len(fields) < 2 {
			abort(ErrBadAuthHeaderFormat)
			return
		}

		if strings.ToLower(fields[0]) != AuthTypeBearer {
			abort(ErrUnsupportedAuthType)
			return
		}

		payload, err := maker.VerifyToken(fields[1])
		if err != nil {
			abort(err)
			return
		}

		gctx.Set(AuthPayloadKey, payload)
		gctx.Next()
	}
}

// TaxID returns the tax ID of the authenticated customer.
func TaxID(gctx *gin.Context) string {
	return gctx.MustGet(AuthPayloadKey).(*tokenpkg.Payload).TaxID
}

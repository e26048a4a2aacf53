package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// NewRateLimiter returns an in-memory limiter for a rate formatted like "10-M".
func NewRateLimiter(formatted string) (*limiter.Limiter, error) {
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}

	return limiter.New(memory.NewStore(), rate), nil
}

// RateLimit rejects requests of a client IP once it exceeds the limiter rate.
func RateLimit(lim *limiter.Limiter) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		l := zerolog.Ctx(gctx.Request.Context())
		ip := gctx.ClientIP()

		lctx, err := lim.Get(gctx.Request.Context(), ip)
		if err != nil {
			l.Error().Err(err).Str("ip", ip).Msg("rate limit check failed")
			gctx.AbortWithStatusJSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))
			return
		}

		if lctx.Reached {
			l.Warn().Str("ip", ip).Int64("limit", lctx.Limit).Msg("rate limit exceeded")
			gctx.AbortWithStatusJSON(http.StatusTooManyRequests, web.Error(errorspkg.ErrTooManyRequests))
			return
		}

		gctx.Next()
	}
}

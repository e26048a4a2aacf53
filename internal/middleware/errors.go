package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

var statusByCode = map[string]int{
	domain.CodeDuplicateKey:            http.StatusConflict,
	domain.CodeNotFound:                http.StatusNotFound,
	domain.CodeAccountLimitExceeded:    http.StatusBadRequest,
	domain.CodeInvalidAmount:           http.StatusUnprocessableEntity,
	domain.CodeInsufficientFunds:       http.StatusUnprocessableEntity,
	domain.CodeLimitExceeded:           http.StatusUnprocessableEntity,
	domain.CodeWithdrawalCountExceeded: http.StatusUnprocessableEntity,
	domain.CodeUnauthorized:            http.StatusUnauthorized,
	domain.CodeInvalidInput:            http.StatusBadRequest,
	domain.CodePersistenceUnavailable:  http.StatusServiceUnavailable,
}

// ErrorStatus returns the HTTP status for err.
func ErrorStatus(err error) int {
	if status, ok := statusByCode[domain.Code(err)]; ok {
		return status
	}

	return http.StatusInternalServerError
}

// RespondError writes err with its status and stable code.
// Unexpected errors are logged and replaced by errorspkg.ErrInternal.
func RespondError(gctx *gin.Context, err error) {
	code := domain.Code(err)
	status := ErrorStatus(err)

	if status == http.StatusInternalServerError {
		zerolog.Ctx(gctx.Request.Context()).Error().Err(err).Send()
		err = errorspkg.ErrInternal
	}

	gctx.JSON(status, web.CodedError(code, err))
}

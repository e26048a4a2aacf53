// Package transactiondelivery manages delivery layer of deposits and withdrawals.
package transactiondelivery

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by transaction delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package transactiondelivery
type Service interface {
	Deposit(ctx context.Context, taxID, amount string) (domain.TransactionResult, error)
	Withdraw(ctx context.Context, taxID, amount string) (domain.TransactionResult, error)
}

// Handler facilitates transaction delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns transaction handler.
func NewHandler(ts Service) *Handler {
	return &Handler{
		service: ts,
	}
}

var errAmountType = errors.New("amount must be a string or a number")

// amount holds the textual amount of a request given as a JSON string or number.
type amount string

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		return nil
	case b[0] == '"':
		var s string
		if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, &s); err != nil {
			return err
		}

		*a = amount(s)
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*a = amount(b)
	default:
		return errAmountType
	}

	return nil
}

type request struct {
	Amount amount `json:"amount" binding:"required"`
}

type data struct {
	Transaction domain.TransactionResult `json:"transaction"`
}

type response struct {
	Data data `json:"data"`
}

type operation func(ctx context.Context, taxID, amount string) (domain.TransactionResult, error)

func (h *Handler) handle(gctx *gin.Context, op operation) {
	ctx := gctx.Request.Context()

	var req request
	if err := gctx.ShouldBindJSON(&req); err != nil {
		zerolog.Ctx(ctx).Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	result, err := op(ctx, middleware.TaxID(gctx), string(req.Amount))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{result}})
}

// Deposit handles http request to deposit into the first account of the authenticated customer.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.handle(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw from the first account of the authenticated customer.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.handle(gctx, h.service.Withdraw)
}

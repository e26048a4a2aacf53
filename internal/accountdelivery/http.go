// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/statementxlsx"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Open(ctx context.Context, taxID string) (domain.AccountSnapshot, error)
	Get(ctx context.Context, taxID string) (domain.AccountSnapshot, error)
	List(ctx context.Context, taxID string) ([]domain.AccountSnapshot, error)
	Statement(ctx context.Context, taxID string) (domain.Statement, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type data struct {
	Account domain.AccountSnapshot `json:"account"`
}

type response struct {
	Data data `json:"data"`
}

type dataAccounts struct {
	Accounts []domain.AccountSnapshot `json:"accounts"`
}

type responseAccounts struct {
	Data dataAccounts `json:"data"`
}

type dataStatement struct {
	Statement domain.Statement `json:"statement"`
	Lines     []string         `json:"lines"`
}

type responseStatement struct {
	Data dataStatement `json:"data"`
}

// Open handles http request to open another account for the authenticated customer.
func (h *Handler) Open(gctx *gin.Context) {
	account, err := h.service.Open(gctx.Request.Context(), middleware.TaxID(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{account}})
}

// Balance handles http request to get the first account of the authenticated customer.
func (h *Handler) Balance(gctx *gin.Context) {
	account, err := h.service.Get(gctx.Request.Context(), middleware.TaxID(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{account}})
}

// List handles http request to list the accounts of the authenticated customer.
func (h *Handler) List(gctx *gin.Context) {
	accounts, err := h.service.List(gctx.Request.Context(), middleware.TaxID(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseAccounts{Data: dataAccounts{accounts}})
}

// Statement format query values.
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

type statementRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=json xlsx"`
}

// Statement handles http request to get the statement of the first account.
// With format=xlsx the statement is returned as an Excel workbook.
func (h *Handler) Statement(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req statementRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return
	}

	st, err := h.service.Statement(ctx, middleware.TaxID(gctx))
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	if req.Format != FormatXLSX {
		gctx.JSON(http.StatusOK, responseStatement{Data: dataStatement{Statement: st, Lines: st.Lines()}})
		return
	}

	var buf bytes.Buffer
	if err := statementxlsx.Write(&buf, st); err != nil {
		l.Error().Err(err).Str("account", st.Account.DisplayNumber).Msg("cannot build statement workbook")
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="statement-%s.xlsx"`, st.Account.DisplayNumber))
	gctx.Data(http.StatusOK, statementxlsx.ContentType, buf.Bytes())
}

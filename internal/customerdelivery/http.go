// Package customerdelivery manages delivery layer of customers.
package customerdelivery

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// CustomerService provides customer service layer interface needed by customer delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package customerdelivery
type CustomerService interface {
	Register(ctx context.Context, arg domain.RegisterCustomerParams) (domain.Customer, error)
	CheckPassword(ctx context.Context, taxID, password string) (domain.Customer, error)
	Find(ctx context.Context, taxID string) (domain.Customer, bool)
}

// AccountService provides account service layer interface needed by customer delivery layer.
type AccountService interface {
	Open(ctx context.Context, taxID string) (domain.AccountSnapshot, error)
	Get(ctx context.Context, taxID string) (domain.AccountSnapshot, error)
}

// Handler facilitates customer delivery layer logic.
type Handler struct {
	customers     CustomerService
	accounts      AccountService
	tokenMaker    tokenpkg.Maker
	tokenDuration time.Duration
}

// NewHandler returns customer handler.
func NewHandler(cs CustomerService, as AccountService, maker tokenpkg.Maker, tokenDuration time.Duration) *Handler {
	return &Handler{
		customers:     cs,
		accounts:      as,
		tokenMaker:    maker,
		tokenDuration: tokenDuration,
	}
}

type data struct {
	Customer domain.Customer         `json:"customer"`
	Account  *domain.AccountSnapshot `json:"account,omitempty"`
}

type response struct {
	AccessToken          string     `json:"access_token,omitempty"`
	AccessTokenExpiresAt *time.Time `json:"access_token_expires_at,omitempty"`
	Data                 data       `json:"data"`
}

type registerRequest struct {
	Name      string `json:"name" binding:"required"`
	Birthdate string `json:"birthdate" binding:"required,birthdate"`
	TaxID     string `json:"tax_id" binding:"required,taxid"`
	Address   string `json:"address" binding:"required"`
	Password  string `json:"password" binding:"required,min=6"`
}

func bindJSON(gctx *gin.Context, req any) bool {
	if err := gctx.ShouldBindJSON(req); err != nil {
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()

		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			gctx.JSON(http.StatusBadRequest, web.Response{Error: web.GetErrorMsg(ve)})
			return false
		}

		gctx.JSON(http.StatusBadRequest, web.Error(err))

		return false
	}

	return true
}

// Register handles http request to register a customer and open the first account.
func (h *Handler) Register(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req registerRequest
	if !bindJSON(gctx, &req) {
		return
	}

	customer, err := h.customers.Register(ctx, domain.RegisterCustomerParams{
		Name:      req.Name,
		Birthdate: req.Birthdate,
		TaxID:     req.TaxID,
		Address:   req.Address,
		Password:  req.Password,
	})
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	account, err := h.accounts.Open(ctx, customer.TaxID)
	if err != nil {
		l.Warn().Err(err).Str("tax_id", customer.TaxID).Msg("customer registered without account")
		middleware.RespondError(gctx, err)

		return
	}

	token, payload, err := h.tokenMaker.CreateToken(customer.TaxID, h.tokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusCreated, response{
		AccessToken:          token,
		AccessTokenExpiresAt: &payload.ExpiredAt,
		Data:                 data{Customer: customer, Account: &account},
	})
}

type loginRequest struct {
	TaxID    string `json:"tax_id" binding:"required,taxid"`
	Password string `json:"password" binding:"required"`
}

// Login handles http login request and returns the customer with an access token.
func (h *Handler) Login(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req loginRequest
	if !bindJSON(gctx, &req) {
		return
	}

	customer, err := h.customers.CheckPassword(ctx, req.TaxID, req.Password)
	if err != nil {
		middleware.RespondError(gctx, err)
		return
	}

	token, payload, err := h.tokenMaker.CreateToken(customer.TaxID, h.tokenDuration)
	if err != nil {
		l.Error().Err(err).Send()
		gctx.JSON(http.StatusInternalServerError, web.Error(errorspkg.ErrInternal))

		return
	}

	gctx.JSON(http.StatusOK, response{
		AccessToken:          token,
		AccessTokenExpiresAt: &payload.ExpiredAt,
		Data:                 data{Customer: customer},
	})
}

// Profile handles http request to get the authenticated customer and the first account.
func (h *Handler) Profile(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	taxID := middleware.TaxID(gctx)

	customer, ok := h.customers.Find(ctx, taxID)
	if !ok {
		middleware.RespondError(gctx, domain.ErrCustomerNotFound)
		return
	}

	res := response{Data: data{Customer: customer}}

	account, err := h.accounts.Get(ctx, taxID)
	switch {
	case err == nil:
		res.Data.Account = &account
	case !errors.Is(err, domain.ErrAccountNotFound):
		middleware.RespondError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, res)
}

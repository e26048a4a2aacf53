package customerdelivery

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/test"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

var tokenMaker tokenpkg.Maker

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)

	if err := RegisterValidators(); err != nil {
		log.Fatal("cannot register validators:", err)
	}

	var err error

	tokenMaker, err = tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		log.Fatal("cannot create token maker:", err)
	}

	os.Exit(m.Run())
}

func snapshotOf(c domain.Customer) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		Number:           1,
		DisplayNumber:    "000001",
		Branch:           domain.DefaultBranch,
		OwnerTaxID:       c.TaxID,
		OwnerName:        c.Name,
		Balance:          decimal.Zero,
		WithdrawalLimit:  domain.DefaultWithdrawalLimit,
		MaxWithdrawals:   domain.DefaultMaxWithdrawals,
		WithdrawalPeriod: domain.PeriodDaily,
	}
}

func decodeResponse(t *testing.T, body io.Reader) response {
	t.Helper()

	data, err := io.ReadAll(body)
	require.NoError(t, err)

	var res response
	require.NoError(t, json.Unmarshal(data, &res))

	return res
}

func TestRegisterAPI(t *testing.T) {
	customer := test.RandomCustomer()
	password := randompkg.String(10)

	validBody := gin.H{
		"name":      customer.Name,
		"birthdate": customer.Birthdate,
		"tax_id":    customer.TaxID,
		"address":   customer.Address,
		"password":  password,
	}

	with := func(key, value string) gin.H {
		body := gin.H{}
		for k, v := range validBody {
			body[k] = v
		}
		body[key] = value
		return body
	}

	wantParams := domain.RegisterCustomerParams{
		Name:      customer.Name,
		Birthdate: customer.Birthdate,
		TaxID:     customer.TaxID,
		Address:   customer.Address,
		Password:  password,
	}

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(customers *MockCustomerService, accounts *MockAccountService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "InvalidTaxID",
			requestBody: with("tax_id", "123"),
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "InvalidBirthdate",
			requestBody: with("birthdate", "31-02-1990"),
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "ShortPassword",
			requestBody: with("password", "xyz"),
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().Register(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "DuplicateTaxID",
			requestBody: validBody,
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().
					Register(gomock.Any(), gomock.Eq(wantParams)).
					Times(1).
					Return(domain.Customer{}, domain.ErrCustomerAlreadyExists)

				accounts.EXPECT().Open(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusConflict, recorder.Code)
			},
		},
		{
			name:        "PersistenceUnavailable",
			requestBody: validBody,
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().
					Register(gomock.Any(), gomock.Eq(wantParams)).
					Times(1).
					Return(domain.Customer{}, domain.ErrPersistenceUnavailable)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
			},
		},
		{
			name:        "OpenAccountErr",
			requestBody: validBody,
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().
					Register(gomock.Any(), gomock.Eq(wantParams)).
					Times(1).
					Return(customer, nil)

				accounts.EXPECT().
					Open(gomock.Any(), gomock.Eq(customer.TaxID)).
					Times(1).
					Return(domain.AccountSnapshot{}, domain.ErrPersistenceUnavailable)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: validBody,
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().
					Register(gomock.Any(), gomock.Eq(wantParams)).
					Times(1).
					Return(customer, nil)

				accounts.EXPECT().
					Open(gomock.Any(), gomock.Eq(customer.TaxID)).
					Times(1).
					Return(snapshotOf(customer), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusCreated, recorder.Code)

				res := decodeResponse(t, recorder.Body)
				require.NotEmpty(t, res.AccessToken)
				require.Equal(t, customer.TaxID, res.Data.Customer.TaxID)
				require.NotNil(t, res.Data.Account)
				require.Equal(t, "000001", res.Data.Account.DisplayNumber)

				payload, err := tokenMaker.VerifyToken(res.AccessToken)
				require.NoError(t, err)
				require.Equal(t, customer.TaxID, payload.TaxID)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			customers := NewMockCustomerService(ctrl)
			accounts := NewMockAccountService(ctrl)
			tc.buildStubs(customers, accounts)

			handler := NewHandler(customers, accounts, tokenMaker, time.Minute)

			server := gin.New()
			url := "/users/register"
			server.POST(url, handler.Register)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			tc.checkResponse(recorder)
		})
	}
}

func TestLoginAPI(t *testing.T) {
	customer := test.RandomCustomer()
	password := randompkg.String(10)

	testCases := []struct {
		name          string
		requestBody   gin.H
		buildStubs    func(customers *MockCustomerService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:        "MissingPassword",
			requestBody: gin.H{"tax_id": customer.TaxID},
			buildStubs: func(customers *MockCustomerService) {
				customers.EXPECT().CheckPassword(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name:        "NotFound",
			requestBody: gin.H{"tax_id": customer.TaxID, "password": password},
			buildStubs: func(customers *MockCustomerService) {
				customers.EXPECT().
					CheckPassword(gomock.Any(), gomock.Eq(customer.TaxID), gomock.Eq(password)).
					Times(1).
					Return(domain.Customer{}, domain.ErrCustomerNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name:        "WrongPassword",
			requestBody: gin.H{"tax_id": customer.TaxID, "password": password},
			buildStubs: func(customers *MockCustomerService) {
				customers.EXPECT().
					CheckPassword(gomock.Any(), gomock.Eq(customer.TaxID), gomock.Eq(password)).
					Times(1).
					Return(domain.Customer{}, domain.ErrWrongPassword)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:        "OK",
			requestBody: gin.H{"tax_id": customer.TaxID, "password": password},
			buildStubs: func(customers *MockCustomerService) {
				customers.EXPECT().
					CheckPassword(gomock.Any(), gomock.Eq(customer.TaxID), gomock.Eq(password)).
					Times(1).
					Return(customer, nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				res := decodeResponse(t, recorder.Body)
				require.NotEmpty(t, res.AccessToken)
				require.NotNil(t, res.AccessTokenExpiresAt)
				require.Equal(t, customer.TaxID, res.Data.Customer.TaxID)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			customers := NewMockCustomerService(ctrl)
			tc.buildStubs(customers)

			handler := NewHandler(customers, NewMockAccountService(ctrl), tokenMaker, time.Minute)

			server := gin.New()
			url := "/auth/login"
			server.POST(url, handler.Login)

			body, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			tc.checkResponse(recorder)
		})
	}
}

func TestProfileAPI(t *testing.T) {
	customer := test.RandomCustomer()

	testCases := []struct {
		name          string
		buildStubs    func(customers *MockCustomerService, accounts *MockAccountService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "NotFound",
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().Find(gomock.Any(), gomock.Eq(customer.TaxID)).Times(1).Return(domain.Customer{}, false)
				accounts.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "WithoutAccount",
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().Find(gomock.Any(), gomock.Eq(customer.TaxID)).Times(1).Return(customer, true)
				accounts.EXPECT().
					Get(gomock.Any(), gomock.Eq(customer.TaxID)).
					Times(1).
					Return(domain.AccountSnapshot{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				res := decodeResponse(t, recorder.Body)
				require.Equal(t, customer.TaxID, res.Data.Customer.TaxID)
				require.Nil(t, res.Data.Account)
			},
		},
		{
			name: "OK",
			buildStubs: func(customers *MockCustomerService, accounts *MockAccountService) {
				customers.EXPECT().Find(gomock.Any(), gomock.Eq(customer.TaxID)).Times(1).Return(customer, true)
				accounts.EXPECT().Get(gomock.Any(), gomock.Eq(customer.TaxID)).Times(1).Return(snapshotOf(customer), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				res := decodeResponse(t, recorder.Body)
				require.NotNil(t, res.Data.Account)
				require.Equal(t, customer.TaxID, res.Data.Account.OwnerTaxID)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			customers := NewMockCustomerService(ctrl)
			accounts := NewMockAccountService(ctrl)
			tc.buildStubs(customers, accounts)

			handler := NewHandler(customers, accounts, tokenMaker, time.Minute)

			server := gin.New()
			url := "/users/profile"
			server.GET(url, middleware.AuthMiddleware(tokenMaker), handler.Profile)

			req, err := http.NewRequest(http.MethodGet, url, nil)
			require.NoError(t, err)

			err = middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer, customer.TaxID, time.Minute)
			require.NoError(t, err)

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			tc.checkResponse(recorder)
		})
	}
}

package accountdelivery

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/internal/middleware"
	"github.com/go-petr/pet-ledger/internal/statementxlsx"
	"github.com/go-petr/pet-ledger/internal/test"
	"github.com/go-petr/pet-ledger/pkg/randompkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
)

var tokenMaker tokenpkg.Maker

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)

	var err error

	tokenMaker, err = tokenpkg.NewPasetoMaker(randompkg.String(32))
	if err != nil {
		log.Fatal("cannot create token maker:", err)
	}

	os.Exit(m.Run())
}

func serve(t *testing.T, method, url, taxID string, register func(r gin.IRoutes)) *httptest.ResponseRecorder {
	t.Helper()

	server := gin.New()
	register(server.Group("/", middleware.AuthMiddleware(tokenMaker)))

	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)

	if taxID != "" {
		require.NoError(t, middleware.AddAuthorization(req, tokenMaker, middleware.AuthTypeBearer, taxID, time.Minute))
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)

	return recorder
}

func TestBalanceAPI(t *testing.T) {
	owner := test.RandomCustomer()
	account := test.FundedAccount(t, owner, 1, "150.25")

	testCases := []struct {
		name          string
		taxID         string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name:  "NoAuthorization",
			taxID: "",
			buildStubs: func(service *MockService) {
				service.EXPECT().Get(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusUnauthorized, recorder.Code)
			},
		},
		{
			name:  "AccountNotFound",
			taxID: owner.TaxID,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(domain.AccountSnapshot{}, domain.ErrAccountNotFound)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
				require.Contains(t, recorder.Body.String(), domain.CodeNotFound)
			},
		},
		{
			name:  "OK",
			taxID: owner.TaxID,
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Get(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(account.Snapshot(), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res response
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, "000001", res.Data.Account.DisplayNumber)
				require.Equal(t, "150.25", res.Data.Account.Balance.String())
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			handler := NewHandler(service)
			recorder := serve(t, http.MethodGet, "/account/balance", tc.taxID, func(r gin.IRoutes) {
				r.GET("/account/balance", handler.Balance)
			})

			tc.checkResponse(recorder)
		})
	}
}

func TestOpenAPI(t *testing.T) {
	owner := test.RandomCustomer()
	account := test.RandomAccount(t, owner, 2)

	testCases := []struct {
		name          string
		buildStubs    func(service *MockService)
		checkResponse func(recorder *httptest.ResponseRecorder)
	}{
		{
			name: "AccountLimitExceeded",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(domain.AccountSnapshot{}, domain.ErrAccountLimitExceeded)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
				require.Contains(t, recorder.Body.String(), domain.CodeAccountLimitExceeded)
			},
		},
		{
			name: "PersistenceUnavailable",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(domain.AccountSnapshot{}, domain.ErrPersistenceUnavailable)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusServiceUnavailable, recorder.Code)
			},
		},
		{
			name: "OK",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Open(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(account.Snapshot(), nil)
			},
			checkResponse: func(recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusCreated, recorder.Code)

				var res response
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Equal(t, 2, res.Data.Account.Number)
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			handler := NewHandler(service)
			recorder := serve(t, http.MethodPost, "/accounts", owner.TaxID, func(r gin.IRoutes) {
				r.POST("/accounts", handler.Open)
			})

			tc.checkResponse(recorder)
		})
	}
}

func TestListAPI(t *testing.T) {
	owner := test.RandomCustomer()
	accounts := []domain.AccountSnapshot{
		test.RandomAccount(t, owner, 1).Snapshot(),
		test.RandomAccount(t, owner, 4).Snapshot(),
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := NewMockService(ctrl)
	service.EXPECT().List(gomock.Any(), gomock.Eq(owner.TaxID)).Times(1).Return(accounts, nil)

	handler := NewHandler(service)
	recorder := serve(t, http.MethodGet, "/accounts", owner.TaxID, func(r gin.IRoutes) {
		r.GET("/accounts", handler.List)
	})

	require.Equal(t, http.StatusOK, recorder.Code)

	var res responseAccounts
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
	require.Len(t, res.Data.Accounts, 2)
	require.Equal(t, "000004", res.Data.Accounts[1].DisplayNumber)
}

func TestStatementAPI(t *testing.T) {
	owner := test.RandomCustomer()
	funded := test.FundedAccount(t, owner, 1, "80")
	empty := test.RandomAccount(t, owner, 1)

	testCases := []struct {
		name          string
		url           string
		buildStubs    func(service *MockService)
		checkResponse func(t *testing.T, recorder *httptest.ResponseRecorder)
	}{
		{
			name: "BadFormat",
			url:  "/statement?format=pdf",
			buildStubs: func(service *MockService) {
				service.EXPECT().Statement(gomock.Any(), gomock.Any()).Times(0)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusBadRequest, recorder.Code)
			},
		},
		{
			name: "CustomerNotFound",
			url:  "/statement",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Statement(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(domain.Statement{}, domain.ErrCustomerNotFound)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusNotFound, recorder.Code)
			},
		},
		{
			name: "EmptyHistory",
			url:  "/statement",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Statement(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(empty.Statement(), nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res responseStatement
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Empty(t, res.Data.Statement.Entries)
				require.Equal(t, []string{domain.NoMovements}, res.Data.Lines)
			},
		},
		{
			name: "JSON",
			url:  "/statement?format=json",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Statement(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(funded.Statement(), nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)

				var res responseStatement
				require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &res))
				require.Len(t, res.Data.Statement.Entries, 1)
				require.Len(t, res.Data.Lines, 1)
				require.Contains(t, res.Data.Lines[0], "Deposit (")
				require.Contains(t, res.Data.Lines[0], "): 80.00")
			},
		},
		{
			name: "XLSX",
			url:  "/statement?format=xlsx",
			buildStubs: func(service *MockService) {
				service.EXPECT().
					Statement(gomock.Any(), gomock.Eq(owner.TaxID)).
					Times(1).
					Return(funded.Statement(), nil)
			},
			checkResponse: func(t *testing.T, recorder *httptest.ResponseRecorder) {
				require.Equal(t, http.StatusOK, recorder.Code)
				require.Equal(t, statementxlsx.ContentType, recorder.Header().Get("Content-Type"))
				require.Contains(t, recorder.Header().Get("Content-Disposition"), "statement-000001.xlsx")

				f, err := excelize.OpenReader(bytes.NewReader(recorder.Body.Bytes()))
				require.NoError(t, err)
				defer f.Close()

				rows, err := f.GetRows(statementxlsx.SheetName)
				require.NoError(t, err)
				require.Equal(t, []string{"Tax ID", owner.TaxID}, rows[3])
				require.Equal(t, "Deposit", rows[7][0])
			},
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			service := NewMockService(ctrl)
			tc.buildStubs(service)

			handler := NewHandler(service)
			recorder := serve(t, http.MethodGet, tc.url, owner.TaxID, func(r gin.IRoutes) {
				r.GET("/statement", handler.Statement)
			})

			tc.checkResponse(t, recorder)
		})
	}
}

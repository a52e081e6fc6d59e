package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/core/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/SscSPs/travel_settlement/internal/handlers"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/SscSPs/travel_settlement/internal/platform/config"
	"github.com/SscSPs/travel_settlement/internal/repositories/memory"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/ulule/limiter/v3"
	limitermemory "github.com/ulule/limiter/v3/drivers/store/memory"
)

var testSystem = domain.SystemAccounts{
	WalletAccountID:        "sys-wallet",
	SalesClearingAccountID: "sys-clearing",
	CommissionAccountID:    "sys-commission",
	DepositAccountID:       "sys-deposits",
}

type HandlersTestSuite struct {
	suite.Suite
	router    *gin.Engine
	services  *portssvc.ServiceContainer
	jwtSecret string
	token     string
}

func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlersTestSuite))
}

// generateTestToken creates a signed JWT for the given user.
func (s *HandlersTestSuite) generateTestToken(userID string, ttl time.Duration) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "settlement-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	s.Require().NoError(err)
	return signed
}

func (s *HandlersTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.jwtSecret = "test-secret-key-that-is-long-enough"
	s.token = s.generateTestToken("ops-user", time.Hour)

	store := memory.NewStore()
	s.services = services.NewContainer(store.Provider(), services.ContainerConfig{
		System:          testSystem,
		DefaultCurrency: "USD",
		MaxAttempts:     3,
		ApplyRetries:    2,
	})
	ctx := context.Background()
	s.Require().NoError(s.services.Account.EnsureSystemAccounts(ctx, testSystem, "USD"))
	for _, req := range []dto.CreateAccountRequest{
		{AccountID: "acc-provider-1", Name: "Sea Breeze Hotel", Category: domain.CategoryProvider, OwnerType: domain.OwnerProvider, OwnerID: "prov-1"},
		{AccountID: "acc-agent-1", Name: "Agent One", Category: domain.CategoryAgent, OwnerType: domain.OwnerAgent, OwnerID: "agent-1"},
	} {
		_, err := s.services.Account.Create(ctx, req, "tester")
		s.Require().NoError(err)
	}

	s.router = gin.New()
	s.router.Use(middleware.StructuredLoggingMiddleware(middleware.GetLoggerFromCtx(ctx)))
	handlers.RegisterRoutes(s.router, &config.Config{JWTSecret: s.jwtSecret, IsProduction: true}, s.services)
}

func (s *HandlersTestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		s.Require().NoError(err)
	}
	req, err := http.NewRequest(method, path, bytes.NewReader(payload))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *HandlersTestSuite) decode(w *httptest.ResponseRecorder, out any) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func bookingRequest() dto.BookingPaymentRequest {
	return dto.BookingPaymentRequest{
		BaseAmount:     decimal.NewFromInt(670),
		CommissionRule: &dto.CommissionRuleRequest{Type: domain.CommissionPercentage, Value: decimal.NewFromInt(5)},
		ProviderID:     "prov-1",
	}
}

func (s *HandlersTestSuite) TestHealthIsPublic() {
	s.token = ""
	w := s.do(http.MethodGet, "/health", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Equal("OK", w.Body.String())
}

func (s *HandlersTestSuite) TestAPIRequiresToken() {
	s.token = ""
	w := s.do(http.MethodGet, "/api/v1/accounts/sys-wallet", nil)
	s.Equal(http.StatusUnauthorized, w.Code)

	s.token = s.generateTestToken("ops-user", -time.Minute)
	w = s.do(http.MethodGet, "/api/v1/accounts/sys-wallet", nil)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Contains(w.Body.String(), "expired")
}

func (s *HandlersTestSuite) TestCreateAndReadAccounts() {
	w := s.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		Name: "Mountain Lodge", Category: domain.CategoryProvider, OwnerType: domain.OwnerProvider, OwnerID: "prov-9",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var created dto.AccountResponse
	s.decode(w, &created)
	s.NotEmpty(created.AccountID)
	s.Equal(domain.Liability, created.Kind)
	s.Equal("USD", created.CurrencyCode)
	s.Equal("ops-user", created.CreatedBy)

	w = s.do(http.MethodGet, "/api/v1/accounts/"+created.AccountID, nil)
	s.Equal(http.StatusOK, w.Code)

	w = s.do(http.MethodGet, "/api/v1/owners/PROVIDER/prov-9/account", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var byOwner dto.AccountResponse
	s.decode(w, &byOwner)
	s.Equal(created.AccountID, byOwner.AccountID)

	w = s.do(http.MethodGet, "/api/v1/owners/CUSTOMER/c-1/account", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/v1/accounts/missing", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/v1/accounts", dto.CreateAccountRequest{
		Name: "Duplicate", Category: domain.CategoryProvider, OwnerType: domain.OwnerProvider, OwnerID: "prov-9",
	})
	s.Equal(http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/api/v1/accounts", map[string]string{"name": "x", "category": "CASH"})
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestBookingPaymentPostsAndReplays() {
	w := s.do(http.MethodPost, "/api/v1/bookings/bk-1/payment", bookingRequest())
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var res dto.SettlementResultResponse
	s.decode(w, &res)
	s.Equal(apperrors.CodeOK, res.Code)
	s.Equal(domain.StatusPosted, res.Status)
	s.False(res.Replayed)
	s.Require().NotNil(res.Settlement)
	s.Len(res.Settlement.Legs, 6)
	s.True(decimal.RequireFromString("1407").Equal(res.Settlement.TotalAmount))

	w = s.do(http.MethodPost, "/api/v1/bookings/bk-1/payment", bookingRequest())
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var replay dto.SettlementResultResponse
	s.decode(w, &replay)
	s.True(replay.Replayed)
	s.Equal(res.Settlement.SettlementID, replay.Settlement.SettlementID)

	changed := bookingRequest()
	changed.BaseAmount = decimal.NewFromInt(700)
	w = s.do(http.MethodPost, "/api/v1/bookings/bk-1/payment", changed)
	s.Equal(http.StatusConflict, w.Code)
	s.Contains(w.Body.String(), string(apperrors.CodeIdempotencyMismatch))

	w = s.do(http.MethodGet, "/api/v1/references/BOOKING/bk-1/status", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var status dto.ReferenceStatusResponse
	s.decode(w, &status)
	s.Equal(domain.ReferencePaid, status.State)
	s.Equal(res.Settlement.SettlementID, status.SettlementID)

	w = s.do(http.MethodGet, "/api/v1/owners/PROVIDER/prov-1/mirror", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var mirror dto.BalanceMirrorResponse
	s.decode(w, &mirror)
	s.True(decimal.NewFromInt(670).Equal(mirror.Balance))
	s.Equal("$670.00", mirror.FormattedBalance)

	w = s.do(http.MethodGet, "/api/v1/accounts/sys-wallet/balance", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var balance dto.AccountBalanceResponse
	s.decode(w, &balance)
	s.True(decimal.RequireFromString("-703.5").Equal(balance.Balance))
}

func (s *HandlersTestSuite) TestAgentBookingWithoutCreditIsRejected() {
	req := bookingRequest()
	req.AgentID = "agent-1"
	w := s.do(http.MethodPost, "/api/v1/bookings/bk-2/payment", req)
	s.Require().Equal(http.StatusUnprocessableEntity, w.Code, w.Body.String())
	var res dto.SettlementResultResponse
	s.decode(w, &res)
	s.Equal(apperrors.CodeInsufficientFunds, res.Code)
	s.Equal(domain.StatusFailed, res.Status)

	w = s.do(http.MethodGet, "/api/v1/references/BOOKING/bk-2/status", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var status dto.ReferenceStatusResponse
	s.decode(w, &status)
	s.Equal(domain.ReferenceFailed, status.State)
	s.NotEmpty(status.LastError)

	w = s.do(http.MethodPost, "/api/v1/agents/agent-1/deposits/dep-1", dto.AgentDepositRequest{Amount: decimal.NewFromInt(1000)})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/v1/bookings/bk-2/payment", req)
	s.Equal(http.StatusCreated, w.Code, w.Body.String())
}

func (s *HandlersTestSuite) TestSettleFindAndReverse() {
	w := s.do(http.MethodPost, "/api/v1/settlements", dto.SettleRequest{
		Kind:          domain.EventVoucher,
		ReferenceID:   "v-1",
		Amount:        decimal.NewFromInt(250),
		VoucherType:   domain.VoucherTransfer,
		FromAccountID: "sys-wallet",
		ToAccountID:   "acc-provider-1",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var posted dto.SettlementResultResponse
	s.decode(w, &posted)
	settlementID := posted.Settlement.SettlementID

	w = s.do(http.MethodGet, "/api/v1/settlements/"+settlementID, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var entry dto.SettlementResponse
	s.decode(w, &entry)
	s.Len(entry.Transactions, 2)

	w = s.do(http.MethodGet, "/api/v1/settlements?referenceType=VOUCHER&referenceID=v-1", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &entry)
	s.Equal(settlementID, entry.SettlementID)

	w = s.do(http.MethodGet, "/api/v1/settlements?referenceType=VOUCHER", nil)
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/v1/settlements/"+settlementID+"/reverse", dto.ReverseSettlementRequest{Reason: "duplicate voucher"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var reversal dto.SettlementResultResponse
	s.decode(w, &reversal)
	s.Require().NotNil(reversal.Settlement.ReversesSettlementID)
	s.Equal(settlementID, *reversal.Settlement.ReversesSettlementID)

	w = s.do(http.MethodPost, "/api/v1/settlements/"+settlementID+"/reverse", nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	s.decode(w, &reversal)
	s.True(reversal.Replayed)

	w = s.do(http.MethodPost, "/api/v1/settlements/unknown/reverse", nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/api/v1/accounts/acc-provider-1/balance", nil)
	var balance dto.AccountBalanceResponse
	s.decode(w, &balance)
	s.True(balance.Balance.IsZero())
}

func (s *HandlersTestSuite) TestListTransactionsPaginates() {
	for _, id := range []string{"v-1", "v-2", "v-3"} {
		w := s.do(http.MethodPost, "/api/v1/vouchers/"+id+"/approve", dto.VoucherApprovalRequest{
			Type: domain.VoucherPayment, Amount: decimal.NewFromInt(10), FromAccountID: "sys-wallet", ToAccountID: "acc-provider-1",
		})
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	}

	w := s.do(http.MethodGet, "/api/v1/accounts/acc-provider-1/transactions?limit=2", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page dto.ListTransactionsResponse
	s.decode(w, &page)
	s.Len(page.Transactions, 2)
	s.Require().NotNil(page.NextToken)

	firstIDs := []string{page.Transactions[0].TransactionID, page.Transactions[1].TransactionID}

	w = s.do(http.MethodGet, "/api/v1/accounts/acc-provider-1/transactions?limit=2&nextToken="+*page.NextToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	page = dto.ListTransactionsResponse{}
	s.decode(w, &page)
	s.Require().Len(page.Transactions, 1)
	s.Nil(page.NextToken)
	s.NotContains(firstIDs, page.Transactions[0].TransactionID)

	w = s.do(http.MethodGet, "/api/v1/accounts/acc-provider-1/transactions?direction=SIDEWAYS", nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersTestSuite) TestSubCentVoucherIsRejected() {
	w := s.do(http.MethodPost, "/api/v1/vouchers/v-mill/approve", dto.VoucherApprovalRequest{
		Type: domain.VoucherPayment, Amount: decimal.RequireFromString("0.001"), FromAccountID: "sys-wallet", ToAccountID: "acc-provider-1",
	})
	s.Equal(http.StatusBadRequest, w.Code, w.Body.String())

	var res dto.SettlementResultResponse
	s.decode(w, &res)
	s.Equal(apperrors.CodeInvalidAmount, res.Code)
	s.Nil(res.Settlement)

	w = s.do(http.MethodGet, "/api/v1/accounts/acc-provider-1/balance", nil)
	var balance dto.AccountBalanceResponse
	s.decode(w, &balance)
	s.True(balance.Balance.IsZero())
}

// statusOutage rejects every reference status write.
type statusOutage struct {
	*memory.Store
}

func (statusOutage) SaveReferenceStatus(context.Context, domain.ReferenceStatus) error {
	return errors.New("status table unavailable")
}

func (s *HandlersTestSuite) TestPostedSettlementWithUnrecordedStatus() {
	s.services.Events = services.NewEventAdapters(s.services.Settlement, s.services.Account, statusOutage{memory.NewStore()})
	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{JWTSecret: s.jwtSecret, IsProduction: true}, s.services)

	w := s.do(http.MethodPost, "/api/v1/agents/agent-1/deposits/d-9", dto.AgentDepositRequest{Amount: decimal.NewFromInt(40)})
	s.Equal(http.StatusInternalServerError, w.Code)

	var res dto.SettlementResultResponse
	s.decode(w, &res)
	s.Equal(apperrors.CodeOK, res.Code)
	s.Require().NotNil(res.Settlement)
	s.Contains(res.Error, "posted")
	s.NotEqual("Settlement failed", res.Error)

	w = s.do(http.MethodGet, "/api/v1/accounts/acc-agent-1/balance", nil)
	var balance dto.AccountBalanceResponse
	s.decode(w, &balance)
	s.True(balance.Balance.Equal(decimal.NewFromInt(40)))
}

func (s *HandlersTestSuite) TestMutatingRoutesAreRateLimited() {
	rate, err := limiter.NewRateFromFormatted("1-M")
	s.Require().NoError(err)
	limited := limiter.New(limitermemory.NewStore(), rate)

	s.router = gin.New()
	handlers.RegisterRoutes(s.router, &config.Config{JWTSecret: s.jwtSecret, IsProduction: true}, s.services, middleware.RateLimit(limited))

	w := s.do(http.MethodPost, "/api/v1/vouchers/v-9/approve", dto.VoucherApprovalRequest{
		Type: domain.VoucherReceipt, Amount: decimal.NewFromInt(5), FromAccountID: "sys-wallet", ToAccountID: "acc-provider-1",
	})
	s.Equal(http.StatusCreated, w.Code, w.Body.String())
	s.Equal("1", w.Header().Get("X-RateLimit-Limit"))

	w = s.do(http.MethodPost, "/api/v1/vouchers/v-10/approve", dto.VoucherApprovalRequest{
		Type: domain.VoucherReceipt, Amount: decimal.NewFromInt(5), FromAccountID: "sys-wallet", ToAccountID: "acc-provider-1",
	})
	s.Equal(http.StatusTooManyRequests, w.Code)

	// Reads are never limited.
	w = s.do(http.MethodGet, "/api/v1/accounts/sys-wallet/balance", nil)
	s.Equal(http.StatusOK, w.Code)
}

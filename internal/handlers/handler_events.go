package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/SscSPs/travel_settlement/internal/utils"
	"github.com/gin-gonic/gin"
)

// eventHandler exposes the event adapters that business modules call when
// a booking, voucher, deposit or provider payment is approved.
type eventHandler struct {
	events   portssvc.EventAdapterFacade
	accounts portssvc.AccountReaderSvc
}

func newEventHandler(events portssvc.EventAdapterFacade, accounts portssvc.AccountReaderSvc) *eventHandler {
	return &eventHandler{events: events, accounts: accounts}
}

// RegisterEventRoutes registers the adapter endpoints and the status lookups
// that go with them.
func RegisterEventRoutes(rg *gin.RouterGroup, events portssvc.EventAdapterFacade, accounts portssvc.AccountReaderSvc, mutating ...gin.HandlerFunc) {
	h := newEventHandler(events, accounts)

	rg.POST("/bookings/:bookingID/payment", withMiddleware(mutating, h.approveBookingPayment)...)
	rg.POST("/vouchers/:voucherID/approve", withMiddleware(mutating, h.approveVoucher)...)
	rg.POST("/agents/:agentID/deposits/:depositID", withMiddleware(mutating, h.recordAgentDeposit)...)
	rg.POST("/provider-payments/:paymentID/approve", withMiddleware(mutating, h.approveProviderPayment)...)

	rg.GET("/references/:referenceType/:referenceID/status", h.getReferenceStatus)
	rg.GET("/owners/:ownerType/:ownerID/mirror", h.getBalanceMirror)
}

// approveBookingPayment godoc
// @Summary Approve a booking payment
// @Description Settles the customer payment for a booking and marks the booking PAID
// @Tags events
// @Accept  json
// @Produce  json
// @Param   bookingID path string true "Booking ID"
// @Param   payment body dto.BookingPaymentRequest true "Payment details"
// @Success 201 {object} dto.SettlementResultResponse "Posted"
// @Success 200 {object} dto.SettlementResultResponse "Replayed"
// @Failure 400 {object} dto.SettlementResultResponse "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.SettlementResultResponse "Account not found"
// @Failure 409 {object} dto.SettlementResultResponse "Idempotency mismatch or concurrent modification"
// @Failure 422 {object} dto.SettlementResultResponse "Insufficient funds"
// @Failure 500 {object} dto.SettlementResultResponse "Settlement failed"
// @Security BearerAuth
// @Router /bookings/{bookingID}/payment [post]
func (h *eventHandler) approveBookingPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.BookingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BookingPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	bookingID := c.Param("bookingID")
	logger = logger.With(slog.String("booking_id", bookingID))
	result, err := h.events.ApproveBookingPayment(c.Request.Context(), req.ToDomain(bookingID, userID))
	writeSettlementResult(c, logger, result, err)
}

// approveVoucher godoc
// @Summary Approve a voucher
// @Description Settles a receipt, payment or transfer voucher and marks it APPROVED
// @Tags events
// @Accept  json
// @Produce  json
// @Param   voucherID path string true "Voucher ID"
// @Param   voucher body dto.VoucherApprovalRequest true "Voucher details"
// @Success 201 {object} dto.SettlementResultResponse "Posted"
// @Success 200 {object} dto.SettlementResultResponse "Replayed"
// @Failure 400 {object} dto.SettlementResultResponse "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.SettlementResultResponse "Account not found"
// @Failure 422 {object} dto.SettlementResultResponse "Insufficient funds"
// @Failure 500 {object} dto.SettlementResultResponse "Settlement failed"
// @Security BearerAuth
// @Router /vouchers/{voucherID}/approve [post]
func (h *eventHandler) approveVoucher(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.VoucherApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for VoucherApproval", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	voucherID := c.Param("voucherID")
	logger = logger.With(slog.String("voucher_id", voucherID))
	result, err := h.events.ProcessVoucher(c.Request.Context(), req.ToDomain(voucherID, userID))
	writeSettlementResult(c, logger, result, err)
}

// recordAgentDeposit godoc
// @Summary Confirm an agent deposit
// @Description Credits a confirmed deposit to the agent's account and marks it CONFIRMED
// @Tags events
// @Accept  json
// @Produce  json
// @Param   agentID path string true "Agent ID"
// @Param   depositID path string true "Deposit ID"
// @Param   deposit body dto.AgentDepositRequest true "Deposit details"
// @Success 201 {object} dto.SettlementResultResponse "Posted"
// @Success 200 {object} dto.SettlementResultResponse "Replayed"
// @Failure 400 {object} dto.SettlementResultResponse "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.SettlementResultResponse "Agent account not found"
// @Failure 500 {object} dto.SettlementResultResponse "Settlement failed"
// @Security BearerAuth
// @Router /agents/{agentID}/deposits/{depositID} [post]
func (h *eventHandler) recordAgentDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AgentDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for AgentDeposit", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	agentID, depositID := c.Param("agentID"), c.Param("depositID")
	logger = logger.With(slog.String("agent_id", agentID), slog.String("deposit_id", depositID))
	result, err := h.events.RecordAgentDeposit(c.Request.Context(), req.ToDomain(agentID, depositID, userID))
	writeSettlementResult(c, logger, result, err)
}

// approveProviderPayment godoc
// @Summary Approve an external provider payment
// @Description Settles a sale made through an external provider and marks the payment APPROVED
// @Tags events
// @Accept  json
// @Produce  json
// @Param   paymentID path string true "Provider payment ID"
// @Param   payment body dto.ProviderPaymentRequest true "Payment details"
// @Success 201 {object} dto.SettlementResultResponse "Posted"
// @Success 200 {object} dto.SettlementResultResponse "Replayed"
// @Failure 400 {object} dto.SettlementResultResponse "Validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.SettlementResultResponse "Account not found"
// @Failure 422 {object} dto.SettlementResultResponse "Insufficient funds"
// @Failure 500 {object} dto.SettlementResultResponse "Settlement failed"
// @Security BearerAuth
// @Router /provider-payments/{paymentID}/approve [post]
func (h *eventHandler) approveProviderPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ProviderPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ProviderPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}
	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	paymentID := c.Param("paymentID")
	logger = logger.With(slog.String("payment_id", paymentID))
	result, err := h.events.ApproveProviderPayment(c.Request.Context(), req.ToDomain(paymentID, userID))
	writeSettlementResult(c, logger, result, err)
}

// getReferenceStatus godoc
// @Summary Get the settlement status of a reference
// @Description Returns the status the adapters recorded for a booking, voucher, deposit or provider payment
// @Tags events
// @Produce  json
// @Param   referenceType path string true "Reference type" Enums(BOOKING, VOUCHER, AGENT_DEPOSIT, PROVIDER_PAYMENT)
// @Param   referenceID path string true "Reference ID"
// @Success 200 {object} dto.ReferenceStatusResponse
// @Failure 400 {object} map[string]string "Invalid reference type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No status recorded"
// @Failure 500 {object} map[string]string "Failed to retrieve status"
// @Security BearerAuth
// @Router /references/{referenceType}/{referenceID}/status [get]
func (h *eventHandler) getReferenceStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	refType := domain.ReferenceType(c.Param("referenceType"))
	if !refType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown reference type"})
		return
	}
	refID := c.Param("referenceID")

	status, err := h.events.GetReferenceStatus(c.Request.Context(), refType, refID)
	if err != nil {
		respondError(c, logger.With(slog.String("reference_id", refID)), err, "Failed to retrieve status")
		return
	}

	c.JSON(http.StatusOK, dto.ToReferenceStatusResponse(status))
}

// getBalanceMirror godoc
// @Summary Get an owner's mirrored balance
// @Description Returns the balance copy held for a provider or agent
// @Tags events
// @Produce  json
// @Param   ownerType path string true "Owner type" Enums(PROVIDER, AGENT)
// @Param   ownerID path string true "Owner ID"
// @Success 200 {object} dto.BalanceMirrorResponse
// @Failure 400 {object} map[string]string "Invalid owner type"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "No mirror recorded"
// @Failure 500 {object} map[string]string "Failed to retrieve mirror"
// @Security BearerAuth
// @Router /owners/{ownerType}/{ownerID}/mirror [get]
func (h *eventHandler) getBalanceMirror(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	owner, ok := ownerFromPath(c)
	if !ok {
		return
	}

	mirror, err := h.events.GetBalanceMirror(c.Request.Context(), owner)
	if err != nil {
		respondError(c, logger.With(slog.String("owner_id", owner.ID)), err, "Failed to retrieve mirror")
		return
	}

	formatted := ""
	if account, err := h.accounts.Get(c.Request.Context(), mirror.AccountID); err == nil {
		formatted = utils.FormatAmount(mirror.Balance, account.CurrencyCode)
	}
	c.JSON(http.StatusOK, dto.ToBalanceMirrorResponse(mirror, formatted))
}

package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// settlementHandler handles HTTP requests related to settlements.
type settlementHandler struct {
	settlementService portssvc.SettlementSvcFacade
}

func newSettlementHandler(ss portssvc.SettlementSvcFacade) *settlementHandler {
	return &settlementHandler{settlementService: ss}
}

// RegisterSettlementRoutes registers routes related to settlements. The
// mutating middlewares wrap only the routes that post to the ledger.
func RegisterSettlementRoutes(rg *gin.RouterGroup, settlementService portssvc.SettlementSvcFacade, mutating ...gin.HandlerFunc) {
	h := newSettlementHandler(settlementService)

	settlements := rg.Group("/settlements")
	{
		settlements.POST("", withMiddleware(mutating, h.settle)...)
		settlements.GET("", h.findSettlement)
		settlements.GET("/:settlementID", h.getSettlement)
		settlements.POST("/:settlementID/reverse", withMiddleware(mutating, h.reverseSettlement)...)
	}
}

// settle godoc
// @Summary Settle a monetary event
// @Description Posts the balanced legs for a booking payment, voucher, agent deposit or provider payment.
// @Description Re-sending an already settled reference replays the original settlement.
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   settlement body dto.SettleRequest true "Settlement event"
// @Success 201 {object} dto.SettlementResultResponse "Posted"
// @Success 200 {object} dto.SettlementResultResponse "Replayed"
// @Failure 400 {object} dto.SettlementResultResponse "Validation error or unbalanced entry"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.SettlementResultResponse "Account not found"
// @Failure 409 {object} dto.SettlementResultResponse "Idempotency mismatch or concurrent modification"
// @Failure 422 {object} dto.SettlementResultResponse "Insufficient funds"
// @Failure 500 {object} dto.SettlementResultResponse "Settlement failed"
// @Security BearerAuth
// @Router /settlements [post]
func (h *settlementHandler) settle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Settle", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("kind", string(req.Kind)), slog.String("reference_id", req.ReferenceID))
	logger.Info("Received settlement request")

	result, err := h.settlementService.Settle(c.Request.Context(), req.ToSettlementEvent(userID))
	writeSettlementResult(c, logger, result, err)
}

// getSettlement godoc
// @Summary Get a settlement by ID
// @Description Retrieves a settlement with its legs and ledger transactions
// @Tags settlements
// @Produce  json
// @Param   settlementID path string true "Settlement ID"
// @Success 200 {object} dto.SettlementResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Failure 500 {object} map[string]string "Failed to retrieve settlement"
// @Security BearerAuth
// @Router /settlements/{settlementID} [get]
func (h *settlementHandler) getSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("settlementID")

	entry, err := h.settlementService.GetSettlement(c.Request.Context(), settlementID)
	if err != nil {
		respondError(c, logger.With(slog.String("settlement_id", settlementID)), err, "Failed to retrieve settlement")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(entry))
}

// findSettlement godoc
// @Summary Find a settlement by business reference
// @Description Retrieves the settlement recorded for a reference type and id
// @Tags settlements
// @Produce  json
// @Param   referenceType query string true "Reference type" Enums(BOOKING, VOUCHER, AGENT_DEPOSIT, PROVIDER_PAYMENT, REVERSAL)
// @Param   referenceID query string true "Reference ID"
// @Success 200 {object} dto.SettlementResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Settlement not found"
// @Failure 500 {object} map[string]string "Failed to retrieve settlement"
// @Security BearerAuth
// @Router /settlements [get]
func (h *settlementHandler) findSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.FindSettlementParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for FindSettlement", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	entry, err := h.settlementService.FindSettlementByReference(c.Request.Context(), params.ReferenceType, params.ReferenceID)
	if err != nil {
		respondError(c, logger.With(slog.String("reference_id", params.ReferenceID)), err, "Failed to retrieve settlement")
		return
	}

	c.JSON(http.StatusOK, dto.ToSettlementResponse(entry))
}

// reverseSettlement godoc
// @Summary Reverse a settlement
// @Description Posts a settlement that flips every leg of the original. A settlement can be reversed once.
// @Tags settlements
// @Accept  json
// @Produce  json
// @Param   settlementID path string true "Settlement ID"
// @Param   reversal body dto.ReverseSettlementRequest false "Reversal reason"
// @Success 201 {object} dto.SettlementResultResponse "Reversal posted"
// @Success 200 {object} dto.SettlementResultResponse "Reversal replayed"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} dto.SettlementResultResponse "Settlement not found"
// @Failure 409 {object} dto.SettlementResultResponse "Settlement is itself a reversal"
// @Failure 422 {object} dto.SettlementResultResponse "Insufficient funds"
// @Failure 500 {object} dto.SettlementResultResponse "Reversal failed"
// @Security BearerAuth
// @Router /settlements/{settlementID}/reverse [post]
func (h *settlementHandler) reverseSettlement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	settlementID := c.Param("settlementID")

	var req dto.ReverseSettlementRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Warn("Failed to bind JSON for ReverseSettlement", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	userID, ok := requestingUser(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("settlement_id", settlementID))
	logger.Info("Received reversal request", slog.String("reason", req.Reason))

	result, err := h.settlementService.Reverse(c.Request.Context(), settlementID, userID)
	writeSettlementResult(c, logger, result, err)
}

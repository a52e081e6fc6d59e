package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/travel_settlement/internal/apperrors"
	"github.com/SscSPs/travel_settlement/internal/core/domain"
	portssvc "github.com/SscSPs/travel_settlement/internal/core/ports/services"
	"github.com/SscSPs/travel_settlement/internal/dto"
	"github.com/SscSPs/travel_settlement/internal/middleware"
	"github.com/gin-gonic/gin"
)

// respondError writes err with the status its class maps to. Server-side
// failures are logged as errors and hidden behind a generic message.
func respondError(c *gin.Context, logger *slog.Logger, err error, failureMsg string) {
	status := apperrors.HTTPStatusOf(err)
	if status >= http.StatusInternalServerError {
		logger.Error(failureMsg, slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": failureMsg})
		return
	}
	logger.Warn(failureMsg, slog.String("error", err.Error()), slog.Int("status", status))
	c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.CodeOf(err)})
}

// requestingUser returns the authenticated user id or writes 401.
func requestingUser(c *gin.Context, logger *slog.Logger) (string, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return "", false
	}
	return userID, true
}

// writeSettlementResult renders the outcome of a settlement request. A fresh
// posting answers 201, a replay 200, a failure the status of its error class.
func writeSettlementResult(c *gin.Context, logger *slog.Logger, result *portssvc.SettlementResult, err error) {
	if result == nil {
		respondError(c, logger, err, "Failed to settle")
		return
	}

	res := dto.SettlementResultResponse{
		Code:     result.Code,
		Status:   result.Status,
		Replayed: result.Replayed,
	}
	if result.Entry != nil {
		settlement := dto.ToSettlementResponse(result.Entry)
		res.Settlement = &settlement
	}

	if err != nil {
		status := apperrors.HTTPStatusOf(err)
		switch {
		case errors.Is(err, apperrors.ErrStatusNotRecorded):
			status = http.StatusInternalServerError
			logger.Error("Settlement posted but reference status was not recorded", slog.String("error", err.Error()))
			res.Error = "Settlement posted but reference status was not recorded; replay the request to record it"
		case status >= http.StatusInternalServerError:
			logger.Error("Settlement failed", slog.String("code", string(result.Code)), slog.String("error", err.Error()))
			res.Error = "Settlement failed"
		default:
			logger.Warn("Settlement rejected", slog.String("code", string(result.Code)), slog.String("error", err.Error()))
			res.Error = err.Error()
		}
		c.JSON(status, res)
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	logger.Info("Settlement completed",
		slog.String("settlement_id", result.Entry.SettlementID),
		slog.Bool("replayed", result.Replayed))
	c.JSON(status, res)
}

// ownerFromPath reads the :ownerType/:ownerID path pair.
func ownerFromPath(c *gin.Context) (domain.OwnerRef, bool) {
	owner := domain.OwnerRef{Type: domain.OwnerType(c.Param("ownerType")), ID: c.Param("ownerID")}
	if !owner.Type.IsValid() || owner.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ownerType must be PROVIDER or AGENT"})
		return owner, false
	}
	return owner, true
}

// withMiddleware returns mw followed by h in a fresh slice.
func withMiddleware(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(mw)+1)
	return append(append(chain, mw...), h)
}

package dto

import (
	"time"

	"github.com/SscSPs/travel_settlement/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsParams defines query parameters for an account statement.
type ListTransactionsParams struct {
	ReferenceType domain.ReferenceType `form:"referenceType" binding:"omitempty,oneof=BOOKING VOUCHER AGENT_DEPOSIT PROVIDER_PAYMENT REVERSAL"`
	Direction     domain.Direction     `form:"direction" binding:"omitempty,oneof=DEBIT CREDIT"`
	From          *time.Time           `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To            *time.Time           `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit         int                  `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken     *string              `form:"nextToken"`
}

// ToFilter converts the query parameters to a domain filter.
func (p ListTransactionsParams) ToFilter() domain.TransactionFilter {
	return domain.TransactionFilter{
		ReferenceType: p.ReferenceType,
		Direction:     p.Direction,
		From:          p.From,
		To:            p.To,
		Limit:         p.Limit,
		NextToken:     p.NextToken,
	}
}

// TransactionResponse defines the data returned for a ledger transaction.
type TransactionResponse struct {
	TransactionID string               `json:"transactionID"`
	SettlementID  string               `json:"settlementID"`
	AccountID     string               `json:"accountID"`
	LegIndex      int                  `json:"legIndex"`
	Direction     domain.Direction     `json:"direction"`
	Amount        decimal.Decimal      `json:"amount"`
	ReferenceType domain.ReferenceType `json:"referenceType"`
	ReferenceID   string               `json:"referenceID"`
	BalanceBefore decimal.Decimal      `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal      `json:"balanceAfter"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.LedgerTransaction to its DTO.
func ToTransactionResponse(txn domain.LedgerTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		SettlementID:  txn.SettlementID,
		AccountID:     txn.AccountID,
		LegIndex:      txn.LegIndex,
		Direction:     txn.Direction,
		Amount:        txn.Amount,
		ReferenceType: txn.ReferenceType,
		ReferenceID:   txn.ReferenceID,
		BalanceBefore: txn.BalanceBefore,
		BalanceAfter:  txn.BalanceAfter,
		CreatedAt:     txn.CreatedAt,
	}
}

// ToListTransactionsResponse converts a page of transactions to its DTO.
func ToListTransactionsResponse(txns []domain.LedgerTransaction, nextToken *string) ListTransactionsResponse {
	res := ListTransactionsResponse{
		Transactions: make([]TransactionResponse, len(txns)),
		NextToken:    nextToken,
	}
	for i, txn := range txns {
		res.Transactions[i] = ToTransactionResponse(txn)
	}
	return res
}

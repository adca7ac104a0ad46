package payment

import (
	"log/slog"

	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Transaction history resolution. Both walks trust the repository's
// creation order; transactions are never re-sorted by date here. If the
// repository ever returns rows out of chronological order the capture
// short-circuit below misbehaves - pinned by tests, do not "fix" by
// sorting.

// CapturableTransaction returns the order's transaction eligible for
// capture, or nil. The first AUTHORIZE found is the candidate; the scan
// stops at the first CAPTURE or REFUND, so an order that has been
// captured or refunded at all yields no candidate from later rows.
func (s *Service) CapturableTransaction(order *models.Order) (*models.Transaction, error) {
	transactions, err := s.Transactions.ListByOrder(order.ID)
	if err != nil {
		return nil, err
	}

	var capturable *models.Transaction
	for _, trx := range transactions {
		if trx.TransactionType == types.TransactionTypeAuthorize && capturable == nil {
			capturable = trx
		}
		if trx.TransactionType == types.TransactionTypeCapture {
			break
		}
		if trx.TransactionType == types.TransactionTypeRefund {
			break
		}
	}

	if capturable != nil {
		if err := capturable.ParseDetails(); err != nil {
			slog.Warn("[PaymentService] Unable to parse transaction details",
				"transaction", capturable.ID, "error", err)
		}
	}
	return capturable, nil
}

// RefundableTransaction returns the order's settled transaction eligible
// for refund, or nil. Transactions are bucketed by type, one entry per
// bucket: AUTHORIZECAPTURE and CAPTURE keep the first seen, REFUND keeps
// the chronologically latest. The final pick checks AUTHORIZECAPTURE
// first and then unconditionally prefers CAPTURE when both exist. The
// REFUND bucket never wins - a refund cannot be refunded.
func (s *Service) RefundableTransaction(order *models.Order) (*models.Transaction, error) {
	transactions, err := s.Transactions.ListByOrder(order.ID)
	if err != nil {
		return nil, err
	}

	finalTransactions := bucketFinalTransactions(transactions)

	var refundable *models.Transaction
	if trx, ok := finalTransactions[types.TransactionTypeAuthorizeCapture]; ok {
		refundable = trx
	}
	if trx, ok := finalTransactions[types.TransactionTypeCapture]; ok {
		refundable = trx
	}

	if refundable != nil {
		if err := refundable.ParseDetails(); err != nil {
			slog.Warn("[PaymentService] Unable to parse transaction details",
				"transaction", refundable.ID, "error", err)
		}
	}
	return refundable, nil
}

// bucketFinalTransactions keeps at most one transaction per settled
// type: first seen for AUTHORIZECAPTURE and CAPTURE, chronologically
// latest for REFUND (ties keep the existing entry).
func bucketFinalTransactions(transactions []*models.Transaction) map[types.TransactionType]*models.Transaction {
	finalTransactions := make(map[types.TransactionType]*models.Transaction)
	for _, trx := range transactions {
		switch trx.TransactionType {
		case types.TransactionTypeAuthorizeCapture:
			if _, ok := finalTransactions[types.TransactionTypeAuthorizeCapture]; !ok {
				finalTransactions[types.TransactionTypeAuthorizeCapture] = trx
			}
		case types.TransactionTypeCapture:
			if _, ok := finalTransactions[types.TransactionTypeCapture]; !ok {
				finalTransactions[types.TransactionTypeCapture] = trx
			}
		case types.TransactionTypeRefund:
			existing, ok := finalTransactions[types.TransactionTypeRefund]
			if !ok || trx.TransactionDate.After(existing.TransactionDate) {
				finalTransactions[types.TransactionTypeRefund] = trx
			}
		}
	}
	return finalTransactions
}

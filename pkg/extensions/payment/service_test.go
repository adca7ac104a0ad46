package payment

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/types"
)

func TestProcessPayment(t *testing.T) {
	store := testStore()
	customer := &types.Customer{ID: 7, Email: "jane@example.com"}

	t.Run("authorize and capture marks order processed", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		s, backend := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		order := &models.Order{ID: 10, Currency: "USD", Total: decimal.NewFromFloat(59.90)}
		payment := &types.Payment{
			ModuleName:  testModuleCode,
			PaymentType: types.PaymentTypeCreditCard,
			Amount:      decimal.NewFromFloat(59.90),
		}

		trx, err := s.ProcessPayment(customer, store, payment, nil, order)
		require.NoError(t, err)
		assert.Equal(t, "authorizeAndCapture", backend.lastCall)
		assert.Equal(t, types.TransactionTypeAuthorizeCapture, trx.TransactionType)
		assert.Equal(t, order.ID, trx.OrderID)
		require.Len(t, repo.created, 1)
		assert.Equal(t, types.OrderStatusProcessed, order.Status)
		assert.Equal(t, testModuleCode, order.PaymentModuleCode)
		assert.Equal(t, store.Currency, payment.Currency)
	})

	t.Run("money order settles later and stays ordered", func(t *testing.T) {
		s, backend := newTestService(activeModuleBlob(), &fakeTransactionRepo{}, &fakeOrderRepo{})
		order := &models.Order{ID: 11, Currency: "USD", Total: decimal.NewFromFloat(20)}
		payment := &types.Payment{
			ModuleName:  testModuleCode,
			PaymentType: types.PaymentTypeMoneyOrder,
			Amount:      decimal.NewFromFloat(20),
		}

		_, err := s.ProcessPayment(customer, store, payment, nil, order)
		require.NoError(t, err)
		assert.Equal(t, "authorizeAndCapture", backend.lastCall)
		assert.Equal(t, types.OrderStatusOrdered, order.Status)
	})

	t.Run("explicit authorize type is not persisted as capture", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		s, backend := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		order := &models.Order{ID: 12}
		payment := &types.Payment{
			ModuleName:      testModuleCode,
			TransactionType: types.TransactionTypeAuthorize,
			Amount:          decimal.NewFromFloat(5),
		}

		trx, err := s.ProcessPayment(customer, store, payment, nil, order)
		require.NoError(t, err)
		assert.Equal(t, "authorize", backend.lastCall)
		assert.Equal(t, types.TransactionTypeAuthorize, trx.TransactionType)
		require.Len(t, repo.created, 1)
		// status transitions only happen on settlement
		assert.Empty(t, order.Status)
	})

	t.Run("init type is never persisted", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		s, _ := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		order := &models.Order{ID: 13}
		payment := &types.Payment{
			ModuleName:      testModuleCode,
			TransactionType: types.TransactionTypeInit,
			Amount:          decimal.NewFromFloat(5),
		}

		_, err := s.ProcessPayment(customer, store, payment, nil, order)
		require.NoError(t, err)
		assert.Empty(t, repo.created)
	})

	t.Run("unknown configured type falls back to authorize and capture", func(t *testing.T) {
		blob := `[{"moduleCode":"fakepay","active":true,"integrationKeys":{"transaction":"BOGUS"}}]`
		s, backend := newTestService(blob, &fakeTransactionRepo{}, &fakeOrderRepo{})
		order := &models.Order{ID: 14}
		payment := &types.Payment{ModuleName: testModuleCode, Amount: decimal.NewFromFloat(1)}

		_, err := s.ProcessPayment(customer, store, payment, nil, order)
		require.NoError(t, err)
		assert.Equal(t, "authorizeAndCapture", backend.lastCall)
	})

	t.Run("unconfigured module is a configuration error", func(t *testing.T) {
		blob := `[{"moduleCode":"stripe","active":true,"integrationKeys":{}}]`
		s, _ := newTestService(blob, &fakeTransactionRepo{}, &fakeOrderRepo{})
		payment := &types.Payment{ModuleName: testModuleCode}

		_, err := s.ProcessPayment(customer, store, payment, nil, &models.Order{ID: 15})
		var cfgErr *errs.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, testModuleCode, cfgErr.ModuleCode)
	})

	t.Run("no modules configured at all", func(t *testing.T) {
		s, _ := newTestService("", &fakeTransactionRepo{}, &fakeOrderRepo{})
		payment := &types.Payment{ModuleName: testModuleCode}

		_, err := s.ProcessPayment(customer, store, payment, nil, &models.Order{ID: 16})
		var cfgErr *errs.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("inactive module is rejected", func(t *testing.T) {
		blob := `[{"moduleCode":"fakepay","active":false,"integrationKeys":{}}]`
		s, _ := newTestService(blob, &fakeTransactionRepo{}, &fakeOrderRepo{})
		payment := &types.Payment{ModuleName: testModuleCode}

		_, err := s.ProcessPayment(customer, store, payment, nil, &models.Order{ID: 17})
		var cfgErr *errs.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})

	t.Run("backend failure propagates without persisting", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		s, backend := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		backend.err = errors.New("gateway down")
		payment := &types.Payment{ModuleName: testModuleCode, Amount: decimal.NewFromFloat(1)}

		_, err := s.ProcessPayment(customer, store, payment, nil, &models.Order{ID: 18})
		require.Error(t, err)
		assert.Empty(t, repo.created)
	})

	t.Run("nil order is rejected", func(t *testing.T) {
		s, _ := newTestService(activeModuleBlob(), &fakeTransactionRepo{}, &fakeOrderRepo{})
		_, err := s.ProcessPayment(customer, store, &types.Payment{ModuleName: testModuleCode}, nil, nil)
		require.Error(t, err)
	})
}

func TestProcessCapturePayment(t *testing.T) {
	store := testStore()
	customer := &types.Customer{ID: 7}
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("captures the pending authorization", func(t *testing.T) {
		repo := &fakeTransactionRepo{transactions: []*models.Transaction{
			trxAt(1, types.TransactionTypeAuthorize, base),
		}}
		repo.nextID = 1
		orders := &fakeOrderRepo{}
		s, backend := newTestService(activeModuleBlob(), repo, orders)
		order := &models.Order{ID: 20, PaymentModuleCode: testModuleCode}

		trx, err := s.ProcessCapturePayment(order, customer, store)
		require.NoError(t, err)
		assert.Equal(t, "capture", backend.lastCall)
		assert.Equal(t, types.TransactionTypeCapture, trx.TransactionType)
		assert.Equal(t, types.OrderStatusProcessed, order.Status)
		require.Len(t, order.History, 1)
		assert.Equal(t, types.OrderStatusProcessed, order.History[0].Status)
		require.NotNil(t, orders.saved)
	})

	t.Run("no capturable transaction is a configuration error", func(t *testing.T) {
		repo := &fakeTransactionRepo{transactions: []*models.Transaction{
			trxAt(1, types.TransactionTypeAuthorizeCapture, base),
		}}
		s, _ := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		order := &models.Order{ID: 21, PaymentModuleCode: testModuleCode}

		_, err := s.ProcessCapturePayment(order, customer, store)
		var cfgErr *errs.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestProcessRefund(t *testing.T) {
	store := testStore()
	customer := &types.Customer{ID: 7}
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	settledOrder := func(total float64) (*models.Order, *fakeTransactionRepo) {
		repo := &fakeTransactionRepo{transactions: []*models.Transaction{
			trxAt(1, types.TransactionTypeAuthorizeCapture, base),
		}}
		repo.nextID = 1
		order := &models.Order{
			ID:                30,
			PaymentModuleCode: testModuleCode,
			Currency:          "USD",
			Total:             decimal.NewFromFloat(total),
			Totals: []models.OrderTotal{
				{Code: models.OrderTotalCodeSubtotal, Value: decimal.NewFromFloat(total)},
				{Code: models.OrderTotalCodeTotal, Value: decimal.NewFromFloat(total)},
			},
		}
		return order, repo
	}

	t.Run("full refund zeroes the ledger", func(t *testing.T) {
		order, repo := settledOrder(100)
		orders := &fakeOrderRepo{}
		s, backend := newTestService(activeModuleBlob(), repo, orders)

		trx, err := s.ProcessRefund(order, customer, store, decimal.NewFromFloat(100))
		require.NoError(t, err)
		assert.Equal(t, "refund", backend.lastCall)
		assert.False(t, backend.refundPartial)
		assert.Equal(t, types.TransactionTypeRefund, trx.TransactionType)

		assert.True(t, order.Total.IsZero(), "running total should be zero, got %s", order.Total)
		totalLine := order.TotalLine(models.OrderTotalCodeTotal)
		require.NotNil(t, totalLine)
		assert.True(t, totalLine.Value.IsZero())

		refundLine := order.TotalLine(models.OrderTotalCodeRefund)
		require.NotNil(t, refundLine)
		assert.True(t, refundLine.Value.Equal(decimal.NewFromFloat(100)))
		assert.Equal(t, models.OrderTotalRefundSortOrder, refundLine.SortOrder)

		assert.Equal(t, types.OrderStatusRefunded, order.Status)
		require.NotNil(t, orders.saved)
	})

	t.Run("partial refund keeps the remainder", func(t *testing.T) {
		order, repo := settledOrder(100)
		s, backend := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})

		_, err := s.ProcessRefund(order, customer, store, decimal.NewFromFloat(30))
		require.NoError(t, err)
		assert.True(t, backend.refundPartial)
		assert.True(t, order.Total.Equal(decimal.NewFromFloat(70)))
		totalLine := order.TotalLine(models.OrderTotalCodeTotal)
		require.NotNil(t, totalLine)
		assert.True(t, totalLine.Value.Equal(decimal.NewFromFloat(70)))
	})

	t.Run("refund above the order total is rejected up front", func(t *testing.T) {
		order, repo := settledOrder(50)
		s, backend := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})

		_, err := s.ProcessRefund(order, customer, store, decimal.NewFromFloat(50.01))
		require.ErrorIs(t, err, errs.ErrRefundExceedsTotal)
		assert.Empty(t, backend.lastCall)
	})

	t.Run("no refundable transaction is a configuration error", func(t *testing.T) {
		repo := &fakeTransactionRepo{transactions: []*models.Transaction{
			trxAt(1, types.TransactionTypeAuthorize, base),
		}}
		s, _ := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		order := &models.Order{ID: 31, PaymentModuleCode: testModuleCode, Total: decimal.NewFromFloat(10)}

		_, err := s.ProcessRefund(order, customer, store, decimal.NewFromFloat(10))
		var cfgErr *errs.ConfigurationError
		require.ErrorAs(t, err, &cfgErr)
	})
}

func TestInitTransactions(t *testing.T) {
	store := testStore()
	customer := &types.Customer{ID: 7}

	t.Run("customer init persists a pending transaction", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		s, _ := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		payment := &types.Payment{ModuleName: testModuleCode, Amount: decimal.NewFromFloat(9.99)}

		trx, err := s.InitTransaction(customer, payment, store)
		require.NoError(t, err)
		assert.Equal(t, types.TransactionTypeInit, trx.TransactionType)
		require.Len(t, repo.created, 1)
	})

	t.Run("order init is a probe and is not persisted", func(t *testing.T) {
		repo := &fakeTransactionRepo{}
		s, _ := newTestService(activeModuleBlob(), repo, &fakeOrderRepo{})
		order := &models.Order{ID: 40, Total: decimal.NewFromFloat(25)}
		payment := &types.Payment{ModuleName: testModuleCode}

		trx, err := s.InitOrderTransaction(order, customer, payment, store)
		require.NoError(t, err)
		assert.Equal(t, order.ID, trx.OrderID)
		assert.Empty(t, repo.created)
	})
}

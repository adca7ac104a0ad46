package payment

import (
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/config"
	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/events"
	"github.com/flaboy/aira-checkout/pkg/extensions/payment/creditcard"
	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/notify"
	"github.com/flaboy/aira-checkout/pkg/registry"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Integration key holding the merchant's configured transaction type.
const transactionTypeKey = "transaction"

type TransactionRepository interface {
	Create(trx *models.Transaction) error
	ListByOrder(orderID uint) ([]*models.Transaction, error)
}

type OrderRepository interface {
	Save(order *models.Order) error
}

// Service 支付调度器 - 解析商户配置,分发到支付后端,落地交易
type Service struct {
	Registry     *registry.Registry
	Transactions TransactionRepository
	Orders       OrderRepository
}

func NewService(reg *registry.Registry, transactions TransactionRepository, orders OrderRepository) *Service {
	return &Service{Registry: reg, Transactions: transactions, Orders: orders}
}

// resolveModule loads the merchant's payment module set and picks the
// named module. Missing or inactive modules are merchant setup errors,
// surfaced immediately and never retried.
func (s *Service) resolveModule(store *types.MerchantStore, moduleName string) (*types.IntegrationConfiguration, *types.IntegrationModule, Backend, error) {
	modules, err := s.Registry.ConfiguredModules(store, registry.KeyPaymentModules)
	if err != nil {
		return nil, nil, nil, err
	}
	if len(modules) == 0 {
		return nil, nil, nil, errs.NewConfiguration("", "no payment modules configured for store "+store.Code)
	}

	cfg := modules[moduleName]
	if cfg == nil {
		return nil, nil, nil, errs.NewConfiguration(moduleName, "payment module not configured")
	}
	if !cfg.Active {
		return nil, nil, nil, errs.NewConfiguration(moduleName, "payment module not active")
	}

	module := registry.Module(moduleName)
	if module == nil {
		return nil, nil, nil, errs.NewConfiguration(moduleName, "payment module not registered")
	}

	backend := Get(moduleName)
	if backend == nil {
		return nil, nil, nil, errs.NewConfiguration(moduleName, "payment backend not registered")
	}

	return cfg, module, backend, nil
}

// resolveTransactionType picks the transaction type for a payment: the
// payment's explicit type if set, else the module's "transaction"
// integration key. An unrecognized configured value is coerced to
// AUTHORIZECAPTURE with a warning rather than rejected.
func resolveTransactionType(payment *types.Payment, cfg *types.IntegrationConfiguration) types.TransactionType {
	if payment.TransactionType != "" {
		return payment.TransactionType
	}

	configured := cfg.Key(transactionTypeKey)
	if configured == "" {
		return types.TransactionTypeAuthorizeCapture
	}
	transactionType, ok := types.ParseTransactionType(configured)
	if !ok {
		slog.Warn("[PaymentService] Unknown configured transaction type, using AUTHORIZECAPTURE",
			"module", cfg.ModuleCode, "configured", configured)
		return types.TransactionTypeAuthorizeCapture
	}
	return transactionType
}

// ProcessPayment runs a payment for an order through the merchant's
// configured backend and persists the resulting transaction.
func (s *Service) ProcessPayment(customer *types.Customer, store *types.MerchantStore, payment *types.Payment, items []types.CartItem, order *models.Order) (*models.Transaction, error) {
	if customer == nil {
		return nil, errors.New("customer is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	if payment == nil {
		return nil, errors.New("payment is required")
	}
	if order == nil {
		return nil, errors.New("order is required")
	}

	payment.Currency = store.Currency

	cfg, module, backend, err := s.resolveModule(store, payment.ModuleName)
	if err != nil {
		return nil, err
	}

	transactionType := resolveTransactionType(payment, cfg)

	if payment.PaymentType == types.PaymentTypeCreditCard &&
		config.Config != nil && config.Config.ValidateCreditCard {
		if err := creditcard.Validate(payment.CreditCard); err != nil {
			return nil, err
		}
	}

	slog.Info("[PaymentService] Processing payment",
		"module", payment.ModuleName, "type", transactionType, "order", order.ID)

	var trx *models.Transaction
	switch transactionType {
	case types.TransactionTypeAuthorize:
		trx, err = backend.Authorize(store, customer, items, payment.Amount, payment, cfg, module)
	case types.TransactionTypeAuthorizeCapture:
		trx, err = backend.AuthorizeAndCapture(store, customer, items, payment.Amount, payment, cfg, module)
	case types.TransactionTypeInit:
		trx, err = backend.InitTransaction(store, customer, payment.Amount, payment, cfg, module)
	default:
		return nil, errs.NewConfiguration(payment.ModuleName, "transaction type not supported: "+string(transactionType))
	}
	if err != nil {
		return nil, err
	}

	trx.OrderID = order.ID
	if transactionType != types.TransactionTypeInit {
		if err := s.Transactions.Create(trx); err != nil {
			return nil, err
		}
	}

	order.PaymentModuleCode = payment.ModuleName
	if transactionType == types.TransactionTypeAuthorizeCapture {
		if payment.PaymentType == types.PaymentTypeMoneyOrder {
			// deferred settlement, funds not yet received
			order.Status = types.OrderStatusOrdered
		} else {
			order.Status = types.OrderStatusProcessed
		}
		notify.DispatchOrderConfirmation(order, customer, store)
	}

	return trx, nil
}

// ProcessCapturePayment captures the order's pending authorization.
func (s *Service) ProcessCapturePayment(order *models.Order, customer *types.Customer, store *types.MerchantStore) (*models.Transaction, error) {
	cfg, module, backend, err := s.resolveModule(store, order.PaymentModuleCode)
	if err != nil {
		return nil, err
	}

	capturable, err := s.CapturableTransaction(order)
	if err != nil {
		return nil, err
	}
	if capturable == nil {
		return nil, errs.NewConfiguration(order.PaymentModuleCode, "no capturable transaction for order")
	}

	trx, err := backend.Capture(store, customer, order, capturable, cfg, module)
	if err != nil {
		return nil, err
	}

	trx.OrderID = order.ID
	if err := s.Transactions.Create(trx); err != nil {
		return nil, err
	}

	order.History = append(order.History, models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    types.OrderStatusProcessed,
		DateAdded: time.Now(),
	})
	order.Status = types.OrderStatusProcessed
	if err := s.Orders.Save(order); err != nil {
		return nil, err
	}

	if err := events.EmitOrderCaptured(&events.OrderCapturedEvent{
		OrderID:       order.ID,
		TransactionID: trx.ID,
		ModuleCode:    order.PaymentModuleCode,
		Amount:        trx.Amount,
		Currency:      order.Currency,
		CapturedAt:    time.Now(),
	}); err != nil {
		slog.Error("[PaymentService] Order captured event handler failed", "order", order.ID, "error", err)
	}

	return trx, nil
}

// ProcessRefund refunds an amount against the order's settled
// transaction and adjusts the order's total ledger. The ledger is
// incremental: the "total" line is mutated in place, never recomputed.
func (s *Service) ProcessRefund(order *models.Order, customer *types.Customer, store *types.MerchantStore, amount decimal.Decimal) (*models.Transaction, error) {
	if amount.GreaterThan(order.Total) {
		return nil, errs.ErrRefundExceedsTotal
	}
	partial := !amount.Equal(order.Total)

	cfg, module, backend, err := s.resolveModule(store, order.PaymentModuleCode)
	if err != nil {
		return nil, err
	}

	refundable, err := s.RefundableTransaction(order)
	if err != nil {
		return nil, err
	}
	if refundable == nil {
		return nil, errs.NewConfiguration(order.PaymentModuleCode, "no refundable transaction for order")
	}

	slog.Info("[PaymentService] Processing refund",
		"module", order.PaymentModuleCode, "order", order.ID,
		"amount", amount.String(), "partial", partial)

	trx, err := backend.Refund(partial, store, order, refundable, amount, cfg, module)
	if err != nil {
		return nil, err
	}

	trx.OrderID = order.ID
	if err := s.Transactions.Create(trx); err != nil {
		return nil, err
	}

	s.applyRefundTotals(order, amount)

	order.Status = types.OrderStatusRefunded
	order.History = append(order.History, models.OrderStatusHistory{
		OrderID:   order.ID,
		Status:    types.OrderStatusRefunded,
		DateAdded: time.Now(),
	})
	if err := s.Orders.Save(order); err != nil {
		return nil, err
	}

	if err := events.EmitOrderRefunded(&events.OrderRefundedEvent{
		OrderID:       order.ID,
		TransactionID: trx.ID,
		ModuleCode:    order.PaymentModuleCode,
		Amount:        amount,
		Partial:       partial,
		RefundedAt:    time.Now(),
	}); err != nil {
		slog.Error("[PaymentService] Order refunded event handler failed", "order", order.ID, "error", err)
	}

	return trx, nil
}

// applyRefundTotals appends the refund line and subtracts the amount
// from the existing "total" line and the running total.
func (s *Service) applyRefundTotals(order *models.Order, amount decimal.Decimal) {
	order.Totals = append(order.Totals, models.OrderTotal{
		OrderID:   order.ID,
		Code:      models.OrderTotalCodeRefund,
		Title:     "Refund",
		Module:    models.OrderTotalCodeRefund,
		Value:     amount,
		SortOrder: models.OrderTotalRefundSortOrder,
	})

	if totalLine := order.TotalLine(models.OrderTotalCodeTotal); totalLine != nil {
		totalLine.Value = totalLine.Value.Sub(amount)
	}
	order.Total = order.Total.Sub(amount)
}

// InitTransaction initializes a customer-bound pending transaction and
// persists it.
func (s *Service) InitTransaction(customer *types.Customer, payment *types.Payment, store *types.MerchantStore) (*models.Transaction, error) {
	cfg, module, backend, err := s.resolveModule(store, payment.ModuleName)
	if err != nil {
		return nil, err
	}

	trx, err := backend.InitTransaction(store, customer, payment.Amount, payment, cfg, module)
	if err != nil {
		return nil, err
	}
	if err := s.Transactions.Create(trx); err != nil {
		return nil, err
	}
	return trx, nil
}

// InitOrderTransaction initializes a transaction against an existing
// order without persisting it: the order-bound init is a probe, not a
// durable pending transaction.
func (s *Service) InitOrderTransaction(order *models.Order, customer *types.Customer, payment *types.Payment, store *types.MerchantStore) (*models.Transaction, error) {
	cfg, module, backend, err := s.resolveModule(store, payment.ModuleName)
	if err != nil {
		return nil, err
	}

	trx, err := backend.InitTransaction(store, customer, order.Total, payment, cfg, module)
	if err != nil {
		return nil, err
	}
	trx.OrderID = order.ID
	return trx, nil
}

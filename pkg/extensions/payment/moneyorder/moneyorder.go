package moneyorder

import (
	"fmt"
	"time"

	"github.com/flaboy/pin"
	"github.com/shopspring/decimal"

	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/types"
)

const ModuleCode = "moneyorder"

// MoneyOrder 线下汇款后端 - 不调用任何网关,交易在收到汇款前
// 处于待结算状态,订单保持ORDERED。
type MoneyOrder struct{}

func (m *MoneyOrder) Init() error {
	return nil
}

func (m *MoneyOrder) GetModuleCode() string {
	return ModuleCode
}

// ValidateModuleConfiguration 要求商户配置收款地址
func (m *MoneyOrder) ValidateModuleConfiguration(cfg *types.IntegrationConfiguration, store *types.MerchantStore) error {
	if cfg.Key("address") == "" {
		return errs.NewConfiguration(ModuleCode, "missing money order remittance address")
	}
	return nil
}

func (m *MoneyOrder) InitTransaction(store *types.MerchantStore, customer *types.Customer, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	return m.newTransaction(types.TransactionTypeInit, amount, cfg)
}

func (m *MoneyOrder) Authorize(store *types.MerchantStore, customer *types.Customer, items []types.CartItem, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	return m.newTransaction(types.TransactionTypeAuthorize, amount, cfg)
}

func (m *MoneyOrder) AuthorizeAndCapture(store *types.MerchantStore, customer *types.Customer, items []types.CartItem, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	return m.newTransaction(types.TransactionTypeAuthorizeCapture, amount, cfg)
}

func (m *MoneyOrder) Capture(store *types.MerchantStore, customer *types.Customer, order *models.Order, capturable *models.Transaction, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	return m.newTransaction(types.TransactionTypeCapture, capturable.Amount, cfg)
}

// Refund 线下退款只能记账,实际汇款由商户线下处理
func (m *MoneyOrder) Refund(partial bool, store *types.MerchantStore, order *models.Order, refundable *models.Transaction, amount decimal.Decimal, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	trx, err := m.newTransaction(types.TransactionTypeRefund, amount, cfg)
	if err != nil {
		return nil, err
	}
	return trx, nil
}

func (m *MoneyOrder) HandleRequest(c *pin.Context, path string) error {
	c.JSON(404, map[string]string{"error": "Not found"})
	return nil
}

func (m *MoneyOrder) newTransaction(transactionType types.TransactionType, amount decimal.Decimal, cfg *types.IntegrationConfiguration) (*models.Transaction, error) {
	trx := &models.Transaction{
		TransactionType:   transactionType,
		TransactionDate:   time.Now(),
		Amount:            amount,
		PaymentModuleCode: ModuleCode,
	}
	err := trx.SetDetails(map[string]string{
		"REMIT_TO":  cfg.Key("address"),
		"REFERENCE": fmt.Sprintf("MO-%d", time.Now().UnixNano()),
	})
	if err != nil {
		return nil, err
	}
	return trx, nil
}

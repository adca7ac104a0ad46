package paypal

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/flaboy/pin"
	"github.com/plutov/paypal/v4"
	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/config"
	errs "github.com/flaboy/aira-checkout/pkg/errors"
	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/types"
)

const ModuleCode = "paypal"

// Transaction detail keys written by this backend.
const (
	detailOrderID         = "ORDER_ID"
	detailCaptureID       = "CAPTURE_ID"
	detailAuthorizationID = "AUTHORIZATION_ID"
	detailRefundID        = "REFUND_ID"
	detailStatus          = "STATUS"
)

type PayPal struct {
	client *paypal.Client
}

// Init 初始化PayPal客户端
func (p *PayPal) Init() error {
	environment := paypal.APIBaseSandBox
	if config.Config.PayPal.Live {
		environment = paypal.APIBaseLive
	}

	client, err := paypal.NewClient(
		config.Config.PayPal.ClientID,
		config.Config.PayPal.ClientSecret,
		environment,
	)
	if err != nil {
		return err
	}

	// 获取访问令牌
	_, err = client.GetAccessToken(context.Background())
	if err != nil {
		return err
	}

	p.client = client
	log.Printf("PayPal payment backend initialized successfully")
	return nil
}

func (p *PayPal) GetModuleCode() string {
	return ModuleCode
}

// ValidateModuleConfiguration 校验商户配置了客户端凭证
func (p *PayPal) ValidateModuleConfiguration(cfg *types.IntegrationConfiguration, store *types.MerchantStore) error {
	if cfg.Key("client_id") == "" && config.Config.PayPal.ClientID == "" {
		return errs.NewConfiguration(ModuleCode, "missing PayPal client id")
	}
	return nil
}

// InitTransaction probes the gateway with a token refresh; the returned
// transaction is not tied to a PayPal order yet.
func (p *PayPal) InitTransaction(store *types.MerchantStore, customer *types.Customer, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	token, err := p.client.GetAccessToken(context.Background())
	if err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}

	trx := p.newTransaction(types.TransactionTypeInit, amount)
	if err := trx.SetDetails(map[string]string{
		detailStatus: "TOKEN_" + token.Type,
	}); err != nil {
		return nil, err
	}
	return trx, nil
}

// Authorize 创建AUTHORIZE意图的PayPal订单,扣款延后到capture
func (p *PayPal) Authorize(store *types.MerchantStore, customer *types.Customer, items []types.CartItem, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	order, err := p.createOrder(context.Background(), "AUTHORIZE", amount, payment.Currency)
	if err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}

	trx := p.newTransaction(types.TransactionTypeAuthorize, amount)
	if err := trx.SetDetails(map[string]string{
		detailOrderID: order.ID,
		detailStatus:  order.Status,
	}); err != nil {
		return nil, err
	}
	return trx, nil
}

// AuthorizeAndCapture 创建CAPTURE意图的PayPal订单并立即扣款
func (p *PayPal) AuthorizeAndCapture(store *types.MerchantStore, customer *types.Customer, items []types.CartItem, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	ctx := context.Background()
	order, err := p.createOrder(ctx, "CAPTURE", amount, payment.Currency)
	if err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}

	capture, err := p.client.CaptureOrder(ctx, order.ID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}
	if capture.Status != "COMPLETED" {
		return nil, errs.NewIntegration(ModuleCode, fmt.Errorf("capture not completed, status: %s", capture.Status))
	}

	trx := p.newTransaction(types.TransactionTypeAuthorizeCapture, amount)
	details := map[string]string{
		detailOrderID: order.ID,
		detailStatus:  capture.Status,
	}
	if len(capture.PurchaseUnits) > 0 && capture.PurchaseUnits[0].Payments != nil &&
		len(capture.PurchaseUnits[0].Payments.Captures) > 0 {
		details[detailCaptureID] = capture.PurchaseUnits[0].Payments.Captures[0].ID
	}
	if err := trx.SetDetails(details); err != nil {
		return nil, err
	}
	return trx, nil
}

// Capture 对之前授权的PayPal订单扣款
func (p *PayPal) Capture(store *types.MerchantStore, customer *types.Customer, order *models.Order, capturable *models.Transaction, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	orderID := capturable.DetailEntries[detailOrderID]
	if orderID == "" {
		return nil, errs.NewIntegration(ModuleCode, fmt.Errorf("authorize transaction %d has no PayPal order id", capturable.ID))
	}

	capture, err := p.client.CaptureOrder(context.Background(), orderID, paypal.CaptureOrderRequest{})
	if err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}
	if capture.Status != "COMPLETED" {
		return nil, errs.NewIntegration(ModuleCode, fmt.Errorf("capture not completed, status: %s", capture.Status))
	}

	trx := p.newTransaction(types.TransactionTypeCapture, capturable.Amount)
	details := map[string]string{
		detailOrderID: orderID,
		detailStatus:  capture.Status,
	}
	if len(capture.PurchaseUnits) > 0 && capture.PurchaseUnits[0].Payments != nil &&
		len(capture.PurchaseUnits[0].Payments.Captures) > 0 {
		details[detailCaptureID] = capture.PurchaseUnits[0].Payments.Captures[0].ID
	}
	if err := trx.SetDetails(details); err != nil {
		return nil, err
	}
	return trx, nil
}

// Refund 对已扣款交易退款,partial为true时按amount部分退款
func (p *PayPal) Refund(partial bool, store *types.MerchantStore, order *models.Order, refundable *models.Transaction, amount decimal.Decimal, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error) {
	captureID := refundable.DetailEntries[detailCaptureID]
	if captureID == "" {
		return nil, errs.NewIntegration(ModuleCode, fmt.Errorf("transaction %d has no PayPal capture id", refundable.ID))
	}

	request := paypal.RefundCaptureRequest{}
	if partial {
		request.Amount = &paypal.Money{
			Currency: strings.ToUpper(order.Currency),
			Value:    amount.StringFixed(2),
		}
	}

	refund, err := p.client.RefundCapture(context.Background(), captureID, request)
	if err != nil {
		return nil, errs.NewIntegration(ModuleCode, err)
	}

	trx := p.newTransaction(types.TransactionTypeRefund, amount)
	if err := trx.SetDetails(map[string]string{
		detailCaptureID: captureID,
		detailRefundID:  refund.ID,
		detailStatus:    refund.Status,
	}); err != nil {
		return nil, err
	}
	return trx, nil
}

// HandleRequest 处理PayPal的回调和webhook请求
func (p *PayPal) HandleRequest(c *pin.Context, path string) error {
	switch {
	case strings.HasPrefix(path, "callback/"):
		log.Printf("PayPal callback received: %s action=%s", path, c.Query("action"))
		c.JSON(200, map[string]string{"status": "ok"})
		return nil
	case path == "webhook" || strings.HasPrefix(path, "webhook"):
		// TODO: verify webhook signatures once the event subscription is enabled
		c.JSON(200, map[string]string{"status": "ok"})
		return nil
	default:
		c.JSON(404, map[string]string{"error": "Not found"})
		return nil
	}
}

func (p *PayPal) createOrder(ctx context.Context, intent string, amount decimal.Decimal, currency string) (*paypal.Order, error) {
	purchaseUnits := []paypal.PurchaseUnitRequest{
		{
			Amount: &paypal.PurchaseUnitAmount{
				Currency: strings.ToUpper(currency),
				Value:    amount.StringFixed(2),
			},
		},
	}
	return p.client.CreateOrder(ctx, intent, purchaseUnits, nil, nil)
}

func (p *PayPal) newTransaction(transactionType types.TransactionType, amount decimal.Decimal) *models.Transaction {
	return &models.Transaction{
		TransactionType:   transactionType,
		TransactionDate:   time.Now(),
		Amount:            amount,
		PaymentModuleCode: ModuleCode,
	}
}

package payment

import (
	"github.com/flaboy/pin"
	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Backend 可插拔的支付后端能力集,按模块代码选择
type Backend interface {
	// 初始化预交易(令牌探测等),返回的Transaction是否持久化由调用方决定
	InitTransaction(store *types.MerchantStore, customer *types.Customer, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error)

	// 预授权,不扣款
	Authorize(store *types.MerchantStore, customer *types.Customer, items []types.CartItem, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error)

	// 授权并立即扣款
	AuthorizeAndCapture(store *types.MerchantStore, customer *types.Customer, items []types.CartItem, amount decimal.Decimal, payment *types.Payment, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error)

	// 对之前的预授权交易扣款
	Capture(store *types.MerchantStore, customer *types.Customer, order *models.Order, capturable *models.Transaction, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error)

	// 对之前的已结算交易退款
	Refund(partial bool, store *types.MerchantStore, order *models.Order, refundable *models.Transaction, amount decimal.Decimal, cfg *types.IntegrationConfiguration, module *types.IntegrationModule) (*models.Transaction, error)

	// 校验商户配置的完整性
	ValidateModuleConfiguration(cfg *types.IntegrationConfiguration, store *types.MerchantStore) error

	// 处理外部请求(回调和webhook)
	HandleRequest(c *pin.Context, path string) error

	// 资源初始化
	Init() error

	GetModuleCode() string
}

var backends map[string]Backend

// Register 注册支付后端,重复代码视为编程错误
func Register(backend Backend) {
	if backends == nil {
		backends = make(map[string]Backend)
	}
	code := backend.GetModuleCode()
	if _, exists := backends[code]; exists {
		panic("payment backend already registered: " + code)
	}
	backends[code] = backend
}

func Get(moduleCode string) Backend {
	return backends[moduleCode]
}

// GetAvailableBackends 获取所有已注册的支付后端代码
func GetAvailableBackends() []string {
	codes := make([]string, 0, len(backends))
	for code := range backends {
		codes = append(codes, code)
	}
	return codes
}

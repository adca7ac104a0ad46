package shipping

import (
	"github.com/shopspring/decimal"

	"github.com/flaboy/aira-checkout/pkg/types"
)

// Backend 可插拔的物流计价后端,按模块代码选择
type Backend interface {
	// 返回计价选项;错误由管线吞掉并记录,报价降级而不是中断结算
	GetShippingQuotes(quote *types.ShippingQuote, packages []types.PackageDetail, orderTotal decimal.Decimal, delivery *types.Delivery, origin *types.ShippingOrigin, store *types.MerchantStore, cfg *types.IntegrationConfiguration, module *types.IntegrationModule, shippingCfg *types.ShippingConfiguration, locale string) ([]*types.ShippingOption, error)

	// 后端自有的扩展配置
	GetCustomModuleConfiguration(store *types.MerchantStore) (map[string]string, error)

	// 校验商户配置的完整性
	ValidateModuleConfiguration(cfg *types.IntegrationConfiguration, store *types.MerchantStore) error

	// 资源初始化
	Init() error

	GetModuleCode() string
}

// Processor 报价前/后处理器,按配置顺序依次修改报价累加器。
// 前处理器可以通过设置quote.CurrentShippingModule改选后端。
type Processor interface {
	PrePostProcessShippingQuotes(quote *types.ShippingQuote, packages []types.PackageDetail, orderTotal decimal.Decimal, delivery *types.Delivery, origin *types.ShippingOrigin, store *types.MerchantStore, cfg *types.IntegrationConfiguration, module *types.IntegrationModule, shippingCfg *types.ShippingConfiguration, allModules []*types.IntegrationModule, locale string) error

	GetModuleCode() string
}

var backends map[string]Backend
var preProcessors []Processor
var postProcessors []Processor

// Register 注册物流后端,重复代码视为编程错误
func Register(backend Backend) {
	if backends == nil {
		backends = make(map[string]Backend)
	}
	code := backend.GetModuleCode()
	if _, exists := backends[code]; exists {
		panic("shipping backend already registered: " + code)
	}
	backends[code] = backend
}

func Get(moduleCode string) Backend {
	return backends[moduleCode]
}

// RegisterPreProcessor 追加前处理器,调用顺序即执行顺序
func RegisterPreProcessor(p Processor) {
	preProcessors = append(preProcessors, p)
}

// RegisterPostProcessor 追加后处理器,调用顺序即执行顺序
func RegisterPostProcessor(p Processor) {
	postProcessors = append(postProcessors, p)
}

// GetAvailableBackends 获取所有已注册的物流后端代码
func GetAvailableBackends() []string {
	codes := make([]string, 0, len(backends))
	for code := range backends {
		codes = append(codes, code)
	}
	return codes
}

package types

// ModuleKind 模块类别
type ModuleKind string

const (
	ModuleKindPayment           ModuleKind = "PAYMENT"
	ModuleKindShipping          ModuleKind = "SHIPPING"
	ModuleKindShippingProcessor ModuleKind = "SHIPPING_PROCESSOR"
)

// RegionWildcard matches every store country in a module catalog entry.
const RegionWildcard = "*"

// IntegrationModule 模块目录条目 - 静态描述一个可插拔的支付/物流后端
type IntegrationModule struct {
	Code    string     `json:"code"`
	Kind    ModuleKind `json:"type"`
	Regions []string   `json:"regions"`
}

// SupportsRegion reports whether the module is available for the given
// store country, honoring the "*" wildcard.
func (m *IntegrationModule) SupportsRegion(countryCode string) bool {
	for _, r := range m.Regions {
		if r == RegionWildcard || r == countryCode {
			return true
		}
	}
	return false
}

// IntegrationConfiguration 商户对单个模块的启用配置
// 由商户配置存储解密加载，在一次编排调用内不可变。
type IntegrationConfiguration struct {
	ModuleCode      string            `json:"moduleCode"`
	Active          bool              `json:"active"`
	DefaultSelected bool              `json:"defaultSelected"`
	IntegrationKeys map[string]string `json:"integrationKeys"`
}

// Key returns the integration key value or "" when absent.
func (c *IntegrationConfiguration) Key(name string) string {
	if c == nil || c.IntegrationKeys == nil {
		return ""
	}
	return c.IntegrationKeys[name]
}

package registry

import "github.com/flaboy/aira-checkout/pkg/types"

// Static catalog of pluggable backend modules. Populated by explicit
// registration at process start, the same way backends register their
// implementations.

var catalog map[string]*types.IntegrationModule

// RegisterModule 注册模块目录条目,启动时由各后端包调用
func RegisterModule(module *types.IntegrationModule) {
	if catalog == nil {
		catalog = make(map[string]*types.IntegrationModule)
	}
	if _, exists := catalog[module.Code]; exists {
		panic("integration module already registered: " + module.Code)
	}
	catalog[module.Code] = module
}

func Module(code string) *types.IntegrationModule {
	if catalog == nil {
		return nil
	}
	return catalog[code]
}

// EligibleCatalog filters the catalog down to modules of the given kind
// available in the store's country (or declaring the "*" wildcard).
func EligibleCatalog(store *types.MerchantStore, kind types.ModuleKind) []*types.IntegrationModule {
	var eligible []*types.IntegrationModule
	for _, module := range catalog {
		if module.Kind != kind {
			continue
		}
		if module.SupportsRegion(store.CountryCode) {
			eligible = append(eligible, module)
		}
	}
	return eligible
}

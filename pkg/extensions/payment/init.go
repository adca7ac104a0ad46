package payment

import (
	"fmt"

	"github.com/flaboy/aira-checkout/pkg/extensions/payment/moneyorder"
	"github.com/flaboy/aira-checkout/pkg/extensions/payment/paypal"
	"github.com/flaboy/aira-checkout/pkg/registry"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// Init 注册内置支付后端及其目录条目
func Init() error {
	backends = make(map[string]Backend)

	for _, backend := range []Backend{
		&paypal.PayPal{},
		&moneyorder.MoneyOrder{},
	} {
		if err := backend.Init(); err != nil {
			return fmt.Errorf("failed to initialize payment backend %s: %w", backend.GetModuleCode(), err)
		}
		Register(backend)
		registry.RegisterModule(&types.IntegrationModule{
			Code:    backend.GetModuleCode(),
			Kind:    types.ModuleKindPayment,
			Regions: []string{types.RegionWildcard},
		})
	}
	return nil
}

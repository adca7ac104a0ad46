package commence

import (
	"github.com/flaboy/aira-checkout/pkg/config"
	"github.com/flaboy/aira-checkout/pkg/events"
	"github.com/flaboy/aira-checkout/pkg/extensions/payment"
	"github.com/flaboy/aira-checkout/pkg/extensions/shipping"
	"github.com/flaboy/aira-checkout/pkg/models"
	"github.com/flaboy/aira-checkout/pkg/notify"
	"github.com/flaboy/aira-checkout/pkg/registry"
)

// Services 业务系统拿到的结算核心入口
type Services struct {
	Registry *registry.Registry
	Payment  *payment.Service
	Shipping *shipping.Service
}

func Start(cfg *config.CommenceConfig) (*Services, error) {
	config.Config = cfg

	// 启动服务组件
	if err := payment.Init(); err != nil {
		return nil, err
	}
	if err := shipping.Init(); err != nil {
		return nil, err
	}
	if err := notify.Init(); err != nil {
		return nil, err
	}

	reg := registry.New(&models.ConfigurationStore{}, registry.PlainDecrypter{})
	return &Services{
		Registry: reg,
		Payment:  payment.NewService(reg, &models.TransactionStore{}, &models.OrderStore{}),
		Shipping: shipping.NewService(reg, &models.QuoteStore{}),
	}, nil
}

// StartWithDecrypter lets the host supply its configuration blob
// decrypter instead of the plain pass-through.
func StartWithDecrypter(cfg *config.CommenceConfig, decrypter registry.Decrypter) (*Services, error) {
	services, err := Start(cfg)
	if err != nil {
		return nil, err
	}
	services.Registry.Decrypter = decrypter
	return services, nil
}

// 注册业务系统的事件处理器
func RegisterEventHandler(handler events.EventHandler) {
	events.SetEventHandler(handler)
}

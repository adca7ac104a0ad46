package shipping

import (
	"fmt"

	"github.com/flaboy/aira-checkout/pkg/extensions/shipping/carrierapi"
	"github.com/flaboy/aira-checkout/pkg/extensions/shipping/processors"
	"github.com/flaboy/aira-checkout/pkg/extensions/shipping/ratetable"
	"github.com/flaboy/aira-checkout/pkg/extensions/shipping/storepickup"
	"github.com/flaboy/aira-checkout/pkg/registry"
	"github.com/flaboy/aira-checkout/pkg/types"
)

// WeightTable is the process-wide weight-based backend; the host loads
// rate sheets into it via LoadFromFile after a merchant import.
var WeightTable = &ratetable.RateTable{}

// Init 注册内置物流后端、处理器及其目录条目
func Init() error {
	backends = make(map[string]Backend)
	preProcessors = nil
	postProcessors = nil

	for _, backend := range []Backend{
		&carrierapi.CarrierAPI{},
		WeightTable,
		&storepickup.StorePickup{},
	} {
		if err := backend.Init(); err != nil {
			return fmt.Errorf("failed to initialize shipping backend %s: %w", backend.GetModuleCode(), err)
		}
		Register(backend)
		registry.RegisterModule(&types.IntegrationModule{
			Code:    backend.GetModuleCode(),
			Kind:    types.ModuleKindShipping,
			Regions: []string{types.RegionWildcard},
		})
	}

	RegisterPreProcessor(&processors.StorePickupPreProcessor{})

	distance := processors.NewDistancePostProcessor()
	RegisterPostProcessor(distance)
	registry.RegisterModule(&types.IntegrationModule{
		Code:    distance.GetModuleCode(),
		Kind:    types.ModuleKindShippingProcessor,
		Regions: []string{types.RegionWildcard},
	})

	return nil
}

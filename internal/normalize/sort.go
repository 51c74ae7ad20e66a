package normalize

import (
	"slices"

	"github.com/siimots/sadamad-data/internal/model"
)

// SortByRegister orders features by numeric register id, ascending. The sort
// is stable; ids that are not integers keep their order after all numeric ids.
func SortByRegister(features []model.PortFeature) {
	slices.SortStableFunc(features, func(a, b model.PortFeature) int {
		an, aok := a.Properties.Register.Int()
		bn, bok := b.Properties.Register.Int()
		switch {
		case aok && bok:
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			}
			return 0
		case aok:
			return -1
		case bok:
			return 1
		default:
			return 0
		}
	})
}

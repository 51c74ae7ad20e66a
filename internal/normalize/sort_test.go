package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/siimots/sadamad-data/internal/model"
)

func feature(id model.PortID, name string) model.PortFeature {
	return model.NewPortFeature(model.PortProperties{Register: id, Name: name}, 24, 58)
}

func registers(features []model.PortFeature) []string {
	out := make([]string, len(features))
	for i, f := range features {
		out[i] = f.Properties.Register.String() + ":" + f.Properties.Name
	}
	return out
}

func TestSortByRegister(t *testing.T) {
	features := []model.PortFeature{
		feature("166", "a"),
		feature("12", "b"),
		feature("x", "c"),
		feature("2", "d"),
		feature("12", "e"),
		feature("a", "f"),
		feature("100", "g"),
	}

	SortByRegister(features)

	assert.Equal(t, []string{"2:d", "12:b", "12:e", "100:g", "166:a", "x:c", "a:f"}, registers(features))
}

func TestSortByRegister_Empty(t *testing.T) {
	var features []model.PortFeature
	SortByRegister(features)
	assert.Empty(t, features)
}

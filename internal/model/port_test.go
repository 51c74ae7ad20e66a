package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortID_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want PortID
	}{
		{"number", `166`, "166"},
		{"string", `"42"`, "42"},
		{"padded string", `" 7 "`, "7"},
		{"null", `null`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id PortID
			require.NoError(t, json.Unmarshal([]byte(tt.in), &id))
			assert.Equal(t, tt.want, id)
		})
	}

	var id PortID
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestPortID_Marshal(t *testing.T) {
	b, err := json.Marshal(PortID("166"))
	require.NoError(t, err)
	assert.Equal(t, `166`, string(b))

	b, err = json.Marshal(PortID("A-12"))
	require.NoError(t, err)
	assert.Equal(t, `"A-12"`, string(b))
}

func TestRawPortSummary_Decode(t *testing.T) {
	var list []RawPortSummary
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"Kuivastu  sadam"},{"id":"2","name":"Virtsu"}]`), &list))
	require.Len(t, list, 2)
	assert.Equal(t, PortID("1"), list[0].ID)
	assert.Equal(t, "Kuivastu  sadam", list[0].Name)
	assert.Equal(t, PortID("2"), list[1].ID)
}

func TestPhones_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Phones
	}{
		{"array", `["+372 555 1234","+372 555 5678"]`, Phones{"+372 555 1234", "+372 555 5678"}},
		{"single string", `"+372 555 1234"`, Phones{"+372 555 1234"}},
		{"empty string", `""`, nil},
		{"null", `null`, nil},
		{"empty array", `[]`, Phones{}},
		{"drops null and blank entries", `["+372 1", null, ""]`, Phones{"+372 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Phones
			require.NoError(t, json.Unmarshal([]byte(tt.in), &p))
			assert.Equal(t, tt.want, p)
		})
	}
}

func TestMeasure_Unmarshal(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		wantRaw   string
		wantNum   bool
		wantEmpty bool
	}{
		{"integer", `12`, "12", true, false},
		{"decimal", `3.5`, "3.5", true, false},
		{"zero", `0`, "0", true, true},
		{"string", `" 4,2 "`, "4,2", false, false},
		{"empty string", `""`, "", false, true},
		{"null", `null`, "", false, true},
		{"false", `false`, "", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Measure
			require.NoError(t, json.Unmarshal([]byte(tt.in), &m))
			assert.Equal(t, tt.wantRaw, m.Raw)
			assert.Equal(t, tt.wantNum, m.Number)
			assert.Equal(t, tt.wantEmpty, m.Empty())
		})
	}
}

func TestPosition_Unmarshal(t *testing.T) {
	t.Run("dms string", func(t *testing.T) {
		var p Position
		require.NoError(t, json.Unmarshal([]byte(`"58°23'12\"N; 24°45'30\"E"`), &p))
		assert.Equal(t, PositionDMS, p.Kind())
		assert.Equal(t, `58°23'12"N; 24°45'30"E`, p.DMS)
	})

	t.Run("projected numbers", func(t *testing.T) {
		var p Position
		require.NoError(t, json.Unmarshal([]byte(`{"x": 542200.5, "y": 6588830}`), &p))
		require.Equal(t, PositionProjected, p.Kind())
		assert.InDelta(t, 542200.5, p.Projected.X, 1e-9)
		assert.InDelta(t, 6588830.0, p.Projected.Y, 1e-9)
	})

	t.Run("projected strings", func(t *testing.T) {
		var p Position
		require.NoError(t, json.Unmarshal([]byte(`{"x": "542200,5", "y": "6588830"}`), &p))
		require.Equal(t, PositionProjected, p.Kind())
		assert.InDelta(t, 542200.5, p.Projected.X, 1e-9)
	})

	t.Run("projected missing axis", func(t *testing.T) {
		var p Position
		require.NoError(t, json.Unmarshal([]byte(`{"x": 542200}`), &p))
		assert.Equal(t, PositionNone, p.Kind())
	})

	t.Run("blank string", func(t *testing.T) {
		var p Position
		require.NoError(t, json.Unmarshal([]byte(`"  "`), &p))
		assert.Equal(t, PositionNone, p.Kind())
	})
}

func TestRawPortDetail_MissingMainData(t *testing.T) {
	var d RawPortDetail
	require.NoError(t, json.Unmarshal([]byte(`{"other": 1}`), &d))
	assert.Nil(t, d.MainData)
}

func TestRawPortDetail_Decode(t *testing.T) {
	body := `{"portMainData": {
		"sadamaPidajaEesnimi": "Mari",
		"sadamaPidajaArinimiPerenimi": "Maasikas",
		"sadamaPidajaTelefon": ["+372 555 1234"],
		"veesoidukiMaxPikkus": 24,
		"sadamaAsukoht": "58°23'12\"N; 24°45'30\"E",
		"muutmineKp": "2020-05-04"
	}}`
	var d RawPortDetail
	require.NoError(t, json.Unmarshal([]byte(body), &d))
	require.NotNil(t, d.MainData)
	assert.Equal(t, "Mari", d.MainData.OwnerFirstName)
	assert.Equal(t, "Maasikas", d.MainData.OwnerName)
	assert.Equal(t, Phones{"+372 555 1234"}, d.MainData.OwnerPhones)
	assert.Equal(t, "24", d.MainData.MaxLength.Raw)
	assert.True(t, d.MainData.MaxWidth.Empty())
	assert.Equal(t, PositionDMS, d.MainData.Position.Kind())
	assert.Equal(t, "2020-05-04", d.MainData.ModifiedAt)
}

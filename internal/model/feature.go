package model

import (
	"bytes"
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// Sentinel replaces any missing or falsy optional value in the output.
const Sentinel = "-"

// PortProperties are the normalized attributes of a port. Field order is the
// key order of the published GeoJSON.
type PortProperties struct {
	Register     PortID `json:"sadamaregister"`
	Name         string `json:"sadama_nimi"`
	Owner        string `json:"omanik"`
	OwnerPhone   string `json:"omanik_telefon"`
	OwnerEmail   string `json:"omanik_epost"`
	Website      string `json:"koduleht"`
	MasterName   string `json:"sadamakapteni_nimi"`
	MasterPhone  string `json:"sadamakapteni_telefon"`
	MasterEmail  string `json:"sadamakapteni_epost"`
	MaxLength    string `json:"max_pikkus"`
	MaxWidth     string `json:"max_laius"`
	MaxDraft     string `json:"max_sygavus"`
	ModifiedDate string `json:"modified_date"`
}

// PortFeature is one port as a GeoJSON Point feature in WGS84.
type PortFeature struct {
	Properties PortProperties
	Geometry   *geom.Point
}

// NewPortFeature builds a feature at the given WGS84 position.
func NewPortFeature(props PortProperties, lon, lat float64) PortFeature {
	return PortFeature{
		Properties: props,
		Geometry:   geom.NewPointFlat(geom.XY, []float64{lon, lat}).SetSRID(4326),
	}
}

// Lon returns the feature longitude, 0 without geometry.
func (f PortFeature) Lon() float64 {
	if f.Geometry == nil {
		return 0
	}
	return f.Geometry.X()
}

// Lat returns the feature latitude, 0 without geometry.
func (f PortFeature) Lat() float64 {
	if f.Geometry == nil {
		return 0
	}
	return f.Geometry.Y()
}

type featureJSON struct {
	Type       string            `json:"type"`
	Properties PortProperties    `json:"properties"`
	Geometry   *geojson.Geometry `json:"geometry"`
}

// MarshalJSON encodes the feature as {"type":"Feature","properties":...,"geometry":...}.
func (f PortFeature) MarshalJSON() ([]byte, error) {
	var g *geojson.Geometry
	if f.Geometry != nil {
		var err error
		g, err = geojson.Encode(f.Geometry)
		if err != nil {
			return nil, eris.Wrapf(err, "model: encode geometry for port %s", f.Properties.Register)
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(featureJSON{
		Type:       "Feature",
		Properties: f.Properties,
		Geometry:   g,
	}); err != nil {
		return nil, eris.Wrapf(err, "model: encode port %s", f.Properties.Register)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// UnmarshalJSON reads a feature previously written by MarshalJSON.
func (f *PortFeature) UnmarshalJSON(data []byte) error {
	var raw featureJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "model: decode feature")
	}
	f.Properties = raw.Properties
	f.Geometry = nil
	if raw.Geometry == nil {
		return nil
	}
	g, err := raw.Geometry.Decode()
	if err != nil {
		return eris.Wrap(err, "model: decode feature geometry")
	}
	p, ok := g.(*geom.Point)
	if !ok {
		return eris.Errorf("model: feature geometry is %T, want point", g)
	}
	f.Geometry = p
	return nil
}

// FeatureCollection is the published GeoJSON document.
type FeatureCollection struct {
	Type     string        `json:"type"`
	Features []PortFeature `json:"features"`
}

// NewFeatureCollection wraps features; a nil slice encodes as [].
func NewFeatureCollection(features []PortFeature) FeatureCollection {
	if features == nil {
		features = []PortFeature{}
	}
	return FeatureCollection{Type: "FeatureCollection", Features: features}
}

// Find returns the feature with the given register id.
func (fc FeatureCollection) Find(id PortID) (PortFeature, bool) {
	for _, f := range fc.Features {
		if f.Properties.Register == id {
			return f, true
		}
	}
	return PortFeature{}, false
}

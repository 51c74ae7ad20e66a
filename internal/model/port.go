package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

var jsonNull = []byte("null")

// PortID identifies a port in the harbor register. The listing endpoint sends
// numbers, but string ids are accepted as well.
type PortID string

// UnmarshalJSON accepts a JSON number or string.
func (id *PortID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, jsonNull) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode port id")
		}
		*id = PortID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return eris.Wrapf(err, "model: decode port id %s", data)
	}
	*id = PortID(n.String())
	return nil
}

// MarshalJSON writes integer ids as JSON numbers, anything else as a string.
func (id PortID) MarshalJSON() ([]byte, error) {
	if n, ok := id.Int(); ok {
		return strconv.AppendInt(nil, n, 10), nil
	}
	return json.Marshal(string(id))
}

// Int returns the numeric value of the id and whether it is an integer.
func (id PortID) Int() (int64, bool) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	return n, err == nil
}

func (id PortID) String() string { return string(id) }

// RawPortSummary is one entry of the register's port listing.
type RawPortSummary struct {
	ID   PortID `json:"id"`
	Name string `json:"name"`
}

// RawPortDetail is the body of a per-port detail request.
type RawPortDetail struct {
	MainData *RawMainData `json:"portMainData"`
}

// RawMainData holds the register's main data block for a port.
type RawMainData struct {
	OwnerFirstName string `json:"sadamaPidajaEesnimi"`
	OwnerName      string `json:"sadamaPidajaArinimiPerenimi"`
	OwnerPhones    Phones `json:"sadamaPidajaTelefon"`
	OwnerEmail     string `json:"sadamaPidajaEpost"`
	OwnerWebsite   string `json:"sadamaPidajaKoduleht"`

	MasterFirstName string `json:"sadamaKaptenEesnimi"`
	MasterName      string `json:"sadamaKaptenPerenimi"`
	MasterPhones    Phones `json:"sadamaKaptenTelefon"`
	MasterEmail     string `json:"sadamaKaptenEpost"`

	MaxLength Measure `json:"veesoidukiMaxPikkus"`
	MaxWidth  Measure `json:"veesoidukiMaxLaius"`
	MaxDraft  Measure `json:"veesoidukiMaxSyvis"`

	Position   Position `json:"sadamaAsukoht"`
	ModifiedAt string   `json:"muutmineKp"`
}

// Phones is a list of phone numbers. The register sends either an array of
// strings or a single string.
type Phones []string

// UnmarshalJSON accepts null, a string, or an array of strings.
func (p *Phones) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, jsonNull):
		*p = nil
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode phone")
		}
		if s == "" {
			*p = nil
			return nil
		}
		*p = Phones{s}
		return nil
	}

	var list []*string
	if err := json.Unmarshal(data, &list); err != nil {
		return eris.Wrap(err, "model: decode phone list")
	}
	out := make(Phones, 0, len(list))
	for _, s := range list {
		if s != nil && *s != "" {
			out = append(out, *s)
		}
	}
	*p = out
	return nil
}

// Measure is a vessel limit as sent by the register: a JSON number, a numeric
// string, or nothing. Raw keeps the source text.
type Measure struct {
	Raw    string
	Number bool // source value was a JSON number
}

// UnmarshalJSON accepts null, numbers, strings and booleans; false and null
// leave the measure empty.
func (m *Measure) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*m = Measure{}
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return eris.Wrap(err, "model: decode measure")
		}
		m.Raw = strings.TrimSpace(s)
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return eris.Wrap(err, "model: decode measure")
		}
		if b {
			m.Raw = "true"
		}
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return eris.Wrapf(err, "model: decode measure %s", data)
		}
		m.Raw = n.String()
		m.Number = true
	}
	return nil
}

// Empty reports whether the measure is absent or falsy (empty or zero).
func (m Measure) Empty() bool {
	if m.Raw == "" {
		return true
	}
	if m.Number {
		v, err := strconv.ParseFloat(m.Raw, 64)
		return err == nil && v == 0
	}
	return false
}

// PositionKind tells which coordinate encoding a Position carries.
type PositionKind int

const (
	PositionNone PositionKind = iota
	PositionDMS
	PositionProjected
)

// String returns the encoding name.
func (k PositionKind) String() string {
	switch k {
	case PositionDMS:
		return "dms"
	case PositionProjected:
		return "projected"
	default:
		return "none"
	}
}

// ProjectedPoint is a planar coordinate pair in L-EST97.
type ProjectedPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Position is the port location: either a "lat; lon" DMS string or a
// projected {x, y} pair.
type Position struct {
	DMS       string
	Projected *ProjectedPoint
}

// Kind reports which encoding is present.
func (p Position) Kind() PositionKind {
	switch {
	case p.Projected != nil:
		return PositionProjected
	case strings.TrimSpace(p.DMS) != "":
		return PositionDMS
	default:
		return PositionNone
	}
}

// UnmarshalJSON accepts null, a DMS string, or an object with x and y given
// as numbers or numeric strings. An object missing either axis decodes as no
// position.
func (p *Position) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*p = Position{}
	if len(data) == 0 || bytes.Equal(data, jsonNull) {
		return nil
	}
	if data[0] == '"' {
		if err := json.Unmarshal(data, &p.DMS); err != nil {
			return eris.Wrap(err, "model: decode position")
		}
		return nil
	}

	var raw struct {
		X json.RawMessage `json:"x"`
		Y json.RawMessage `json:"y"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return eris.Wrap(err, "model: decode projected position")
	}
	x, okX := flexFloat(raw.X)
	y, okY := flexFloat(raw.Y)
	if okX && okY {
		p.Projected = &ProjectedPoint{X: x, Y: y}
	}
	return nil
}

// MarshalJSON writes the position back in its source encoding.
func (p Position) MarshalJSON() ([]byte, error) {
	switch p.Kind() {
	case PositionProjected:
		return json.Marshal(p.Projected)
	case PositionDMS:
		return json.Marshal(p.DMS)
	default:
		return jsonNull, nil
	}
}

// flexFloat parses a JSON number or a numeric string (decimal comma allowed).
func flexFloat(raw json.RawMessage) (float64, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return 0, false
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

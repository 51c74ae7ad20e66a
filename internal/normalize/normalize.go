// Package normalize turns raw harbor register records into uniform port
// features with WGS84 coordinates.
package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"

	"github.com/siimots/sadamad-data/internal/coords"
	"github.com/siimots/sadamad-data/internal/model"
)

// Precision is the number of decimals kept in output coordinates.
const Precision = 5

var (
	// ErrMissingMainData marks a detail record without its main data block.
	ErrMissingMainData = eris.New("normalize: missing main data")
	// ErrNoPosition marks a main data block with neither a DMS nor a projected position.
	ErrNoPosition = eris.New("normalize: no position")
)

// Normalize converts one detail record and its listing entry into a feature.
// It is pure and safe for concurrent use.
func Normalize(summary model.RawPortSummary, detail model.RawPortDetail) (model.PortFeature, error) {
	d := detail.MainData
	if d == nil {
		return model.PortFeature{}, eris.Wrapf(ErrMissingMainData, "port %s", summary.ID)
	}

	lon, lat, err := Position(d.Position)
	if err != nil {
		return model.PortFeature{}, eris.Wrapf(err, "port %s", summary.ID)
	}

	measure := passThrough
	if d.Position.Kind() == model.PositionProjected {
		measure = FormatFixed1
	}

	props := model.PortProperties{
		Register:     summary.ID,
		Name:         PortName(summary.Name),
		Owner:        DisplayName(d.OwnerFirstName, d.OwnerName),
		OwnerPhone:   JoinPhones(d.OwnerPhones),
		OwnerEmail:   OrSentinel(d.OwnerEmail),
		Website:      OrSentinel(d.OwnerWebsite),
		MasterName:   DisplayName(d.MasterFirstName, d.MasterName),
		MasterPhone:  JoinPhones(d.MasterPhones),
		MasterEmail:  OrSentinel(d.MasterEmail),
		MaxLength:    formatMeasure(d.MaxLength, measure),
		MaxWidth:     formatMeasure(d.MaxWidth, measure),
		MaxDraft:     formatMeasure(d.MaxDraft, measure),
		ModifiedDate: OrSentinel(d.ModifiedAt),
	}

	return model.NewPortFeature(props, coords.Round(lon, Precision), coords.Round(lat, Precision)), nil
}

// Position returns the unrounded WGS84 longitude and latitude of a register
// position, choosing the conversion by the encoding present.
func Position(p model.Position) (lon, lat float64, err error) {
	switch p.Kind() {
	case model.PositionDMS:
		lat, lon, err = coords.ParseDMSPair(p.DMS)
		if err != nil {
			return 0, 0, eris.Wrap(err, "normalize: dms position")
		}
		return lon, lat, nil
	case model.PositionProjected:
		x, y := p.Projected.X, p.Projected.Y
		// Geodetic order puts northing first.
		if x >= 6_000_000 && y < 1_000_000 {
			x, y = y, x
		}
		lon, lat = coords.LEST97.Inverse(x, y)
		return lon, lat, nil
	default:
		return 0, 0, ErrNoPosition
	}
}

// PortName collapses whitespace runs and NFC-normalizes a listing name.
func PortName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

// DisplayName joins a given name and a combined business/family name.
func DisplayName(given, combined string) string {
	switch {
	case given != "" && combined != "":
		return given + " " + combined
	case combined != "":
		return combined
	default:
		return model.Sentinel
	}
}

// JoinPhones joins phone numbers with ";" and splits international numbers
// that arrived concatenated in one string.
func JoinPhones(phones model.Phones) string {
	if len(phones) == 0 {
		return model.Sentinel
	}
	return strings.ReplaceAll(strings.Join(phones, ";"), " +", ";+")
}

// OrSentinel returns s, or the sentinel when s is empty.
func OrSentinel(s string) string {
	if s == "" {
		return model.Sentinel
	}
	return s
}

// FormatFixed1 formats a numeric string to exactly one decimal place. Values
// that do not parse as numbers give the sentinel.
func FormatFixed1(raw string) string {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return model.Sentinel
	}
	return strconv.FormatFloat(coords.Round(v, 1), 'f', 1, 64)
}

func passThrough(raw string) string { return raw }

func formatMeasure(m model.Measure, format func(string) string) string {
	if m.Empty() {
		return model.Sentinel
	}
	return format(m.Raw)
}

// Package coords converts the coordinate encodings used by the harbor register
// into WGS84 decimal degrees.
package coords

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// ErrMalformedDMS is returned for strings that are not a DMS angle or pair.
var ErrMalformedDMS = eris.New("coords: malformed DMS")

// dmsPattern matches degrees with optional minutes and seconds and a
// hemisphere letter before or after the value, e.g. 58°23'12"N, N 58 23.2,
// 24°45'30,5"E.
var dmsPattern = regexp.MustCompile(
	`^([NSEW])?\s*([-+])?\s*(\d+(?:[.,]\d+)?)\s*[°º:]?\s*` +
		`(?:(\d+(?:[.,]\d+)?)\s*['′’:]?\s*)?` +
		`(?:(\d+(?:[.,]\d+)?)\s*(?:"|″|”|''|′′)?\s*)?` +
		`([NSEW])?$`,
)

// ParseDMS parses one degrees-minutes-seconds angle into signed decimal
// degrees. S and W hemispheres, or a leading minus, give negative values.
func ParseDMS(s string) (float64, error) {
	v, _, err := parseDMS(s)
	return v, err
}

// parseDMS also returns the hemisphere letter, empty when absent.
func parseDMS(s string) (float64, string, error) {
	in := strings.ToUpper(strings.TrimSpace(s))
	m := dmsPattern.FindStringSubmatch(in)
	if m == nil {
		return 0, "", eris.Wrapf(ErrMalformedDMS, "parse %q", s)
	}
	if m[1] != "" && m[6] != "" {
		return 0, "", eris.Wrapf(ErrMalformedDMS, "parse %q: two hemisphere letters", s)
	}

	deg, err := parseDecimal(m[3])
	if err != nil || deg > 180 {
		return 0, "", eris.Wrapf(ErrMalformedDMS, "parse %q: degrees", s)
	}
	var minutes, seconds float64
	if m[4] != "" {
		if minutes, err = parseDecimal(m[4]); err != nil || minutes >= 60 {
			return 0, "", eris.Wrapf(ErrMalformedDMS, "parse %q: minutes out of range", s)
		}
	}
	if m[5] != "" {
		if seconds, err = parseDecimal(m[5]); err != nil || seconds >= 60 {
			return 0, "", eris.Wrapf(ErrMalformedDMS, "parse %q: seconds out of range", s)
		}
	}

	v := deg + minutes/60 + seconds/3600
	hemi := m[1] + m[6]
	if m[2] == "-" || hemi == "S" || hemi == "W" {
		v = -v
	}
	return v, hemi, nil
}

// ParseDMSPair parses "lat; lon" into its two angles. The first angle is the
// latitude, the second the longitude. A hemisphere letter that belongs to the
// other axis is an error.
func ParseDMSPair(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ";")
	if len(parts) != 2 {
		return 0, 0, eris.Wrapf(ErrMalformedDMS, "pair %q: want 2 parts, got %d", s, len(parts))
	}
	lat, latHemi, err := parseDMS(parts[0])
	if err != nil {
		return 0, 0, eris.Wrap(err, "latitude")
	}
	lon, lonHemi, err := parseDMS(parts[1])
	if err != nil {
		return 0, 0, eris.Wrap(err, "longitude")
	}
	if latHemi == "E" || latHemi == "W" || lonHemi == "N" || lonHemi == "S" {
		return 0, 0, eris.Wrapf(ErrMalformedDMS, "pair %q: hemispheres out of order", s)
	}
	if lat < -90 || lat > 90 {
		return 0, 0, eris.Wrapf(ErrMalformedDMS, "pair %q: latitude %.5f out of range", s, lat)
	}
	return lat, lon, nil
}

func parseDecimal(s string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
}

package output

import (
	"os"
	"unicode/utf8"

	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"

	"github.com/siimots/sadamad-data/internal/model"
)

const wgs84PRJ = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137.0,298.257223563]],PRIMEM["Greenwich",0.0],UNIT["Degree",0.0174532925199433]]`

// shpColumn maps a property to a DBF column. DBF names are limited to ten
// characters.
type shpColumn struct {
	name  string
	size  uint8
	value func(model.PortProperties) string
}

var shpColumns = []shpColumn{
	{"REGISTER", 16, func(p model.PortProperties) string { return p.Register.String() }},
	{"NAME", 120, func(p model.PortProperties) string { return p.Name }},
	{"OWNER", 160, func(p model.PortProperties) string { return p.Owner }},
	{"OWNER_TEL", 120, func(p model.PortProperties) string { return p.OwnerPhone }},
	{"OWNER_MAIL", 100, func(p model.PortProperties) string { return p.OwnerEmail }},
	{"WEBSITE", 160, func(p model.PortProperties) string { return p.Website }},
	{"MASTER", 120, func(p model.PortProperties) string { return p.MasterName }},
	{"MASTER_TEL", 120, func(p model.PortProperties) string { return p.MasterPhone }},
	{"MASTR_MAIL", 100, func(p model.PortProperties) string { return p.MasterEmail }},
	{"MAX_LENGTH", 16, func(p model.PortProperties) string { return p.MaxLength }},
	{"MAX_WIDTH", 16, func(p model.PortProperties) string { return p.MaxWidth }},
	{"MAX_DRAFT", 16, func(p model.PortProperties) string { return p.MaxDraft }},
	{"MODIFIED", 32, func(p model.PortProperties) string { return p.ModifiedDate }},
}

// WriteShapefile writes a point shapefile (.shp, .shx, .dbf, .prj) at base
// and returns the paths written. Features without geometry are skipped.
func WriteShapefile(base string, fc model.FeatureCollection) ([]string, error) {
	shpPath := base + ".shp"
	w, err := shp.Create(shpPath, shp.POINT)
	if err != nil {
		return nil, eris.Wrapf(err, "output: create shapefile %s", shpPath)
	}

	fields := make([]shp.Field, len(shpColumns))
	for i, c := range shpColumns {
		fields[i] = shp.StringField(c.name, c.size)
	}
	if err := w.SetFields(fields); err != nil {
		w.Close()
		return nil, eris.Wrap(err, "output: set dbf fields")
	}

	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		row := int(w.Write(&shp.Point{X: f.Lon(), Y: f.Lat()}))
		for i, c := range shpColumns {
			v := truncate(c.value(f.Properties), int(c.size))
			if err := w.WriteAttribute(row, i, v); err != nil {
				w.Close()
				return nil, eris.Wrapf(err, "output: write %s for port %s", c.name, f.Properties.Register)
			}
		}
	}
	w.Close()

	dbfPath := base + ".dbf"
	if err := fixDBFName(base, dbfPath); err != nil {
		return nil, err
	}

	prjPath := base + ".prj"
	if err := os.WriteFile(prjPath, []byte(wgs84PRJ), 0o644); err != nil {
		return nil, eris.Wrapf(err, "output: write %s", prjPath)
	}

	return []string{shpPath, base + ".shx", dbfPath, prjPath}, nil
}

// fixDBFName moves the attribute table to dbfPath. go-shp names it base+"dbf"
// without the dot.
func fixDBFName(base, dbfPath string) error {
	if _, err := os.Stat(dbfPath); err == nil {
		return nil
	}
	if err := os.Rename(base+"dbf", dbfPath); err != nil {
		return eris.Wrapf(err, "output: rename dbf to %s", dbfPath)
	}
	return nil
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

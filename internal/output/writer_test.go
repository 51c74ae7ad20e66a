package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/siimots/sadamad-data/internal/model"
)

func props(id model.PortID, name string) model.PortProperties {
	return model.PortProperties{
		Register:     id,
		Name:         name,
		Owner:        "Sadam OÜ",
		OwnerPhone:   "+372 555 1234",
		OwnerEmail:   "info@sadam.ee",
		Website:      "https://sadam.ee/?a=1&b=2",
		MasterName:   "-",
		MasterPhone:  "-",
		MasterEmail:  "-",
		MaxLength:    "24.0",
		MaxWidth:     "6.5",
		MaxDraft:     "-",
		ModifiedDate: "2023-01-02",
	}
}

func testCollection() model.FeatureCollection {
	return model.NewFeatureCollection([]model.PortFeature{
		model.NewPortFeature(props("12", "Kuivastu sadam"), 23.39306, 58.57417),
		model.NewPortFeature(props("166", "Pärnu jahtklubi"), 24.49722, 58.37861),
	})
}

func TestEncodePretty(t *testing.T) {
	b, err := EncodePretty(testCollection())
	require.NoError(t, err)

	s := string(b)
	assert.True(t, strings.HasPrefix(s, "{\n  \"type\": \"FeatureCollection\""))
	assert.False(t, strings.HasSuffix(s, "\n"))
	assert.Contains(t, s, `"koduleht": "https://sadam.ee/?a=1&b=2"`)

	var back model.FeatureCollection
	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back.Features, 2)
	assert.Equal(t, "Pärnu jahtklubi", back.Features[1].Properties.Name)
}

func TestEncodeCompact(t *testing.T) {
	b, err := EncodeCompact(testCollection())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "\n")
	assert.True(t, strings.HasPrefix(string(b), `{"type":"FeatureCollection","features":[{"type":"Feature"`))
	assert.Contains(t, string(b), `"coordinates":[23.39306,58.57417]`)
}

func TestEncodeCompact_Empty(t *testing.T) {
	b, err := EncodeCompact(model.NewFeatureCollection(nil))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"FeatureCollection","features":[]}`, string(b))
}

func TestEncodeScript(t *testing.T) {
	w, err := NewWriter(Options{})
	require.NoError(t, err)

	b, err := w.EncodeScript(model.NewFeatureCollection(nil))
	require.NoError(t, err)
	assert.Equal(t, `var sadamadgeoJson = {"type":"FeatureCollection","features":[]};`, string(b))
}

func TestEncodeScript_Minified(t *testing.T) {
	w, err := NewWriter(Options{VarName: "ports", MinifyScript: true})
	require.NoError(t, err)

	b, err := w.EncodeScript(testCollection())
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, "ports")
	assert.Contains(t, s, "FeatureCollection")
	assert.Contains(t, s, "Kuivastu sadam")
}

func TestNewWriter_InvalidVarName(t *testing.T) {
	for _, name := range []string{"1abc", "a-b", "var x", "a;alert(1)"} {
		_, err := NewWriter(Options{VarName: name})
		assert.Error(t, err, name)
	}
}

func TestWriter_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public")
	w, err := NewWriter(Options{
		Dir:         dir,
		PrettyFile:  "raw.json",
		CompactFile: "data.json",
		ScriptFile:  "data.js",
		Shapefile:   "sadamad",
		XLSXFile:    "sadamad.xlsx",
	})
	require.NoError(t, err)

	written, err := w.Write(testCollection())
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "raw.json"),
		filepath.Join(dir, "data.json"),
		filepath.Join(dir, "data.js"),
		filepath.Join(dir, "sadamad.shp"),
		filepath.Join(dir, "sadamad.shx"),
		filepath.Join(dir, "sadamad.dbf"),
		filepath.Join(dir, "sadamad.prj"),
		filepath.Join(dir, "sadamad.xlsx"),
	}
	assert.Equal(t, want, written)
	for _, p := range want {
		assert.FileExists(t, p)
	}
	assert.NoFileExists(t, filepath.Join(dir, "sadamaddbf"))

	pretty, err := os.ReadFile(filepath.Join(dir, "raw.json"))
	require.NoError(t, err)
	compact, err := os.ReadFile(filepath.Join(dir, "data.json"))
	require.NoError(t, err)

	var a, b model.FeatureCollection
	require.NoError(t, json.Unmarshal(pretty, &a))
	require.NoError(t, json.Unmarshal(compact, &b))
	assert.Equal(t, a.Features[0].Properties, b.Features[0].Properties)
}

func TestWriter_Write_DisabledForms(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(Options{Dir: dir, CompactFile: "data.json"})
	require.NoError(t, err)

	written, err := w.Write(testCollection())
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "data.json")}, written)
	assert.NoFileExists(t, filepath.Join(dir, "raw.json"))
	assert.NoFileExists(t, filepath.Join(dir, "data.js"))
}

func TestWriteShapefile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "ports")
	fc := testCollection()
	fc.Features = append(fc.Features, model.PortFeature{Properties: props("99", "No geometry")})

	paths, err := WriteShapefile(base, fc)
	require.NoError(t, err)
	for _, p := range paths {
		assert.FileExists(t, p)
	}

	assert.FileExists(t, base+".dbf")
	assert.NoFileExists(t, base+"dbf")

	prj, err := os.ReadFile(base + ".prj")
	require.NoError(t, err)
	assert.Contains(t, string(prj), "WGS_1984")

	reader, err := shp.Open(base + ".shp")
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	assert.Equal(t, shp.ShapeType(shp.POINT), reader.GeometryType)
	require.Len(t, reader.Fields(), len(shpColumns))

	var names []string
	var points []shp.Point
	for reader.Next() {
		_, shape := reader.Shape()
		p, ok := shape.(*shp.Point)
		require.True(t, ok)
		points = append(points, *p)
		names = append(names, strings.TrimRight(reader.Attribute(1), " \x00"))
	}

	require.Len(t, points, 2)
	assert.InDelta(t, 23.39306, points[0].X, 1e-9)
	assert.InDelta(t, 58.57417, points[0].Y, 1e-9)
	assert.Equal(t, []string{"Kuivastu sadam", "Pärnu jahtklubi"}, names)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	// "ä" is two bytes and must not be split.
	assert.Equal(t, "P", truncate("Pärnu", 2))
	assert.Equal(t, "Pä", truncate("Pärnu", 3))
}

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ports.xlsx")
	require.NoError(t, WriteXLSX(path, testCollection()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, SheetName, sheet.Name)
	require.Len(t, sheet.Rows, 3)

	header := sheet.Rows[0]
	require.Len(t, header.Cells, len(XLSXHeader))
	for i, h := range XLSXHeader {
		assert.Equal(t, h, header.Cells[i].String())
	}

	row := sheet.Rows[1]
	assert.Equal(t, "12", row.Cells[0].String())
	assert.Equal(t, "Kuivastu sadam", row.Cells[1].String())
	assert.Equal(t, "2023-01-02", row.Cells[12].String())
}

// Package output serializes a port feature collection to the published file
// forms.
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rotisserie/eris"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/js"
	"go.uber.org/zap"

	"github.com/siimots/sadamad-data/internal/model"
)

const scriptMediaType = "application/javascript"

// DefaultVarName is the global the script form assigns the collection to.
const DefaultVarName = "sadamadgeoJson"

var identPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Options selects the forms to write. An empty file name disables that form.
type Options struct {
	Dir          string
	PrettyFile   string // indented JSON, e.g. raw.json
	CompactFile  string // compact JSON, e.g. data.json
	ScriptFile   string // JS assignment, e.g. data.js
	VarName      string
	MinifyScript bool
	Shapefile    string // base name without extension, e.g. ports
	XLSXFile     string
}

// Writer writes a FeatureCollection in the configured forms.
type Writer struct {
	opts     Options
	minifier *minify.M
}

// NewWriter validates opts and creates a Writer.
func NewWriter(opts Options) (*Writer, error) {
	if opts.VarName == "" {
		opts.VarName = DefaultVarName
	}
	if !identPattern.MatchString(opts.VarName) {
		return nil, eris.Errorf("output: %q is not a valid script variable name", opts.VarName)
	}
	m := minify.New()
	m.AddFunc(scriptMediaType, js.Minify)
	return &Writer{opts: opts, minifier: m}, nil
}

// Write writes every enabled form into the output directory and returns the
// paths written.
func (w *Writer) Write(fc model.FeatureCollection) ([]string, error) {
	log := zap.L().With(zap.String("component", "output.writer"))

	if err := os.MkdirAll(w.opts.Dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "output: create dir %s", w.opts.Dir)
	}

	var written []string
	writeFile := func(name string, encode func(model.FeatureCollection) ([]byte, error)) error {
		if name == "" {
			return nil
		}
		data, err := encode(fc)
		if err != nil {
			return err
		}
		path := filepath.Join(w.opts.Dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return eris.Wrapf(err, "output: write %s", path)
		}
		log.Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(data)))
		written = append(written, path)
		return nil
	}

	if err := writeFile(w.opts.PrettyFile, EncodePretty); err != nil {
		return written, err
	}
	if err := writeFile(w.opts.CompactFile, EncodeCompact); err != nil {
		return written, err
	}
	if err := writeFile(w.opts.ScriptFile, w.EncodeScript); err != nil {
		return written, err
	}

	if w.opts.Shapefile != "" {
		paths, err := WriteShapefile(filepath.Join(w.opts.Dir, w.opts.Shapefile), fc)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}

	if w.opts.XLSXFile != "" {
		path := filepath.Join(w.opts.Dir, w.opts.XLSXFile)
		if err := WriteXLSX(path, fc); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	log.Info("output written",
		zap.Int("features", len(fc.Features)),
		zap.Strings("files", written),
	)
	return written, nil
}

// EncodePretty encodes the collection as JSON indented by two spaces.
func EncodePretty(fc model.FeatureCollection) ([]byte, error) {
	return encode(fc, "  ")
}

// EncodeCompact encodes the collection as compact JSON.
func EncodeCompact(fc model.FeatureCollection) ([]byte, error) {
	return encode(fc, "")
}

// EncodeScript encodes the collection as a JS global assignment for inclusion
// with a script tag.
func (w *Writer) EncodeScript(fc model.FeatureCollection) ([]byte, error) {
	data, err := EncodeCompact(fc)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("var ")
	buf.WriteString(w.opts.VarName)
	buf.WriteString(" = ")
	buf.Write(data)
	buf.WriteString(";")

	if !w.opts.MinifyScript {
		return buf.Bytes(), nil
	}
	out, err := w.minifier.Bytes(scriptMediaType, buf.Bytes())
	if err != nil {
		return nil, eris.Wrap(err, "output: minify script")
	}
	return out, nil
}

func encode(fc model.FeatureCollection, indent string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	if err := enc.Encode(fc); err != nil {
		return nil, eris.Wrap(err, "output: encode feature collection")
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

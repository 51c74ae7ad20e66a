package monitoring

import (
	"errors"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"github.com/rotisserie/eris"
)

// TextfileGatherer gathers the metric families stored in a text exposition
// file, as written by WriteTextfile. The file is read on every gather; a
// missing file gathers nothing.
func TextfileGatherer(path string) prometheus.Gatherer {
	return prometheus.GathererFunc(func() ([]*dto.MetricFamily, error) {
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		if err != nil {
			return nil, eris.Wrapf(err, "monitoring: open textfile %s", path)
		}
		defer f.Close() //nolint:errcheck

		var parser expfmt.TextParser
		families, err := parser.TextToMetricFamilies(f)
		if err != nil {
			return nil, eris.Wrapf(err, "monitoring: parse textfile %s", path)
		}

		names := make([]string, 0, len(families))
		for name := range families {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make([]*dto.MetricFamily, 0, len(names))
		for _, name := range names {
			out = append(out, families[name])
		}
		return out, nil
	})
}

package cli

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// writeMetrics dumps g after a command finishes. "-" writes the text
// format to w; any other value is a node_exporter textfile path.
func writeMetrics(g prometheus.Gatherer, target string, w io.Writer) error {
	if target != "-" {
		return prometheus.WriteToTextfile(target, g)
	}
	families, err := g.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}

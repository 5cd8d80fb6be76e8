package dsv

import "github.com/prometheus/client_golang/prometheus"

const (
	MetricPoolRowsParsed  = "pool_rows_parsed_total"
	MetricPoolBlocksRead  = "pool_blocks_read_total"
	MetricPoolParseErrors = "pool_parse_errors_total"
)

var CounterPoolRowsParsed = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "ingester",
		Name:      MetricPoolRowsParsed,
		Help:      "Rows parsed and handed to the pool builder.",
	},
)

var CounterPoolBlocksRead = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "ingester",
		Name:      MetricPoolBlocksRead,
		Help:      "Line blocks fully parsed.",
	},
)

var CounterPoolParseErrors = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "ingester",
		Name:      MetricPoolParseErrors,
		Help:      "Blocks aborted by a row that failed validation.",
	},
)

func init() {
	prometheus.MustRegister(CounterPoolRowsParsed)
	prometheus.MustRegister(CounterPoolBlocksRead)
	prometheus.MustRegister(CounterPoolParseErrors)
}

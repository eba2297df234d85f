package metrics

import (
	"time"

	"github.com/labstack/echo-contrib/prometheus"
)

// See the init func for proper descriptions and prometheus names!
// In case you add a metric here later, make sure to register it with initMetric
// or it will never be collected.
var (
	metrics struct {
		startTime        *prometheus.Metric
		txBuiltCnt       *prometheus.Metric
		txRelayedCnt     *prometheus.Metric
		rpcFailedCnt     *prometheus.Metric
		programFetchTime *prometheus.Metric
		assetsStoredCnt  *prometheus.Metric
	}

	metricList []*prometheus.Metric
)

// Needed by echo-contrib so echo can register and collect these metrics
func MetricList() []*prometheus.Metric {
	return metricList
}

func init() {
	initMetric(&metrics.startTime, newGauge("startTime", "start_time", "web service start time"))
	initMetric(&metrics.txBuiltCnt, newCounter("txBuiltCnt", "tx_built", "unsigned transactions built for wallets", []string{"kind"}))
	initMetric(&metrics.txRelayedCnt, newCounter("txRelayedCnt", "tx_relayed", "wallet signed transactions relayed to the cluster", []string{"status"}))
	initMetric(&metrics.rpcFailedCnt, newCounter("rpcFailedCnt", "rpc_failed_requests", "handler failures caused by the cluster rpc", []string{"route"}))
	initMetric(&metrics.programFetchTime, newHistogram("programFetchTime", "program_fetch_time", "the time it took to list and decode program accounts, ms", []string{"program"}, []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000}))
	initMetric(&metrics.assetsStoredCnt, newCounter("assetsStoredCnt", "assets_stored", "assets uploaded to storage", []string{"content_type"}))
}

func initMetric(dest **prometheus.Metric, metric *prometheus.Metric) {
	*dest = metric
	metricList = append(metricList, metric)
}

func InitStartTime() {
	if g := gauge(metrics.startTime); g != nil {
		g.Set(float64(time.Now().UTC().Unix()))
	}
}

func IncTxBuiltCnt(kind string) {
	if c := counterVec(metrics.txBuiltCnt); c != nil {
		c.WithLabelValues(kind).Inc()
	}
}

func IncTxRelayedCnt(status string) {
	if c := counterVec(metrics.txRelayedCnt); c != nil {
		c.WithLabelValues(status).Inc()
	}
}

func IncRpcFailedCnt(route string) {
	if c := counterVec(metrics.rpcFailedCnt); c != nil {
		c.WithLabelValues(route).Inc()
	}
}

func IncAssetsStoredCnt(contentType string) {
	if c := counterVec(metrics.assetsStoredCnt); c != nil {
		c.WithLabelValues(contentType).Inc()
	}
}

func ObserveProgramFetchTime(program string, d time.Duration) {
	if h := histogramVec(metrics.programFetchTime); h != nil {
		h.WithLabelValues(program).Observe(float64(d.Milliseconds()))
	}
}

package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
)

// Gauges mirror the latest composed snapshot for the /metrics endpoint.

var cpuUsage = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hwmoni",
	Name:      "cpu_usage_percent",
	Help:      "Mean CPU utilization across all cores.",
})

var memUsage = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hwmoni",
	Name:      "memory_usage_percent",
	Help:      "Used memory as a percentage of total.",
})

var memUsed = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hwmoni",
	Name:      "memory_used_bytes",
	Help:      "Used memory in bytes.",
})

var memTotal = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hwmoni",
	Name:      "memory_total_bytes",
	Help:      "Total memory in bytes.",
})

var uptime = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hwmoni",
	Name:      "uptime_seconds",
	Help:      "System uptime in seconds.",
})

// cpuTemperature is labeled by provenance so dashboards can tell a sensor
// reading from the load-based estimate.
var cpuTemperature = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "hwmoni",
	Name:      "cpu_temperature_celsius",
	Help:      "Resolved CPU temperature in Celsius.",
}, []string{"provenance"})

var loadAvg = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Namespace: "hwmoni",
	Name:      "load_average",
	Help:      "System load average.",
}, []string{"window"})

func record(ext model.ExtendedSnapshot) {
	cpuUsage.Set(ext.CPUUsagePercent)
	memUsage.Set(ext.MemoryUsagePercent)
	memUsed.Set(float64(ext.UsedMemoryBytes))
	memTotal.Set(float64(ext.TotalMemoryBytes))
	uptime.Set(float64(ext.UptimeSeconds))
	if t := ext.CPUTemperature; t != nil {
		cpuTemperature.WithLabelValues(string(t.Provenance)).Set(t.Celsius)
	}
	if la := ext.LoadAverage; la != nil {
		loadAvg.WithLabelValues("1m").Set(la.Load1)
		loadAvg.WithLabelValues("5m").Set(la.Load5)
		loadAvg.WithLabelValues("15m").Set(la.Load15)
	}
}

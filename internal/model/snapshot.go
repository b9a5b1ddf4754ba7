package model

// Provenance says whether a temperature came from a real sensor or was
// synthesized from CPU load. Front ends must not present an estimate as a
// sensor reading.
type Provenance string

const (
	Measured  Provenance = "measured"
	Estimated Provenance = "estimated"
)

// SystemSnapshot is one poll of the dynamic counters. Built fresh every
// cycle; fields are fixed once constructed.
type SystemSnapshot struct {
	CPUUsagePercent    float64 `json:"cpu_usage"`
	MemoryUsagePercent float64 `json:"memory_usage"`
	TotalMemoryBytes   uint64  `json:"total_memory"`
	UsedMemoryBytes    uint64  `json:"used_memory"`
	UptimeSeconds      uint64  `json:"uptime"`
}

// TemperatureReading is a resolved CPU temperature in Celsius. Absence of a
// reading is a nil *TemperatureReading, never a zero value.
type TemperatureReading struct {
	Celsius    float64    `json:"temperature"`
	Provenance Provenance `json:"provenance"`
}

// LoadAverage holds the 1/5/15 minute load averages.
type LoadAverage struct {
	Load1  float64 `json:"load1"`
	Load5  float64 `json:"load5"`
	Load15 float64 `json:"load15"`
}

// HardwareIdentity is the static description of the machine. Constant for
// the process lifetime but read fresh on every request, never cached.
type HardwareIdentity struct {
	CPUModel      string  `json:"cpu_model"`
	CPUCores      int     `json:"cpu_cores"`
	Architecture  string  `json:"cpu_arch"`
	TotalMemoryGB float64 `json:"total_memory_gb"`
	OSName        string  `json:"os_name"`
	OSVersion     string  `json:"os_version"`
	Hostname      string  `json:"hostname"`
}

// ExtendedSnapshot is a SystemSnapshot plus the optional facts sourced
// outside the primary counters. Each pointer is independently nil on
// platforms that lack the underlying facility.
type ExtendedSnapshot struct {
	SystemSnapshot
	CPUTemperature *TemperatureReading `json:"cpu_temperature,omitempty"`
	LoadAverage    *LoadAverage        `json:"load_average,omitempty"`
	BootTime       *string             `json:"boot_time,omitempty"`
}

// MemoryPercent returns used/total as a percentage, 0.0 when total is zero.
func MemoryPercent(used, total uint64) float64 {
	if total == 0 {
		return 0.0
	}
	return float64(used) / float64(total) * 100
}

// BytesToGB converts bytes to gigabytes (1024^3).
func BytesToGB(b uint64) float64 { return float64(b) / (1024 * 1024 * 1024) }

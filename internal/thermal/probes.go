package thermal

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
	"github.com/Dicklesworthstone/hwmoni/internal/source"
)

// Sensor keys that name the CPU package itself. First plausible match wins.
var directKeys = []string{
	"coretemp_packageid0",
	"coretemp_package_id_0",
	"k10temp_tctl",
	"k10temp_tdie",
	"cpu_thermal",
	"soc_thermal",
}

// Tokens that mark a thermal component as CPU-related for the broad scan.
var cpuTokens = []string{"cpu", "processor", "package", "core", "tctl", "tdie", "temp"}

// sensorKeyProbe queries the sensor enumeration for a key that names the CPU
// package directly.
func sensorKeyProbe(backend source.Backend) Probe {
	return Probe{
		Name: "sensor-key",
		Read: func(ctx context.Context) (*model.TemperatureReading, error) {
			temps, err := backend.SensorsTemperatures()
			if err != nil {
				return nil, err
			}
			for _, t := range temps {
				key := strings.ToLower(strings.ReplaceAll(t.SensorKey, " ", ""))
				for _, want := range directKeys {
					if strings.HasPrefix(key, want) && Plausible(t.Temperature) {
						return &model.TemperatureReading{
							Celsius:    t.Temperature,
							Provenance: model.Measured,
						}, nil
					}
				}
			}
			return nil, nil
		},
	}
}

// componentScanProbe scans every reported thermal component, keeps those
// whose label contains a CPU-indicative token, and averages the plausible
// matches when more than one qualifies.
func componentScanProbe(backend source.Backend) Probe {
	return Probe{
		Name: "component-scan",
		Read: func(ctx context.Context) (*model.TemperatureReading, error) {
			temps, err := backend.SensorsTemperatures()
			if err != nil {
				return nil, err
			}
			var sum float64
			var n int
			for _, t := range temps {
				if !Plausible(t.Temperature) || t.Temperature == 0 {
					continue
				}
				key := strings.ToLower(t.SensorKey)
				for _, tok := range cpuTokens {
					if strings.Contains(key, tok) {
						sum += t.Temperature
						n++
						break
					}
				}
			}
			if n == 0 {
				return nil, nil
			}
			return &model.TemperatureReading{
				Celsius:    sum / float64(n),
				Provenance: model.Measured,
			}, nil
		},
	}
}

// platformProbes returns the out-of-band sources for one OS. Selection is a
// runtime capability query, not build tags, so the chain stays testable on
// any host.
func platformProbes(goos string, commands bool) []Probe {
	var probes []Probe
	switch goos {
	case "linux":
		probes = append(probes, sysfsZoneProbe(), hwmonProbe())
		if commands {
			probes = append(probes, execProbe("vcgencmd", parseVcgencmd, "vcgencmd", "measure_temp"))
		}
	case "darwin":
		if commands {
			probes = append(probes,
				execProbe("osx-cpu-temp", parseFirstFloat, "osx-cpu-temp"),
				execProbe("powermetrics", parsePowermetrics,
					"powermetrics", "-n", "1", "-i", "200", "--samplers", "smc"),
			)
		}
	case "windows":
		if commands {
			probes = append(probes, execProbe("wmi-thermal", parseThermalZoneKelvin,
				"powershell", "-NoProfile", "-Command",
				"Get-CimInstance -Namespace root/wmi -ClassName MSAcpi_ThermalZoneTemperature | Select-Object -ExpandProperty CurrentTemperature"))
		}
	}
	return probes
}

// DirectZoneProbe reads the first kernel thermal zone. This is the source
// the extended-snapshot entry point tries before the full chain.
func DirectZoneProbe() Probe {
	return Probe{
		Name: "thermal-zone0",
		Read: func(ctx context.Context) (*model.TemperatureReading, error) {
			return readZoneFile("/sys/class/thermal/thermal_zone0/temp")
		},
	}
}

func sysfsZoneProbe() Probe {
	return Probe{
		Name: "sysfs-thermal",
		Read: func(ctx context.Context) (*model.TemperatureReading, error) {
			paths, _ := filepath.Glob("/sys/class/thermal/thermal_zone*/temp")
			for _, p := range paths {
				if r, err := readZoneFile(p); err == nil && r != nil {
					return r, nil
				}
			}
			return nil, nil
		},
	}
}

func hwmonProbe() Probe {
	return Probe{
		Name: "hwmon",
		Read: func(ctx context.Context) (*model.TemperatureReading, error) {
			paths, _ := filepath.Glob("/sys/class/hwmon/hwmon*/temp1_input")
			for _, p := range paths {
				if r, err := readZoneFile(p); err == nil && r != nil {
					return r, nil
				}
			}
			return nil, nil
		},
	}
}

// readZoneFile parses a kernel temperature file. Zones report millidegrees;
// anything above the plausible ceiling is scaled down.
func readZoneFile(path string) (*model.TemperatureReading, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
	if err != nil {
		return nil, err
	}
	if v > MaxPlausible {
		v /= 1000
	}
	if !Plausible(v) || v == 0 {
		return nil, nil
	}
	return &model.TemperatureReading{Celsius: v, Provenance: model.Measured}, nil
}

const execTimeout = 2 * time.Second

// execProbe shells out to a platform utility and parses its output. Every
// invocation is bounded by execTimeout so a wedged tool cannot stall a poll
// cycle indefinitely.
func execProbe(name string, parse func(string) (float64, bool), cmd string, args ...string) Probe {
	return Probe{
		Name: name,
		Read: func(ctx context.Context) (*model.TemperatureReading, error) {
			cctx, cancel := context.WithTimeout(ctx, execTimeout)
			defer cancel()
			out, err := exec.CommandContext(cctx, cmd, args...).Output()
			if err != nil {
				return nil, err
			}
			v, ok := parse(string(out))
			if !ok {
				return nil, nil
			}
			return &model.TemperatureReading{Celsius: v, Provenance: model.Measured}, nil
		},
	}
}

// parseVcgencmd handles Raspberry Pi firmware output: temp=48.3'C
func parseVcgencmd(out string) (float64, bool) {
	s := strings.TrimSpace(out)
	s = strings.TrimPrefix(s, "temp=")
	s = strings.TrimSuffix(s, "'C")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v, err == nil && Plausible(v)
}

// parsePowermetrics pulls the die temperature line out of powermetrics text
// output: "CPU die temperature: 55.12 C"
func parsePowermetrics(out string) (float64, bool) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "CPU die temperature") {
			continue
		}
		if _, rest, ok := strings.Cut(line, ":"); ok {
			return parseFirstFloat(rest)
		}
	}
	return 0, false
}

// parseThermalZoneKelvin converts WMI thermal zone values, which arrive in
// tenths of Kelvin, one per line.
func parseThermalZoneKelvin(out string) (float64, bool) {
	for _, line := range strings.Split(out, "\n") {
		raw, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
		if err != nil || raw <= 0 {
			continue
		}
		c := raw/10 - 273.15
		if Plausible(c) {
			return c, true
		}
	}
	return 0, false
}

// parseFirstFloat returns the first parseable number in the text, shedding
// unit suffixes like "61.8°C".
func parseFirstFloat(out string) (float64, bool) {
	for _, f := range strings.Fields(out) {
		f = strings.TrimFunc(f, func(r rune) bool {
			return (r < '0' || r > '9') && r != '.' && r != '-'
		})
		if f == "" {
			continue
		}
		if v, err := strconv.ParseFloat(f, 64); err == nil {
			return v, Plausible(v)
		}
	}
	return 0, false
}

package thermal

import (
	"context"
	"errors"
	"testing"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/Dicklesworthstone/hwmoni/internal/model"
)

type fakeSensors struct {
	temps []host.TemperatureStat
	err   error
}

func (f *fakeSensors) SensorsTemperatures() ([]host.TemperatureStat, error) {
	return f.temps, f.err
}
func (f *fakeSensors) CPUTimes(bool) ([]cpu.TimesStat, error)     { return nil, errors.New("n/a") }
func (f *fakeSensors) CPUInfo() ([]cpu.InfoStat, error)           { return nil, errors.New("n/a") }
func (f *fakeSensors) CPUCounts(bool) (int, error)                { return 0, errors.New("n/a") }
func (f *fakeSensors) VirtualMemory() (*mem.VirtualMemoryStat, error) {
	return nil, errors.New("n/a")
}
func (f *fakeSensors) Uptime() (uint64, error)           { return 0, errors.New("n/a") }
func (f *fakeSensors) BootTime() (uint64, error)         { return 0, errors.New("n/a") }
func (f *fakeSensors) LoadAvg() (*load.AvgStat, error)   { return nil, errors.New("n/a") }
func (f *fakeSensors) HostInfo() (*host.InfoStat, error) { return nil, errors.New("n/a") }

func fixed(c float64) Probe {
	return Probe{Name: "fixed", Read: func(context.Context) (*model.TemperatureReading, error) {
		return &model.TemperatureReading{Celsius: c, Provenance: model.Measured}, nil
	}}
}

func failing() Probe {
	return Probe{Name: "failing", Read: func(context.Context) (*model.TemperatureReading, error) {
		return nil, errors.New("unsupported platform")
	}}
}

func empty() Probe {
	return Probe{Name: "empty", Read: func(context.Context) (*model.TemperatureReading, error) {
		return nil, nil
	}}
}

func TestResolveFirstPlausibleWins(t *testing.T) {
	r := NewResolver([]Probe{failing(), empty(), fixed(999), fixed(48.5), fixed(60)})
	got := r.Resolve(context.Background())
	if got == nil {
		t.Fatal("Resolve() = nil, want reading")
	}
	if got.Celsius != 48.5 {
		t.Errorf("Celsius = %v, want 48.5 (first plausible)", got.Celsius)
	}
	if got.Provenance != model.Measured {
		t.Errorf("Provenance = %q, want measured", got.Provenance)
	}
}

func TestResolveExhaustionYieldsNil(t *testing.T) {
	r := NewResolver([]Probe{failing(), empty(), fixed(-200), fixed(1000)})
	if got := r.Resolve(context.Background()); got != nil {
		t.Errorf("Resolve() = %+v, want nil", got)
	}
}

func TestResolveEmptyChain(t *testing.T) {
	r := NewResolver(nil)
	if got := r.Resolve(context.Background()); got != nil {
		t.Errorf("Resolve() = %+v, want nil", got)
	}
}

func TestPrependRunsFirst(t *testing.T) {
	base := NewResolver([]Probe{fixed(70)})
	r := base.Prepend(fixed(40))
	if got := r.Resolve(context.Background()); got == nil || got.Celsius != 40 {
		t.Errorf("Resolve() = %+v, want 40 from prepended probe", got)
	}
	// The base chain is untouched.
	if got := base.Resolve(context.Background()); got == nil || got.Celsius != 70 {
		t.Errorf("base Resolve() = %+v, want 70", got)
	}
}

func TestPlausibleRange(t *testing.T) {
	for _, c := range []float64{-50, 0, 48.5, 150} {
		if !Plausible(c) {
			t.Errorf("Plausible(%v) = false, want true", c)
		}
	}
	for _, c := range []float64{-50.1, 150.1, 1000, -273.15} {
		if Plausible(c) {
			t.Errorf("Plausible(%v) = true, want false", c)
		}
	}
}

func TestEstimateFormula(t *testing.T) {
	if got := EstimateFromUsage(0); got != 35.0 {
		t.Errorf("EstimateFromUsage(0) = %v, want 35.0", got)
	}
	if got := EstimateFromUsage(100); got != 80.0 {
		t.Errorf("EstimateFromUsage(100) = %v, want 80.0", got)
	}
	prev := EstimateFromUsage(0)
	for u := 5.0; u <= 100; u += 5 {
		cur := EstimateFromUsage(u)
		if cur <= prev {
			t.Fatalf("estimate not monotonic at usage %v: %v <= %v", u, cur, prev)
		}
		prev = cur
	}
}

func TestEstimateProbeProvenance(t *testing.T) {
	usage := func(context.Context) (float64, error) { return 50, nil }
	r := NewResolver([]Probe{estimateProbe(usage)})
	got := r.Resolve(context.Background())
	if got == nil {
		t.Fatal("Resolve() = nil, want estimated reading")
	}
	if got.Provenance != model.Estimated {
		t.Errorf("Provenance = %q, want estimated", got.Provenance)
	}
	if got.Celsius != 57.5 {
		t.Errorf("Celsius = %v, want 57.5", got.Celsius)
	}
}

func TestEstimateProbeNoUsage(t *testing.T) {
	usage := func(context.Context) (float64, error) { return 0, errors.New("counters unavailable") }
	r := NewResolver([]Probe{estimateProbe(usage)})
	if got := r.Resolve(context.Background()); got != nil {
		t.Errorf("Resolve() = %+v, want nil when estimation inputs are absent", got)
	}
}

func TestSensorKeyProbe(t *testing.T) {
	b := &fakeSensors{temps: []host.TemperatureStat{
		{SensorKey: "nvme_composite", Temperature: 38},
		{SensorKey: "k10temp_tctl", Temperature: 55.2},
		{SensorKey: "coretemp_package_id_0", Temperature: 61},
	}}
	got, err := sensorKeyProbe(b).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got == nil || got.Celsius != 55.2 {
		t.Errorf("Read() = %+v, want first direct key match 55.2", got)
	}
}

func TestSensorKeyProbeNoMatch(t *testing.T) {
	b := &fakeSensors{temps: []host.TemperatureStat{
		{SensorKey: "nvme_composite", Temperature: 38},
	}}
	got, err := sensorKeyProbe(b).Read(context.Background())
	if err != nil || got != nil {
		t.Errorf("Read() = (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestComponentScanAveragesMatches(t *testing.T) {
	b := &fakeSensors{temps: []host.TemperatureStat{
		{SensorKey: "Core 0", Temperature: 50},
		{SensorKey: "Core 1", Temperature: 60},
		{SensorKey: "gpu_edge", Temperature: 90},
	}}
	got, err := componentScanProbe(b).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got == nil || got.Celsius != 55 {
		t.Errorf("Read() = %+v, want average 55 of CPU-labeled components", got)
	}
}

func TestComponentScanNoCPULabels(t *testing.T) {
	b := &fakeSensors{temps: []host.TemperatureStat{
		{SensorKey: "gpu_edge", Temperature: 90},
		{SensorKey: "nvme_composite", Temperature: 38},
	}}
	got, err := componentScanProbe(b).Read(context.Background())
	if err != nil || got != nil {
		t.Errorf("Read() = (%+v, %v), want (nil, nil)", got, err)
	}
}

func TestComponentScanSkipsImplausible(t *testing.T) {
	b := &fakeSensors{temps: []host.TemperatureStat{
		{SensorKey: "cpu_thermal", Temperature: 48000}, // millidegrees, unscaled garbage
		{SensorKey: "Core 0", Temperature: 50},
	}}
	got, err := componentScanProbe(b).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if got == nil || got.Celsius != 50 {
		t.Errorf("Read() = %+v, want 50 with the garbage value excluded", got)
	}
}

func TestSensorProbesSwallowBackendErrors(t *testing.T) {
	b := &fakeSensors{err: errors.New("no sensors on this platform")}
	r := NewResolver([]Probe{sensorKeyProbe(b), componentScanProbe(b)})
	if got := r.Resolve(context.Background()); got != nil {
		t.Errorf("Resolve() = %+v, want nil", got)
	}
}

func TestDefaultChainOrderingAndEstimateLast(t *testing.T) {
	b := &fakeSensors{err: errors.New("no sensors")}
	usage := func(context.Context) (float64, error) { return 100, nil }
	r := DefaultChain(b, usage, Options{Commands: false, Estimate: true})

	names := r.Names()
	if len(names) < 3 {
		t.Fatalf("chain too short: %v", names)
	}
	if names[0] != "sensor-key" || names[1] != "component-scan" {
		t.Errorf("chain head = %v, want sensor-key then component-scan", names[:2])
	}
	if names[len(names)-1] != "load-estimate" {
		t.Errorf("chain tail = %v, want load-estimate last", names[len(names)-1])
	}
}

func TestDefaultChainWithoutEstimate(t *testing.T) {
	b := &fakeSensors{err: errors.New("no sensors")}
	r := DefaultChain(b, nil, Options{Commands: false, Estimate: false})
	for _, n := range r.Names() {
		if n == "load-estimate" {
			t.Error("estimate probe present despite being disabled")
		}
	}
}

func TestParseVcgencmd(t *testing.T) {
	if v, ok := parseVcgencmd("temp=48.3'C\n"); !ok || v != 48.3 {
		t.Errorf("parseVcgencmd = (%v, %v), want (48.3, true)", v, ok)
	}
	if _, ok := parseVcgencmd("error: command not supported"); ok {
		t.Error("parseVcgencmd accepted garbage")
	}
}

func TestParseThermalZoneKelvin(t *testing.T) {
	// 3232 tenths of Kelvin = 50.05°C
	v, ok := parseThermalZoneKelvin("3232\r\n")
	if !ok || v < 50.0 || v > 50.1 {
		t.Errorf("parseThermalZoneKelvin = (%v, %v), want ~50.05", v, ok)
	}
	if _, ok := parseThermalZoneKelvin("0\n\n"); ok {
		t.Error("parseThermalZoneKelvin accepted zero reading")
	}
}

func TestParseFirstFloat(t *testing.T) {
	if v, ok := parseFirstFloat("61.8°C\n"); !ok || v != 61.8 {
		t.Errorf("parseFirstFloat = (%v, %v), want (61.8, true)", v, ok)
	}
	if _, ok := parseFirstFloat("no sensors present"); ok {
		t.Error("parseFirstFloat accepted text without numbers")
	}
}

func TestParsePowermetrics(t *testing.T) {
	out := "Machine model: Mac14,9\nCPU die temperature: 55.12 C\n"
	if v, ok := parsePowermetrics(out); !ok || v != 55.12 {
		t.Errorf("parsePowermetrics = (%v, %v), want (55.12, true)", v, ok)
	}
}

package benchmark

// TimeUnit is the unit Google Benchmark attaches to every reported time.
type TimeUnit string

const (
	Nanoseconds  TimeUnit = "ns"
	Microseconds TimeUnit = "us"
	Milliseconds TimeUnit = "ms"
	Seconds      TimeUnit = "s"
)

// Factor returns the multiplier converting a value in this unit to seconds.
// Unrecognized units pass through unscaled.
func (u TimeUnit) Factor() float64 {
	switch u {
	case Nanoseconds:
		return 1e-9
	case Microseconds:
		return 1e-6
	case Milliseconds:
		return 1e-3
	case Seconds:
		return 1.0
	default:
		return 1.0
	}
}

// Entry mirrors one element of the "benchmarks" array in the
// --benchmark_format=json output.
type Entry struct {
	Name       string  `json:"name"`
	RunType    string  `json:"run_type,omitempty"`
	Iterations int64   `json:"iterations,omitempty"`
	RealTime   float64 `json:"real_time"`
	CPUTime    float64 `json:"cpu_time,omitempty"`
	TimeUnit   string  `json:"time_unit,omitempty"`
}

// RunContext is the machine metadata block emitted alongside the results.
type RunContext struct {
	Date       string `json:"date,omitempty"`
	HostName   string `json:"host_name,omitempty"`
	Executable string `json:"executable,omitempty"`
	NumCPUs    int    `json:"num_cpus,omitempty"`
	BuildType  string `json:"build_type,omitempty"`
}

// Payload is the top-level JSON document a Google Benchmark binary prints on
// stdout. Unknown keys are ignored during decoding.
type Payload struct {
	Context    RunContext `json:"context"`
	Benchmarks []Entry    `json:"benchmarks"`
}

// Measurement is a single scored-family data point, normalized to seconds.
type Measurement struct {
	Digits  int     `json:"digits"`
	Seconds float64 `json:"seconds"`
}

// Comparison holds the scoring outcome for one measurement. Baseline and
// Ratio are nil when no usable baseline entry existed for the size.
type Comparison struct {
	Digits   int      `json:"digits"`
	Measured float64  `json:"measured"`
	Baseline *float64 `json:"baseline,omitempty"`
	Ratio    *float64 `json:"ratio,omitempty"`
	Score    int      `json:"score"`
}

package benchmark

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// DefaultFamily is the benchmark family scored against the baseline. The
// suite registers further families (add, subtract, divide); those show up in
// the payload but carry no baseline entries.
const DefaultFamily = "BM_IntegerMultiply"

// ErrNoMeasurements indicates the payload contained no entries for the
// requested family.
var ErrNoMeasurements = errors.New("no benchmark results found in payload")

// ParsePayload decodes the JSON document the benchmark binary writes on
// stdout.
func ParsePayload(data []byte) (*Payload, error) {
	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to decode benchmark payload: %w", err)
	}
	return &p, nil
}

// Extract keeps the entries named <family>/<digits> and converts their real
// time to seconds. Entries whose digits segment does not parse as an integer
// are skipped, which also drops aggregate rows like ".../10000_mean". Payload
// order is preserved. A missing time_unit means nanoseconds.
func Extract(p *Payload, family string) []Measurement {
	prefix := family + "/"
	var out []Measurement
	for _, e := range p.Benchmarks {
		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}
		segment := strings.SplitN(e.Name[len(prefix):], "/", 2)[0]
		digits, err := strconv.Atoi(segment)
		if err != nil {
			continue
		}
		unit := TimeUnit(e.TimeUnit)
		if e.TimeUnit == "" {
			unit = Nanoseconds
		}
		out = append(out, Measurement{
			Digits:  digits,
			Seconds: e.RealTime * unit.Factor(),
		})
	}
	return out
}

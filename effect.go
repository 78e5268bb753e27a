package solaraudio

import (
	"fmt"
	"sort"
	"strconv"
)

type (
	// EffectKind is the type of an effect, e.g. "eq" or "reverb". Always in
	// lowercase. "" should be ignored, no invalid kinds should be used.
	EffectKind string

	// EffectRecord identifies one effect instance attached to a track. The
	// id is assigned by the engine and is the sole correlation key between
	// engine state and UI state; it is never reused while the effect
	// exists.
	EffectRecord struct {
		ID         int
		Kind       EffectKind
		Bypassed   bool
		Parameters map[string]float64 `yaml:",flow"`
	}

	// EffectParameter documents one parameter that an effect takes. The
	// tables in EffectTypes are static and never mutated at runtime.
	EffectParameter struct {
		Name        string  // key in the EffectRecord.Parameters map
		Default     float64 // value assumed when the key is absent
		Min         float64 // minimum value, inclusive
		Max         float64 // maximum value, inclusive
		Unit        string  // display suffix, e.g. "Hz" or "dB"
		DisplayFunc EffectParameterDisplayFunc
	}

	EffectParameterDisplayFunc func(float64) (value string, unit string)
)

const (
	EQ         EffectKind = "eq"
	Compressor EffectKind = "compressor"
	Reverb     EffectKind = "reverb"
	Delay      EffectKind = "delay"
	Chorus     EffectKind = "chorus"
	Limiter    EffectKind = "limiter"
)

// EffectTypes documents all the available effect kinds and what parameters
// they take.
var EffectTypes = map[EffectKind]([]EffectParameter){
	EQ: []EffectParameter{
		{Name: "low_freq", Default: 100, Min: 20, Max: 500, Unit: "Hz"},
		{Name: "low_gain", Default: 0, Min: -24, Max: 24, Unit: "dB"},
		{Name: "mid1_freq", Default: 500, Min: 100, Max: 2000, Unit: "Hz"},
		{Name: "mid1_gain", Default: 0, Min: -24, Max: 24, Unit: "dB"},
		{Name: "mid1_q", Default: 1, Min: 0.1, Max: 10, Unit: ""},
		{Name: "mid2_freq", Default: 3000, Min: 1000, Max: 8000, Unit: "Hz"},
		{Name: "mid2_gain", Default: 0, Min: -24, Max: 24, Unit: "dB"},
		{Name: "mid2_q", Default: 1, Min: 0.1, Max: 10, Unit: ""},
		{Name: "high_freq", Default: 10000, Min: 2000, Max: 20000, Unit: "Hz"},
		{Name: "high_gain", Default: 0, Min: -24, Max: 24, Unit: "dB"},
	},
	Compressor: []EffectParameter{
		{Name: "threshold", Default: -20, Min: -60, Max: 0, Unit: "dB"},
		{Name: "ratio", Default: 4, Min: 1, Max: 20, Unit: ":1", DisplayFunc: func(v float64) (string, string) { return formatFloat(v), ": 1" }},
		{Name: "attack", Default: 10, Min: 0.1, Max: 100, Unit: "ms", DisplayFunc: engineeringTimeMs},
		{Name: "release", Default: 100, Min: 10, Max: 1000, Unit: "ms", DisplayFunc: engineeringTimeMs},
		{Name: "makeup", Default: 0, Min: 0, Max: 24, Unit: "dB"},
	},
	Reverb: []EffectParameter{
		{Name: "room_size", Default: 0.5, Min: 0, Max: 1, Unit: "", DisplayFunc: percentDispFunc},
		{Name: "damping", Default: 0.5, Min: 0, Max: 1, Unit: "", DisplayFunc: percentDispFunc},
		{Name: "wet_dry", Default: 0.3, Min: 0, Max: 1, Unit: "", DisplayFunc: percentDispFunc},
	},
	Delay: []EffectParameter{
		{Name: "time", Default: 250, Min: 1, Max: 2000, Unit: "ms", DisplayFunc: engineeringTimeMs},
		{Name: "feedback", Default: 0.4, Min: 0, Max: 0.95, Unit: "", DisplayFunc: percentDispFunc},
		{Name: "wet_dry", Default: 0.3, Min: 0, Max: 1, Unit: "", DisplayFunc: percentDispFunc},
	},
	Chorus: []EffectParameter{
		{Name: "rate", Default: 1.5, Min: 0.1, Max: 10, Unit: "Hz"},
		{Name: "depth", Default: 0.5, Min: 0, Max: 1, Unit: "", DisplayFunc: percentDispFunc},
		{Name: "wet_dry", Default: 0.5, Min: 0, Max: 1, Unit: "", DisplayFunc: percentDispFunc},
	},
	Limiter: []EffectParameter{
		{Name: "threshold", Default: -1, Min: -24, Max: 0, Unit: "dB"},
		{Name: "release", Default: 50, Min: 1, Max: 500, Unit: "ms", DisplayFunc: engineeringTimeMs},
	},
}

// EffectKinds is a list of all the effect kind names, sorted alphabetically.
var EffectKinds []EffectKind

func init() {
	EffectKinds = make([]EffectKind, 0, len(EffectTypes))
	for k := range EffectTypes {
		EffectKinds = append(EffectKinds, k)
	}
	sort.Slice(EffectKinds, func(i, j int) bool { return EffectKinds[i] < EffectKinds[j] })
}

func percentDispFunc(v float64) (string, string) {
	return strconv.FormatFloat(v*100, 'f', 0, 64), "%"
}

func engineeringTimeMs(ms float64) (string, string) {
	sec := ms / 1000
	if sec < 1e-3 {
		return fmt.Sprintf("%.2f", sec*1e6), "us"
	} else if sec < 1 {
		return fmt.Sprintf("%.2f", sec*1e3), "ms"
	}
	return fmt.Sprintf("%.2f", sec), "s"
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// FindEffectParameter returns the schema entry for the named parameter of
// the given kind, or ok=false if the kind has no such parameter.
func FindEffectParameter(kind EffectKind, name string) (EffectParameter, bool) {
	for _, p := range EffectTypes[kind] {
		if p.Name == name {
			return p, true
		}
	}
	return EffectParameter{}, false
}

// Clamp limits the value to the [Min,Max] range of the parameter. The UI
// clamps only for its own rendering; raw values are still forwarded to the
// engine, which clamps on its own.
func (p EffectParameter) Clamp(value float64) float64 {
	if value < p.Min {
		return p.Min
	}
	if value > p.Max {
		return p.Max
	}
	return value
}

// ParamOrDefault returns the current value of the named parameter, falling
// back to the schema default when the key is absent. The record itself is
// not mutated; defaults are applied at render time only.
func (e *EffectRecord) ParamOrDefault(name string) float64 {
	if v, ok := e.Parameters[name]; ok {
		return v
	}
	if p, ok := FindEffectParameter(e.Kind, name); ok {
		return p.Default
	}
	return 0
}

// Copy makes a deep copy of an EffectRecord.
func (e *EffectRecord) Copy() EffectRecord {
	parameters := make(map[string]float64, len(e.Parameters))
	for k, v := range e.Parameters {
		parameters[k] = v
	}
	return EffectRecord{ID: e.ID, Kind: e.Kind, Bypassed: e.Bypassed, Parameters: parameters}
}

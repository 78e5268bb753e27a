// Package engine implements the Solar Audio signal processing engine: the
// tracks, their effect chains and the simple polyphonic track synthesizers.
// The engine exposes its state to UI layers exclusively through the textual
// descriptor surface of the solaraudio.Engine interface and is the single
// source of truth for all of it.
package engine

import (
	"fmt"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

const sampleRate = 44100

type (
	// Effect processes one stereo buffer in place. Implementations are not
	// thread safe; the engine serializes all access.
	Effect interface {
		// Kind returns the kind of this effect, e.g. solaraudio.Reverb.
		Kind() solaraudio.EffectKind

		// Snapshot returns the current state as an EffectRecord with all
		// schema parameters present. The id field is filled by the engine.
		Snapshot() solaraudio.EffectRecord

		// SetParameter sets one parameter by schema name. Out-of-range
		// values are clamped, not rejected; unknown names are an error.
		SetParameter(name string, value float64) error

		// Process runs the effect over interleaved stereo samples.
		Process(buffer solaraudio.AudioBuffer)

		setBypassed(b bool)
		bypassed() bool
	}

	// bypass is embedded by all effects to provide the bypass toggle.
	bypass struct {
		off bool
	}
)

func (b *bypass) setBypassed(v bool) { b.off = v }
func (b *bypass) bypassed() bool     { return b.off }

// newEffect constructs an effect of the given kind with schema defaults, or
// nil if the kind is unknown.
func newEffect(kind solaraudio.EffectKind) Effect {
	switch kind {
	case solaraudio.EQ:
		return newParametricEQ()
	case solaraudio.Compressor:
		return newCompressor()
	case solaraudio.Reverb:
		return newReverb()
	case solaraudio.Delay:
		return newDelay()
	case solaraudio.Chorus:
		return newChorus()
	case solaraudio.Limiter:
		return newLimiter()
	}
	return nil
}

// snapshot builds an EffectRecord for an effect whose parameters are listed
// in vals, keyed by schema name. Every schema parameter of the kind is
// expected to be present.
func snapshot(kind solaraudio.EffectKind, bypassed bool, vals map[string]float64) solaraudio.EffectRecord {
	params := make(map[string]float64, len(vals))
	for _, p := range solaraudio.EffectTypes[kind] {
		if v, ok := vals[p.Name]; ok {
			params[p.Name] = v
		}
	}
	return solaraudio.EffectRecord{Kind: kind, Bypassed: bypassed, Parameters: params}
}

// clampParam clamps value to the schema range of the named parameter.
func clampParam(kind solaraudio.EffectKind, name string, value float64) (float64, error) {
	p, ok := solaraudio.FindEffectParameter(kind, name)
	if !ok {
		return 0, fmt.Errorf("unknown %v parameter: %v", kind, name)
	}
	return p.Clamp(value), nil
}

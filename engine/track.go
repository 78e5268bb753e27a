package engine

import (
	"math"

	"github.com/viterin/vek/vek32"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

// track is the runtime state of one mixer track: its sound source, the
// effect chain (as effect ids owned by the engine) and the mixer controls.
type track struct {
	id        int
	name      string
	trackType string
	volumeDB  float64
	pan       float64 // -1 .. 1
	mute      bool
	solo      bool
	armed     bool
	fxChain   []int
	synth     trackSynth
	scratch   solaraudio.AudioBuffer
}

func newTrack(data solaraudio.ProjectTrack) *track {
	return &track{
		id:        data.ID,
		name:      data.Name,
		trackType: data.Type,
		volumeDB:  data.VolumeDB,
		pan:       data.Pan,
		mute:      data.Mute,
		solo:      data.Solo,
		armed:     data.Armed,
		synth:     trackSynth{osc: oscTypeFromString(data.Osc), envelope: defaultEnvelope()},
	}
}

// process renders the track through its effect chain and mixes the result
// into out. soloActive tells whether any track in the engine is soloed, in
// which case non-solo tracks stay silent.
func (t *track) process(e *Engine, out solaraudio.AudioBuffer, soloActive bool) {
	if len(t.scratch) < len(out) {
		t.scratch = make(solaraudio.AudioBuffer, len(out))
	}
	scratch := t.scratch[:len(out)]
	vek32.Zeros_Into(scratch, len(scratch))
	t.synth.render(scratch)
	for _, id := range t.fxChain {
		if effect, ok := e.effects[id]; ok && !effect.bypassed() {
			effect.Process(scratch)
		}
	}
	if t.mute || (soloActive && !t.solo) {
		return
	}
	vek32.MulNumber_Inplace(scratch, float32(dbToGain(t.volumeDB)))
	// equal power panning
	angle := (t.pan + 1) * math.Pi / 4
	gainL, gainR := float32(math.Cos(angle)), float32(math.Sin(angle))
	for i := 0; i+1 < len(out); i += 2 {
		out[i] += scratch[i] * gainL
		out[i+1] += scratch[i+1] * gainR
	}
}

func (t *track) data(e *Engine) solaraudio.ProjectTrack {
	chain := make([]solaraudio.EffectRecord, 0, len(t.fxChain))
	for _, id := range t.fxChain {
		if effect, ok := e.effects[id]; ok {
			record := effect.Snapshot()
			record.ID = id
			chain = append(chain, record)
		}
	}
	return solaraudio.ProjectTrack{
		ID:       t.id,
		Name:     t.name,
		Type:     t.trackType,
		Osc:      t.synth.osc.String(),
		VolumeDB: t.volumeDB,
		Pan:      t.pan,
		Mute:     t.mute,
		Solo:     t.solo,
		Armed:    t.armed,
		FXChain:  chain,
	}
}

package engine

import (
	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

// Schroeder style reverberator: four parallel feedback combs with damping
// into two serial allpasses, per channel. The comb tunings are the classic
// Freeverb ones, with a small offset on the right channel to decorrelate
// the stereo image.

var combTunings = [4]int{1116, 1188, 1277, 1356}
var allpassTunings = [2]int{556, 441}

const stereoSpread = 23

type (
	reverb struct {
		bypass
		roomSize float64
		damping  float64
		wetDry   float64

		feedback float64
		combs    [2][4]comb
		allpass  [2][2]allpass
	}

	comb struct {
		buffer []float32
		index  int
		damp   float32
		store  float32
	}

	allpass struct {
		buffer []float32
		index  int
	}
)

func newReverb() *reverb {
	r := &reverb{}
	for ch := 0; ch < 2; ch++ {
		for i, n := range combTunings {
			r.combs[ch][i].buffer = make([]float32, n+ch*stereoSpread)
		}
		for i, n := range allpassTunings {
			r.allpass[ch][i].buffer = make([]float32, n+ch*stereoSpread)
		}
	}
	for _, p := range solaraudio.EffectTypes[solaraudio.Reverb] {
		r.SetParameter(p.Name, p.Default)
	}
	return r
}

func (r *reverb) Kind() solaraudio.EffectKind { return solaraudio.Reverb }

func (r *reverb) Snapshot() solaraudio.EffectRecord {
	return snapshot(solaraudio.Reverb, r.off, map[string]float64{
		"room_size": r.roomSize, "damping": r.damping, "wet_dry": r.wetDry,
	})
}

func (r *reverb) SetParameter(name string, value float64) error {
	v, err := clampParam(solaraudio.Reverb, name, value)
	if err != nil {
		return err
	}
	switch name {
	case "room_size":
		r.roomSize = v
	case "damping":
		r.damping = v
	case "wet_dry":
		r.wetDry = v
	}
	r.feedback = 0.7 + 0.28*r.roomSize
	for ch := 0; ch < 2; ch++ {
		for i := range r.combs[ch] {
			r.combs[ch][i].damp = float32(r.damping * 0.4)
		}
	}
	return nil
}

func (r *reverb) Process(buffer solaraudio.AudioBuffer) {
	if r.off {
		return
	}
	wet := float32(r.wetDry)
	dry := 1 - wet
	feedback := float32(r.feedback)
	for i := 0; i+1 < len(buffer); i += 2 {
		for ch := 0; ch < 2; ch++ {
			in := buffer[i+ch]
			var out float32
			for c := range r.combs[ch] {
				out += r.combs[ch][c].process(in, feedback)
			}
			for a := range r.allpass[ch] {
				out = r.allpass[ch][a].process(out)
			}
			buffer[i+ch] = dry*in + wet*out
		}
	}
}

func (c *comb) process(in, feedback float32) float32 {
	out := c.buffer[c.index]
	c.store = out*(1-c.damp) + c.store*c.damp
	c.buffer[c.index] = in + c.store*feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}
	return out
}

func (a *allpass) process(in float32) float32 {
	buffered := a.buffer[a.index]
	out := buffered - in
	a.buffer[a.index] = in + buffered*0.5
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}
	return out
}

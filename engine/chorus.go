package engine

import (
	"math"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

// chorus modulates a short delay line with a sine LFO. The two channels use
// opposite LFO phases for stereo width. Fractional delays are linearly
// interpolated.
type chorus struct {
	bypass
	rateHz float64
	depth  float64
	wetDry float64

	buffer [2][]float32
	index  int
	phase  float64
}

const (
	chorusBaseMs  = 15.0
	chorusDepthMs = 10.0
)

func newChorus() *chorus {
	c := &chorus{}
	maxDelayMs := float64(chorusBaseMs + chorusDepthMs + 1)
	n := int(maxDelayMs * sampleRate / 1000)
	c.buffer[0] = make([]float32, n)
	c.buffer[1] = make([]float32, n)
	for _, p := range solaraudio.EffectTypes[solaraudio.Chorus] {
		c.SetParameter(p.Name, p.Default)
	}
	return c
}

func (c *chorus) Kind() solaraudio.EffectKind { return solaraudio.Chorus }

func (c *chorus) Snapshot() solaraudio.EffectRecord {
	return snapshot(solaraudio.Chorus, c.off, map[string]float64{
		"rate": c.rateHz, "depth": c.depth, "wet_dry": c.wetDry,
	})
}

func (c *chorus) SetParameter(name string, value float64) error {
	v, err := clampParam(solaraudio.Chorus, name, value)
	if err != nil {
		return err
	}
	switch name {
	case "rate":
		c.rateHz = v
	case "depth":
		c.depth = v
	case "wet_dry":
		c.wetDry = v
	}
	return nil
}

func (c *chorus) Process(buffer solaraudio.AudioBuffer) {
	if c.off {
		return
	}
	wet := float32(c.wetDry)
	dry := 1 - wet
	phaseInc := 2 * math.Pi * c.rateHz / sampleRate
	for i := 0; i+1 < len(buffer); i += 2 {
		for ch := 0; ch < 2; ch++ {
			lfo := math.Sin(c.phase)
			if ch == 1 {
				lfo = -lfo
			}
			delayMs := chorusBaseMs + c.depth*chorusDepthMs*(lfo+1)/2
			delaySamples := delayMs * sampleRate / 1000
			pos := float64(c.index) - delaySamples
			for pos < 0 {
				pos += float64(len(c.buffer[ch]))
			}
			j := int(pos)
			frac := float32(pos - float64(j))
			k := j + 1
			if k >= len(c.buffer[ch]) {
				k = 0
			}
			out := c.buffer[ch][j]*(1-frac) + c.buffer[ch][k]*frac
			in := buffer[i+ch]
			c.buffer[ch][c.index] = in
			buffer[i+ch] = dry*in + wet*out
		}
		c.phase += phaseInc
		if c.phase > 2*math.Pi {
			c.phase -= 2 * math.Pi
		}
		c.index++
		if c.index >= len(c.buffer[0]) {
			c.index = 0
		}
	}
}

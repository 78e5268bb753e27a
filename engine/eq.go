package engine

import (
	"math"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

type (
	// parametricEQ is a four band equalizer: low shelf, two peaking mids
	// and a high shelf, each a biquad per channel.
	parametricEQ struct {
		bypass
		lowFreq, lowGain   float64
		mid1Freq, mid1Gain float64
		mid1Q              float64
		mid2Freq, mid2Gain float64
		mid2Q              float64
		highFreq, highGain float64
		bands              [4]biquad
	}

	// biquad is a transposed direct form II filter with stereo state.
	biquad struct {
		b0, b1, b2, a1, a2 float64
		z1, z2             [2]float64
	}
)

func newParametricEQ() *parametricEQ {
	e := &parametricEQ{}
	for _, p := range solaraudio.EffectTypes[solaraudio.EQ] {
		e.SetParameter(p.Name, p.Default)
	}
	return e
}

func (e *parametricEQ) Kind() solaraudio.EffectKind { return solaraudio.EQ }

func (e *parametricEQ) Snapshot() solaraudio.EffectRecord {
	return snapshot(solaraudio.EQ, e.off, map[string]float64{
		"low_freq": e.lowFreq, "low_gain": e.lowGain,
		"mid1_freq": e.mid1Freq, "mid1_gain": e.mid1Gain, "mid1_q": e.mid1Q,
		"mid2_freq": e.mid2Freq, "mid2_gain": e.mid2Gain, "mid2_q": e.mid2Q,
		"high_freq": e.highFreq, "high_gain": e.highGain,
	})
}

func (e *parametricEQ) SetParameter(name string, value float64) error {
	v, err := clampParam(solaraudio.EQ, name, value)
	if err != nil {
		return err
	}
	switch name {
	case "low_freq":
		e.lowFreq = v
	case "low_gain":
		e.lowGain = v
	case "mid1_freq":
		e.mid1Freq = v
	case "mid1_gain":
		e.mid1Gain = v
	case "mid1_q":
		e.mid1Q = v
	case "mid2_freq":
		e.mid2Freq = v
	case "mid2_gain":
		e.mid2Gain = v
	case "mid2_q":
		e.mid2Q = v
	case "high_freq":
		e.highFreq = v
	case "high_gain":
		e.highGain = v
	}
	e.updateCoefficients()
	return nil
}

func (e *parametricEQ) updateCoefficients() {
	e.bands[0].shelf(e.lowFreq, e.lowGain, false)
	e.bands[1].peaking(e.mid1Freq, e.mid1Gain, e.mid1Q)
	e.bands[2].peaking(e.mid2Freq, e.mid2Gain, e.mid2Q)
	e.bands[3].shelf(e.highFreq, e.highGain, true)
}

func (e *parametricEQ) Process(buffer solaraudio.AudioBuffer) {
	if e.off {
		return
	}
	for i := 0; i+1 < len(buffer); i += 2 {
		l, r := float64(buffer[i]), float64(buffer[i+1])
		for b := range e.bands {
			l = e.bands[b].process(0, l)
			r = e.bands[b].process(1, r)
		}
		buffer[i], buffer[i+1] = float32(l), float32(r)
	}
}

// RBJ audio EQ cookbook coefficients.

func (f *biquad) peaking(freq, gainDB, q float64) {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freq / sampleRate
	alpha := math.Sin(w0) / (2 * q)
	b0 := 1 + alpha*a
	b1 := -2 * math.Cos(w0)
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := b1
	a2 := 1 - alpha/a
	f.set(b0, b1, b2, a0, a1, a2)
}

func (f *biquad) shelf(freq, gainDB float64, high bool) {
	a := math.Pow(10, gainDB/40)
	w0 := 2 * math.Pi * freq / sampleRate
	cosw0 := math.Cos(w0)
	// S = 1 shelf slope
	alpha := math.Sin(w0) / 2 * math.Sqrt2
	sign := 1.0
	if high {
		sign = -1.0
	}
	b0 := a * ((a + 1) - sign*(a-1)*cosw0 + 2*math.Sqrt(a)*alpha)
	b1 := sign * 2 * a * ((a - 1) - sign*(a+1)*cosw0)
	b2 := a * ((a + 1) - sign*(a-1)*cosw0 - 2*math.Sqrt(a)*alpha)
	a0 := (a + 1) + sign*(a-1)*cosw0 + 2*math.Sqrt(a)*alpha
	a1 := -sign * 2 * ((a - 1) + sign*(a+1)*cosw0)
	a2 := (a + 1) + sign*(a-1)*cosw0 - 2*math.Sqrt(a)*alpha
	f.set(b0, b1, b2, a0, a1, a2)
}

func (f *biquad) set(b0, b1, b2, a0, a1, a2 float64) {
	f.b0 = b0 / a0
	f.b1 = b1 / a0
	f.b2 = b2 / a0
	f.a1 = a1 / a0
	f.a2 = a2 / a0
}

func (f *biquad) process(channel int, x float64) float64 {
	y := f.b0*x + f.z1[channel]
	f.z1[channel] = f.b1*x - f.a1*y + f.z2[channel]
	f.z2[channel] = f.b2*x - f.a2*y
	return y
}

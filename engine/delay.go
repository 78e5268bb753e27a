package engine

import (
	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

const maxDelayMs = 2000

// delay is a feedback delay line with a wet/dry mix. The delay time is
// quantized to whole samples; no interpolation, as time changes are rare
// (one per user gesture) and a click on change is acceptable.
type delay struct {
	bypass
	timeMs   float64
	feedback float64
	wetDry   float64

	samples int
	buffer  [2][]float32
	index   int
}

func newDelay() *delay {
	d := &delay{}
	n := maxDelayMs * sampleRate / 1000
	d.buffer[0] = make([]float32, n)
	d.buffer[1] = make([]float32, n)
	for _, p := range solaraudio.EffectTypes[solaraudio.Delay] {
		d.SetParameter(p.Name, p.Default)
	}
	return d
}

func (d *delay) Kind() solaraudio.EffectKind { return solaraudio.Delay }

func (d *delay) Snapshot() solaraudio.EffectRecord {
	return snapshot(solaraudio.Delay, d.off, map[string]float64{
		"time": d.timeMs, "feedback": d.feedback, "wet_dry": d.wetDry,
	})
}

func (d *delay) SetParameter(name string, value float64) error {
	v, err := clampParam(solaraudio.Delay, name, value)
	if err != nil {
		return err
	}
	switch name {
	case "time":
		d.timeMs = v
	case "feedback":
		d.feedback = v
	case "wet_dry":
		d.wetDry = v
	}
	d.samples = int(d.timeMs * sampleRate / 1000)
	if d.samples < 1 {
		d.samples = 1
	}
	if d.samples > len(d.buffer[0]) {
		d.samples = len(d.buffer[0])
	}
	return nil
}

func (d *delay) Process(buffer solaraudio.AudioBuffer) {
	if d.off {
		return
	}
	wet := float32(d.wetDry)
	dry := 1 - wet
	feedback := float32(d.feedback)
	for i := 0; i+1 < len(buffer); i += 2 {
		readIndex := d.index - d.samples
		if readIndex < 0 {
			readIndex += len(d.buffer[0])
		}
		for ch := 0; ch < 2; ch++ {
			in := buffer[i+ch]
			out := d.buffer[ch][readIndex]
			d.buffer[ch][d.index] = in + out*feedback
			buffer[i+ch] = dry*in + wet*out
		}
		d.index++
		if d.index >= len(d.buffer[0]) {
			d.index = 0
		}
	}
}

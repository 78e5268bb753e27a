package engine

import (
	"math"
)

// Each track carries a small polyphonic synthesizer as its sound source, so
// that MIDI input and project rendering have something to run through the
// effect chains.

const numVoices = 8

type (
	oscillatorType int

	trackSynth struct {
		osc      oscillatorType
		envelope envelopeParams
		voices   [numVoices]voice
		next     int
	}

	envelopeParams struct {
		attack  float64 // seconds
		decay   float64
		sustain float64 // level 0..1
		release float64
	}

	voice struct {
		active   bool
		note     byte
		velocity float64
		phase    float64
		env      envelope
	}

	envelope struct {
		stage envStage
		level float64
		time  float64 // seconds spent in the current stage
		from  float64 // level at the start of the release stage
	}

	envStage int
)

const (
	sineOsc oscillatorType = iota
	sawOsc
	squareOsc
	triangleOsc
)

const (
	envAttack envStage = iota
	envDecay
	envSustain
	envRelease
	envIdle
)

func defaultEnvelope() envelopeParams {
	return envelopeParams{attack: 0.01, decay: 0.1, sustain: 0.7, release: 0.2}
}

func (s *trackSynth) noteOn(note, velocity byte) {
	// voices cycle; stealing the oldest
	v := &s.voices[s.next]
	s.next = (s.next + 1) % numVoices
	v.active = true
	v.note = note
	v.velocity = float64(velocity) / 127
	v.phase = 0
	v.env = envelope{stage: envAttack}
}

func (s *trackSynth) noteOff(note byte) {
	for i := range s.voices {
		v := &s.voices[i]
		if v.active && v.note == note && v.env.stage != envRelease {
			v.env.stage = envRelease
			v.env.time = 0
			v.env.from = v.env.level
		}
	}
}

func (s *trackSynth) allNotesOff() {
	for i := range s.voices {
		s.voices[i].active = false
	}
}

// render adds the synth output into the interleaved stereo buffer.
func (s *trackSynth) render(buffer []float32) {
	for i := range s.voices {
		v := &s.voices[i]
		if !v.active {
			continue
		}
		freq := noteFreq(v.note)
		phaseInc := freq / sampleRate
		for j := 0; j+1 < len(buffer); j += 2 {
			level := v.env.advance(&s.envelope)
			if v.env.stage == envIdle {
				v.active = false
				break
			}
			sample := float32(s.osc.sample(v.phase) * level * v.velocity)
			buffer[j] += sample
			buffer[j+1] += sample
			v.phase += phaseInc
			if v.phase >= 1 {
				v.phase -= 1
			}
		}
	}
}

func (o oscillatorType) sample(phase float64) float64 {
	switch o {
	case sawOsc:
		return 2*phase - 1
	case squareOsc:
		if phase < 0.5 {
			return 1
		}
		return -1
	case triangleOsc:
		if phase < 0.5 {
			return 4*phase - 1
		}
		return 3 - 4*phase
	}
	return math.Sin(2 * math.Pi * phase)
}

// advance steps the envelope by one sample and returns the current level.
func (e *envelope) advance(p *envelopeParams) float64 {
	const dt = 1.0 / sampleRate
	e.time += dt
	switch e.stage {
	case envAttack:
		if p.attack <= 0 || e.time >= p.attack {
			e.stage = envDecay
			e.time = 0
			e.level = 1
		} else {
			e.level = e.time / p.attack
		}
	case envDecay:
		if p.decay <= 0 || e.time >= p.decay {
			e.stage = envSustain
			e.level = p.sustain
		} else {
			e.level = 1 - (1-p.sustain)*e.time/p.decay
		}
	case envSustain:
		e.level = p.sustain
	case envRelease:
		if p.release <= 0 || e.time >= p.release {
			e.stage = envIdle
			e.level = 0
		} else {
			e.level = e.from * (1 - e.time/p.release)
		}
	}
	return e.level
}

func noteFreq(note byte) float64 {
	return 440 * math.Pow(2, (float64(note)-69)/12)
}

func (o oscillatorType) String() string {
	switch o {
	case sawOsc:
		return "saw"
	case squareOsc:
		return "square"
	case triangleOsc:
		return "triangle"
	}
	return "sine"
}

func oscTypeFromString(s string) oscillatorType {
	switch s {
	case "saw":
		return sawOsc
	case "square":
		return squareOsc
	case "triangle":
		return triangleOsc
	}
	return sineOsc
}

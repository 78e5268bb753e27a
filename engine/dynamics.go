package engine

import (
	"math"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

type (
	// compressor is a feed-forward peak compressor with a first order
	// envelope follower and log-domain gain computation.
	compressor struct {
		bypass
		thresholdDB float64
		ratio       float64
		attackMs    float64
		releaseMs   float64
		makeupDB    float64

		attackCoef  float64
		releaseCoef float64
		makeupGain  float64
		envelope    float64
	}

	// limiter is a hard limiter: instant attack, release-timed recovery.
	limiter struct {
		bypass
		thresholdDB float64
		releaseMs   float64

		threshold   float64
		releaseCoef float64
		gain        float64
	}
)

func newCompressor() *compressor {
	c := &compressor{}
	for _, p := range solaraudio.EffectTypes[solaraudio.Compressor] {
		c.SetParameter(p.Name, p.Default)
	}
	return c
}

func (c *compressor) Kind() solaraudio.EffectKind { return solaraudio.Compressor }

func (c *compressor) Snapshot() solaraudio.EffectRecord {
	return snapshot(solaraudio.Compressor, c.off, map[string]float64{
		"threshold": c.thresholdDB, "ratio": c.ratio, "attack": c.attackMs,
		"release": c.releaseMs, "makeup": c.makeupDB,
	})
}

func (c *compressor) SetParameter(name string, value float64) error {
	v, err := clampParam(solaraudio.Compressor, name, value)
	if err != nil {
		return err
	}
	switch name {
	case "threshold":
		c.thresholdDB = v
	case "ratio":
		c.ratio = v
	case "attack":
		c.attackMs = v
	case "release":
		c.releaseMs = v
	case "makeup":
		c.makeupDB = v
	}
	c.updateCoefficients()
	return nil
}

func (c *compressor) updateCoefficients() {
	c.attackCoef = timeCoef(c.attackMs)
	c.releaseCoef = timeCoef(c.releaseMs)
	c.makeupGain = dbToGain(c.makeupDB)
}

func (c *compressor) Process(buffer solaraudio.AudioBuffer) {
	if c.off {
		return
	}
	for i := 0; i+1 < len(buffer); i += 2 {
		peak := math.Max(math.Abs(float64(buffer[i])), math.Abs(float64(buffer[i+1])))
		if peak > c.envelope {
			c.envelope = c.attackCoef*(c.envelope-peak) + peak
		} else {
			c.envelope = c.releaseCoef*(c.envelope-peak) + peak
		}
		gain := c.makeupGain
		if levelDB := gainToDB(c.envelope); levelDB > c.thresholdDB {
			overDB := levelDB - c.thresholdDB
			reducedDB := overDB/c.ratio - overDB
			gain *= dbToGain(reducedDB)
		}
		buffer[i] *= float32(gain)
		buffer[i+1] *= float32(gain)
	}
}

func newLimiter() *limiter {
	l := &limiter{gain: 1}
	for _, p := range solaraudio.EffectTypes[solaraudio.Limiter] {
		l.SetParameter(p.Name, p.Default)
	}
	return l
}

func (l *limiter) Kind() solaraudio.EffectKind { return solaraudio.Limiter }

func (l *limiter) Snapshot() solaraudio.EffectRecord {
	return snapshot(solaraudio.Limiter, l.off, map[string]float64{
		"threshold": l.thresholdDB, "release": l.releaseMs,
	})
}

func (l *limiter) SetParameter(name string, value float64) error {
	v, err := clampParam(solaraudio.Limiter, name, value)
	if err != nil {
		return err
	}
	switch name {
	case "threshold":
		l.thresholdDB = v
	case "release":
		l.releaseMs = v
	}
	l.threshold = dbToGain(l.thresholdDB)
	l.releaseCoef = timeCoef(l.releaseMs)
	return nil
}

func (l *limiter) Process(buffer solaraudio.AudioBuffer) {
	if l.off {
		return
	}
	for i := 0; i+1 < len(buffer); i += 2 {
		peak := math.Max(math.Abs(float64(buffer[i])), math.Abs(float64(buffer[i+1])))
		if peak*l.gain > l.threshold {
			l.gain = l.threshold / peak // clamp instantly, never overshoot
		} else {
			l.gain = l.releaseCoef*(l.gain-1) + 1
		}
		buffer[i] *= float32(l.gain)
		buffer[i+1] *= float32(l.gain)
	}
}

// timeCoef converts a time constant in milliseconds to a one-pole smoothing
// coefficient at the engine sample rate.
func timeCoef(ms float64) float64 {
	if ms <= 0 {
		return 0
	}
	return math.Exp(-1 / (ms / 1000 * sampleRate))
}

func dbToGain(db float64) float64 {
	return math.Pow(10, db/20)
}

func gainToDB(gain float64) float64 {
	if gain <= 0 {
		return -math.MaxFloat64
	}
	return 20 * math.Log10(gain)
}

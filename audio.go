package solaraudio

import (
	"bytes"
	"io"
	"math"
)

type (
	// AudioBuffer is stereo interleaved audio (L, R, L, R, ...), 44100 Hz.
	AudioBuffer []float32

	AudioSink interface {
		WriteAudio(buffer AudioBuffer) error
		Close() error
	}

	AudioContext interface {
		Output() AudioSink
		Close() error
	}
)

// Source returns an io.Reader producing the buffer as 16-bit little-endian
// PCM, the format audio players consume.
func (buffer AudioBuffer) Source() io.Reader {
	return bytes.NewReader(buffer.pcm16le())
}

func (buffer AudioBuffer) pcm16le() []byte {
	ret := make([]byte, len(buffer)*2)
	for i, v := range buffer {
		var uv int16
		if v < -1.0 {
			uv = -math.MaxInt16
		} else if v > 1.0 {
			uv = math.MaxInt16
		} else {
			uv = int16(v * math.MaxInt16)
		}
		ret[i*2] = byte(uv)
		ret[i*2+1] = byte(uv >> 8)
	}
	return ret
}

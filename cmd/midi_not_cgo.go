//go:build !cgo

package cmd

import (
	"github.com/tsbujacncl/solar-audio-sub001/engine"
)

func NewMIDIContext(e *engine.Engine, trackID int) MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return NullMIDIContext{}
}

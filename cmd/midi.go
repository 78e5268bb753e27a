// Package cmd has the helpers shared by the command line tools.
package cmd

// MIDIContext abstracts the hardware MIDI input, so that builds without
// cgo still work, just without MIDI.
type MIDIContext interface {
	TryToOpenBy(namePrefix string, takeFirst bool) error
	SetTrack(trackID int)
	Close()
}

type NullMIDIContext struct{}

func (NullMIDIContext) TryToOpenBy(namePrefix string, takeFirst bool) error { return nil }
func (NullMIDIContext) SetTrack(trackID int)                                {}
func (NullMIDIContext) Close()                                              {}

// Package solaraudio contains the pure domain types of the Solar Audio
// engine: effect kinds and their parameter schemas, the textual effect
// descriptor codec, project files and audio buffers. The actual signal
// processing lives in the engine package; the UI-facing state lives in the
// rack package.
package solaraudio

// Engine is the narrow surface through which the UI layers talk to an audio
// engine. All state the UI shows is derived by re-querying this interface;
// the engine is the single source of truth.
type Engine interface {
	// TrackEffects returns the ids of the effects on a track as a
	// comma-separated list, e.g. "1,5,9". No effects is the empty string.
	TrackEffects(trackID int) (string, error)

	// EffectInfo returns the textual descriptor of one effect, e.g.
	// "type:eq,bypassed:0,low_freq:100,low_gain:0".
	EffectInfo(effectID int) (string, error)

	// SetEffectParameter sets one parameter by name. The engine clamps the
	// value to the schema range itself; callers may pass out-of-range
	// values.
	SetEffectParameter(effectID int, param string, value float64) error

	// AddEffectToTrack creates a new effect of the given kind on a track
	// and returns its id, or a negative value if the track does not exist
	// or the kind is unknown.
	AddEffectToTrack(trackID int, kind EffectKind) int

	// RemoveEffectFromTrack removes an effect from a track. Unknown ids
	// are ignored; callers are expected to re-query the track afterwards
	// regardless.
	RemoveEffectFromTrack(trackID, effectID int)
}

// Package rack implements the mutable state behind an effect rack panel:
// the list of effects on the currently shown track, kept as a derived cache
// of engine state. The cache is rebuilt by re-querying the engine after
// every mutation; there is no incremental patching and no conflict
// resolution, so the panel can never diverge from the engine at the cost of
// one round trip per gesture.
package rack

import (
	"fmt"
	"log"
	"strconv"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

type (
	Model struct {
		engine  solaraudio.Engine
		log     *log.Logger
		trackID int
		effects []solaraudio.EffectRecord
	}

	// Parameter is the display view of one effect parameter: the value
	// resolved with the schema default and clamped to the schema range,
	// plus a human readable hint in the manner of "440 Hz".
	Parameter struct {
		Name  string
		Value float64
		Min   float64
		Max   float64
		Hint  string
	}
)

func NewModel(engine solaraudio.Engine, logger *log.Logger) *Model {
	if logger == nil {
		logger = log.Default()
	}
	return &Model{engine: engine, log: logger, trackID: -1}
}

// TrackID returns the track whose effects the model currently shows.
func (m *Model) TrackID() int {
	return m.trackID
}

// SetTrack switches the model to another track and reloads the cache.
func (m *Model) SetTrack(trackID int) {
	m.trackID = trackID
	m.Reload()
}

// Effects returns the cached effect list, in the order the engine returned
// the ids. The slice is owned by the model; callers should not mutate it.
func (m *Model) Effects() []solaraudio.EffectRecord {
	return m.effects
}

// Effect returns the cached record at the given list index.
func (m *Model) Effect(index int) (solaraudio.EffectRecord, error) {
	if index < 0 || index >= len(m.effects) {
		return solaraudio.EffectRecord{}, fmt.Errorf("no effect at index %v", index)
	}
	return m.effects[index], nil
}

// Reload rebuilds the cache from the engine. Ids whose descriptor cannot be
// decoded are logged and dropped from the list, so one corrupt effect never
// hides the others on the track.
func (m *Model) Reload() {
	m.effects = m.effects[:0]
	list, err := m.engine.TrackEffects(m.trackID)
	if err != nil {
		m.log.Printf("could not list effects of track %v: %v", m.trackID, err)
		return
	}
	ids, err := solaraudio.ParseEffectIDs(list)
	if err != nil {
		m.log.Printf("malformed effect id list %q for track %v: %v", list, m.trackID, err)
		return
	}
	for _, id := range ids {
		info, err := m.engine.EffectInfo(id)
		if err != nil {
			m.log.Printf("could not query effect %v: %v", id, err)
			continue
		}
		record, ok := solaraudio.ParseEffectInfo(id, info)
		if !ok {
			m.log.Printf("skipping effect %v: malformed descriptor %q", id, info)
			continue
		}
		m.effects = append(m.effects, record)
	}
}

// SetParam forwards one continuous-value adjustment to the engine and
// reloads the list. The raw value is forwarded even when it is outside the
// schema range; the engine does its own clamping, and the reload echoes
// back whatever the engine decided the value now is.
func (m *Model) SetParam(effectID int, name string, value float64) error {
	record, ok := m.findEffect(effectID)
	if !ok {
		return fmt.Errorf("effect %v is not on track %v", effectID, m.trackID)
	}
	if _, ok := solaraudio.FindEffectParameter(record.Kind, name); !ok {
		return fmt.Errorf("%v has no parameter %q", record.Kind, name)
	}
	if err := m.engine.SetEffectParameter(effectID, name, value); err != nil {
		m.log.Printf("could not set %v on effect %v: %v", name, effectID, err)
	}
	m.Reload()
	return nil
}

// SetBypassed toggles the bypass state of an effect and reloads.
func (m *Model) SetBypassed(effectID int, bypassed bool) {
	value := 0.0
	if bypassed {
		value = 1
	}
	if err := m.engine.SetEffectParameter(effectID, "bypassed", value); err != nil {
		m.log.Printf("could not set bypass on effect %v: %v", effectID, err)
	}
	m.Reload()
}

// AddEffect asks the engine to create a new effect on the current track.
// Fire and forget: a negative id from the engine is logged, nothing is
// retried and the cache is left as is.
func (m *Model) AddEffect(kind solaraudio.EffectKind) {
	id := m.engine.AddEffectToTrack(m.trackID, kind)
	if id < 0 {
		m.log.Printf("engine rejected adding %v to track %v", kind, m.trackID)
		return
	}
	m.Reload()
}

// RemoveEffect asks the engine to delete an effect. The model never learns
// whether the removal succeeded; the unconditional reload reflects reality
// either way.
func (m *Model) RemoveEffect(effectID int) {
	m.engine.RemoveEffectFromTrack(m.trackID, effectID)
	m.Reload()
}

// NumParams returns the number of schema parameters of the effect at the
// given list index.
func (m *Model) NumParams(index int) int {
	if index < 0 || index >= len(m.effects) {
		return 0
	}
	return len(solaraudio.EffectTypes[m.effects[index].Kind])
}

// Param returns the display view of one parameter of the effect at the
// given list index. Values absent from the decoded descriptor fall back to
// the schema default; values outside the schema range are clamped for
// display only.
func (m *Model) Param(index, paramIndex int) (Parameter, error) {
	record, err := m.Effect(index)
	if err != nil {
		return Parameter{}, err
	}
	schema := solaraudio.EffectTypes[record.Kind]
	if paramIndex < 0 || paramIndex >= len(schema) {
		return Parameter{}, fmt.Errorf("no parameter at index %v", paramIndex)
	}
	p := schema[paramIndex]
	value := p.Clamp(record.ParamOrDefault(p.Name))
	var hint string
	if p.DisplayFunc != nil {
		v, unit := p.DisplayFunc(value)
		hint = v + " " + unit
	} else {
		hint = strconv.FormatFloat(value, 'f', -1, 64)
		if p.Unit != "" {
			hint += " " + p.Unit
		}
	}
	return Parameter{Name: p.Name, Value: value, Min: p.Min, Max: p.Max, Hint: hint}, nil
}

func (m *Model) findEffect(effectID int) (solaraudio.EffectRecord, bool) {
	for _, e := range m.effects {
		if e.ID == effectID {
			return e, true
		}
	}
	return solaraudio.EffectRecord{}, false
}

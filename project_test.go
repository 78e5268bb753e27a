package solaraudio_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	solaraudio "github.com/tsbujacncl/solar-audio-sub001"
)

func testProject() solaraudio.Project {
	p := solaraudio.NewProject("roundtrip")
	p.Tracks = []solaraudio.ProjectTrack{
		{
			ID:       0,
			Name:     "drums",
			Type:     "midi",
			VolumeDB: -6,
			Pan:      -0.25,
			FXChain: []solaraudio.EffectRecord{
				{ID: 1, Kind: solaraudio.Compressor, Parameters: map[string]float64{"threshold": -18, "ratio": 4}},
				{ID: 2, Kind: solaraudio.Reverb, Bypassed: true, Parameters: map[string]float64{"wet_dry": 0.2}},
			},
		},
		{ID: 1, Name: "master", Type: "master", FXChain: []solaraudio.EffectRecord{
			{ID: 3, Kind: solaraudio.Limiter, Parameters: map[string]float64{"threshold": -1}},
		}},
	}
	return p
}

func TestProjectRoundTrip(t *testing.T) {
	for _, asJSON := range []bool{true, false} {
		p := testProject()
		var buf bytes.Buffer
		if err := solaraudio.WriteProject(&buf, p, asJSON); err != nil {
			t.Fatalf("writing failed (json=%v): %v", asJSON, err)
		}
		got, err := solaraudio.ReadProject(&buf)
		if err != nil {
			t.Fatalf("reading failed (json=%v): %v", asJSON, err)
		}
		if !reflect.DeepEqual(got, p) {
			t.Errorf("round trip changed the project (json=%v):\ngot      %#v\nexpected %#v", asJSON, got, p)
		}
	}
}

func TestReadProjectRejectsGarbage(t *testing.T) {
	_, err := solaraudio.ReadProject(strings.NewReader("!!not a project{{"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), ".json") || !strings.Contains(err.Error(), ".yml") {
		t.Errorf("error should mention both formats, got: %v", err)
	}
}

func TestValidateUnknownKind(t *testing.T) {
	p := testProject()
	p.Tracks[0].FXChain[0].Kind = "flanger"
	if err := p.Validate(); err == nil {
		t.Error("expected validation to fail for an unknown effect kind")
	}
}

func TestValidateUnknownParameter(t *testing.T) {
	p := testProject()
	p.Tracks[0].FXChain[0].Parameters["wibble"] = 1
	if err := p.Validate(); err == nil {
		t.Error("expected validation to fail for a parameter outside the schema")
	}
}

func TestProjectCopyIsDeep(t *testing.T) {
	p := testProject()
	c := p.Copy()
	c.Tracks[0].FXChain[0].Parameters["threshold"] = 0
	if p.Tracks[0].FXChain[0].Parameters["threshold"] != -18 {
		t.Error("copy should not share effect parameter maps")
	}
}

package diarization

import (
	"math"
	"testing"
)

func TestDominant(t *testing.T) {
	tests := []struct {
		name         string
		segments     []Segment
		wantSpeaker  string
		wantCoverage float64
	}{
		{
			name: "single speaker",
			segments: []Segment{
				{Speaker: "SPEAKER_00", Start: 0, End: 3},
			},
			wantSpeaker:  "SPEAKER_00",
			wantCoverage: 1.0,
		},
		{
			name: "majority wins across split ranges",
			segments: []Segment{
				{Speaker: "SPEAKER_00", Start: 0, End: 1},
				{Speaker: "SPEAKER_01", Start: 1, End: 3},
				{Speaker: "SPEAKER_00", Start: 3, End: 3.5},
			},
			wantSpeaker:  "SPEAKER_01",
			wantCoverage: 2.0 / 3.5,
		},
		{
			name:        "empty",
			segments:    nil,
			wantSpeaker: "",
		},
		{
			name: "zero-length ranges ignored",
			segments: []Segment{
				{Speaker: "SPEAKER_00", Start: 2, End: 2},
				{Speaker: "SPEAKER_01", Start: 0, End: 1},
			},
			wantSpeaker:  "SPEAKER_01",
			wantCoverage: 1.0,
		},
		{
			name: "tie broken deterministically",
			segments: []Segment{
				{Speaker: "SPEAKER_01", Start: 0, End: 1},
				{Speaker: "SPEAKER_00", Start: 1, End: 2},
			},
			wantSpeaker:  "SPEAKER_00",
			wantCoverage: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			speaker, coverage := Dominant(tt.segments)
			if speaker != tt.wantSpeaker {
				t.Errorf("speaker = %q, want %q", speaker, tt.wantSpeaker)
			}
			if math.Abs(coverage-tt.wantCoverage) > 1e-9 {
				t.Errorf("coverage = %f, want %f", coverage, tt.wantCoverage)
			}
		})
	}
}

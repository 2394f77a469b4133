package miner

import (
	"errors"
	"testing"
	"time"
)

func testConfig(mantra string) Config {
	return Config{
		Mantras:  []Mantra{{Text: mantra}},
		Repeats:  1,
		Interval: 10 * time.Millisecond,
	}
}

// TestBuildSequenceSyllables tests the basic whitespace tokenization rule.
func TestBuildSequenceSyllables(t *testing.T) {
	tests := []struct {
		name   string
		mantra string
		units  []TextUnit
	}{
		{
			name:   "six syllable mantra",
			mantra: "om mani padme hum",
			units:  []TextUnit{"om", " mani", " padme", " hum"},
		},
		{
			name:   "single word",
			mantra: "om",
			units:  []TextUnit{"om"},
		},
		{
			name:   "collapses whitespace",
			mantra: "  om\t\tmani \n padme   hum  ",
			units:  []TextUnit{"om", " mani", " padme", " hum"},
		},
		{
			name:   "non-latin text splits on whitespace",
			mantra: "oṃ maṇi padme hūṃ",
			units:  []TextUnit{"oṃ", " maṇi", " padme", " hūṃ"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := BuildSequence(testConfig(tt.mantra))
			if err != nil {
				t.Fatalf("BuildSequence failed: %v", err)
			}
			assertUnits(t, seq, tt.units)
		})
	}
}

// TestBuildSequenceEmptyMantra verifies the configuration error for blank
// mantra text.
func TestBuildSequenceEmptyMantra(t *testing.T) {
	for _, mantra := range []string{"", "   ", "\t\n"} {
		_, err := BuildSequence(testConfig(mantra))
		if !errors.Is(err, ErrEmptyMantra) {
			t.Errorf("BuildSequence(%q) error = %v, want ErrEmptyMantra", mantra, err)
		}
	}

	_, err := BuildSequence(Config{Interval: time.Second, Repeats: 1})
	if !errors.Is(err, ErrEmptyMantra) {
		t.Errorf("BuildSequence with no mantras error = %v, want ErrEmptyMantra", err)
	}
}

// TestBuildSequenceSections tests preparation and conclusion placement.
func TestBuildSequenceSections(t *testing.T) {
	cfg := testConfig("om ah hum")
	cfg.Preparation = "go"
	cfg.Conclusion = "ok"

	seq, err := BuildSequence(cfg)
	if err != nil {
		t.Fatalf("BuildSequence failed: %v", err)
	}

	want := []TextUnit{"g", "o", " om", " ah", " hum", " o", "k"}
	assertUnits(t, seq, want)

	if got := seq.Text(); got != "go om ah hum ok" {
		t.Errorf("Text() = %q, want %q", got, "go om ah hum ok")
	}
}

// TestBuildSequencePreparationRunes verifies character-level splitting of the
// preparation, including multi-byte runes.
func TestBuildSequencePreparationRunes(t *testing.T) {
	cfg := testConfig("om")
	cfg.Preparation = "oṃ"

	seq, err := BuildSequence(cfg)
	if err != nil {
		t.Fatalf("BuildSequence failed: %v", err)
	}

	assertUnits(t, seq, []TextUnit{"o", "ṃ", " om"})
}

// TestBuildSequenceMantraRepeats tests per-mantra repetition within a cycle.
func TestBuildSequenceMantraRepeats(t *testing.T) {
	cfg := Config{
		Mantras:  []Mantra{{Text: "om ah", Repeats: 2}, {Text: "hum"}},
		Repeats:  1,
		Interval: time.Second,
	}

	seq, err := BuildSequence(cfg)
	if err != nil {
		t.Fatalf("BuildSequence failed: %v", err)
	}

	want := []TextUnit{"om", " ah", " om", " ah", " hum"}
	assertUnits(t, seq, want)

	if got := seq.Text(); got != "om ah om ah hum" {
		t.Errorf("Text() = %q, want %q", got, "om ah om ah hum")
	}
}

// TestSequenceUnitsCopy verifies Units() returns an independent copy.
func TestSequenceUnitsCopy(t *testing.T) {
	seq, err := BuildSequence(testConfig("om mani"))
	if err != nil {
		t.Fatalf("BuildSequence failed: %v", err)
	}

	units := seq.Units()
	units[0] = "tampered"

	if seq.At(0) != "om" {
		t.Errorf("sequence mutated through Units() copy: At(0) = %q", seq.At(0))
	}
}

func assertUnits(t *testing.T, seq *Sequence, want []TextUnit) {
	t.Helper()
	if seq.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d (units %v)", seq.Len(), len(want), seq.Units())
	}
	for i, u := range want {
		if seq.At(i) != u {
			t.Errorf("At(%d) = %q, want %q", i, seq.At(i), u)
		}
	}
}

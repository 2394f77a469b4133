package miner

import "strings"

// TextUnit is one atomic chunk of text appended to the buffer per tick.
type TextUnit string

// Sequence is the full ordered playlist of text units for one cycle of the
// session: preparation units, then each mantra's units times its repeat
// count, then conclusion units. Immutable after construction.
//
// Joining rules: within a mantra recitation every word after the first
// carries a leading space, and the first unit of each section (a mantra
// recitation, or the conclusion) carries a leading space when anything
// precedes it. Concatenating the units therefore reproduces readable text.
// Preparation and conclusion are split into individual characters, so their
// units joined together reproduce the original text exactly.
type Sequence struct {
	units []TextUnit
}

// BuildSequence builds the unit sequence for one cycle of cfg. It fails with
// ErrEmptyMantra (wrapped) when a mantra has no syllables, and has no side
// effects beyond the returned sequence.
func BuildSequence(cfg Config) (*Sequence, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var units []TextUnit
	units = append(units, splitRunes(cfg.Preparation)...)

	for _, m := range cfg.Mantras {
		syllables := splitSyllables(m.Text)

		repeats := m.Repeats
		if repeats < 1 {
			repeats = 1
		}

		for r := 0; r < repeats; r++ {
			for i, syl := range syllables {
				if i > 0 || len(units) > 0 {
					syl = " " + syl
				}
				units = append(units, TextUnit(syl))
			}
		}
	}

	if conclusion := splitRunes(cfg.Conclusion); len(conclusion) > 0 {
		if len(units) > 0 {
			conclusion[0] = " " + conclusion[0]
		}
		units = append(units, conclusion...)
	}

	return &Sequence{units: units}, nil
}

// Len returns the number of units in one cycle.
func (s *Sequence) Len() int {
	return len(s.units)
}

// At returns the unit at index i.
func (s *Sequence) At(i int) TextUnit {
	return s.units[i]
}

// Units returns a copy of the unit list.
func (s *Sequence) Units() []TextUnit {
	out := make([]TextUnit, len(s.units))
	copy(out, s.units)
	return out
}

// Text returns the full text of one cycle.
func (s *Sequence) Text() string {
	var b strings.Builder
	for _, u := range s.units {
		b.WriteString(string(u))
	}
	return b.String()
}

// splitSyllables splits mantra text into its recitation units. The rule is
// deliberately simple and testable: whitespace-delimited words stand in for
// syllables rather than guessing at linguistic syllabification.
func splitSyllables(text string) []TextUnit {
	fields := strings.Fields(text)
	units := make([]TextUnit, 0, len(fields))
	for _, f := range fields {
		units = append(units, TextUnit(f))
	}
	return units
}

// splitRunes splits preparation or conclusion text into single characters,
// mirroring how those passages are traditionally recited slowly, one
// character at a time.
func splitRunes(text string) []TextUnit {
	if text == "" {
		return nil
	}
	runes := []rune(text)
	units := make([]TextUnit, 0, len(runes))
	for _, r := range runes {
		units = append(units, TextUnit(r))
	}
	return units
}

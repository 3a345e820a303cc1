// ABOUTME: Read-only song/pattern data model walked by the render pipeline
// ABOUTME: Columns hold concurrent patterns with per-column tempo overrides
package song

// MaxPatternTicks is the system-wide maximum pattern length in ticks. A
// column with no patterns scheduled still occupies this many ticks.
const MaxPatternTicks = 192

// Note is a single scheduled hit within a pattern.
type Note struct {
	Position int     `json:"position"` // tick offset within the pattern
	Pitch    int     `json:"pitch"`    // MIDI note number
	Velocity float64 `json:"velocity"` // 0..1
}

// Pattern is a fixed-length sequence of notes.
type Pattern struct {
	Name   string `json:"name"`
	Length int    `json:"length"` // in ticks
	Notes  []Note `json:"notes,omitempty"`
}

// Column is one time slot in the song timeline: zero or more patterns
// playing concurrently, with an optional tempo override.
type Column struct {
	BPM      float64    `json:"bpm,omitempty"` // 0 means inherit the song tempo
	Patterns []*Pattern `json:"patterns,omitempty"`
}

// LengthTicks returns the effective length of the column: the longest
// contained pattern, or MaxPatternTicks when the column is empty.
func (c *Column) LengthTicks() int {
	if len(c.Patterns) == 0 {
		return MaxPatternTicks
	}
	longest := 0
	for _, p := range c.Patterns {
		if p.Length > longest {
			longest = p.Length
		}
	}
	return longest
}

// Song is an ordered sequence of pattern columns. It is read-only from the
// render pipeline's perspective for the duration of a render.
type Song struct {
	Name       string    `json:"name"`
	BPM        float64   `json:"bpm"`
	Resolution int       `json:"resolution"` // ticks per beat
	Columns    []*Column `json:"columns"`
}

// BPMAt returns the tempo active at the given column position.
func (s *Song) BPMAt(col int) float64 {
	if col >= 0 && col < len(s.Columns) && s.Columns[col].BPM > 0 {
		return s.Columns[col].BPM
	}
	return s.BPM
}

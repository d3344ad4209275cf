package cefr

// Level is a CEFR proficiency level, A1 (lowest) through C2 (highest).
type Level string

const (
	A1 Level = "A1"
	A2 Level = "A2"
	B1 Level = "B1"
	B2 Level = "B2"
	C1 Level = "C1"
	C2 Level = "C2"
)

// ladder is the ordered difficulty ladder used for adaptive stepping.
var ladder = []Level{A1, A2, B1, B2, C1, C2}

// Levels returns the six CEFR levels in ascending order.
func Levels() []Level {
	out := make([]Level, len(ladder))
	copy(out, ladder)
	return out
}

// Valid reports whether l is one of the six CEFR levels.
func (l Level) Valid() bool {
	for _, v := range ladder {
		if l == v {
			return true
		}
	}
	return false
}

// Index returns the 1-based numeric index of the level (A1=1 .. C2=6).
// Unknown levels map to B1's index, matching how the question bank
// treats an unlabeled item.
func (l Level) Index() int {
	for i, v := range ladder {
		if l == v {
			return i + 1
		}
	}
	return B1.Index()
}

// LevelForIndex converts a 1-6 index back to a Level, clamping values
// outside the ladder.
func LevelForIndex(idx int) Level {
	if idx < 1 {
		return A1
	}
	if idx > len(ladder) {
		return C2
	}
	return ladder[idx-1]
}

// Step moves the level by delta rungs on the ladder, clamped at A1 and
// C2. There is no wraparound: stepping up from C2 or down from A1
// returns the level unchanged.
func (l Level) Step(delta int) Level {
	idx := l.Index() + delta
	return LevelForIndex(idx)
}

// Description returns the Council of Europe band name for the level.
func (l Level) Description() string {
	switch l {
	case A1:
		return "Basic User - Beginner"
	case A2:
		return "Basic User - Elementary"
	case B1:
		return "Independent User - Intermediate"
	case B2:
		return "Independent User - Upper Intermediate"
	case C1:
		return "Proficient User - Advanced"
	case C2:
		return "Proficient User - Mastery"
	}
	return ""
}

package cefr

// LevelForScore maps a percentage score (0-100) to a CEFR level using
// the canonical threshold table:
//
//	A1 <20, A2 20-39, B1 40-59, B2 60-74, C1 75-89, C2 90-100
//
// Scores outside 0-100 are clamped to the nearest level.
func LevelForScore(score float64) Level {
	switch {
	case score < 20:
		return A1
	case score < 40:
		return A2
	case score < 60:
		return B1
	case score < 75:
		return B2
	case score < 90:
		return C1
	default:
		return C2
	}
}

// legacyLevelForScore is the threshold table the old single-section
// exam flow used (A1 <50 ... C2 >=90).
//
// Deprecated: kept only so reports generated under the old table can be
// reproduced. All new results use LevelForScore.
func legacyLevelForScore(score float64) Level {
	switch {
	case score < 50:
		return A1
	case score < 60:
		return A2
	case score < 70:
		return B1
	case score < 80:
		return B2
	case score < 90:
		return C1
	default:
		return C2
	}
}

// BandForScore converts a percentage score to an IELTS band. The
// breakpoints are a fixed lookup derived from observed score
// distributions, not a linear scale.
func BandForScore(score float64) float64 {
	switch {
	case score < 10:
		return 1.0
	case score < 20:
		return 2.0
	case score < 30:
		return 3.0
	case score < 40:
		return 3.5
	case score < 50:
		return 4.5
	case score < 60:
		return 5.0
	case score < 70:
		return 5.5
	case score < 75:
		return 6.0
	case score < 80:
		return 6.5
	case score < 85:
		return 7.0
	case score < 90:
		return 7.5
	case score < 95:
		return 8.0
	case score < 98:
		return 8.5
	default:
		return 9.0
	}
}

// BandForLevel returns the nominal IELTS band equivalent of a CEFR
// level.
func BandForLevel(l Level) float64 {
	switch l {
	case A1:
		return 2.5
	case A2:
		return 3.5
	case B1:
		return 5.0
	case B2:
		return 6.5
	case C1:
		return 7.5
	case C2:
		return 9.0
	}
	return 5.0
}

// TOEFLForScore converts a percentage score to an approximate TOEFL
// iBT score (0-120).
func TOEFLForScore(score float64) int {
	t := int(score * 1.2)
	if t < 0 {
		return 0
	}
	if t > 120 {
		return 120
	}
	return t
}

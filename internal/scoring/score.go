package scoring

// Score aggregates the attempts of one completed text.
type Score struct {
	Correct int
	Total   int

	// Ratio is Correct/Total, or 0 when Empty.
	Ratio float64

	// Empty is true when there were no attempts to score.
	Empty bool
}

// Tally counts correct attempts. An empty list yields an Empty score with
// a zero ratio.
func Tally(attempts []Attempt) Score {
	s := Score{Total: len(attempts)}
	if s.Total == 0 {
		s.Empty = true
		return s
	}
	for _, a := range attempts {
		if a.Correct {
			s.Correct++
		}
	}
	s.Ratio = float64(s.Correct) / float64(s.Total)
	return s
}

// Percent returns the ratio as a percentage rounded to one decimal.
func (s Score) Percent() float64 {
	return float64(int(s.Ratio*1000+0.5)) / 10
}

// Results lists the correctness of each attempt in order.
func Results(attempts []Attempt) []bool {
	out := make([]bool, len(attempts))
	for i, a := range attempts {
		out[i] = a.Correct
	}
	return out
}

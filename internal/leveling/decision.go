package leveling

// Reason explains the outcome of a Decide call.
type Reason string

const (
	ReasonPromoted         Reason = "promoted"
	ReasonDemoted          Reason = "demoted"
	ReasonSteady           Reason = "steady"
	ReasonAtMax            Reason = "at-max"
	ReasonAtMin            Reason = "at-min"
	ReasonInsufficientData Reason = "insufficient-data"
)

// Transition records a level change for display and persistence.
type Transition struct {
	From    Level
	To      Level
	Trigger string // "promote", "demote"
}

// Decision is the result of applying the policy to a student's history.
type Decision struct {
	From     Level
	To       Level
	Accuracy float64 // accuracy over the window; 0 when no data
	Samples  int     // results in the window
	Reason   Reason

	// Transition is nil unless the level changed.
	Transition *Transition
}

// Changed reports whether the level moved.
func (d Decision) Changed() bool {
	return d.Transition != nil
}

// Decide applies the policy to the student's recent results, ordered
// newest first. With fewer than MinSamples results it is a no-op with
// ReasonInsufficientData; otherwise the newest MinSamples results form
// the accuracy window passed to Adjust.
func (p Policy) Decide(current Level, recent []bool) Decision {
	current = p.Clamp(current)
	d := Decision{From: current, To: current}

	window := recent
	if p.MinSamples > 0 {
		if len(recent) < p.MinSamples {
			d.Samples = len(recent)
			d.Reason = ReasonInsufficientData
			return d
		}
		window = recent[:p.MinSamples]
	}
	if len(window) == 0 {
		d.Reason = ReasonInsufficientData
		return d
	}

	d.Samples = len(window)
	d.Accuracy = accuracy(window)
	d.To = p.Adjust(current, d.Accuracy)

	switch {
	case d.To > current:
		d.Reason = ReasonPromoted
		d.Transition = &Transition{From: current, To: d.To, Trigger: "promote"}
	case d.To < current:
		d.Reason = ReasonDemoted
		d.Transition = &Transition{From: current, To: d.To, Trigger: "demote"}
	case d.Accuracy >= p.HighThreshold && current == p.MaxLevel:
		d.Reason = ReasonAtMax
	case d.Accuracy < p.LowThreshold && current == p.MinLevel:
		d.Reason = ReasonAtMin
	default:
		d.Reason = ReasonSteady
	}
	return d
}

func accuracy(results []bool) float64 {
	if len(results) == 0 {
		return 0
	}
	correct := 0
	for _, ok := range results {
		if ok {
			correct++
		}
	}
	return float64(correct) / float64(len(results))
}

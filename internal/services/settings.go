package services

import "time"

// HardConstraints toggles the individual hard checks. All are enabled by default.
type HardConstraints struct {
	Capacity     bool
	SpecialSeats bool
	MaxDuration  bool
	TimeWindow   bool
	Availability bool
}

// Weights of the soft-constraint score terms.
type Weights struct {
	Distance    float64
	Time        float64
	LoadBalance float64
	Waiting     float64
}

// LoadBalance defines the occupancy band that is not penalized and the
// per-unit penalty outside of it.
type LoadBalance struct {
	Low        float64
	High       float64
	LowFactor  float64
	HighFactor float64
}

// Settings tunes slot assignment, validation and packing.
type Settings struct {
	Hard        HardConstraints
	Weights     Weights
	LoadBalance LoadBalance

	// Allowed deviation between estimated arrival and desired pickup time.
	TimeWindowTolerance time.Duration
	// Dwell time added per stop.
	ServiceMinutes float64
	// Acceptance window of the last pickup slot when it has no explicit end.
	// Zero leaves the last slot open-ended; only then does every time after the
	// first anchor fall into some pickup slot.
	LastSlotWindow time.Duration
	// Score penalty per patient a candidate leaves out of the slot group.
	// Zero ranks candidates by soft score alone.
	UnservedWeight float64
}

func DefaultSettings() Settings {
	return Settings{
		Hard: HardConstraints{
			Capacity:     true,
			SpecialSeats: true,
			MaxDuration:  true,
			TimeWindow:   true,
			Availability: true,
		},
		Weights: Weights{
			Distance:    0.1,
			Time:        0.05,
			LoadBalance: 1,
			Waiting:     0.2,
		},
		LoadBalance: LoadBalance{
			Low:        0.3,
			High:       0.9,
			LowFactor:  100,
			HighFactor: 50,
		},
		TimeWindowTolerance: 15 * time.Minute,
		ServiceMinutes:      5,
		LastSlotWindow:      90 * time.Minute,
		UnservedWeight:      0,
	}
}

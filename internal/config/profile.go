package config

import (
	"fmt"
	"os"
	"time"

	"transport-route-service/internal/adapters/distance"
	"transport-route-service/internal/adapters/repositories"
	"transport-route-service/internal/domain"
	"transport-route-service/internal/geo"
	"transport-route-service/internal/ports"
	"transport-route-service/internal/services"

	"gopkg.in/yaml.v3"
)

// Profile is the YAML planning profile. Keys missing from the file keep
// their default values.
type Profile struct {
	Weights                    WeightsProfile              `yaml:"weights"`
	HardConstraints            HardConstraintsProfile      `yaml:"hard_constraints"`
	LoadBalance                LoadBalanceProfile          `yaml:"load_balance"`
	TimeWindowToleranceMinutes float64                     `yaml:"time_window_tolerance_minutes"`
	ServiceMinutes             float64                     `yaml:"service_minutes"`
	LastSlotWindowMinutes      float64                     `yaml:"last_slot_window_minutes"`
	UnservedWeight             float64                     `yaml:"unserved_weight"`
	Travel                     geo.TravelModel             `yaml:"travel"`
	Depot                      *DepotProfile               `yaml:"depot"`
	ActiveSchedule             string                      `yaml:"active_schedule"`
	Schedules                  []repositories.ScheduleSeed `yaml:"schedules"`
	// Measured road distances that override the straight-line estimate.
	DistanceTable []DistancePairProfile `yaml:"distance_table"`
}

type WeightsProfile struct {
	Distance    float64 `yaml:"distance"`
	Time        float64 `yaml:"time"`
	LoadBalance float64 `yaml:"load_balance"`
	Waiting     float64 `yaml:"waiting"`
}

type HardConstraintsProfile struct {
	Capacity     bool `yaml:"capacity"`
	SpecialSeats bool `yaml:"special_seats"`
	MaxDuration  bool `yaml:"max_duration"`
	TimeWindow   bool `yaml:"time_window"`
	Availability bool `yaml:"availability"`
}

type LoadBalanceProfile struct {
	Low        float64 `yaml:"low"`
	High       float64 `yaml:"high"`
	LowFactor  float64 `yaml:"low_factor"`
	HighFactor float64 `yaml:"high_factor"`
}

type DistancePairProfile struct {
	From domain.Coordinates `yaml:"from"`
	To   domain.Coordinates `yaml:"to"`
	Km   float64            `yaml:"km"`
}

type DepotProfile struct {
	Name    string  `yaml:"name"`
	Address string  `yaml:"address"`
	Lat     float64 `yaml:"lat"`
	Lon     float64 `yaml:"lon"`
}

// DefaultProfile mirrors services.DefaultSettings and geo.DefaultTravelModel.
func DefaultProfile() *Profile {
	s := services.DefaultSettings()
	return &Profile{
		Weights: WeightsProfile{
			Distance:    s.Weights.Distance,
			Time:        s.Weights.Time,
			LoadBalance: s.Weights.LoadBalance,
			Waiting:     s.Weights.Waiting,
		},
		HardConstraints: HardConstraintsProfile{
			Capacity:     s.Hard.Capacity,
			SpecialSeats: s.Hard.SpecialSeats,
			MaxDuration:  s.Hard.MaxDuration,
			TimeWindow:   s.Hard.TimeWindow,
			Availability: s.Hard.Availability,
		},
		LoadBalance: LoadBalanceProfile{
			Low:        s.LoadBalance.Low,
			High:       s.LoadBalance.High,
			LowFactor:  s.LoadBalance.LowFactor,
			HighFactor: s.LoadBalance.HighFactor,
		},
		TimeWindowToleranceMinutes: s.TimeWindowTolerance.Minutes(),
		ServiceMinutes:             s.ServiceMinutes,
		LastSlotWindowMinutes:      s.LastSlotWindow.Minutes(),
		UnservedWeight:             s.UnservedWeight,
		Travel:                     geo.DefaultTravelModel(),
	}
}

// LoadProfile reads a YAML profile on top of the defaults. An empty path
// returns the defaults.
func LoadProfile(path string) (*Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load profile: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("load profile: parse %q: %w", path, err)
	}
	if err := p.validate(); err != nil {
		return nil, fmt.Errorf("load profile %q: %w", path, err)
	}
	return p, nil
}

func (p *Profile) validate() error {
	if p.LoadBalance.Low > p.LoadBalance.High {
		return fmt.Errorf("load_balance.low (%.2f) above load_balance.high (%.2f)", p.LoadBalance.Low, p.LoadBalance.High)
	}
	if p.Travel.SpeedKmh <= 0 {
		return fmt.Errorf("travel.speed_kmh must be positive, got %.2f", p.Travel.SpeedKmh)
	}
	if p.Travel.MaxMinutes > 0 && p.Travel.MinMinutes > p.Travel.MaxMinutes {
		return fmt.Errorf("travel.min_minutes (%.0f) above travel.max_minutes (%.0f)", p.Travel.MinMinutes, p.Travel.MaxMinutes)
	}
	for name, v := range map[string]float64{
		"time_window_tolerance_minutes": p.TimeWindowToleranceMinutes,
		"service_minutes":               p.ServiceMinutes,
		"last_slot_window_minutes":      p.LastSlotWindowMinutes,
		"unserved_weight":               p.UnservedWeight,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative, got %.2f", name, v)
		}
	}
	for i, d := range p.DistanceTable {
		if d.Km < 0 {
			return fmt.Errorf("distance_table[%d]: km must not be negative", i)
		}
	}
	if p.Depot != nil {
		if err := (domain.Coordinates{Lat: p.Depot.Lat, Lon: p.Depot.Lon}).Validate(); err != nil {
			return fmt.Errorf("depot: %w", err)
		}
	}
	return nil
}

// Settings converts the profile into planning settings.
func (p *Profile) Settings() services.Settings {
	return services.Settings{
		Hard: services.HardConstraints{
			Capacity:     p.HardConstraints.Capacity,
			SpecialSeats: p.HardConstraints.SpecialSeats,
			MaxDuration:  p.HardConstraints.MaxDuration,
			TimeWindow:   p.HardConstraints.TimeWindow,
			Availability: p.HardConstraints.Availability,
		},
		Weights: services.Weights{
			Distance:    p.Weights.Distance,
			Time:        p.Weights.Time,
			LoadBalance: p.Weights.LoadBalance,
			Waiting:     p.Weights.Waiting,
		},
		LoadBalance: services.LoadBalance{
			Low:        p.LoadBalance.Low,
			High:       p.LoadBalance.High,
			LowFactor:  p.LoadBalance.LowFactor,
			HighFactor: p.LoadBalance.HighFactor,
		},
		TimeWindowTolerance: minutes(p.TimeWindowToleranceMinutes),
		ServiceMinutes:      p.ServiceMinutes,
		LastSlotWindow:      minutes(p.LastSlotWindowMinutes),
		UnservedWeight:      p.UnservedWeight,
	}
}

// Estimator builds the distance estimator: the travel model, wrapped by the
// distance table when the profile has one.
func (p *Profile) Estimator() ports.DistanceEstimator {
	base := distance.NewHaversineEstimator(p.Travel)
	if len(p.DistanceTable) == 0 {
		return base
	}

	pairs := make([]distance.TablePair, 0, len(p.DistanceTable))
	for _, d := range p.DistanceTable {
		pairs = append(pairs, distance.TablePair{From: d.From, To: d.To, Km: d.Km})
	}
	return distance.NewTableEstimator(pairs, base)
}

// ScheduleBook returns the schedules declared in the profile, or nil when it declares none.
func (p *Profile) ScheduleBook() (*domain.ScheduleBook, error) {
	if len(p.Schedules) == 0 {
		return nil, nil
	}
	seed := repositories.Seed{ActiveSchedule: p.ActiveSchedule, Schedules: p.Schedules}
	book, err := seed.ScheduleBook()
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	return book, nil
}

// ResolveDepot picks the depot from the environment, then the profile, then the default.
func ResolveDepot(cfg *Config, p *Profile) domain.Depot {
	if cfg != nil && cfg.Depot != nil {
		return *cfg.Depot
	}
	if p != nil && p.Depot != nil {
		def := domain.DefaultDepot()
		d := domain.Depot{
			Name:     p.Depot.Name,
			Address:  p.Depot.Address,
			Location: domain.Coordinates{Lat: p.Depot.Lat, Lon: p.Depot.Lon},
		}
		if d.Name == "" {
			d.Name = def.Name
		}
		if d.Address == "" {
			d.Address = def.Address
		}
		return d
	}
	return domain.DefaultDepot()
}

func minutes(m float64) time.Duration {
	return time.Duration(m * float64(time.Minute))
}

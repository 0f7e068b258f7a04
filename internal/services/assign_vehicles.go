package services

import (
	"cmp"
	"slices"
	"time"

	"transport-route-service/internal/domain"
	"transport-route-service/internal/platform/logger"
)

// SlotGroup is the patients of one slot and direction, in assignment order.
type SlotGroup struct {
	Slot      domain.TimeSlot
	Direction domain.Direction
	Patients  []*domain.Patient
}

// PackResult is the outcome of packing one slot group.
type PackResult struct {
	Routes     []domain.Route
	Unassigned []*domain.Patient
	Fallback   bool
}

// Packer distributes a slot group over vehicles.
type Packer struct {
	settings  Settings
	assembler *RouteAssembler
	log       logger.Logger
}

func NewPacker(settings Settings, assembler *RouteAssembler, log logger.Logger) *Packer {
	return &Packer{settings: settings, assembler: assembler, log: log}
}

// Pack tries the constraint search first and falls back to greedy filling
// when it finds no valid candidate.
func (p *Packer) Pack(day time.Time, depot domain.Depot, group SlotGroup, vehicles []*domain.Vehicle) PackResult {
	if len(group.Patients) == 0 {
		return PackResult{}
	}

	if route, k, ok := p.search(day, depot, group, vehicles); ok {
		return PackResult{
			Routes:     []domain.Route{route},
			Unassigned: group.Patients[k:],
		}
	}
	return p.fallback(day, depot, group, vehicles)
}

// search forms one candidate per (vehicle, prefix size k) from the first k
// patients and keeps the best valid one.
//
// Candidates are ranked by soft score, plus UnservedWeight per patient left
// out when that is set.
// A vehicle that cannot seat the whole group (total or wheelchair seats) is
// not searched at all; the group then goes to the fallback packer.
func (p *Packer) search(day time.Time, depot domain.Depot, group SlotGroup, vehicles []*domain.Vehicle) (domain.Route, int, bool) {
	n := len(group.Patients)

	var (
		best     domain.Route
		bestK    int
		bestRank float64
		found    bool
	)

	for _, v := range vehicles {
		if err := v.Fits(group.Patients); err != nil {
			p.log.Debug("vehicle cannot seat slot group", "slot", group.Slot.Name, "direction", group.Direction, "reason", err.Error())
			continue
		}

		for k := 1; k <= min(n, v.TotalSeats); k++ {
			candidate := p.assembler.Assemble(RouteRequest{
				Vehicle:      v,
				Slot:         group.Slot,
				Direction:    group.Direction,
				PlanningDate: day,
				Depot:        depot,
				Patients:     group.Patients[:k],
				Strategy:     domain.StrategyConstraintSearch,
			})
			if !candidate.Constraints.Valid {
				continue
			}

			rank := candidate.Constraints.Score + p.settings.UnservedWeight*float64(n-k)
			if !found || rank < bestRank {
				best, bestK, bestRank, found = candidate, k, rank, true
				p.log.Debug("better candidate found",
					"vehicle", v.Label(), "slot", group.Slot.Name, "patients", k, "score", candidate.Constraints.Score)
			}
		}
	}

	return best, bestK, found
}

// fallback fills vehicles by descending seat count in queue order, without
// re-validating hard constraints. Wheelchair patients that do not fit the
// remaining special seats stay queued for the next vehicle.
func (p *Packer) fallback(day time.Time, depot domain.Depot, group SlotGroup, vehicles []*domain.Vehicle) PackResult {
	sorted := slices.Clone(vehicles)
	slices.SortStableFunc(sorted, func(a, b *domain.Vehicle) int {
		return cmp.Compare(b.TotalSeats, a.TotalSeats)
	})

	res := PackResult{Fallback: true}
	queue := group.Patients

	for _, v := range sorted {
		if len(queue) == 0 {
			break
		}

		var (
			load []*domain.Patient
			rest []*domain.Patient
		)
		special := v.SpecialSeats
		for _, pt := range queue {
			switch {
			case len(load) >= v.TotalSeats:
				rest = append(rest, pt)
			case pt.Wheelchair && special == 0:
				rest = append(rest, pt)
			default:
				if pt.Wheelchair {
					special--
				}
				load = append(load, pt)
			}
		}
		if len(load) == 0 {
			continue
		}

		res.Routes = append(res.Routes, p.assembler.Assemble(RouteRequest{
			Vehicle:      v,
			Slot:         group.Slot,
			Direction:    group.Direction,
			PlanningDate: day,
			Depot:        depot,
			Patients:     load,
			Strategy:     domain.StrategyFallback,
		}))
		queue = rest
	}

	res.Unassigned = queue
	if len(queue) > 0 {
		p.log.Warn("fallback packing left patients unassigned",
			"slot", group.Slot.Name, "direction", group.Direction, "remaining", len(queue))
	}
	return res
}

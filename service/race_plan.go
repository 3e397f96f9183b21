package service

import (
	"math/rand"
	"sort"

	"gmbot/models"
)

// LanePlan fixes one participant's finish second before the animation starts,
// so every rendered frame is consistent with the final ranking.
type LanePlan struct {
	Entry        *models.RaceEntry
	FinishSecond int
}

// AssignFinishSeconds plans a race of the given duration. Lane order is the
// roster's join order; finish order is decided by a shuffle. With fewer
// participants than seconds each one gets a distinct finish second, otherwise
// finish seconds are stepped and ties are possible.
func AssignFinishSeconds(rng *rand.Rand, entries []*models.RaceEntry, duration int) []LanePlan {
	n := len(entries)
	if n == 0 || duration <= 0 {
		return nil
	}

	// Shuffled indices decide who finishes first.
	order := rng.Perm(n)

	finishes := make([]int, n)
	if n < duration {
		seconds := rng.Perm(duration)[:n]
		sort.Ints(seconds)
		for rank, idx := range order {
			finishes[idx] = seconds[rank] + 1
		}
	} else {
		step := duration / n
		if step < 1 {
			step = 1
		}
		for rank, idx := range order {
			finish := (rank + 1) * step
			if finish > duration {
				finish = duration
			}
			finishes[idx] = finish
		}
	}

	plans := make([]LanePlan, n)
	for i, entry := range entries {
		plans[i] = LanePlan{Entry: entry, FinishSecond: finishes[i]}
	}
	return plans
}

// Ranking orders plans by finish second, keeping lane order for ties.
func Ranking(plans []LanePlan) []LanePlan {
	ranked := make([]LanePlan, len(plans))
	copy(ranked, plans)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinishSecond < ranked[j].FinishSecond
	})
	return ranked
}

package service

import "github.com/grattalab/scratch-win-system/internal/model"

// RandSource yields uniform draws in [0, 1). *math/rand.Rand satisfies it;
// tests inject seeded or fixed sources for exact outcomes.
type RandSource interface {
	Float64() float64
}

// SelectPrize draws one outcome from an ordered weighted prize sequence.
// A uniform value r in [0, 100) walks the sequence in declared order,
// accumulating probabilities, and the first prize with r < cumulative wins.
//
// When the walk exhausts the sequence (total probability below 100 and r in
// the uncovered remainder), nil is returned: no prize. The fallthrough never
// awards the last prize; campaigns that want a consolation outcome declare
// it as an explicit prize. The comparison is strictly < at every boundary so
// a draw landing exactly on a cumulative edge belongs to the next prize,
// never to two.
func SelectPrize(prizes []model.Prize, rng RandSource) *model.Prize {
	r := rng.Float64() * 100
	cumulative := 0.0
	for i := range prizes {
		cumulative += prizes[i].Probability
		if r < cumulative {
			return &prizes[i]
		}
	}
	return nil
}

package bracket

import "math/rand"

// Decider supplies the winner of a pending match. The engine never picks
// results itself: a Decider may wrap human input, a fixture or an RNG.
type Decider interface {
	Decide(m *Match) (int, error)
}

// DeciderFunc adapts a plain function to the Decider interface.
type DeciderFunc func(m *Match) (int, error)

func (f DeciderFunc) Decide(m *Match) (int, error) { return f(m) }

// NewRandomDecider flips a fair coin per match. Seed the source for
// reproducible simulations.
func NewRandomDecider(r *rand.Rand) Decider {
	return DeciderFunc(func(m *Match) (int, error) {
		if m.Player2 != nil && r.Intn(2) == 1 {
			return *m.Player2, nil
		}
		return m.Player1, nil
	})
}

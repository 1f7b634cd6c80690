package bracket

import "fmt"

// Participant is one entrant with their running record. Matches refer to
// participants by id only; the registry owns the structs.
type Participant struct {
	ID     int    `db:"player_id" json:"id"`
	Name   string `db:"name" json:"name"`
	Seed   int    `db:"seed" json:"seed"`
	Wins   int    `db:"wins" json:"wins"`
	Losses int    `db:"losses" json:"losses"`
	Byes   int    `db:"byes" json:"byes"`
}

// Registry holds every participant of a single tournament, keyed by id.
// Insertion order doubles as the seed order and breaks ranking ties.
type Registry struct {
	byID  map[int]*Participant
	order []int
}

func newRegistry(players []Participant) (*Registry, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("%w: no participants", ErrInvalidRoster)
	}
	r := &Registry{byID: make(map[int]*Participant, len(players))}
	for i, p := range players {
		if _, dup := r.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate participant id %d", ErrInvalidRoster, p.ID)
		}
		cp := p
		cp.Seed = i + 1
		cp.Wins, cp.Losses, cp.Byes = 0, 0, 0
		r.byID[cp.ID] = &cp
		r.order = append(r.order, cp.ID)
	}
	return r, nil
}

func (r *Registry) Get(id int) (*Participant, bool) {
	p, ok := r.byID[id]
	return p, ok
}

func (r *Registry) Len() int { return len(r.order) }

// IDs returns participant ids in insertion order.
func (r *Registry) IDs() []int {
	ids := make([]int, len(r.order))
	copy(ids, r.order)
	return ids
}

// All returns participants in insertion order.
func (r *Registry) All() []*Participant {
	ps := make([]*Participant, 0, len(r.order))
	for _, id := range r.order {
		ps = append(ps, r.byID[id])
	}
	return ps
}

package netlist

import (
	"context"
	"math/rand"
	"time"
)

// progressEvery is how many vectors pass between Progress callbacks and context checks.
const progressEvery = 1000

// Simulator applies random two-valued vectors to a netlist's inputs and counts how many
// vectors drive each node to 1.
//
// Sources (primary inputs and DFF outputs) are randomized per vector; every other node is
// evaluated once per vector in a fixed fan-in-first order. A combinational loop is cut where
// the depth-first ordering finds its back edge, and the node behind it reads as 0.
type Simulator struct {
	// Progress, when set, is called every 1000 vectors and once at the end.
	Progress func(done, total int)

	nl      *Netlist
	types   []GateType
	fanin   [][]int
	sources []int
	order   []int
	rng     *rand.Rand
}

// NewSimulator prepares nl for simulation. A zero seed picks a time-based one.
func NewSimulator(nl *Netlist, seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	n := nl.Len()
	s := &Simulator{
		nl:    nl,
		types: make([]GateType, n),
		fanin: make([][]int, n),
		rng:   rand.New(rand.NewSource(seed)),
	}
	isSource := make([]bool, n)
	for _, in := range nl.Inputs() {
		if !isSource[in.ID] {
			isSource[in.ID] = true
			s.sources = append(s.sources, in.ID)
		}
	}
	for _, nd := range nl.Nodes() {
		s.types[nd.ID] = nd.Type
		ids := make([]int, len(nd.Inputs))
		for i, in := range nd.Inputs {
			ids[i] = in.ID
		}
		s.fanin[nd.ID] = ids
	}
	state := make([]uint8, n)
	var visit func(id int)
	visit = func(id int) {
		if state[id] != 0 {
			return
		}
		state[id] = 1
		if !isSource[id] {
			for _, in := range s.fanin[id] {
				visit(in)
			}
			s.order = append(s.order, id)
		}
		state[id] = 2
	}
	for id := 0; id < n; id++ {
		visit(id)
	}
	return s
}

// Netlist returns the simulated netlist.
func (s *Simulator) Netlist() *Netlist { return s.nl }

// OnesCounts simulates numVectors random vectors and returns, per node ID, how many of
// them evaluated the node to 1.
func (s *Simulator) OnesCounts(ctx context.Context, numVectors int) ([]int, error) {
	n := len(s.types)
	ones := make([]int, n)
	vals := make([]uint8, n)
	for v := 0; v < numVectors; v++ {
		if v%progressEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if s.Progress != nil && v > 0 {
				s.Progress(v, numVectors)
			}
		}
		s.step(vals)
		for id, b := range vals {
			ones[id] += int(b)
		}
	}
	if s.Progress != nil {
		s.Progress(numVectors, numVectors)
	}
	return ones, nil
}

func (s *Simulator) step(vals []uint8) {
	for i := range vals {
		vals[i] = 0
	}
	for _, id := range s.sources {
		vals[id] = uint8(s.rng.Intn(2))
	}
	for _, id := range s.order {
		vals[id] = evalGate(s.types[id], s.fanin[id], vals)
	}
}

func evalGate(t GateType, in []int, vals []uint8) uint8 {
	if len(in) == 0 {
		return 0
	}
	switch t {
	case And:
		for _, i := range in {
			if vals[i] == 0 {
				return 0
			}
		}
		return 1
	case Nand:
		for _, i := range in {
			if vals[i] == 0 {
				return 1
			}
		}
		return 0
	case Or:
		for _, i := range in {
			if vals[i] == 1 {
				return 1
			}
		}
		return 0
	case Nor:
		for _, i := range in {
			if vals[i] == 1 {
				return 0
			}
		}
		return 1
	case Not:
		return vals[in[0]] ^ 1
	case Buf:
		return vals[in[0]]
	case Xor, Xnor:
		var r uint8
		for _, i := range in {
			r ^= vals[i]
		}
		if t == Xnor {
			r ^= 1
		}
		return r
	}
	return 0
}

// Rare value markers.
const (
	NotRare int8 = -1
	Rare0   int8 = 0
	Rare1   int8 = 1
)

// RareNodes is the outcome of a rarity classification.
type RareNodes struct {
	NumVectors int
	// Threshold is the occurrence limit: floor(NumVectors * ratio).
	Threshold int
	// Values holds NotRare, Rare0 or Rare1 per node ID.
	Values []int8
	Count  int
}

// Classify marks every candidate node (anything not typed INPUT or OUTPUT) as rare-1 when it
// was 1 in at most Threshold vectors, otherwise rare-0 when it was 0 in at most Threshold vectors.
func (s *Simulator) Classify(ones []int, numVectors int, ratio float64) RareNodes {
	res := RareNodes{
		NumVectors: numVectors,
		Threshold:  int(float64(numVectors) * ratio),
		Values:     make([]int8, len(ones)),
	}
	for id, c1 := range ones {
		res.Values[id] = NotRare
		if !IsCandidate(s.types[id]) {
			continue
		}
		switch {
		case c1 <= res.Threshold:
			res.Values[id] = Rare1
			res.Count++
		case numVectors-c1 <= res.Threshold:
			res.Values[id] = Rare0
			res.Count++
		}
	}
	return res
}

// FindRareNodes simulates numVectors random vectors and classifies the nodes at ratio.
func (s *Simulator) FindRareNodes(ctx context.Context, numVectors int, ratio float64) (RareNodes, error) {
	ones, err := s.OnesCounts(ctx, numVectors)
	if err != nil {
		return RareNodes{}, err
	}
	return s.Classify(ones, numVectors, ratio), nil
}

// IsCandidate reports whether a node of type t can be a rare trigger node.
func IsCandidate(t GateType) bool {
	return t != Input && t != Output
}

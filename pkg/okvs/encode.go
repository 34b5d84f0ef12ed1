package okvs

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/bits-and-blooms/bitset"
	"github.com/go-logr/logr"
	"github.com/optable/okvs/internal/cuckoo"
	"github.com/optable/okvs/internal/linear"
	"github.com/optable/okvs/pkg/field"
)

// encoding is the state of a single Encode call. Edge i of the cuckoo
// graph is the i-th key in sorted order.
type encoding[E any] struct {
	f      field.Field[E]
	lm, rm int
	rand   io.Reader
	logger logr.Logger

	values []E
	// distinct bucket indices of every key
	buckets [][]int
	// dense vector of every key
	rx []*bitset.BitSet

	storage  []E
	assigned *bitset.BitSet
}

// Encode returns a storage array of M() elements from which Decode
// recovers kv[k] for every key k of kv. It fails with ErrInputTooLarge
// when kv holds more than N() pairs, and with ErrEncodingInfeasible, with
// probability at most 2^-NegLogFailureProbability(), when the hash keys
// do not admit an encoding of kv.
func (o *OKVS[E]) Encode(kv map[string]E) ([]E, error) {
	if len(kv) > o.n {
		return nil, fmt.Errorf("%w: %d pairs, at most %d", ErrInputTooLarge, len(kv), o.n)
	}

	// map iteration order is random, fix one so that storage only depends
	// on kv, the hash keys and the random stream
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	e := &encoding[E]{
		f:        o.f,
		lm:       o.lm,
		rm:       o.rm,
		rand:     o.rand,
		logger:   o.logger,
		values:   make([]E, len(keys)),
		buckets:  make([][]int, len(keys)),
		rx:       make([]*bitset.BitSet, len(keys)),
		storage:  make([]E, o.M()),
		assigned: bitset.New(uint(o.M())),
	}

	g := cuckoo.NewGraph(o.lm, o.hasher.Arity())
	for i, k := range keys {
		e.values[i] = kv[k]
		idxs := o.hasher.BucketIndices([]byte(k))
		e.buckets[i] = distinct(idxs)
		e.rx[i] = o.hasher.DenseVector([]byte(k))
		g.AddEdge(idxs)
	}

	core, removed := o.finder.Find(g)
	e.logger.V(2).Info("peeled cuckoo graph", "edges", g.EdgeNum(), "core", len(core), "removed", len(removed))

	if err := e.solveCore(core); err != nil {
		return nil, err
	}
	if err := e.backSubstitute(removed); err != nil {
		return nil, err
	}
	if err := e.fillRemaining(); err != nil {
		return nil, err
	}

	return e.storage, nil
}

// set assigns cell i, which must not have been assigned before.
func (e *encoding[E]) set(i int, v E) {
	if e.assigned.Test(uint(i)) {
		invariant("cell %d assigned twice", i)
	}
	e.storage[i] = v
	e.assigned.Set(uint(i))
}

// setRandom assigns cell i a random element.
func (e *encoding[E]) setRandom(i int) error {
	v, err := e.f.Random(e.rand)
	if err != nil {
		return err
	}
	e.set(i, v)
	return nil
}

// cell returns cell i, or zero if it is not assigned yet.
func (e *encoding[E]) cell(i int) E {
	if !e.assigned.Test(uint(i)) {
		return e.f.Zero()
	}
	return e.storage[i]
}

// solveCore assigns the right part of the storage, together with the left
// cells of the core edges, so that every core key decodes to its value.
func (e *encoding[E]) solveCore(core []int) error {
	d := len(core)
	if d > e.rm {
		return fmt.Errorf("%w: core of %d keys exceeds the %d dense cells", ErrEncodingInfeasible, d, e.rm)
	}

	if d == 0 {
		for r := 0; r < e.rm; r++ {
			if err := e.setRandom(e.lm + r); err != nil {
				return err
			}
		}
		return nil
	}

	// row r of the transposed system holds bit r of every core dense vector
	transposed := make([]*bitset.BitSet, e.rm)
	for r := range transposed {
		transposed[r] = bitset.New(uint(d))
		for i, edge := range core {
			if e.rx[edge].Test(uint(r)) {
				transposed[r].Set(uint(i))
			}
		}
	}
	// dense positions whose coefficients are solved for
	c := linear.MaxLinearIndependentRows(transposed, d)
	inC := bitset.New(uint(e.rm))
	for _, r := range c {
		inC.Set(uint(r))
	}
	e.logger.V(2).Info("reduced core system", "core", d, "rank", len(c))

	// everything else the core keys touch is random
	for _, edge := range core {
		for _, b := range e.buckets[edge] {
			if !e.assigned.Test(uint(b)) {
				if err := e.setRandom(b); err != nil {
					return err
				}
			}
		}
	}
	for r := 0; r < e.rm; r++ {
		if !inC.Test(uint(r)) {
			if err := e.setRandom(e.lm + r); err != nil {
				return err
			}
		}
	}

	rows := make([]*bitset.BitSet, d)
	rhs := make([]E, d)
	for i, edge := range core {
		rows[i] = bitset.New(uint(len(c)))
		for j, r := range c {
			if e.rx[edge].Test(uint(r)) {
				rows[i].Set(uint(j))
			}
		}

		v := e.values[edge]
		for _, b := range e.buckets[edge] {
			v = e.f.Sub(v, e.cell(b))
		}
		for r, ok := e.rx[edge].NextSet(0); ok; r, ok = e.rx[edge].NextSet(r + 1) {
			if !inC.Test(r) {
				v = e.f.Sub(v, e.cell(e.lm+int(r)))
			}
		}
		rhs[i] = v
	}

	x, err := linear.Solve(e.f, rows, len(c), rhs, e.rand)
	if errors.Is(err, linear.ErrInconsistent) {
		return fmt.Errorf("%w: %w", ErrEncodingInfeasible, err)
	}
	if err != nil {
		return err
	}

	for j, r := range c {
		e.set(e.lm+r, x[j])
	}

	return nil
}

// backSubstitute replays the peeled edges from the last removed to the
// first. Each of them has a bucket no later edge touches, which is
// assigned last so that the key decodes to its value.
func (e *encoding[E]) backSubstitute(removed []cuckoo.RemovedEdge) error {
	for i := len(removed) - 1; i >= 0; i-- {
		edge := removed[i].Edge

		inner := e.values[edge]
		rx := e.rx[edge]
		for r, ok := rx.NextSet(0); ok; r, ok = rx.NextSet(r + 1) {
			cell := e.lm + int(r)
			if !e.assigned.Test(uint(cell)) {
				invariant("dense cell %d unassigned during back substitution", cell)
			}
			inner = e.f.Sub(inner, e.storage[cell])
		}

		// the buckets are distinct, a two-hash self-loop has a single one
		free := -1
		for _, b := range e.buckets[edge] {
			if e.assigned.Test(uint(b)) {
				inner = e.f.Sub(inner, e.storage[b])
				continue
			}
			if free >= 0 {
				// more than one free bucket, draw all but one
				if err := e.setRandom(free); err != nil {
					return err
				}
				inner = e.f.Sub(inner, e.storage[free])
			}
			free = b
		}
		if free < 0 {
			invariant("every bucket of peeled key %d is already assigned", edge)
		}
		e.set(free, inner)
	}

	return nil
}

// fillRemaining draws the left cells no key constrains.
func (e *encoding[E]) fillRemaining() error {
	for i := 0; i < e.lm; i++ {
		if !e.assigned.Test(uint(i)) {
			if err := e.setRandom(i); err != nil {
				return err
			}
		}
	}

	if int(e.assigned.Count()) != len(e.storage) {
		invariant("%d of %d cells assigned after encoding", e.assigned.Count(), len(e.storage))
	}

	return nil
}

// distinct returns the bucket indices without repetition, in order.
func distinct(idxs []int) []int {
	d := make([]int, 0, len(idxs))
	for _, i := range idxs {
		seen := false
		for _, j := range d {
			if i == j {
				seen = true
				break
			}
		}
		if !seen {
			d = append(d, i)
		}
	}
	return d
}

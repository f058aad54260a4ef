package workload

import (
	"context"

	"github.com/lazybeaver/xorshift"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/genvec/alloc"
	"github.com/outofforest/genvec/types"
	"github.com/outofforest/logger"
	"github.com/outofforest/mass"
)

const (
	massSize        = 1024
	maxStaleIndices = 64
	ctxCheckPeriod  = 1024
)

// Config stores workload configuration.
type Config struct {
	Seed       uint64
	Operations uint64
	Components uint64
	Policy     alloc.Policy
}

// Result summarizes executed workload.
// Inserted, Removed and Updated count values changed in the closed arena and in the exposed set
// separately.
type Result struct {
	Operations    uint64
	Inserted      uint64
	Removed       uint64
	Updated       uint64
	StaleProbes   uint64
	Live          uint64
	MaxGeneration types.Generation
	Fingerprint   uint64
}

// Payload is the value stored in arenas.
type Payload struct {
	Seq   uint64
	Index types.Index
}

// Run runs the workload against closed arena and a set of exposed arenas sharing one allocator.
// Any violated property is returned as an error.
func Run(ctx context.Context, config Config) (Result, error) {
	r := newRunner(config)
	if err := r.run(ctx); err != nil {
		return r.result, err
	}

	logger.Get(ctx).Debug("Workload finished",
		zap.Uint64("seed", config.Seed),
		zap.Uint64("operations", r.result.Operations),
		zap.Uint64("live", r.result.Live),
		zap.Uint64("maxGeneration", uint64(r.result.MaxGeneration)),
		zap.Uint64("fingerprint", r.result.Fingerprint))

	return r.result, nil
}

func newRunner(config Config) *runner {
	if config.Components == 0 {
		config.Components = 1
	}
	seed := config.Seed
	if seed == 0 {
		seed = 1
	}

	return &runner{
		rand:       xorshift.NewXorShift64Star(seed),
		payloads:   mass.New[Payload](massSize),
		closed:     newClosedSide(config.Policy),
		exposed:    newExposedSide(config.Policy, config.Components),
		operations: config.Operations,
	}
}

type runner struct {
	rand       xorshift.XorShift
	payloads   *mass.Mass[Payload]
	closed     *closedSide
	exposed    *exposedSide
	operations uint64
	seq        uint64
	result     Result
}

func (r *runner) run(ctx context.Context) error {
	for i := range r.operations {
		if i%ctxCheckPeriod == 0 {
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}
		}

		var err error
		switch op := r.rand.Next() % 10; {
		case op < 5:
			err = r.insert()
		case op < 8:
			err = r.remove()
		case op < 9:
			err = r.update()
		default:
			err = r.probeStale()
		}
		if err != nil {
			return errors.Wrapf(err, "operation %d failed", i)
		}
		r.result.Operations++
	}

	return r.finish()
}

func (r *runner) newPayload() *Payload {
	r.seq++
	p := r.payloads.New()
	p.Seq = r.seq
	return p
}

func (r *runner) insert() error {
	p := r.newPayload()
	index := r.closed.arena.Insert(p)
	p.Index = index
	if err := r.closed.track(index); err != nil {
		return err
	}
	if v, exists := r.closed.arena.Get(index); !exists || v != p {
		return errors.Errorf("value inserted under %s can't be read back", index)
	}
	r.observe(index)
	r.result.Inserted++

	p = r.newPayload()
	index = r.exposed.allocator.Allocate()
	p.Index = index
	if err := r.exposed.track(index); err != nil {
		return err
	}
	for _, c := range r.exposed.components {
		if _, _, err := c.Set(index, p); err != nil {
			return err
		}
	}
	if err := r.exposed.verify(index, true); err != nil {
		return err
	}

	r.result.Inserted++
	r.observe(index)
	return nil
}

func (r *runner) remove() error {
	if index, ok := r.closed.pick(r.rand); ok {
		v, exists := r.closed.arena.Remove(index)
		if !exists || v.Index != index {
			return errors.Errorf("removing %s returned wrong value", index)
		}
		if _, exists := r.closed.arena.Get(index); exists {
			return errors.Errorf("removed %s is still readable", index)
		}
		r.closed.untrack(index)
		r.result.Removed++
	}

	if index, ok := r.exposed.pick(r.rand); ok {
		for _, c := range r.exposed.components {
			v, exists := c.Remove(index)
			if !exists || v.Index != index {
				return errors.Errorf("removing %s from component returned wrong value", index)
			}
		}
		if !r.exposed.allocator.Deallocate(index) {
			return errors.Errorf("deallocation of %s failed", index)
		}
		r.exposed.untrack(index)
		if err := r.exposed.verify(index, false); err != nil {
			return err
		}
		r.result.Removed++
	}

	return nil
}

func (r *runner) update() error {
	if index, ok := r.closed.pick(r.rand); ok {
		p := r.newPayload()
		p.Index = index
		previous, replaced, err := r.closed.arena.Set(index, p)
		if err != nil {
			return err
		}
		if !replaced || previous.Index != index {
			return errors.Errorf("updating %s replaced wrong value", index)
		}
		r.result.Updated++
	}

	if index, ok := r.exposed.pick(r.rand); ok {
		for _, c := range r.exposed.components {
			p := c.GetPtr(index)
			if p == nil {
				return errors.Errorf("live %s is missing in component", index)
			}
			(*p).Seq = r.seq
		}
		r.result.Updated++
	}

	return nil
}

func (r *runner) probeStale() error {
	for _, index := range r.closed.stale {
		if r.closed.arena.Contains(index) {
			return errors.Errorf("stale %s is reported as live by closed arena", index)
		}
		if _, exists := r.closed.arena.Remove(index); exists {
			return errors.Errorf("stale %s removed value from closed arena", index)
		}
		r.result.StaleProbes++
	}

	for _, index := range r.exposed.stale {
		if err := r.exposed.verify(index, false); err != nil {
			return err
		}
		r.result.StaleProbes++
	}

	return nil
}

func (r *runner) observe(index types.Index) {
	r.result.MaxGeneration = max(r.result.MaxGeneration, index.Generation())
}

func (r *runner) finish() error {
	if r.closed.arena.Len() != uint64(len(r.closed.live)) {
		return errors.Errorf("closed arena holds %d values, expected %d", r.closed.arena.Len(),
			len(r.closed.live))
	}
	if r.exposed.allocator.NumOfLive() != uint64(len(r.exposed.live)) {
		return errors.Errorf("allocator holds %d indices, expected %d", r.exposed.allocator.NumOfLive(),
			len(r.exposed.live))
	}

	for i, c := range r.exposed.components {
		if c.Len() != uint64(len(r.exposed.live)) {
			return errors.Errorf("component %d holds %d values, expected %d", i, c.Len(), len(r.exposed.live))
		}
	}

	var fingerprint uint64
	for index := range r.closed.arena.Iterator() {
		if _, exists := r.closed.positions[index]; !exists {
			return errors.Errorf("closed arena iterates over unknown %s", index)
		}
		fingerprint ^= index.Hash()
	}
	for index := range r.exposed.allocator.Iterator() {
		if _, exists := r.exposed.positions[index]; !exists {
			return errors.Errorf("allocator iterates over unknown %s", index)
		}
		for _, c := range r.exposed.components {
			if !c.Contains(index) {
				return errors.Errorf("live %s is missing in component", index)
			}
		}
		fingerprint ^= index.Hash() * 31
	}

	r.result.Live = uint64(len(r.closed.live) + len(r.exposed.live))
	r.result.Fingerprint = fingerprint
	return nil
}

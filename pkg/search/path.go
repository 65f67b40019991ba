package search

import "sync/atomic"

// frame is one entry of a worker's path: the choice taken at that depth,
// an optional snapshot of the space before any of the choice's
// alternatives was committed, and the alternative bookkeeping.
//
// Invariant: 1 <= nextAlt <= stealAlt <= choice.Alternatives().
// Alternatives below stealAlt are consumed: either explored by the
// owning worker (those below nextAlt) or handed to a thief.
type frame struct {
	choice   Choice
	space    Space
	nextAlt  int
	stealAlt int
}

func (f *frame) alternatives() int {
	return f.choice.Alternatives()
}

// path is the per-worker stack of frames supporting recomputation and
// stealing from the bottom. All operations require the owning worker's
// mutex; nframes is maintained atomically for lock-free statistics reads.
type path struct {
	frames  []*frame
	nframes atomic.Int64
}

func (p *path) size() int {
	return len(p.frames)
}

// push consumes cur's pending branching into a new frame with snapshot
// (which may be nil) and returns the choice so the caller can commit
// alternative 0 on cur. Alternative 0 is taken by the caller, so both
// counters start at 1; a one-alternative choice is thereby born
// exhausted, but its snapshot is kept as a recomputation base.
func (p *path) push(cur Space, snapshot Space) Choice {
	ch := cur.Choice()
	p.frames = append(p.frames, &frame{
		choice:   ch,
		space:    snapshot,
		nextAlt:  1,
		stealAlt: 1,
	})
	p.nframes.Store(int64(len(p.frames)))
	return ch
}

// next pops exhausted frames until one with an unconsumed alternative
// remains, reporting false when the path empties. Alternatives stolen
// from a frame are skipped by lifting nextAlt to stealAlt before testing
// exhaustion.
func (p *path) next() bool {
	for n := len(p.frames); n > 0; n = len(p.frames) {
		f := p.frames[n-1]
		if f.nextAlt < f.stealAlt {
			f.nextAlt = f.stealAlt
		}
		if f.nextAlt < f.alternatives() {
			return true
		}
		f.choice = nil
		f.space = nil
		p.frames[n-1] = nil
		p.frames = p.frames[:n-1]
		p.nframes.Store(int64(n - 1))
	}
	return false
}

// recompute rebuilds the space at the top frame and commits its next
// alternative. Starting from the nearest frame with a snapshot, the
// snapshot is cloned and every frame's committed alternative (nextAlt-1)
// is replayed upward. When the replayed span exceeds the adaptive
// distance aD, the intermediate space at the midpoint is cloned into a
// fresh snapshot on its frame to bound the cost of later recomputations.
// On return d is reset to 0.
//
// Must only be called after next returned true.
func (p *path) recompute(d *int, aD int) Space {
	n := len(p.frames)
	top := p.frames[n-1]

	l := n - 1
	for p.frames[l].space == nil {
		l--
	}
	s := p.frames[l].space.Clone()

	if span := n - 1 - l; span > aD {
		m := l + (span+1)/2
		for i := l; i < m; i++ {
			s.Commit(p.frames[i].choice, p.frames[i].nextAlt-1)
		}
		p.frames[m].space = s.Clone()
		for i := m; i < n-1; i++ {
			s.Commit(p.frames[i].choice, p.frames[i].nextAlt-1)
		}
	} else {
		for i := l; i < n-1; i++ {
			s.Commit(p.frames[i].choice, p.frames[i].nextAlt-1)
		}
	}

	s.Commit(top.choice, top.nextAlt)
	top.nextAlt++
	top.stealAlt = top.nextAlt
	*d = 0
	return s
}

// steal takes the lowest unconsumed alternative from the bottom-most
// frame that still has one, reconstructs a space committed to it, and
// advances that frame's stealAlt. The victim's nextAlt is untouched;
// stealing from the bottom hands off the largest subtree. Returns nil
// when no alternative is available.
func (p *path) steal() Space {
	for b := 0; b < len(p.frames); b++ {
		f := p.frames[b]
		if f.stealAlt >= f.alternatives() {
			continue
		}
		l := b
		for p.frames[l].space == nil {
			l--
		}
		s := p.frames[l].space.Clone()
		for i := l; i < b; i++ {
			s.Commit(p.frames[i].choice, p.frames[i].nextAlt-1)
		}
		s.Commit(f.choice, f.stealAlt)
		f.stealAlt++
		return s
	}
	return nil
}

// clear drops all frames, releasing their spaces and choices.
func (p *path) clear() {
	for i := range p.frames {
		p.frames[i] = nil
	}
	p.frames = p.frames[:0]
	p.nframes.Store(0)
}

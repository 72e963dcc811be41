package service

import (
	"hash/fnv"
	"sync"
)

const fillStripes = 256

// fillGuard orders background cache fills against invalidations. A fill
// takes a token before reading the repository and only writes if no
// invalidation for the same stripe happened since. Users share stripes, so
// an unrelated invalidation can at worst skip a fill.
type fillGuard struct {
	stripes [fillStripes]fillStripe
}

type fillStripe struct {
	mu  sync.Mutex
	gen uint64
}

func (g *fillGuard) stripe(userID string) *fillStripe {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &g.stripes[h.Sum32()%fillStripes]
}

func (g *fillGuard) token(userID string) uint64 {
	s := g.stripe(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen
}

// fill runs write unless userID was invalidated after token was taken.
func (g *fillGuard) fill(userID string, token uint64, write func()) bool {
	s := g.stripe(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != token {
		return false
	}
	write()
	return true
}

func (g *fillGuard) invalidate(userID string, del func()) {
	s := g.stripe(userID)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	del()
}

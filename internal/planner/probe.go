package planner

import (
	"context"

	"github.com/danieljhkim/stripdb/internal/compat"
)

// Probe reports whether an optional subsystem is active on the installation.
type Probe interface {
	IsActive(ctx context.Context, s compat.Subsystem) (bool, error)
}

// ProbeFunc adapts a function to the Probe interface.
type ProbeFunc func(ctx context.Context, s compat.Subsystem) (bool, error)

// IsActive calls f.
func (f ProbeFunc) IsActive(ctx context.Context, s compat.Subsystem) (bool, error) {
	return f(ctx, s)
}

// StaticProbe treats a fixed set of subsystems as active.
type StaticProbe struct {
	active map[compat.Subsystem]bool
}

// NewStaticProbe creates a probe reporting exactly the given subsystems as active.
func NewStaticProbe(active ...compat.Subsystem) *StaticProbe {
	p := &StaticProbe{active: make(map[compat.Subsystem]bool, len(active))}
	for _, s := range active {
		p.active[s] = true
	}
	return p
}

// IsActive reports whether s was given to NewStaticProbe.
func (p *StaticProbe) IsActive(_ context.Context, s compat.Subsystem) (bool, error) {
	return p.active[s], nil
}

// cachedProbe remembers answers so each subsystem is probed once per plan.
type cachedProbe struct {
	probe   Probe
	answers map[compat.Subsystem]bool
}

func newCachedProbe(p Probe) *cachedProbe {
	return &cachedProbe{probe: p, answers: make(map[compat.Subsystem]bool)}
}

func (c *cachedProbe) IsActive(ctx context.Context, s compat.Subsystem) (bool, error) {
	if !s.Optional() {
		return true, nil
	}
	if active, ok := c.answers[s]; ok {
		return active, nil
	}
	active, err := c.probe.IsActive(ctx, s)
	if err != nil {
		return false, err
	}
	c.answers[s] = active
	return active, nil
}

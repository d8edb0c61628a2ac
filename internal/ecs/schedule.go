package ecs

import (
	"fmt"

	"github.com/pkg/errors"
)

// Schedule names (spec.md §4.5 "Two fixed schedules").
const (
	ScheduleUpdate   = "Update"
	ScheduleGameTick = "GameTick"
)

// System is one unit of scheduled work; it receives the World and the
// fixed tick duration in seconds (50ms for GameTick, variable for
// Update).
type System func(w *World, dt float64)

type systemNode struct {
	label string
	fn    System
	after []string
}

// Schedule is a DAG of labeled systems executed once per run in an
// order consistent with their before/after constraints (spec.md §4.5
// "registered into a schedule with explicit ordering constraints...
// within one run each system executes once").
type Schedule struct {
	nodes    map[string]*systemNode
	inserted []string // labels in AddSystem call order, for deterministic tie-breaking
	order    []string // cached topological order, invalidated on AddSystem
}

func newSchedule() *Schedule {
	return &Schedule{nodes: map[string]*systemNode{}}
}

// AddSystem registers fn under label, optionally constrained to run
// after the named labels.
func (s *Schedule) AddSystem(label string, fn System, after ...string) {
	if _, exists := s.nodes[label]; !exists {
		s.inserted = append(s.inserted, label)
	}
	s.nodes[label] = &systemNode{label: label, fn: fn, after: after}
	s.order = nil
}

// Run executes every system once, in topological order, sequentially
// (spec.md §4.5 "Systems are scheduled sequentially by default...for
// test determinism, provide a mode that forces single-threaded
// execution" — this implementation is always single-threaded, which
// is a legal execution of any valid schedule regardless of whether a
// parallel scheduler could also run it).
func (s *Schedule) Run(w *World, dt float64) error {
	order, err := s.topoOrder()
	if err != nil {
		return err
	}
	for _, label := range order {
		s.nodes[label].fn(w, dt)
	}
	return nil
}

func (s *Schedule) topoOrder() ([]string, error) {
	if s.order != nil {
		return s.order, nil
	}
	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := map[string]int{}
	var order []string

	var visit func(label string) error
	visit = func(label string) error {
		switch color[label] {
		case black:
			return nil
		case grey:
			return errors.Errorf("ecs: cycle detected in schedule at system %q", label)
		}
		color[label] = grey
		node, ok := s.nodes[label]
		if !ok {
			return errors.Errorf("ecs: system %q depends on unregistered system", label)
		}
		for _, dep := range node.after {
			if err := visit(dep); err != nil {
				return err
			}
		}
		color[label] = black
		order = append(order, label)
		return nil
	}

	// Iterate in insertion order, not map order: sorting labels isn't
	// necessary for correctness, only determinism of tie-breaking among
	// independent systems, which callers shouldn't rely on distinguishing
	// anyway; map iteration order is intentionally randomized by Go, so
	// AddSystem tracks s.inserted on the side instead.
	for _, label := range s.inserted {
		if err := visit(label); err != nil {
			return nil, err
		}
	}
	s.order = order
	return order, nil
}

// AddSystem registers fn into the named schedule on w.
func (w *World) AddSystem(schedule, label string, fn System, after ...string) {
	sch, ok := w.schedules[schedule]
	if !ok {
		sch = newSchedule()
		w.schedules[schedule] = sch
	}
	sch.AddSystem(label, fn, after...)
}

// RunUpdate executes the Update schedule once with the given frame
// delta time.
func (w *World) RunUpdate(dt float64) error {
	return w.schedules[ScheduleUpdate].Run(w, dt)
}

// GameTickInterval is the fixed 20Hz period spec.md §4.5 requires.
const GameTickInterval = 1.0 / 20.0

// RunGameTick executes the GameTick schedule once at the fixed
// interval and advances the world's tick counter (used by Changed<C>),
// then clears every event queue (spec.md §4.5 "queues are cleared at
// the end of each frame").
func (w *World) RunGameTick() error {
	if err := w.schedules[ScheduleGameTick].Run(w, GameTickInterval); err != nil {
		return fmt.Errorf("ecs: GameTick schedule: %w", err)
	}
	w.mu.Lock()
	w.tick++
	for k, q := range w.events {
		q.clear()
		w.events[k] = q
	}
	w.mu.Unlock()
	return nil
}

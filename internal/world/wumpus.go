// Package world implements the Wumpus grid simulator: a hunter moves on a
// small board holding a hole, a treasure and the Wumpus, senses nearby
// hazards, and can spend limited flash units to kill the Wumpus in an
// adjacent cell.
package world

import (
	"fmt"
	"math/rand"

	"wumpus-rl-go/internal/engine"
)

const (
	StepReward     = -1.0
	KillReward     = 5.0
	TreasureReward = 100.0
	HoleReward     = -10.0
	WumpusReward   = -10.0
)

// NormalizeReward maps the simulator's step-reward span onto [0,1], the range
// UCB scoring assumes. The anchors are the plain step cost at the bottom and
// the treasure bonus at the top.
func NormalizeReward(reward float64) float64 {
	return (reward - StepReward) / (TreasureReward - StepReward)
}

type Point struct {
	X int
	Y int
}

type Config struct {
	Width         int
	Height        int
	FlashUnits    int
	Torus         bool
	DynamicWumpus bool
	Seed          int64
}

// Env is the Wumpus world. It implements engine.Environment and
// engine.EventSource.
type Env struct {
	cfg      Config
	rng      *rand.Rand
	agent    Point
	wumpus   Point
	hole     Point
	treasure Point
	flash    int
	events   []engine.StepEvent
}

func New(cfg Config) (*Env, error) {
	if cfg.Width < 2 || cfg.Height < 3 {
		return nil, fmt.Errorf("world: grid must be at least 2x3 to place the hole, treasure and wumpus (got %dx%d)", cfg.Width, cfg.Height)
	}
	if cfg.FlashUnits < 0 {
		return nil, fmt.Errorf("world: flash units must be >= 0 (got %d)", cfg.FlashUnits)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 1
	}
	e := &Env{
		cfg:      cfg,
		rng:      rand.New(rand.NewSource(seed)),
		hole:     Point{1, 1},
		treasure: Point{cfg.Width - 1, cfg.Height - 1},
	}
	e.Reset()
	return e, nil
}

// Reset puts the hunter back at the origin with a full flash pack and
// respawns the Wumpus.
func (e *Env) Reset() engine.Observation {
	e.agent = Point{0, 0}
	e.wumpus = Point{1, 2}
	e.flash = e.cfg.FlashUnits
	e.events = nil
	return e.observe()
}

// Step applies one action: moves consume a tick, flashes consume a flash unit
// (when any remain) and kill the Wumpus if it sits in the targeted cell.
// Every step costs StepReward; terminal cells add their own reward on top.
func (e *Env) Step(action engine.Action) (engine.Observation, float64, bool) {
	e.events = e.events[:0]
	reward := StepReward

	if action.IsMove() {
		e.agent = e.move(e.agent, action)
	} else if e.flash > 0 {
		e.flash--
		if e.fireFlash(action) {
			reward += KillReward
			e.events = append(e.events, engine.StepEvent{Kind: EventWumpusKilled, Message: "killed the Wumpus!"})
		}
	}

	obs := e.observe()

	done := false
	switch {
	case e.wumpusAlive() && e.agent == e.wumpus:
		reward += WumpusReward
		done = true
		e.events = append(e.events, engine.StepEvent{Kind: EventMetWumpus, Message: "met the Wumpus... and died"})
	case e.agent == e.hole:
		reward += HoleReward
		done = true
		e.events = append(e.events, engine.StepEvent{Kind: EventFellInHole, Message: "stepped in a hole... and died"})
	case e.agent == e.treasure:
		reward += TreasureReward
		done = true
		e.events = append(e.events, engine.StepEvent{Kind: EventFoundTreasure, Message: "found the treasure!"})
	}

	if e.cfg.DynamicWumpus && e.wumpusAlive() {
		e.moveWumpus()
	}

	return obs, reward, done
}

// LastEvents reports the events of the most recent step.
func (e *Env) LastEvents() []engine.StepEvent {
	if len(e.events) == 0 {
		return nil
	}
	events := make([]engine.StepEvent, len(e.events))
	copy(events, e.events)
	return events
}

func (e *Env) observe() engine.Observation {
	smell, breeze := 0, 0
	if e.wumpusAlive() && manhattan(e.agent, e.wumpus) < 2 {
		smell = 1
	}
	if manhattan(e.agent, e.hole) < 2 {
		breeze = 1
	}
	return engine.Observation{X: e.agent.X, Y: e.agent.Y, Smell: smell, Breeze: breeze, Flash: e.flash}
}

// move shifts p one cell in the direction of action, wrapping on a torus or
// clamping at the border otherwise.
func (e *Env) move(p Point, action engine.Action) Point {
	next := p
	switch action.Direction() {
	case engine.Up:
		next.Y++
	case engine.Down:
		next.Y--
	case engine.Left:
		next.X--
	case engine.Right:
		next.X++
	}
	if e.cfg.Torus {
		next.X = wrap(next.X, e.cfg.Width)
		next.Y = wrap(next.Y, e.cfg.Height)
	} else {
		next.X = clamp(next.X, e.cfg.Width)
		next.Y = clamp(next.Y, e.cfg.Height)
	}
	return next
}

// fireFlash kills the Wumpus when it occupies the cell adjacent to the hunter
// in the flash direction. The dead Wumpus leaves the board.
func (e *Env) fireFlash(action engine.Action) bool {
	if !e.wumpusAlive() {
		return false
	}
	target := e.agent
	switch action.Direction() {
	case engine.Up:
		target.Y++
	case engine.Down:
		target.Y--
	case engine.Left:
		target.X--
	case engine.Right:
		target.X++
	}
	if e.wumpus == target {
		e.wumpus = Point{-1, -1}
		return true
	}
	return false
}

func (e *Env) moveWumpus() {
	// The wumpus only ever wanders up, down or left.
	dir := engine.Action(e.rng.Intn(3))
	e.wumpus = e.move(e.wumpus, dir)
}

func (e *Env) wumpusAlive() bool {
	return e.wumpus.X >= 0
}

func (e *Env) Width() int             { return e.cfg.Width }
func (e *Env) Height() int            { return e.cfg.Height }
func (e *Env) AgentPosition() Point   { return e.agent }
func (e *Env) HolePosition() Point    { return e.hole }
func (e *Env) TreasurePosition() Point { return e.treasure }
func (e *Env) FlashRemaining() int    { return e.flash }

// WumpusPosition reports where the Wumpus is and whether it is still alive.
func (e *Env) WumpusPosition() (Point, bool) {
	return e.wumpus, e.wumpusAlive()
}

func manhattan(a, b Point) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func wrap(v, size int) int {
	if v < 0 {
		return size - 1
	}
	if v >= size {
		return 0
	}
	return v
}

func clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v >= size {
		return size - 1
	}
	return v
}

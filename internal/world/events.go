package world

// Step event kinds reported through engine.EventSource. Consumers switch on
// the kind; the message is ready-made narration for the renderer.
const (
	EventWumpusKilled  = "wumpus-killed"
	EventMetWumpus     = "met-wumpus"
	EventFellInHole    = "fell-in-hole"
	EventFoundTreasure = "found-treasure"
)

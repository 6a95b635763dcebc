package engine

// Action is one of the eight discrete things the agent can do on a step:
// move one cell in a cardinal direction, or fire the flash in one.
type Action int

const (
	Up Action = iota
	Down
	Left
	Right
	FlashUp
	FlashDown
	FlashLeft
	FlashRight
)

const (
	NumActions = 8
	NumMoves   = 4
)

func (a Action) IsMove() bool {
	return a >= Up && a <= Right
}

func (a Action) IsFlash() bool {
	return a >= FlashUp && a <= FlashRight
}

// FlashFor maps a movement action to the flash fired in the same direction.
func FlashFor(move Action) Action {
	return move + FlashUp
}

// Direction returns the movement direction of a, collapsing flashes onto
// their matching move.
func (a Action) Direction() Action {
	if a.IsFlash() {
		return a - FlashUp
	}
	return a
}

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case FlashUp:
		return "flash-up"
	case FlashDown:
		return "flash-down"
	case FlashLeft:
		return "flash-left"
	case FlashRight:
		return "flash-right"
	}
	return "invalid"
}

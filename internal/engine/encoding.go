package engine

import "fmt"

// Observation is what the agent senses on a step: its position, the two
// hazard flags, and how many flash units it has left.
type Observation struct {
	X      int
	Y      int
	Smell  int
	Breeze int
	Flash  int
}

// flattenIndex folds coords into a single index using row-major order: the
// last dimension varies fastest. Both slices must have the same length and
// every coordinate must lie in [0, dims[i]); violations are programming
// errors, not runtime conditions, so they panic.
func flattenIndex(coords, dims []int) int {
	if len(coords) != len(dims) {
		panic(fmt.Sprintf("engine: flattenIndex got %d coords for %d dims", len(coords), len(dims)))
	}
	index := 0
	for i, c := range coords {
		if c < 0 || c >= dims[i] {
			panic(fmt.Sprintf("engine: coordinate %d out of range [0,%d) at axis %d", c, dims[i], i))
		}
		index = index*dims[i] + c
	}
	return index
}

// unflattenIndex is the inverse of flattenIndex.
func unflattenIndex(index int, dims []int) []int {
	coords := make([]int, len(dims))
	for i := len(dims) - 1; i >= 0; i-- {
		coords[i] = index % dims[i]
		index /= dims[i]
	}
	return coords
}

func stateCount(dims []int) int {
	total := 1
	for _, d := range dims {
		total *= d
	}
	return total
}

// Encoding compresses an observation (plus the previously taken action, for
// encodings that use it) into a flat table index.
type Encoding interface {
	// Dims lists the per-axis cardinalities, outermost first.
	Dims() []int
	// Index returns the row-major flattening of the selected fields.
	Index(prev Action, obs Observation) int
	// States is the total table size, the product of Dims.
	States() int
}

const (
	EncodingSensor       = "sensor"
	EncodingActionSensor = "action-sensor"
	EncodingPosition     = "position"
)

// SensorEncoding keys the table on (smell, breeze, flash) only. The smallest
// state space: the agent is blind to where it is.
type SensorEncoding struct {
	dims []int
}

// NewSensorEncoding builds a sensor-only encoding. maxFlash is the largest
// possible remaining-flash count; the axis holds maxFlash+1 values so the
// boundary state is representable.
func NewSensorEncoding(maxFlash int) (*SensorEncoding, error) {
	if maxFlash < 0 {
		return nil, fmt.Errorf("engine: maxFlash must be >= 0 (got %d)", maxFlash)
	}
	return &SensorEncoding{dims: []int{2, 2, maxFlash + 1}}, nil
}

func (e *SensorEncoding) Dims() []int { return e.dims }
func (e *SensorEncoding) States() int { return stateCount(e.dims) }

func (e *SensorEncoding) Index(_ Action, obs Observation) int {
	return flattenIndex([]int{obs.Smell, obs.Breeze, obs.Flash}, e.dims)
}

// ActionSensorEncoding prepends the previously taken action to the sensor
// tuple, giving the table a notion of short-term momentum.
type ActionSensorEncoding struct {
	dims []int
}

func NewActionSensorEncoding(maxFlash int) (*ActionSensorEncoding, error) {
	if maxFlash < 0 {
		return nil, fmt.Errorf("engine: maxFlash must be >= 0 (got %d)", maxFlash)
	}
	return &ActionSensorEncoding{dims: []int{NumActions, 2, 2, maxFlash + 1}}, nil
}

func (e *ActionSensorEncoding) Dims() []int { return e.dims }
func (e *ActionSensorEncoding) States() int { return stateCount(e.dims) }

func (e *ActionSensorEncoding) Index(prev Action, obs Observation) int {
	return flattenIndex([]int{int(prev), obs.Smell, obs.Breeze, obs.Flash}, e.dims)
}

// PositionEncoding prepends the raw (x, y) position to the sensor tuple.
// Fully observable, at the cost of a table that scales with the grid area.
type PositionEncoding struct {
	dims []int
}

func NewPositionEncoding(width, height, maxFlash int) (*PositionEncoding, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("engine: grid dimensions must be positive (got %dx%d)", width, height)
	}
	if maxFlash < 0 {
		return nil, fmt.Errorf("engine: maxFlash must be >= 0 (got %d)", maxFlash)
	}
	return &PositionEncoding{dims: []int{width, height, 2, 2, maxFlash + 1}}, nil
}

func (e *PositionEncoding) Dims() []int { return e.dims }
func (e *PositionEncoding) States() int { return stateCount(e.dims) }

func (e *PositionEncoding) Index(_ Action, obs Observation) int {
	return flattenIndex([]int{obs.X, obs.Y, obs.Smell, obs.Breeze, obs.Flash}, e.dims)
}

// NewEncoding builds the encoding selected by name.
func NewEncoding(name string, width, height, maxFlash int) (Encoding, error) {
	switch name {
	case EncodingSensor:
		return NewSensorEncoding(maxFlash)
	case EncodingActionSensor:
		return NewActionSensorEncoding(maxFlash)
	case EncodingPosition:
		return NewPositionEncoding(width, height, maxFlash)
	default:
		return nil, fmt.Errorf("engine: unknown encoding %q", name)
	}
}

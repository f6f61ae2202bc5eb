package errors

// ValidateDimensions checks the graph dimensions accepted by build.
// A trellis needs at least one state per layer and at least two layers
// (a single layer has no transitions to draw).
func ValidateDimensions(states, layers int) error {
	if states <= 0 {
		return New(ErrCodeInvalidDimension, "state count must be positive, got %d", states)
	}
	if layers < 2 {
		return New(ErrCodeInvalidDimension, "layer count must be at least 2, got %d", layers)
	}
	return nil
}

// ValidateNode checks that (layer, state) identifies a node in a graph
// with the given dimensions.
func ValidateNode(layer, state, layers, states int) error {
	if layer < 0 || layer >= layers {
		return New(ErrCodeOutOfRange, "layer %d outside [0,%d)", layer, layers)
	}
	if state < 0 || state >= states {
		return New(ErrCodeOutOfRange, "state %d outside [0,%d)", state, states)
	}
	return nil
}

// ValidateEdge checks that (layer, from, to) identifies a transition from
// layer to layer+1 in a graph with the given dimensions.
func ValidateEdge(layer, from, to, layers, states int) error {
	if layer < 0 || layer >= layers-1 {
		return New(ErrCodeOutOfRange, "transition layer %d outside [0,%d)", layer, layers-1)
	}
	if from < 0 || from >= states {
		return New(ErrCodeOutOfRange, "from state %d outside [0,%d)", from, states)
	}
	if to < 0 || to >= states {
		return New(ErrCodeOutOfRange, "to state %d outside [0,%d)", to, states)
	}
	return nil
}

// ValidateViewport checks that a drawing surface of the given dimensions
// can accept drawing commands. Zero or negative area means the surface
// cannot be drawn on.
func ValidateViewport(width, height float64) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeSurfaceUnavailable, "viewport %gx%g has no drawable area", width, height)
	}
	return nil
}

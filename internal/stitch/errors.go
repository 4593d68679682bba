// Package stitch plans and places stitching vias inside copper zones.
//
// The planner (Plan) is a pure function from a zone outline and spacing
// parameters to a deterministic sequence of via center positions. The
// runner (Runner) is the glue that resolves nets, filters against existing
// board vias, and creates the via and group objects on the board document.
package stitch

import "errors"

// ErrInvalidParameters indicates bad user input: a non-positive spacing,
// a drill at or above the via diameter, or a boundary with fewer than
// three points. Surfaced to the settings dialog for correction.
var ErrInvalidParameters = errors.New("invalid parameters")

// ErrDegenerateBoundary indicates a zone outline with no usable area.
var ErrDegenerateBoundary = errors.New("degenerate boundary")

// Package mapping rasterizes graph outputs into 2D images.
//
// Every pixel is turned into a coordinate by a lift: a function of the
// normalized pixel position (s, t) in [0,1). The plain lift is a 2D affine
// map of the domain rectangle. The seamless lifts embed the image in a
// higher-dimensional closed surface so that the left edge meets the right
// edge (and top meets bottom for the torus):
//
//	SeamlessNone  2D          (X + s·W, Y + t·H)
//	SeamlessX     3D cylinder wraps along x
//	SeamlessY     3D cylinder wraps along y
//	SeamlessXY    4D torus    wraps along both
//	Spherical     3D sphere   wraps in longitude
//
// Rows are filled in bands on a Pool. Values are packed into the requested
// Format after an optional min/max normalization pass.
package mapping

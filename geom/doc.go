// Package geom holds the 2D shape descriptors attached to scene nodes and the
// world-space hulls they derive from a node's world transform.
//
// Every shape kind reduces to a Hull: a convex vertex list (one vertex for
// points and circles, two for segments and capsules, three or more for boxes
// and polygons) inflated by a radius. Intersects is the only pairwise test.
package geom

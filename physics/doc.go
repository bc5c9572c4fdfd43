// Package physics groups collidable shapes attached to scene nodes and answers
// first-collision queries against a group.
//
// Each Shape caches its world-space hull. A node transform change marks the
// shape dirty and sets its group's aggregate dirty flag; ShapeGroup.SetClean
// recomputes only the shapes that were marked, and FirstCollision always runs
// a clean pass before scanning members in registration order.
//
// Everything here is single-threaded: registration, dirty marking, clean
// passes and queries must happen on the same goroutine, typically once per
// frame before any query.
package physics

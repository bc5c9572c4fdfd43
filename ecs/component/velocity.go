package component

// Velocity moves a node's local transform every motion tick. Angular is in
// radians per second.
type Velocity struct {
	X       float64
	Y       float64
	Angular float64
}

var VelocityComponent = NewComponent[Velocity]()

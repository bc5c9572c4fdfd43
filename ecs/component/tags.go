package component

// Name is a human readable node identifier used by specs, logs and the viewer.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()

// Script binds a tengo motion script to a node.
type Script struct {
	Path string
}

var ScriptComponent = NewComponent[Script]()

// ProbeTag marks a node whose shape is queried against a group every frame.
type ProbeTag struct {
	Group string
}

var ProbeTagComponent = NewComponent[ProbeTag]()

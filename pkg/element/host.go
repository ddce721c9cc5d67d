package element

// View is whatever a component renders. The runtime never inspects it; it is
// handed unchanged to the host's render target.
type View = any

// Component renders props into a view.
type Component[P any] func(props P) View

// Event is a custom event dispatched from an element to the host.
type Event struct {
	Type     string
	Detail   any
	Bubbles  bool
	Composed bool
}

// ValueDetail is the detail of settings-value-change and
// user-settings-value-change events.
type ValueDetail struct {
	Value string `json:"value"`
}

// Root is the render target created by the host for an attached element.
type Root interface {
	Render(v View)
	Unmount()
}

// Host is the node an element instance is bound to.
type Host interface {
	// Attribute returns the current value of an attribute and whether it is set.
	Attribute(name string) (string, bool)
	DispatchEvent(ev Event)
	CreateRoot() Root
}

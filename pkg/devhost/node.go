package devhost

import (
	"wizard.dev/pluginsdk/pkg/element"
	"wizard.dev/pluginsdk/pkg/protocol"
)

// Node is a simulated host element. It implements element.Host.
type Node struct {
	doc       *Document
	tag       string
	attrs     map[string]string
	instance  element.Instance
	root      *Root
	listeners map[string][]func(element.Event)
	connected bool
}

// Tag returns the tag the node was created for.
func (n *Node) Tag() string { return n.tag }

// Instance returns the element bound to the node.
func (n *Node) Instance() element.Instance { return n.instance }

// Connected reports whether the node is attached to its document.
func (n *Node) Connected() bool { return n.connected }

// Root returns the current render target, or nil when detached.
func (n *Node) Root() *Root { return n.root }

func (n *Node) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}

// SetAttribute sets an attribute and notifies the element.
func (n *Node) SetAttribute(name, value string) {
	n.doc.Batch(func() {
		old, had := n.attrs[name]
		n.attrs[name] = value
		var oldValue *string
		if had {
			oldValue = &old
		}
		n.instance.AttributeChanged(name, oldValue, &value)
	})
}

// RemoveAttribute removes an attribute and notifies the element.
func (n *Node) RemoveAttribute(name string) {
	n.doc.Batch(func() {
		old, had := n.attrs[name]
		if !had {
			return
		}
		delete(n.attrs, name)
		n.instance.AttributeChanged(name, &old, nil)
	})
}

// AddEventListener registers fn for events of the given type on this node.
func (n *Node) AddEventListener(eventType string, fn func(element.Event)) {
	n.listeners[eventType] = append(n.listeners[eventType], fn)
}

func (n *Node) DispatchEvent(ev element.Event) {
	for _, fn := range n.listeners[ev.Type] {
		fn(ev)
	}
	if ev.Bubbles {
		n.doc.dispatch(n, ev)
	}
	if n.doc.echo {
		n.echo(ev)
	}
}

func (n *Node) echo(ev element.Event) {
	detail, ok := ev.Detail.(element.ValueDetail)
	if !ok {
		return
	}
	switch ev.Type {
	case protocol.EventSettingsValueChange:
		n.SetAttribute(protocol.AttrSettingsValue, detail.Value)
	case protocol.EventUserSettingsValueChange:
		n.SetAttribute(protocol.AttrUserSettingsValue, detail.Value)
	}
}

func (n *Node) CreateRoot() element.Root {
	n.root = &Root{node: n, mounted: true}
	return n.root
}

// Root records what an element rendered.
type Root struct {
	node    *Node
	view    element.View
	renders int
	mounted bool
}

func (r *Root) Render(v element.View) {
	r.view = v
	r.renders++
}

func (r *Root) Unmount() {
	r.mounted = false
	r.view = nil
	if r.node.root == r {
		r.node.root = nil
	}
}

// View returns the last rendered view.
func (r *Root) View() element.View { return r.view }

// Renders returns how many views the root received.
func (r *Root) Renders() int { return r.renders }

// Mounted reports whether the root is still in use.
func (r *Root) Mounted() bool { return r.mounted }

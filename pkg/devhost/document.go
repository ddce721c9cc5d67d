// Package devhost is an in-memory stand-in for the host application. It wires
// registered elements to attribute-carrying nodes, runs their deferred renders
// at the end of each task and records the events they dispatch.
package devhost

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"wizard.dev/pluginsdk/pkg/element"
	"wizard.dev/pluginsdk/pkg/plugin"
)

// ErrUnknownTag is returned by CreateElement for tags missing from the registry.
var ErrUnknownTag = errors.New("unknown element tag")

// Listener observes events dispatched by any node of a document.
type Listener func(node *Node, ev element.Event)

// Document owns the nodes of one simulated page. It is not safe for concurrent
// use.
type Document struct {
	registry  *plugin.Registry
	queue     *element.MicrotaskQueue
	logger    *zap.Logger
	echo      bool
	depth     int
	nodes     []*Node
	listeners []Listener
}

// Option configures a Document.
type Option func(*Document)

// WithSettingsEcho makes the document write settings change events back into
// the matching attribute of the dispatching node.
func WithSettingsEcho() Option {
	return func(d *Document) {
		d.echo = true
	}
}

// WithLogger sets the logger handed to element instances.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDocument returns an empty document resolving tags through registry.
func NewDocument(registry *plugin.Registry, opts ...Option) *Document {
	d := &Document{
		registry: registry,
		queue:    element.NewMicrotaskQueue(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CreateElement creates a detached node for tag.
func (d *Document) CreateElement(tag string) (*Node, error) {
	ctor, ok := d.registry.Lookup(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTag, tag)
	}
	n := &Node{
		doc:       d,
		tag:       tag,
		attrs:     make(map[string]string),
		listeners: make(map[string][]func(element.Event)),
	}
	n.instance = ctor.Instantiate(n, d.queue, element.WithTag(tag), element.WithLogger(d.logger))
	return n, nil
}

// Append attaches n. Appending an attached node does nothing.
func (d *Document) Append(n *Node) {
	d.Batch(func() {
		if n.connected {
			return
		}
		n.connected = true
		d.nodes = append(d.nodes, n)
		n.instance.Connected()
	})
}

// Remove detaches n.
func (d *Document) Remove(n *Node) {
	d.Batch(func() {
		i := slices.Index(d.nodes, n)
		if i < 0 {
			return
		}
		d.nodes = slices.Delete(d.nodes, i, i+1)
		n.connected = false
		n.instance.Disconnected()
	})
}

// Batch runs fn as one task. Deferred renders run when the outermost batch
// returns.
func (d *Document) Batch(fn func()) {
	d.depth++
	defer func() {
		d.depth--
		if d.depth == 0 {
			d.queue.Drain()
		}
	}()
	fn()
}

// Flush runs pending deferred work and returns the number of tasks run.
func (d *Document) Flush() int {
	return d.queue.Drain()
}

// Pending returns the number of queued tasks.
func (d *Document) Pending() int {
	return d.queue.Len()
}

// AddEventListener registers fn for events of every node.
func (d *Document) AddEventListener(fn Listener) {
	d.listeners = append(d.listeners, fn)
}

// Nodes returns the attached nodes in attach order.
func (d *Document) Nodes() []*Node {
	return slices.Clone(d.nodes)
}

func (d *Document) dispatch(n *Node, ev element.Event) {
	for _, fn := range d.listeners {
		fn(n, ev)
	}
}

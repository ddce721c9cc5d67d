// Package element implements the lifecycle shared by every plugin element:
// attribute-driven state synchronization, coalesced deferred rendering and
// typed event dispatch.
package element

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap"

	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/protocol"
)

// State is the attachment state of an element instance.
type State string

const (
	StateDetached State = "detached"
	StateAttached State = "attached"
)

// Instance is the type-erased view of an element used by hosts and registries.
type Instance interface {
	Connected()
	Disconnected()
	AttributeChanged(name string, oldValue, newValue *string)
	State() State
	Renders() int
}

// Element is one live instance of a Definition bound to a host node. It is
// driven from a single goroutine and is not safe for concurrent use.
type Element[S, U any] struct {
	tag      string
	kind     Kind
	host     Host
	sched    Scheduler
	logger   *zap.Logger
	observed []string

	settingsCodec     codec.Codec[S]
	userSettingsCodec codec.Codec[U]
	settings          S
	userSettings      U

	fields []field
	render func() View

	state   State
	root    Root
	queued  bool
	epoch   uint64
	renders int
}

// Option configures an element instance.
type Option func(*options)

type options struct {
	logger *zap.Logger
	tag    string
}

// WithLogger sets the logger used to report rejected attribute values.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTag sets the tag name the instance was created for. It only appears in
// log output.
func WithTag(tag string) Option {
	return func(o *options) {
		o.tag = tag
	}
}

func newElement[S, U any](d Definition[S, U], host Host, sched Scheduler, opts ...Option) *Element[S, U] {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Element[S, U]{
		tag:               o.tag,
		kind:              d.variant.kind,
		host:              host,
		sched:             sched,
		logger:            o.logger,
		observed:          d.ObservedAttributes(),
		settingsCodec:     d.settings,
		userSettingsCodec: d.userSettings,
		settings:          d.settings.Init(),
		userSettings:      d.userSettings.Init(),
		state:             StateDetached,
	}
	e.fields, e.render = d.variant.mount(e)
	return e
}

// Connected attaches the element: it creates the render target, resets all
// state, syncs every present attribute and requests a render. Calling it on an
// attached element does nothing.
func (e *Element[S, U]) Connected() {
	if e.state == StateAttached {
		return
	}
	e.state = StateAttached
	e.root = e.host.CreateRoot()

	e.settings = e.settingsCodec.Init()
	e.userSettings = e.userSettingsCodec.Init()
	for _, f := range e.fields {
		f.reset()
	}
	for _, name := range e.observed {
		e.sync(name)
	}

	e.requestRender()
}

// Disconnected cancels any pending render and unmounts the render target.
func (e *Element[S, U]) Disconnected() {
	if e.state == StateDetached {
		return
	}
	e.state = StateDetached
	e.queued = false
	e.epoch++
	if e.root != nil {
		e.root.Unmount()
		e.root = nil
	}
}

// AttributeChanged resyncs an observed attribute from the host and requests a
// render. Unobserved names and unchanged values are ignored.
func (e *Element[S, U]) AttributeChanged(name string, oldValue, newValue *string) {
	if !slices.Contains(e.observed, name) || sameValue(oldValue, newValue) {
		return
	}
	e.sync(name)
	e.requestRender()
}

// State reports whether the element is attached.
func (e *Element[S, U]) State() State { return e.state }

// Renders returns how many times the component has been rendered.
func (e *Element[S, U]) Renders() int { return e.renders }

// Settings returns the current plugin settings.
func (e *Element[S, U]) Settings() S { return e.settings }

// UserSettings returns the current user settings.
func (e *Element[S, U]) UserSettings() U { return e.userSettings }

// Kind returns the variant kind of the element.
func (e *Element[S, U]) Kind() Kind { return e.kind }

func sameValue(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// sync reads one attribute from the host and decodes it into state. Absent or
// blank values leave state alone; so do values that fail to decode.
func (e *Element[S, U]) sync(name string) {
	raw, ok := e.host.Attribute(name)
	if !ok || strings.TrimSpace(raw) == "" {
		return
	}

	var err error
	switch name {
	case protocol.AttrSettingsValue:
		var v S
		if v, err = e.settingsCodec.Decode(raw); err == nil {
			e.settings = v
		}
	case protocol.AttrUserSettingsValue:
		var v U
		if v, err = e.userSettingsCodec.Decode(raw); err == nil {
			e.userSettings = v
		}
	default:
		for _, f := range e.fields {
			if f.attribute() == name {
				err = f.sync(raw)
				break
			}
		}
	}

	if err != nil {
		e.logger.Warn("Ignoring invalid attribute value",
			zap.String("tag", e.tag),
			zap.String("attribute", name),
			zap.Error(err))
	}
}

// requestRender schedules a render unless one is already pending. Pending
// renders carry the epoch they were scheduled in, so a detach invalidates them
// even when the element is attached again before the scheduler runs.
func (e *Element[S, U]) requestRender() {
	if e.state != StateAttached || e.queued {
		return
	}
	e.queued = true
	epoch := e.epoch
	e.sched.Schedule(func() {
		if e.epoch != epoch || !e.queued {
			return
		}
		e.queued = false
		e.renderNow()
	})
}

func (e *Element[S, U]) renderNow() {
	view := e.render()
	e.renders++
	e.root.Render(view)
}

func (e *Element[S, U]) emit(eventType string, detail any) {
	e.host.DispatchEvent(Event{Type: eventType, Detail: detail, Bubbles: true, Composed: true})
}

func (e *Element[S, U]) emitEmpty(eventType string) {
	e.emit(eventType, nil)
}

func (e *Element[S, U]) closeAction() {
	e.emitEmpty(protocol.EventActionClose)
}

func (e *Element[S, U]) changeSettings(v S) error {
	raw, err := e.settingsCodec.Encode(v)
	if err != nil {
		return fmt.Errorf("settings change: %w", err)
	}
	e.settings = v
	e.requestRender()
	e.emit(protocol.EventSettingsValueChange, ValueDetail{Value: raw})
	return nil
}

func (e *Element[S, U]) changeUserSettings(v U) error {
	raw, err := e.userSettingsCodec.Encode(v)
	if err != nil {
		return fmt.Errorf("user settings change: %w", err)
	}
	e.userSettings = v
	e.requestRender()
	e.emit(protocol.EventUserSettingsValueChange, ValueDetail{Value: raw})
	return nil
}

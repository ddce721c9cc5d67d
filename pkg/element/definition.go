package element

import (
	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/protocol"
)

// Constructor is the type-erased view of a Definition used by registries.
type Constructor interface {
	Kind() Kind
	ObservedAttributes() []string
	Instantiate(host Host, sched Scheduler, opts ...Option) Instance
}

// Definition binds a variant to the plugin's settings codecs. It is an
// immutable value and may be instantiated for any number of host nodes.
type Definition[S, U any] struct {
	settings     codec.Codec[S]
	userSettings codec.Codec[U]
	variant      Variant[S, U]
}

// NewDefinition returns a definition for variant using the given codecs.
func NewDefinition[S, U any](settings codec.Codec[S], userSettings codec.Codec[U], variant Variant[S, U]) Definition[S, U] {
	return Definition[S, U]{settings: settings, userSettings: userSettings, variant: variant}
}

// Kind returns the element kind.
func (d Definition[S, U]) Kind() Kind { return d.variant.kind }

// ObservedAttributes returns the attributes instances react to. The result is
// a fresh slice.
func (d Definition[S, U]) ObservedAttributes() []string {
	attrs := make([]string, 0, 2+len(d.variant.attributes))
	attrs = append(attrs, protocol.AttrSettingsValue, protocol.AttrUserSettingsValue)
	return append(attrs, d.variant.attributes...)
}

// New creates a detached instance bound to host.
func (d Definition[S, U]) New(host Host, sched Scheduler, opts ...Option) *Element[S, U] {
	return newElement(d, host, sched, opts...)
}

// Instantiate implements Constructor.
func (d Definition[S, U]) Instantiate(host Host, sched Scheduler, opts ...Option) Instance {
	return d.New(host, sched, opts...)
}

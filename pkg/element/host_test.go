package element_test

import (
	"wizard.dev/pluginsdk/pkg/element"
)

// fakeHost is a minimal host node recording events and render targets.
type fakeHost struct {
	attrs  map[string]string
	events []element.Event
	roots  []*fakeRoot
}

func newFakeHost() *fakeHost {
	return &fakeHost{attrs: map[string]string{}}
}

func (h *fakeHost) Attribute(name string) (string, bool) {
	v, ok := h.attrs[name]
	return v, ok
}

func (h *fakeHost) DispatchEvent(ev element.Event) {
	h.events = append(h.events, ev)
}

func (h *fakeHost) CreateRoot() element.Root {
	r := &fakeRoot{}
	h.roots = append(h.roots, r)
	return r
}

// set changes an attribute and notifies el the way a DOM would.
func (h *fakeHost) set(el element.Instance, name, value string) {
	old, had := h.attrs[name]
	h.attrs[name] = value
	var oldPtr *string
	if had {
		oldPtr = &old
	}
	el.AttributeChanged(name, oldPtr, &value)
}

func (h *fakeHost) unset(el element.Instance, name string) {
	old, had := h.attrs[name]
	if !had {
		return
	}
	delete(h.attrs, name)
	el.AttributeChanged(name, &old, nil)
}

func (h *fakeHost) lastRoot() *fakeRoot {
	if len(h.roots) == 0 {
		return nil
	}
	return h.roots[len(h.roots)-1]
}

type fakeRoot struct {
	views     []element.View
	unmounted bool
}

func (r *fakeRoot) Render(v element.View) { r.views = append(r.views, v) }

func (r *fakeRoot) Unmount() { r.unmounted = true }

func (r *fakeRoot) last() element.View {
	if len(r.views) == 0 {
		return nil
	}
	return r.views[len(r.views)-1]
}

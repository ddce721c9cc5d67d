// Package importer helps project importer elements turn external documents
// into the event batches the host applies to a project.
package importer

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"wizard.dev/pluginsdk/pkg/data"
)

// Path addresses a field in the host's project structure. Segments are joined
// with "." on the wire.
type Path []string

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Append returns a new path extended with segments.
func (p Path) Append(segments ...string) Path {
	return append(slices.Clone(p), segments...)
}

// ProjectImporter accumulates importer events in call order.
type ProjectImporter struct {
	events []data.ImporterEvent
	newID  func() string
}

// Option configures a ProjectImporter.
type Option func(*ProjectImporter)

// WithIDGenerator replaces the generator used by AddItem.
func WithIDGenerator(gen func() string) Option {
	return func(p *ProjectImporter) {
		if gen != nil {
			p.newID = gen
		}
	}
}

// NewProjectImporter returns an empty importer.
func NewProjectImporter(opts ...Option) *ProjectImporter {
	p := &ProjectImporter{newID: uuid.NewString}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetReply answers a value question.
func (p *ProjectImporter) SetReply(path Path, value string) {
	p.events = append(p.events, data.ReplyString(path.String(), value))
}

// SetListReply answers a multi-choice question.
func (p *ProjectImporter) SetListReply(path Path, values []string) {
	p.events = append(p.events, data.ReplyList(path.String(), slices.Clone(values)))
}

// SetItemSelectReply answers an item select question.
func (p *ProjectImporter) SetItemSelectReply(path Path, itemUUID string) {
	p.events = append(p.events, data.ReplyItemSelect(path.String(), itemUUID))
}

// SetIntegrationReply answers an integration question. raw is the provider
// item and must marshal to JSON.
func (p *ProjectImporter) SetIntegrationReply(path Path, value string, raw any) error {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("failed to encode integration reply at %s: %w", path, err)
	}
	p.events = append(p.events, data.ReplyIntegration(path.String(), value, encoded))
	return nil
}

// SetIntegrationLegacyReply answers an integration question with a legacy
// provider id.
func (p *ProjectImporter) SetIntegrationLegacyReply(path Path, value, id string) {
	p.events = append(p.events, data.ReplyIntegrationLegacy(path.String(), value, id))
}

// AddItem creates a list item and returns its new identifier.
func (p *ProjectImporter) AddItem(path Path) string {
	id := p.newID()
	p.events = append(p.events, data.AddItem(path.String(), id))
	return id
}

// Events returns a copy of the accumulated events.
func (p *ProjectImporter) Events() []data.ImporterEvent {
	return slices.Clone(p.events)
}

// Len returns the number of accumulated events.
func (p *ProjectImporter) Len() int {
	return len(p.events)
}

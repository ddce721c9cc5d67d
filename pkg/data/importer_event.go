package data

import (
	"encoding/json"
	"fmt"
)

// ImporterEventType discriminates importer events.
type ImporterEventType string

const (
	EventReplyString            ImporterEventType = "ReplyString"
	EventReplyList              ImporterEventType = "ReplyList"
	EventReplyIntegration       ImporterEventType = "ReplyIntegration"
	EventReplyIntegrationLegacy ImporterEventType = "ReplyIntegrationLegacy"
	EventReplyItemSelect        ImporterEventType = "ReplyItemSelect"
	EventAddItem                ImporterEventType = "AddItem"
)

// ImporterEvent is one instruction of a project import batch. Path is the
// dot-joined location of the target field in the host's project structure.
type ImporterEvent struct {
	Type ImporterEventType
	Path string
	// Value is the reply of ReplyString, ReplyItemSelect, ReplyIntegration and
	// ReplyIntegrationLegacy events.
	Value string
	// Values is the reply of ReplyList events.
	Values []string
	// Raw is the provider payload of ReplyIntegration events.
	Raw json.RawMessage
	// ID is the legacy integration identifier of ReplyIntegrationLegacy events.
	ID string
	// UUID is the identifier allocated by AddItem events.
	UUID string
}

// ReplyString sets a string reply.
func ReplyString(path, value string) ImporterEvent {
	return ImporterEvent{Type: EventReplyString, Path: path, Value: value}
}

// ReplyList sets a list reply.
func ReplyList(path string, values []string) ImporterEvent {
	return ImporterEvent{Type: EventReplyList, Path: path, Values: values}
}

// ReplyItemSelect selects an existing list item.
func ReplyItemSelect(path, itemUUID string) ImporterEvent {
	return ImporterEvent{Type: EventReplyItemSelect, Path: path, Value: itemUUID}
}

// ReplyIntegration replies with an integration selection and its raw provider
// payload.
func ReplyIntegration(path, value string, raw json.RawMessage) ImporterEvent {
	return ImporterEvent{Type: EventReplyIntegration, Path: path, Value: value, Raw: raw}
}

// ReplyIntegrationLegacy replies with an integration selection identified by a
// legacy id.
func ReplyIntegrationLegacy(path, value, id string) ImporterEvent {
	return ImporterEvent{Type: EventReplyIntegrationLegacy, Path: path, Value: value, ID: id}
}

// AddItem creates a list item identified by itemUUID.
func AddItem(path, itemUUID string) ImporterEvent {
	return ImporterEvent{Type: EventAddItem, Path: path, UUID: itemUUID}
}

func (e ImporterEvent) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"type": e.Type,
		"path": e.Path,
	}

	switch e.Type {
	case EventReplyString, EventReplyItemSelect:
		out["value"] = e.Value
	case EventReplyList:
		out["value"] = nonNil(e.Values)
	case EventReplyIntegration:
		out["value"] = e.Value
		if len(e.Raw) > 0 {
			out["raw"] = e.Raw
		}
	case EventReplyIntegrationLegacy:
		out["value"] = e.Value
		out["id"] = e.ID
	case EventAddItem:
		out["uuid"] = e.UUID
	default:
		return nil, fmt.Errorf("unknown importer event type %q", e.Type)
	}

	return json.Marshal(out)
}

func (e *ImporterEvent) UnmarshalJSON(raw []byte) error {
	var wire struct {
		Type  ImporterEventType `json:"type"`
		Path  string            `json:"path"`
		Value json.RawMessage   `json:"value"`
		Raw   json.RawMessage   `json:"raw"`
		ID    string            `json:"id"`
		UUID  string            `json:"uuid"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return err
	}

	ev := ImporterEvent{Type: wire.Type, Path: wire.Path}
	switch wire.Type {
	case EventReplyString, EventReplyItemSelect, EventReplyIntegration, EventReplyIntegrationLegacy:
		if err := json.Unmarshal(wire.Value, &ev.Value); err != nil {
			return fmt.Errorf("%s value: %w", wire.Type, err)
		}
		if wire.Type == EventReplyIntegration && len(wire.Raw) > 0 {
			ev.Raw = wire.Raw
		}
		if wire.Type == EventReplyIntegrationLegacy {
			ev.ID = wire.ID
		}
	case EventReplyList:
		if err := json.Unmarshal(wire.Value, &ev.Values); err != nil {
			return fmt.Errorf("%s value: %w", wire.Type, err)
		}
	case EventAddItem:
		ev.UUID = wire.UUID
	default:
		return fmt.Errorf("unknown importer event type %q", wire.Type)
	}

	*e = ev
	return nil
}

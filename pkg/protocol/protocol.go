// Package protocol defines the attribute and event names shared between plugin
// elements and the host application.
package protocol

// PluginAPIVersion is the protocol version plugins built with this SDK speak.
const PluginAPIVersion = "1.0"

// Attribute names observed by plugin elements. Values are JSON documents.
const (
	AttrDocumentValue       = "document-value"
	AttrKnowledgeModelValue = "knowledge-model-value"
	AttrProjectValue        = "project-value"
	AttrQuestionPathValue   = "question-path-value"
	AttrQuestionValue       = "question-value"
	AttrSettingsValue       = "settings-value"
	AttrUserSettingsValue   = "user-settings-value"
)

// Event types dispatched by plugin elements.
const (
	EventActionClose             = "action-close"
	EventImport                  = "import"
	EventSettingsValueChange     = "settings-value-change"
	EventUserSettingsValueChange = "user-settings-value-change"
)

// Attributes returns every attribute name of the protocol.
func Attributes() []string {
	return []string{
		AttrDocumentValue,
		AttrKnowledgeModelValue,
		AttrProjectValue,
		AttrQuestionPathValue,
		AttrQuestionValue,
		AttrSettingsValue,
		AttrUserSettingsValue,
	}
}

// Events returns every event type of the protocol.
func Events() []string {
	return []string{
		EventActionClose,
		EventImport,
		EventSettingsValueChange,
		EventUserSettingsValueChange,
	}
}

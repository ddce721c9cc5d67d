package element

import (
	"encoding/json"
	"slices"

	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/data"
	"wizard.dev/pluginsdk/pkg/protocol"
)

// Kind names the host integration point an element plugs into.
type Kind string

const (
	KindDocumentAction        Kind = "documentAction"
	KindProjectAction         Kind = "projectAction"
	KindProjectTab            Kind = "projectTab"
	KindProjectQuestionAction Kind = "projectQuestionAction"
	KindProjectImporter       Kind = "projectImporter"
	KindSettings              Kind = "settings"
	KindUserSettings          Kind = "userSettings"
)

// Kinds returns every element kind.
func Kinds() []Kind {
	return []Kind{
		KindDocumentAction,
		KindProjectAction,
		KindProjectTab,
		KindProjectQuestionAction,
		KindProjectImporter,
		KindSettings,
		KindUserSettings,
	}
}

// DocumentActionProps are passed to document action components.
type DocumentActionProps[S, U any] struct {
	Settings      S
	UserSettings  U
	Document      *data.Document
	OnActionClose func()
}

// ProjectActionProps are passed to project action components.
type ProjectActionProps[S, U any] struct {
	Settings      S
	UserSettings  U
	Project       *data.Project
	OnActionClose func()
}

// ProjectTabProps are passed to project tab components.
type ProjectTabProps[S, U any] struct {
	Settings     S
	UserSettings U
	Project      *data.Project
}

// ProjectQuestionActionProps are passed to project question action components.
type ProjectQuestionActionProps[S, U any] struct {
	Settings      S
	UserSettings  U
	Project       *data.Project
	Question      *data.Question
	QuestionPath  *string
	OnActionClose func()
}

// ProjectImporterProps are passed to project importer components.
type ProjectImporterProps[S, U any] struct {
	Settings       S
	UserSettings   U
	KnowledgeModel *data.KnowledgeModel
	OnImport       func(events []data.ImporterEvent)
}

// SettingsProps are passed to plugin settings components. OnSettingsChange
// fails without side effects when the value cannot be encoded.
type SettingsProps[S any] struct {
	Settings         S
	OnSettingsChange func(settings S) error
}

// UserSettingsProps are passed to user settings components.
type UserSettingsProps[S, U any] struct {
	Settings             S
	UserSettings         U
	OnUserSettingsChange func(userSettings U) error
}

// ImportDetail is the detail of import events.
type ImportDetail struct {
	Events []data.ImporterEvent `json:"events"`
}

func (d ImportDetail) MarshalJSON() ([]byte, error) {
	events := d.Events
	if events == nil {
		events = []data.ImporterEvent{}
	}
	return json.Marshal(struct {
		Events []data.ImporterEvent `json:"events"`
	}{events})
}

// Variant describes one element kind: the attributes it observes on top of the
// settings pair, and how its state slots become component props.
type Variant[S, U any] struct {
	kind       Kind
	attributes []string
	mount      func(e *Element[S, U]) ([]field, func() View)
}

// Kind returns the element kind of the variant.
func (v Variant[S, U]) Kind() Kind { return v.kind }

// DocumentAction observes document-value.
func DocumentAction[S, U any](component Component[DocumentActionProps[S, U]]) Variant[S, U] {
	return Variant[S, U]{
		kind:       KindDocumentAction,
		attributes: []string{protocol.AttrDocumentValue},
		mount: func(e *Element[S, U]) ([]field, func() View) {
			document := newSlot(protocol.AttrDocumentValue, data.DocumentCodec)
			return []field{document}, func() View {
				return component(DocumentActionProps[S, U]{
					Settings:      e.settings,
					UserSettings:  e.userSettings,
					Document:      document.get(),
					OnActionClose: e.closeAction,
				})
			}
		},
	}
}

// ProjectAction observes project-value.
func ProjectAction[S, U any](component Component[ProjectActionProps[S, U]]) Variant[S, U] {
	return Variant[S, U]{
		kind:       KindProjectAction,
		attributes: []string{protocol.AttrProjectValue},
		mount: func(e *Element[S, U]) ([]field, func() View) {
			project := newSlot(protocol.AttrProjectValue, data.ProjectCodec)
			return []field{project}, func() View {
				return component(ProjectActionProps[S, U]{
					Settings:      e.settings,
					UserSettings:  e.userSettings,
					Project:       project.get(),
					OnActionClose: e.closeAction,
				})
			}
		},
	}
}

// ProjectTab observes project-value.
func ProjectTab[S, U any](component Component[ProjectTabProps[S, U]]) Variant[S, U] {
	return Variant[S, U]{
		kind:       KindProjectTab,
		attributes: []string{protocol.AttrProjectValue},
		mount: func(e *Element[S, U]) ([]field, func() View) {
			project := newSlot(protocol.AttrProjectValue, data.ProjectCodec)
			return []field{project}, func() View {
				return component(ProjectTabProps[S, U]{
					Settings:     e.settings,
					UserSettings: e.userSettings,
					Project:      project.get(),
				})
			}
		},
	}
}

// ProjectQuestionAction observes project-value, question-value and
// question-path-value.
func ProjectQuestionAction[S, U any](component Component[ProjectQuestionActionProps[S, U]]) Variant[S, U] {
	return Variant[S, U]{
		kind: KindProjectQuestionAction,
		attributes: []string{
			protocol.AttrProjectValue,
			protocol.AttrQuestionValue,
			protocol.AttrQuestionPathValue,
		},
		mount: func(e *Element[S, U]) ([]field, func() View) {
			project := newSlot(protocol.AttrProjectValue, data.ProjectCodec)
			question := newSlot(protocol.AttrQuestionValue, data.QuestionCodec)
			path := newSlot(protocol.AttrQuestionPathValue, data.QuestionPathCodec)
			return []field{project, question, path}, func() View {
				return component(ProjectQuestionActionProps[S, U]{
					Settings:      e.settings,
					UserSettings:  e.userSettings,
					Project:       project.get(),
					Question:      question.get(),
					QuestionPath:  path.get(),
					OnActionClose: e.closeAction,
				})
			}
		},
	}
}

// ProjectImporter observes knowledge-model-value.
func ProjectImporter[S, U any](component Component[ProjectImporterProps[S, U]]) Variant[S, U] {
	return Variant[S, U]{
		kind:       KindProjectImporter,
		attributes: []string{protocol.AttrKnowledgeModelValue},
		mount: func(e *Element[S, U]) ([]field, func() View) {
			km := newSlot(protocol.AttrKnowledgeModelValue, data.KnowledgeModelCodec)
			onImport := func(events []data.ImporterEvent) {
				e.emit(protocol.EventImport, ImportDetail{Events: slices.Clone(events)})
			}
			return []field{km}, func() View {
				return component(ProjectImporterProps[S, U]{
					Settings:       e.settings,
					UserSettings:   e.userSettings,
					KnowledgeModel: km.get(),
					OnImport:       onImport,
				})
			}
		},
	}
}

// Settings renders the plugin settings panel.
func Settings[S, U any](component Component[SettingsProps[S]]) Variant[S, U] {
	return Variant[S, U]{
		kind: KindSettings,
		mount: func(e *Element[S, U]) ([]field, func() View) {
			return nil, func() View {
				return component(SettingsProps[S]{
					Settings:         e.settings,
					OnSettingsChange: e.changeSettings,
				})
			}
		},
	}
}

// UserSettings renders the per-user settings panel.
func UserSettings[S, U any](component Component[UserSettingsProps[S, U]]) Variant[S, U] {
	return Variant[S, U]{
		kind: KindUserSettings,
		mount: func(e *Element[S, U]) ([]field, func() View) {
			return nil, func() View {
				return component(UserSettingsProps[S, U]{
					Settings:             e.settings,
					UserSettings:         e.userSettings,
					OnUserSettingsChange: e.changeUserSettings,
				})
			}
		},
	}
}

// field is one decoded attribute owned by an element instance.
type field interface {
	attribute() string
	sync(raw string) error
	reset()
}

// slot holds the last successfully decoded value of an attribute, or nothing.
type slot[T any] struct {
	name  string
	codec codec.Decoder[T]
	value *T
}

func newSlot[T any](name string, c codec.Codec[T]) *slot[T] {
	return &slot[T]{name: name, codec: c}
}

func (s *slot[T]) attribute() string { return s.name }

func (s *slot[T]) sync(raw string) error {
	v, err := s.codec.Decode(raw)
	if err != nil {
		return err
	}
	s.value = &v
	return nil
}

func (s *slot[T]) reset() { s.value = nil }

// get returns a copy so components cannot mutate element state through props.
func (s *slot[T]) get() *T {
	if s.value == nil {
		return nil
	}
	v := *s.value
	return &v
}

package plugin

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/element"
	"wizard.dev/pluginsdk/pkg/factory"
)

// ErrConnectorExists is returned when a single-instance connector is added twice.
var ErrConnectorExists = errors.New("connector already exists")

// ConnectorOption customizes a connector.
type ConnectorOption func(*connectorOptions)

type connectorOptions struct {
	knowledgeModelPatterns   []string
	documentTemplatePatterns []string
}

// WithKnowledgeModelPatterns restricts a project connector to knowledge model
// packages matching one of the glob patterns.
func WithKnowledgeModelPatterns(patterns ...string) ConnectorOption {
	return func(o *connectorOptions) {
		o.knowledgeModelPatterns = append(o.knowledgeModelPatterns, patterns...)
	}
}

// WithDocumentTemplatePatterns restricts a document action to document
// templates matching one of the glob patterns.
func WithDocumentTemplatePatterns(patterns ...string) ConnectorOption {
	return func(o *connectorOptions) {
		o.documentTemplatePatterns = append(o.documentTemplatePatterns, patterns...)
	}
}

// Builder assembles a plugin: every Add call defines an element in the
// registry and records its connector. Errors are sticky; later calls still run
// and Err reports all of them.
type Builder[S, U any] struct {
	metadata   Metadata
	registry   *Registry
	factory    factory.Factory[S, U]
	connectors Connectors
	errs       []error
	logger     *zap.Logger
}

// New returns a builder for a plugin with settings of type S and user settings
// of type U.
func New[S, U any](metadata Metadata, registry *Registry, settings codec.Codec[S], userSettings codec.Codec[U]) *Builder[S, U] {
	return &Builder[S, U]{
		metadata: metadata,
		registry: registry,
		factory:  factory.New(settings, userSettings),
		logger:   zap.NewNop(),
	}
}

// NewWithNoSettings returns a builder for a plugin without settings.
func NewWithNoSettings(metadata Metadata, registry *Registry) *Builder[codec.Null, codec.Null] {
	return New(metadata, registry, codec.NullCodec(), codec.NullCodec())
}

// WithLogger sets the logger used to report rejected connectors.
func (b *Builder[S, U]) WithLogger(logger *zap.Logger) *Builder[S, U] {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Factory returns the element factory bound to the plugin's codecs.
func (b *Builder[S, U]) Factory() factory.Factory[S, U] {
	return b.factory
}

// AddDocumentAction registers tag and offers it as an action on documents.
func (b *Builder[S, U]) AddDocumentAction(icon, name, tag string, component element.Component[element.DocumentActionProps[S, U]], opts ...ConnectorOption) *Builder[S, U] {
	o, err := collectOptions(opts, false)
	if err == nil {
		err = b.define(tag, b.factory.DocumentAction(component))
	}
	if b.record(tag, err) {
		b.connectors.DocumentActions = append(b.connectors.DocumentActions, DocumentActionConnector{
			Action:                     Action{Icon: icon, Name: name},
			Element:                    tag,
			DocumentTemplateIDPatterns: o.documentTemplatePatterns,
		})
	}
	return b
}

// AddProjectAction registers tag and offers it as an action on projects.
func (b *Builder[S, U]) AddProjectAction(name, tag string, component element.Component[element.ProjectActionProps[S, U]], opts ...ConnectorOption) *Builder[S, U] {
	o, err := collectOptions(opts, true)
	if err == nil {
		err = b.define(tag, b.factory.ProjectAction(component))
	}
	if b.record(tag, err) {
		b.connectors.ProjectActions = append(b.connectors.ProjectActions, ProjectActionConnector{
			Name:                   name,
			Element:                tag,
			KnowledgeModelPatterns: o.knowledgeModelPatterns,
		})
	}
	return b
}

// AddProjectQuestionAction registers tag and offers it as an action on project questions.
func (b *Builder[S, U]) AddProjectQuestionAction(name, tag string, component element.Component[element.ProjectQuestionActionProps[S, U]], opts ...ConnectorOption) *Builder[S, U] {
	o, err := collectOptions(opts, true)
	if err == nil {
		err = b.define(tag, b.factory.ProjectQuestionAction(component))
	}
	if b.record(tag, err) {
		b.connectors.ProjectQuestionActions = append(b.connectors.ProjectQuestionActions, ProjectQuestionActionConnector{
			Name:                   name,
			Element:                tag,
			KnowledgeModelPatterns: o.knowledgeModelPatterns,
		})
	}
	return b
}

// AddProjectTab registers tag and shows it as a project tab linked from url.
func (b *Builder[S, U]) AddProjectTab(icon, name, url, tag string, component element.Component[element.ProjectTabProps[S, U]], opts ...ConnectorOption) *Builder[S, U] {
	o, err := collectOptions(opts, true)
	if err == nil {
		err = b.define(tag, b.factory.ProjectTab(component))
	}
	if b.record(tag, err) {
		b.connectors.ProjectTabs = append(b.connectors.ProjectTabs, ProjectTabConnector{
			Tab:                    Tab{Icon: icon, Name: name, URL: url},
			Element:                tag,
			KnowledgeModelPatterns: o.knowledgeModelPatterns,
		})
	}
	return b
}

// AddProjectImporter registers tag and offers it as a project importer.
func (b *Builder[S, U]) AddProjectImporter(name, description, url, tag string, component element.Component[element.ProjectImporterProps[S, U]], opts ...ConnectorOption) *Builder[S, U] {
	o, err := collectOptions(opts, true)
	if err == nil {
		err = b.define(tag, b.factory.ProjectImporter(component))
	}
	if b.record(tag, err) {
		b.connectors.ProjectImporters = append(b.connectors.ProjectImporters, ProjectImporterConnector{
			Name:                   name,
			Description:            description,
			URL:                    url,
			Element:                tag,
			KnowledgeModelPatterns: o.knowledgeModelPatterns,
		})
	}
	return b
}

// AddSettings registers tag as the plugin settings panel. Only one is allowed.
func (b *Builder[S, U]) AddSettings(tag string, component element.Component[element.SettingsProps[S]]) *Builder[S, U] {
	var err error
	if b.connectors.Settings != nil {
		err = fmt.Errorf("%w: settings already provided by %s", ErrConnectorExists, b.connectors.Settings.Element)
	} else {
		err = b.define(tag, b.factory.Settings(component))
	}
	if b.record(tag, err) {
		b.connectors.Settings = &ElementConnector{Element: tag}
	}
	return b
}

// AddUserSettings registers tag as the user settings panel. Only one is allowed.
func (b *Builder[S, U]) AddUserSettings(tag string, component element.Component[element.UserSettingsProps[S, U]]) *Builder[S, U] {
	var err error
	if b.connectors.UserSettings != nil {
		err = fmt.Errorf("%w: user settings already provided by %s", ErrConnectorExists, b.connectors.UserSettings.Element)
	} else {
		err = b.define(tag, b.factory.UserSettings(component))
	}
	if b.record(tag, err) {
		b.connectors.UserSettings = &ElementConnector{Element: tag}
	}
	return b
}

// Err returns every error recorded by Add calls, joined.
func (b *Builder[S, U]) Err() error {
	return errors.Join(b.errs...)
}

// CreatePlugin returns a snapshot of the plugin. Later Add calls do not affect
// the returned value.
func (b *Builder[S, U]) CreatePlugin() (Plugin, error) {
	if err := b.Err(); err != nil {
		return Plugin{}, err
	}
	return Plugin{
		UUID:             b.metadata.UUID,
		Name:             b.metadata.Name,
		Version:          b.metadata.Version,
		Description:      b.metadata.Description,
		PluginAPIVersion: apiVersion(),
		Connectors:       b.connectors.clone(),
	}, nil
}

func (b *Builder[S, U]) define(tag string, ctor element.Constructor) error {
	return b.registry.Define(tag, ctor)
}

// record stores err and reports whether the connector may be appended.
func (b *Builder[S, U]) record(tag string, err error) bool {
	if err == nil {
		return true
	}
	b.logger.Warn("Rejected connector", zap.String("tag", tag), zap.Error(err))
	b.errs = append(b.errs, fmt.Errorf("add %s: %w", tag, err))
	return false
}

func collectOptions(opts []ConnectorOption, project bool) (connectorOptions, error) {
	var o connectorOptions
	for _, opt := range opts {
		opt(&o)
	}

	if project && len(o.documentTemplatePatterns) > 0 {
		return o, fmt.Errorf("%w: document template patterns apply to document actions only", ErrInvalidPattern)
	}
	if !project && len(o.knowledgeModelPatterns) > 0 {
		return o, fmt.Errorf("%w: knowledge model patterns apply to project connectors only", ErrInvalidPattern)
	}

	if _, err := CompilePatterns(o.knowledgeModelPatterns); err != nil {
		return o, err
	}
	if _, err := CompilePatterns(o.documentTemplatePatterns); err != nil {
		return o, err
	}

	o.knowledgeModelPatterns = nilIfEmpty(o.knowledgeModelPatterns)
	o.documentTemplatePatterns = nilIfEmpty(o.documentTemplatePatterns)
	return o, nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return slices.Clone(s)
}

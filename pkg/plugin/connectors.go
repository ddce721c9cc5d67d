package plugin

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gobwas/glob"
)

// ErrInvalidPattern is returned for patterns that do not compile.
var ErrInvalidPattern = errors.New("invalid connector pattern")

// Action is the menu entry of a document action.
type Action struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
}

// Tab is the navigation entry of a project tab.
type Tab struct {
	Icon string `json:"icon"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// DocumentActionConnector offers an element as an action on matching document templates.
type DocumentActionConnector struct {
	Action                     Action   `json:"action"`
	Element                    string   `json:"element"`
	DocumentTemplateIDPatterns []string `json:"documentTemplateIdPatterns,omitempty"`
}

// ProjectActionConnector offers an element as an action on projects of matching knowledge models.
type ProjectActionConnector struct {
	Name                   string   `json:"name"`
	Element                string   `json:"element"`
	KnowledgeModelPatterns []string `json:"knowledgeModelPatterns,omitempty"`
}

// ProjectQuestionActionConnector offers an element as an action on questions of matching projects.
type ProjectQuestionActionConnector struct {
	Name                   string   `json:"name"`
	Element                string   `json:"element"`
	KnowledgeModelPatterns []string `json:"knowledgeModelPatterns,omitempty"`
}

// ProjectTabConnector adds an element as a tab of matching projects.
type ProjectTabConnector struct {
	Tab                    Tab      `json:"tab"`
	Element                string   `json:"element"`
	KnowledgeModelPatterns []string `json:"knowledgeModelPatterns,omitempty"`
}

// ProjectImporterConnector offers an element as an importer for matching projects.
type ProjectImporterConnector struct {
	Name                   string   `json:"name"`
	Description            string   `json:"description"`
	URL                    string   `json:"url"`
	Element                string   `json:"element"`
	KnowledgeModelPatterns []string `json:"knowledgeModelPatterns,omitempty"`
}

// ElementConnector points at the single element of a settings panel.
type ElementConnector struct {
	Element string `json:"element"`
}

// Connectors groups the registered elements by integration point. Categories
// without entries are omitted from the JSON form.
type Connectors struct {
	DocumentActions        []DocumentActionConnector        `json:"documentActions,omitempty"`
	ProjectActions         []ProjectActionConnector         `json:"projectActions,omitempty"`
	ProjectQuestionActions []ProjectQuestionActionConnector `json:"projectQuestionActions,omitempty"`
	ProjectTabs            []ProjectTabConnector            `json:"projectTabs,omitempty"`
	ProjectImporters       []ProjectImporterConnector       `json:"projectImporters,omitempty"`
	Settings               *ElementConnector                `json:"settings,omitempty"`
	UserSettings           *ElementConnector                `json:"userSettings,omitempty"`
}

// Elements returns the tag of every connector, in category order.
func (c Connectors) Elements() []string {
	var tags []string
	for _, x := range c.DocumentActions {
		tags = append(tags, x.Element)
	}
	for _, x := range c.ProjectActions {
		tags = append(tags, x.Element)
	}
	for _, x := range c.ProjectQuestionActions {
		tags = append(tags, x.Element)
	}
	for _, x := range c.ProjectTabs {
		tags = append(tags, x.Element)
	}
	for _, x := range c.ProjectImporters {
		tags = append(tags, x.Element)
	}
	if c.Settings != nil {
		tags = append(tags, c.Settings.Element)
	}
	if c.UserSettings != nil {
		tags = append(tags, c.UserSettings.Element)
	}
	return tags
}

// Applicable returns the connectors a host would offer for a project using the
// knowledge model package kmPackageID and a document rendered from
// documentTemplateID. An empty pattern list matches everything; settings
// connectors always apply.
func (c Connectors) Applicable(kmPackageID, documentTemplateID string) Connectors {
	out := Connectors{Settings: c.Settings, UserSettings: c.UserSettings}
	for _, x := range c.DocumentActions {
		if matchAny(x.DocumentTemplateIDPatterns, documentTemplateID) {
			out.DocumentActions = append(out.DocumentActions, x)
		}
	}
	for _, x := range c.ProjectActions {
		if matchAny(x.KnowledgeModelPatterns, kmPackageID) {
			out.ProjectActions = append(out.ProjectActions, x)
		}
	}
	for _, x := range c.ProjectQuestionActions {
		if matchAny(x.KnowledgeModelPatterns, kmPackageID) {
			out.ProjectQuestionActions = append(out.ProjectQuestionActions, x)
		}
	}
	for _, x := range c.ProjectTabs {
		if matchAny(x.KnowledgeModelPatterns, kmPackageID) {
			out.ProjectTabs = append(out.ProjectTabs, x)
		}
	}
	for _, x := range c.ProjectImporters {
		if matchAny(x.KnowledgeModelPatterns, kmPackageID) {
			out.ProjectImporters = append(out.ProjectImporters, x)
		}
	}
	return out
}

func (c Connectors) clone() Connectors {
	out := Connectors{
		DocumentActions: cloneConnectors(c.DocumentActions, func(x DocumentActionConnector) DocumentActionConnector {
			x.DocumentTemplateIDPatterns = slices.Clone(x.DocumentTemplateIDPatterns)
			return x
		}),
		ProjectActions: cloneConnectors(c.ProjectActions, func(x ProjectActionConnector) ProjectActionConnector {
			x.KnowledgeModelPatterns = slices.Clone(x.KnowledgeModelPatterns)
			return x
		}),
		ProjectQuestionActions: cloneConnectors(c.ProjectQuestionActions, func(x ProjectQuestionActionConnector) ProjectQuestionActionConnector {
			x.KnowledgeModelPatterns = slices.Clone(x.KnowledgeModelPatterns)
			return x
		}),
		ProjectTabs: cloneConnectors(c.ProjectTabs, func(x ProjectTabConnector) ProjectTabConnector {
			x.KnowledgeModelPatterns = slices.Clone(x.KnowledgeModelPatterns)
			return x
		}),
		ProjectImporters: cloneConnectors(c.ProjectImporters, func(x ProjectImporterConnector) ProjectImporterConnector {
			x.KnowledgeModelPatterns = slices.Clone(x.KnowledgeModelPatterns)
			return x
		}),
	}
	if c.Settings != nil {
		s := *c.Settings
		out.Settings = &s
	}
	if c.UserSettings != nil {
		s := *c.UserSettings
		out.UserSettings = &s
	}
	return out
}

func cloneConnectors[T any](in []T, copyOne func(T) T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, x := range in {
		out[i] = copyOne(x)
	}
	return out
}

// compiled caches globs by pattern text.
var compiled sync.Map

func compilePattern(pattern string) (glob.Glob, error) {
	if g, ok := compiled.Load(pattern); ok {
		return g.(glob.Glob), nil
	}
	g, err := glob.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidPattern, pattern, err)
	}
	actual, _ := compiled.LoadOrStore(pattern, g)
	return actual.(glob.Glob), nil
}

// CompilePatterns checks that every pattern is a valid glob. Compiled globs
// are cached for later matching.
func CompilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := compilePattern(p)
		if err != nil {
			return nil, err
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// matchAny reports whether id matches one of patterns. Patterns that do not
// compile never match; Builder and ReadPlugin reject them up front.
func matchAny(patterns []string, id string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		g, err := compilePattern(p)
		if err != nil {
			continue
		}
		if g.Match(id) {
			return true
		}
	}
	return false
}

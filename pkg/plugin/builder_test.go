package plugin_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/element"
	"wizard.dev/pluginsdk/pkg/plugin"
	"wizard.dev/pluginsdk/pkg/protocol"
)

type null = codec.Null

var testMetadata = plugin.Metadata{
	UUID:        "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
	Name:        "Example Plugin",
	Version:     "1.2.0",
	Description: "Example plugin used in tests",
}

func docAction(element.DocumentActionProps[null, null]) element.View { return "doc" }

func projectTab(element.ProjectTabProps[null, null]) element.View { return "tab" }

func projectAction(element.ProjectActionProps[null, null]) element.View { return "action" }

func settingsPanel(element.SettingsProps[null]) element.View { return "settings" }

func TestBuilder_CreatePluginOmitsEmptyCategories(t *testing.T) {
	b := plugin.NewWithNoSettings(testMetadata, plugin.NewRegistry()).
		AddDocumentAction("fas fa-file", "Export", "my-doc-action", docAction).
		AddProjectTab("fas fa-table", "Overview", "overview", "my-tab", projectTab)

	p, err := b.CreatePlugin()
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, protocol.PluginAPIVersion, doc["pluginApiVersion"])

	connectors := doc["connectors"].(map[string]any)
	assert.Len(t, connectors["documentActions"], 1)
	assert.Len(t, connectors["projectTabs"], 1)
	assert.NotContains(t, connectors, "settings")
	assert.NotContains(t, connectors, "userSettings")
	assert.NotContains(t, connectors, "projectActions")

	assert.JSONEq(t, `{
		"documentActions": [{"action": {"icon": "fas fa-file", "name": "Export"}, "element": "my-doc-action"}],
		"projectTabs": [{"tab": {"icon": "fas fa-table", "name": "Overview", "url": "overview"}, "element": "my-tab"}]
	}`, mustMarshal(t, p.Connectors))
}

func TestBuilder_AllKindsProduceConnectors(t *testing.T) {
	reg := plugin.NewRegistry()
	b := plugin.NewWithNoSettings(testMetadata, reg).
		AddDocumentAction("i", "Doc", "x-doc", docAction, plugin.WithDocumentTemplatePatterns("myorg:*")).
		AddProjectAction("Act", "x-act", projectAction, plugin.WithKnowledgeModelPatterns("myorg:core:*")).
		AddProjectQuestionAction("Ask", "x-ask", func(element.ProjectQuestionActionProps[null, null]) element.View { return nil }).
		AddProjectTab("i", "Tab", "tab", "x-tab", projectTab).
		AddProjectImporter("Import", "Import JSON", "import", "x-import", func(element.ProjectImporterProps[null, null]) element.View { return nil }).
		AddSettings("x-settings", settingsPanel).
		AddUserSettings("x-user-settings", func(element.UserSettingsProps[null, null]) element.View { return nil })

	p, err := b.CreatePlugin()
	require.NoError(t, err)

	assert.Equal(t, []string{"x-doc", "x-act", "x-ask", "x-tab", "x-import", "x-settings", "x-user-settings"},
		p.Connectors.Elements())
	assert.Equal(t, []string{"myorg:*"}, p.Connectors.DocumentActions[0].DocumentTemplateIDPatterns)
	assert.Equal(t, []string{"myorg:core:*"}, p.Connectors.ProjectActions[0].KnowledgeModelPatterns)
	assert.Len(t, reg.Tags(), 7)

	for _, tag := range reg.Tags() {
		ctor, ok := reg.Lookup(tag)
		require.True(t, ok)
		assert.NotEmpty(t, ctor.ObservedAttributes())
	}
}

func TestBuilder_ErrorsAreStickyAndSkipConnector(t *testing.T) {
	reg := plugin.NewRegistry()
	b := plugin.NewWithNoSettings(testMetadata, reg).
		AddDocumentAction("i", "First", "my-doc-action", docAction).
		AddDocumentAction("i", "Second", "my-doc-action", docAction).
		AddProjectTab("i", "Bad", "bad", "NoHyphen", projectTab).
		AddProjectAction("Globbed", "my-action", projectAction, plugin.WithKnowledgeModelPatterns("[unclosed")).
		AddProjectTab("i", "Good", "good", "my-tab", projectTab)

	err := b.Err()
	require.Error(t, err)
	assert.True(t, errors.Is(err, plugin.ErrDuplicateTag))
	assert.True(t, errors.Is(err, plugin.ErrInvalidTag))
	assert.True(t, errors.Is(err, plugin.ErrInvalidPattern))

	_, createErr := b.CreatePlugin()
	assert.Equal(t, err.Error(), createErr.Error())

	_, defined := reg.Lookup("my-action")
	assert.False(t, defined, "element with invalid options must not be defined")
	assert.Equal(t, []string{"my-doc-action", "my-tab"}, reg.Tags())
}

func TestBuilder_SecondSettingsIsRejected(t *testing.T) {
	reg := plugin.NewRegistry()
	b := plugin.NewWithNoSettings(testMetadata, reg).
		AddSettings("my-settings", settingsPanel).
		AddSettings("other-settings", settingsPanel)

	assert.ErrorIs(t, b.Err(), plugin.ErrConnectorExists)
	_, defined := reg.Lookup("other-settings")
	assert.False(t, defined)
}

func TestBuilder_MismatchedPatternOption(t *testing.T) {
	b := plugin.NewWithNoSettings(testMetadata, plugin.NewRegistry()).
		AddDocumentAction("i", "Doc", "my-doc", docAction, plugin.WithKnowledgeModelPatterns("*"))

	assert.ErrorIs(t, b.Err(), plugin.ErrInvalidPattern)
}

func TestBuilder_SnapshotIsImmutable(t *testing.T) {
	b := plugin.NewWithNoSettings(testMetadata, plugin.NewRegistry()).
		AddProjectAction("Act", "my-action", projectAction, plugin.WithKnowledgeModelPatterns("a:*"))

	p, err := b.CreatePlugin()
	require.NoError(t, err)

	p.Connectors.ProjectActions[0].KnowledgeModelPatterns[0] = "mutated"
	b.AddProjectTab("i", "Tab", "tab", "my-tab", projectTab)

	again, err := b.CreatePlugin()
	require.NoError(t, err)
	assert.Equal(t, "a:*", again.Connectors.ProjectActions[0].KnowledgeModelPatterns[0])
	assert.Empty(t, p.Connectors.ProjectTabs)
	assert.Len(t, again.Connectors.ProjectTabs, 1)
}

func TestBuilder_SharedRegistryRejectsCrossPluginDuplicates(t *testing.T) {
	reg := plugin.NewRegistry()
	first := plugin.NewWithNoSettings(testMetadata, reg).AddProjectTab("i", "Tab", "tab", "shared-tab", projectTab)
	second := plugin.NewWithNoSettings(testMetadata, reg).AddProjectTab("i", "Tab", "tab", "shared-tab", projectTab)

	assert.NoError(t, first.Err())
	assert.ErrorIs(t, second.Err(), plugin.ErrDuplicateTag)
}

func TestBuilder_TypedSettingsFlowIntoDefinitions(t *testing.T) {
	type counter struct {
		Count int `json:"count"`
	}
	counterCodec := codec.NewJSON(codec.MustCompileSchema("builder-counter", []byte(
		`{"type":"object","properties":{"count":{"type":"integer"}},"required":["count"]}`)), counter{Count: 2})

	reg := plugin.NewRegistry()
	b := plugin.New(testMetadata, reg, counterCodec, codec.NullCodec()).
		AddSettings("counter-settings", func(p element.SettingsProps[counter]) element.View { return p.Settings })
	require.NoError(t, b.Err())

	ctor, ok := reg.Lookup("counter-settings")
	require.True(t, ok)
	assert.Equal(t, element.KindSettings, ctor.Kind())
	assert.Equal(t, counter{Count: 2}, b.Factory().Settings(nil).New(nil, nil).Settings())
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return string(raw)
}

package plugin_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizard.dev/pluginsdk/pkg/plugin"
)

func TestConnectors_Applicable(t *testing.T) {
	c := plugin.Connectors{
		DocumentActions: []plugin.DocumentActionConnector{
			{Element: "any-doc"},
			{Element: "pdf-doc", DocumentTemplateIDPatterns: []string{"myorg:pdf-*:*"}},
		},
		ProjectTabs: []plugin.ProjectTabConnector{
			{Element: "core-tab", KnowledgeModelPatterns: []string{"myorg:core:*", "other:{a,b}:1.0.0"}},
			{Element: "other-tab", KnowledgeModelPatterns: []string{"other:c:?.0.0"}},
		},
		Settings: &plugin.ElementConnector{Element: "my-settings"},
	}

	tests := []struct {
		name     string
		km       string
		template string
		expected []string
	}{
		{"CoreKnowledgeModel", "myorg:core:2.6.0", "myorg:docx-report:1.0.0", []string{"any-doc", "core-tab", "my-settings"}},
		{"PDFTemplate", "other:b:1.0.0", "myorg:pdf-report:1.0.0", []string{"any-doc", "pdf-doc", "core-tab", "my-settings"}},
		{"SingleCharWildcard", "other:c:3.0.0", "", []string{"any-doc", "other-tab", "my-settings"}},
		{"NothingMatches", "x:y:1.0.0", "x", []string{"any-doc", "my-settings"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, c.Applicable(tt.km, tt.template).Elements())
		})
	}
}

func TestConnectors_ApplicableSkipsInvalidPattern(t *testing.T) {
	c := plugin.Connectors{
		ProjectActions: []plugin.ProjectActionConnector{
			{Element: "mixed-action", KnowledgeModelPatterns: []string{"[a", "myorg:*"}},
			{Element: "broken-action", KnowledgeModelPatterns: []string{"[a"}},
		},
	}

	assert.Equal(t, []string{"mixed-action"}, c.Applicable("myorg:core:1.0.0", "").Elements())
	assert.Empty(t, c.Applicable("[a", "").Elements())
}

func TestCompilePatterns(t *testing.T) {
	_, err := plugin.CompilePatterns([]string{"a:*", "{x,y}"})
	require.NoError(t, err)

	_, err = plugin.CompilePatterns([]string{"[a"})
	assert.ErrorIs(t, err, plugin.ErrInvalidPattern)
}

func TestWriteManifestScript(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, plugin.WriteManifestScript(&buf, testMetadata))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "export default function () {\n    return {"))
	assert.True(t, strings.HasSuffix(out, "}\n}\n"))

	body := strings.TrimSuffix(strings.TrimPrefix(out, "export default function () {\n    return "), "\n}\n")
	assert.JSONEq(t, `{
		"uuid": "6ba7b810-9dad-41d1-80b4-00c04fd430c8",
		"name": "Example Plugin",
		"version": "1.2.0",
		"description": "Example plugin used in tests",
		"pluginApiVersion": "1.0"
	}`, body)
}

func TestReadPlugin(t *testing.T) {
	p, err := plugin.NewWithNoSettings(testMetadata, plugin.NewRegistry()).
		AddProjectTab("i", "Tab", "tab", "my-tab", projectTab, plugin.WithKnowledgeModelPatterns("myorg:*")).
		CreatePlugin()
	require.NoError(t, err)

	read, err := plugin.ReadPlugin(strings.NewReader(mustMarshal(t, p)))
	require.NoError(t, err)
	assert.Equal(t, p, read)
	assert.Equal(t, testMetadata, read.Metadata())

	_, err = plugin.ReadPlugin(strings.NewReader(`{"connectors":{"projectTabs":[{"element":"x-y","knowledgeModelPatterns":["[bad"]}]}}`))
	assert.ErrorIs(t, err, plugin.ErrInvalidPattern)
}

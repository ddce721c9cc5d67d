package importer_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizard.dev/pluginsdk/internal/core/testfixtures"
	"wizard.dev/pluginsdk/pkg/data"
	"wizard.dev/pluginsdk/pkg/importer"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("item-%d", n)
	}
}

func TestProjectImporter_AddItemThenReply(t *testing.T) {
	imp := importer.NewProjectImporter()

	id := imp.AddItem(importer.Path{"chapters"})
	imp.SetReply(importer.Path{"chapters", "0", "title"}, "Introduction")

	_, err := uuid.Parse(id)
	require.NoError(t, err, "AddItem must allocate a UUID")

	events := imp.Events()
	require.Len(t, events, 2)
	assert.Equal(t, data.AddItem("chapters", id), events[0])
	assert.Equal(t, data.ReplyString("chapters.0.title", "Introduction"), events[1])
}

func TestProjectImporter_AllEventTypes(t *testing.T) {
	imp := importer.NewProjectImporter(importer.WithIDGenerator(sequentialIDs()))
	base := importer.Path{testfixtures.ChapterUUID, testfixtures.QuestionUUID}

	item := imp.AddItem(base)
	itemPath := base.Append(item)
	imp.SetReply(itemPath.Append("name"), "Dataset")
	imp.SetListReply(itemPath.Append("tags"), []string{"a", "b"})
	imp.SetItemSelectReply(base, item)
	require.NoError(t, imp.SetIntegrationReply(base, "ORCID", map[string]string{"id": "0000"}))
	imp.SetIntegrationLegacyReply(base, "ORCID", "legacy-1")

	prefix := testfixtures.ChapterUUID + "." + testfixtures.QuestionUUID
	assert.Equal(t, []data.ImporterEvent{
		data.AddItem(prefix, "item-1"),
		data.ReplyString(prefix+".item-1.name", "Dataset"),
		data.ReplyList(prefix+".item-1.tags", []string{"a", "b"}),
		data.ReplyItemSelect(prefix, "item-1"),
		data.ReplyIntegration(prefix, "ORCID", json.RawMessage(`{"id":"0000"}`)),
		data.ReplyIntegrationLegacy(prefix, "ORCID", "legacy-1"),
	}, imp.Events())
	assert.Equal(t, 6, imp.Len())
	assert.Equal(t, base, importer.Path{testfixtures.ChapterUUID, testfixtures.QuestionUUID}, "Append must not alias")
}

func TestProjectImporter_EventsAreValidBatch(t *testing.T) {
	imp := importer.NewProjectImporter()
	imp.SetReply(importer.Path{"a"}, "x")
	imp.AddItem(importer.Path{"b"})
	imp.SetListReply(importer.Path{"c"}, nil)

	raw, err := data.ImporterEventsCodec.Encode(imp.Events())
	require.NoError(t, err)
	_, err = data.ImporterEventsCodec.Decode(raw)
	assert.NoError(t, err)
}

func TestProjectImporter_IntegrationReplyRejectsUnmarshalable(t *testing.T) {
	imp := importer.NewProjectImporter()
	err := imp.SetIntegrationReply(importer.Path{"q"}, "v", make(chan int))
	assert.Error(t, err)
	assert.Equal(t, 0, imp.Len())
}

func TestProjectImporter_EventsReturnsCopy(t *testing.T) {
	imp := importer.NewProjectImporter()
	imp.SetReply(importer.Path{"a"}, "x")
	events := imp.Events()
	events[0].Value = "changed"
	assert.Equal(t, "x", imp.Events()[0].Value)
}

func TestPath_String(t *testing.T) {
	assert.Equal(t, "", importer.Path{}.String())
	assert.Equal(t, "one", importer.Path{"one"}.String())
	assert.Equal(t, "a.b.c", importer.Path{"a", "b", "c"}.String())
}

func TestKMHelper_FindsByAnnotation(t *testing.T) {
	km := testfixtures.NewKnowledgeModelBuilder().
		WithChapter("c-2", data.Annotation{Key: "source", Value: "dmp"}).
		WithChapter("c-1", data.Annotation{Key: "source", Value: "dmp"}).
		WithQuestion("q-1", data.Annotation{Key: "id", Value: "title"}).
		WithAnswer("a-1").
		Build()
	helper := importer.NewKMHelper(&km)

	id, ok := helper.ChapterUUIDByAnnotation("source", "dmp")
	assert.True(t, ok)
	assert.Equal(t, "c-1", id, "lowest UUID wins")

	id, ok = helper.QuestionUUIDByAnnotation("id", "title")
	assert.True(t, ok)
	assert.Equal(t, "q-1", id)

	_, ok = helper.QuestionUUIDByAnnotation("id", "other")
	assert.False(t, ok)
	_, ok = helper.AnswerUUIDByAnnotation("id", "title")
	assert.False(t, ok)
	_, ok = helper.TagUUIDByAnnotation("id", "title")
	assert.False(t, ok)
}

func TestKMHelper_EveryEntityKind(t *testing.T) {
	ann := data.Annotation{Key: "k", Value: "v"}
	entity := data.EntityMap{"e-1": {UUID: "e-1", Annotations: []data.Annotation{ann}}}
	km := data.KnowledgeModel{Entities: data.Entities{
		Answers: entity, Chapters: entity, Choices: entity, Experts: entity,
		Integrations: entity, Metrics: entity, Phases: entity, Questions: entity,
		References: entity, ResourceCollections: entity, ResourcePages: entity, Tags: entity,
	}}
	h := importer.NewKMHelper(&km)

	lookups := map[string]func(string, string) (string, bool){
		"Answer": h.AnswerUUIDByAnnotation, "Chapter": h.ChapterUUIDByAnnotation,
		"Choice": h.ChoiceUUIDByAnnotation, "Expert": h.ExpertUUIDByAnnotation,
		"Integration": h.IntegrationUUIDByAnnotation, "Metric": h.MetricUUIDByAnnotation,
		"Phase": h.PhaseUUIDByAnnotation, "Question": h.QuestionUUIDByAnnotation,
		"Reference": h.ReferenceUUIDByAnnotation, "ResourceCollection": h.ResourceCollectionUUIDByAnnotation,
		"ResourcePage": h.ResourcePageUUIDByAnnotation, "Tag": h.TagUUIDByAnnotation,
	}
	for name, lookup := range lookups {
		t.Run(name, func(t *testing.T) {
			id, ok := lookup("k", "v")
			assert.True(t, ok)
			assert.Equal(t, "e-1", id)
		})
	}
}

func TestKMHelper_NilKnowledgeModel(t *testing.T) {
	_, ok := importer.NewKMHelper(nil).ChapterUUIDByAnnotation("k", "v")
	assert.False(t, ok)
}

package data_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wizard.dev/pluginsdk/internal/core/testfixtures"
	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/data"
)

func TestProjectCodec_RoundTrip(t *testing.T) {
	project := testfixtures.NewProjectBuilder().AsTemplate().Build()

	raw, err := data.ProjectCodec.Encode(project)
	require.NoError(t, err)

	decoded, err := data.ProjectCodec.Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, project, decoded)
}

func TestProjectCodec_RejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "NotJSON", raw: `project`},
		{name: "BadUUID", raw: `{"uuid":"not-a-uuid","name":"x","isTemplate":false,"knowledgeModelPackageId":"a:b:1.0.0"}`},
		{name: "MissingName", raw: `{"uuid":"` + testfixtures.ProjectUUID + `","isTemplate":false,"knowledgeModelPackageId":"a:b:1.0.0"}`},
		{name: "WrongType", raw: `{"uuid":"` + testfixtures.ProjectUUID + `","name":"x","isTemplate":"no","knowledgeModelPackageId":"a:b:1.0.0"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := data.ProjectCodec.Decode(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, codec.ErrDecode))
		})
	}
}

func TestDocumentCodec_RoundTripKeepsNullableFields(t *testing.T) {
	document := testfixtures.NewDocumentBuilder().WithFileSize(2048).Build()

	raw, err := data.DocumentCodec.Encode(document)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &fields))
	assert.Contains(t, fields, "workerLog", "nullable fields must be present")
	assert.Nil(t, fields["workerLog"])
	assert.EqualValues(t, 2048, fields["fileSize"])

	decoded, err := data.DocumentCodec.Decode(raw)
	require.NoError(t, err)
	assert.True(t, decoded.CreatedAt.Equal(document.CreatedAt))
	decoded.CreatedAt = document.CreatedAt
	assert.Equal(t, document, decoded)
	assert.True(t, decoded.IsDone())
}

func TestDocumentCodec_RejectsUnknownState(t *testing.T) {
	raw := testfixtures.NewDocumentBuilder().WithState("ArchivedDocumentState").BuildJSON()

	_, err := data.DocumentCodec.Decode(raw)
	assert.Error(t, err)
}

func TestQuestionCodec_SerializesOnlyVariantFields(t *testing.T) {
	tests := []struct {
		name     string
		question data.Question
		present  []string
		absent   []string
	}{
		{
			name:     "ValueQuestion",
			question: testfixtures.NewQuestionBuilder().Build(),
			present:  []string{"valueType"},
			absent:   []string{"answerUuids", "variables"},
		},
		{
			name:     "OptionsQuestion",
			question: testfixtures.NewQuestionBuilder().AsOptions(testfixtures.AnswerUUID).Build(),
			present:  []string{"answerUuids"},
			absent:   []string{"valueType", "choiceUuids"},
		},
		{
			name:     "IntegrationQuestionWithoutVariables",
			question: testfixtures.NewQuestionBuilder().AsIntegration(testfixtures.TagUUID, nil).Build(),
			present:  []string{"integrationUuid", "variables"},
			absent:   []string{"valueType"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := data.QuestionCodec.Encode(tt.question)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal([]byte(raw), &fields))
			for _, k := range tt.present {
				assert.Contains(t, fields, k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, fields, k)
			}

			decoded, err := data.QuestionCodec.Decode(raw)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.question, decoded, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQuestionCodec_RequiresVariantFields(t *testing.T) {
	raw := `{"questionType":"OptionsQuestion","uuid":"` + testfixtures.QuestionUUID + `","title":"t","text":null,` +
		`"requiredPhaseUuid":null,"tagUuids":[],"referenceUuids":[],"expertUuids":[]}`

	_, err := data.QuestionCodec.Decode(raw)
	assert.Error(t, err, "options question without answerUuids must be rejected")
}

func TestQuestionCodec_RejectsCaseFoldedValueType(t *testing.T) {
	raw, err := data.QuestionCodec.Encode(testfixtures.NewQuestionBuilder().Build())
	require.NoError(t, err)
	tampered := raw[:len(raw)-1] + `,"ValueType":"Bogus"}`

	v, err := data.QuestionCodec.Decode(tampered)
	require.Error(t, err)
	assert.True(t, errors.Is(err, codec.ErrDecode))
	assert.Empty(t, v.ValueType)
}

func TestQuestionCodec_EncodeRejectsUnknownType(t *testing.T) {
	q := testfixtures.NewQuestionBuilder().Build()
	q.QuestionType = "SliderQuestion"

	_, err := data.QuestionCodec.Encode(q)
	assert.Error(t, err)
}

func TestQuestionPathCodec(t *testing.T) {
	path, err := data.QuestionPathCodec.Decode(`"chapters.1.questions.2"`)
	require.NoError(t, err)
	assert.Equal(t, "chapters.1.questions.2", path)

	_, err = data.QuestionPathCodec.Decode(`chapters.1`)
	assert.Error(t, err, "a bare path is not a JSON string")

	_, err = data.QuestionPathCodec.Decode(`42`)
	assert.Error(t, err)
}

func TestKnowledgeModelCodec_PreservesUnknownFields(t *testing.T) {
	raw := `{
		"uuid": "km",
		"entities": {
			"answers": {}, "chapters": {"c1": {"uuid": "c1", "title": "Intro", "annotations": [{"key": "k", "value": "v"}]}},
			"choices": {}, "experts": {}, "integrations": {}, "metrics": {}, "phases": {},
			"questions": {}, "references": {}, "resourceCollections": {}, "resourcePages": {}, "tags": {}
		},
		"structure": {"questions": {}}
	}`

	km, err := data.KnowledgeModelCodec.Decode(raw)
	require.NoError(t, err)

	chapter := km.Entities.Chapters["c1"]
	assert.Equal(t, []data.Annotation{{Key: "k", Value: "v"}}, chapter.Annotations)
	assert.JSONEq(t, `"Intro"`, string(chapter.Extra["title"]))
	assert.JSONEq(t, `"km"`, string(km.Extra["uuid"]))

	encoded, err := data.KnowledgeModelCodec.Encode(km)
	require.NoError(t, err)
	assert.JSONEq(t, raw, encoded)
}

func TestKnowledgeModelCodec_RejectsMissingNestedField(t *testing.T) {
	raw := `{"entities": {"answers": {}}, "structure": {"questions": {}}}`

	_, err := data.KnowledgeModelCodec.Decode(raw)
	assert.Error(t, err)
}

func TestKnowledgeModel_EncodeFillsMissingMaps(t *testing.T) {
	raw, err := data.KnowledgeModelCodec.Encode(data.KnowledgeModel{})
	require.NoError(t, err)

	_, err = data.KnowledgeModelCodec.Decode(raw)
	assert.NoError(t, err)
}

func TestEntityMap_UUIDsAreSorted(t *testing.T) {
	m := data.EntityMap{"b": {UUID: "b"}, "a": {UUID: "a"}, "c": {UUID: "c"}}
	assert.Equal(t, []string{"a", "b", "c"}, m.UUIDs())
}

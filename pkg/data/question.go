package data

import (
	"encoding/json"
	"fmt"
)

// QuestionType discriminates the question union.
type QuestionType string

const (
	QuestionTypeOptions     QuestionType = "OptionsQuestion"
	QuestionTypeList        QuestionType = "ListQuestion"
	QuestionTypeValue       QuestionType = "ValueQuestion"
	QuestionTypeMultiChoice QuestionType = "MultiChoiceQuestion"
	QuestionTypeItemSelect  QuestionType = "ItemSelectQuestion"
	QuestionTypeIntegration QuestionType = "IntegrationQuestion"
	QuestionTypeFile        QuestionType = "FileQuestion"
)

// QuestionValueType is the input type of a value question.
type QuestionValueType string

const (
	ValueTypeString   QuestionValueType = "StringQuestionValueType"
	ValueTypeNumber   QuestionValueType = "NumberQuestionValueType"
	ValueTypeDate     QuestionValueType = "DateQuestionValueType"
	ValueTypeDateTime QuestionValueType = "DateTimeQuestionValueType"
	ValueTypeTime     QuestionValueType = "TimeQuestionValueType"
	ValueTypeText     QuestionValueType = "TextQuestionValueType"
	ValueTypeEmail    QuestionValueType = "EmailQuestionValueType"
	ValueTypeURL      QuestionValueType = "UrlQuestionValueType"
	ValueTypeColor    QuestionValueType = "ColorQuestionValueType"
)

// Question is the payload of the question-value attribute. Only the fields of
// its QuestionType are serialized.
type Question struct {
	QuestionType      QuestionType `json:"questionType"`
	UUID              string       `json:"uuid"`
	Title             string       `json:"title"`
	Text              *string      `json:"text"`
	RequiredPhaseUUID *string      `json:"requiredPhaseUuid"`
	TagUUIDs          []string     `json:"tagUuids"`
	ReferenceUUIDs    []string     `json:"referenceUuids"`
	ExpertUUIDs       []string     `json:"expertUuids"`

	// OptionsQuestion
	AnswerUUIDs []string `json:"answerUuids,omitempty"`
	// ListQuestion
	ItemTemplateQuestionUUIDs []string `json:"itemTemplateQuestionUuids,omitempty"`
	// ValueQuestion
	ValueType QuestionValueType `json:"valueType,omitempty"`
	// MultiChoiceQuestion
	ChoiceUUIDs []string `json:"choiceUuids,omitempty"`
	// ItemSelectQuestion
	ListQuestionUUID *string `json:"listQuestionUuid,omitempty"`
	// IntegrationQuestion
	IntegrationUUID string            `json:"integrationUuid,omitempty"`
	Variables       map[string]string `json:"variables,omitempty"`
	// FileQuestion
	MaxSize   *int64  `json:"maxSize,omitempty"`
	FileTypes *string `json:"fileTypes,omitempty"`
}

// MarshalJSON writes the common fields plus the fields of q.QuestionType.
func (q Question) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"questionType":      q.QuestionType,
		"uuid":              q.UUID,
		"title":             q.Title,
		"text":              q.Text,
		"requiredPhaseUuid": q.RequiredPhaseUUID,
		"tagUuids":          nonNil(q.TagUUIDs),
		"referenceUuids":    nonNil(q.ReferenceUUIDs),
		"expertUuids":       nonNil(q.ExpertUUIDs),
	}

	switch q.QuestionType {
	case QuestionTypeOptions:
		out["answerUuids"] = nonNil(q.AnswerUUIDs)
	case QuestionTypeList:
		out["itemTemplateQuestionUuids"] = nonNil(q.ItemTemplateQuestionUUIDs)
	case QuestionTypeValue:
		out["valueType"] = q.ValueType
	case QuestionTypeMultiChoice:
		out["choiceUuids"] = nonNil(q.ChoiceUUIDs)
	case QuestionTypeItemSelect:
		out["listQuestionUuid"] = q.ListQuestionUUID
	case QuestionTypeIntegration:
		vars := q.Variables
		if vars == nil {
			vars = map[string]string{}
		}
		out["integrationUuid"] = q.IntegrationUUID
		out["variables"] = vars
	case QuestionTypeFile:
		out["maxSize"] = q.MaxSize
		out["fileTypes"] = q.FileTypes
	default:
		return nil, fmt.Errorf("unknown question type %q", q.QuestionType)
	}

	return json.Marshal(out)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

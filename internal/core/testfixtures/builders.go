// Package testfixtures provides fluent builders for the payloads exchanged with
// plugin elements.
package testfixtures

import (
	"encoding/json"
	"time"

	"wizard.dev/pluginsdk/pkg/data"
)

// Stable identifiers used across fixtures.
const (
	ProjectUUID   = "3f1a2c9e-5d4b-4e8a-9c7f-1b2d3e4f5a6b"
	DocumentUUID  = "8b7c6d5e-4f3a-4b2c-8d1e-0f9a8b7c6d5e"
	FormatUUID    = "c0ffee00-1111-4222-8333-444455556666"
	QuestionUUID  = "aa11bb22-cc33-4d44-8e55-ff6677889900"
	TagUUID       = "0a1b2c3d-4e5f-4a6b-9c8d-7e6f5a4b3c2d"
	ChapterUUID   = "12345678-9abc-4def-8123-456789abcdef"
	AnswerUUID    = "fedcba98-7654-4321-8fed-cba987654321"
	KMPackageID   = "myorg:core:2.6.0"
	TemplateID    = "myorg:questionnaire-report:1.4.0"
	DefaultDocTag = "My Document"
)

// ProjectBuilder builds project payloads.
type ProjectBuilder struct {
	project data.Project
}

// NewProjectBuilder creates a ProjectBuilder with sensible defaults.
func NewProjectBuilder() *ProjectBuilder {
	return &ProjectBuilder{project: data.Project{
		UUID:                    ProjectUUID,
		Name:                    "Research Data Plan",
		IsTemplate:              false,
		KnowledgeModelPackageID: KMPackageID,
	}}
}

// WithName sets the project name.
func (b *ProjectBuilder) WithName(name string) *ProjectBuilder {
	b.project.Name = name
	return b
}

// WithKnowledgeModelPackageID sets the knowledge model package.
func (b *ProjectBuilder) WithKnowledgeModelPackageID(id string) *ProjectBuilder {
	b.project.KnowledgeModelPackageID = id
	return b
}

// AsTemplate marks the project as a template.
func (b *ProjectBuilder) AsTemplate() *ProjectBuilder {
	b.project.IsTemplate = true
	return b
}

// Build returns the project.
func (b *ProjectBuilder) Build() data.Project {
	return b.project
}

// BuildJSON returns the project as an attribute value.
func (b *ProjectBuilder) BuildJSON() string {
	return mustJSON(b.project)
}

// DocumentBuilder builds document payloads.
type DocumentBuilder struct {
	document data.Document
}

// NewDocumentBuilder creates a DocumentBuilder with sensible defaults.
func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{document: data.Document{
		UUID:                 DocumentUUID,
		Name:                 DefaultDocTag,
		CreatedAt:            time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC),
		Project:              data.ProjectInfo{UUID: ProjectUUID, Name: "Research Data Plan"},
		DocumentTemplateID:   TemplateID,
		DocumentTemplateName: "Questionnaire Report",
		Format:               data.DocumentTemplateFormat{UUID: FormatUUID, Name: "PDF", Icon: "far fa-file-pdf"},
		State:                data.DocumentStateDone,
	}}
}

// WithName sets the document name.
func (b *DocumentBuilder) WithName(name string) *DocumentBuilder {
	b.document.Name = name
	return b
}

// WithState sets the document state.
func (b *DocumentBuilder) WithState(state data.DocumentState) *DocumentBuilder {
	b.document.State = state
	return b
}

// WithFileSize sets the file size.
func (b *DocumentBuilder) WithFileSize(size int64) *DocumentBuilder {
	b.document.FileSize = &size
	return b
}

// WithWorkerLog sets the worker log.
func (b *DocumentBuilder) WithWorkerLog(log string) *DocumentBuilder {
	b.document.WorkerLog = &log
	return b
}

// Build returns the document.
func (b *DocumentBuilder) Build() data.Document {
	return b.document
}

// BuildJSON returns the document as an attribute value.
func (b *DocumentBuilder) BuildJSON() string {
	return mustJSON(b.document)
}

// QuestionBuilder builds question payloads.
type QuestionBuilder struct {
	question data.Question
}

// NewQuestionBuilder creates a value question with sensible defaults.
func NewQuestionBuilder() *QuestionBuilder {
	return &QuestionBuilder{question: data.Question{
		QuestionType:   data.QuestionTypeValue,
		UUID:           QuestionUUID,
		Title:          "What is the name of the dataset?",
		TagUUIDs:       []string{TagUUID},
		ReferenceUUIDs: []string{},
		ExpertUUIDs:    []string{},
		ValueType:      data.ValueTypeString,
	}}
}

// WithTitle sets the question title.
func (b *QuestionBuilder) WithTitle(title string) *QuestionBuilder {
	b.question.Title = title
	return b
}

// AsOptions turns the question into an options question.
func (b *QuestionBuilder) AsOptions(answerUUIDs ...string) *QuestionBuilder {
	b.question.QuestionType = data.QuestionTypeOptions
	b.question.ValueType = ""
	b.question.AnswerUUIDs = append([]string{}, answerUUIDs...)
	return b
}

// AsIntegration turns the question into an integration question.
func (b *QuestionBuilder) AsIntegration(integrationUUID string, variables map[string]string) *QuestionBuilder {
	b.question.QuestionType = data.QuestionTypeIntegration
	b.question.ValueType = ""
	b.question.IntegrationUUID = integrationUUID
	b.question.Variables = variables
	return b
}

// Build returns the question.
func (b *QuestionBuilder) Build() data.Question {
	return b.question
}

// BuildJSON returns the question as an attribute value.
func (b *QuestionBuilder) BuildJSON() string {
	return mustJSON(b.question)
}

// KnowledgeModelBuilder builds knowledge model payloads.
type KnowledgeModelBuilder struct {
	km data.KnowledgeModel
}

// NewKnowledgeModelBuilder creates an empty knowledge model.
func NewKnowledgeModelBuilder() *KnowledgeModelBuilder {
	return &KnowledgeModelBuilder{km: data.KnowledgeModel{
		Entities: data.Entities{
			Answers: data.EntityMap{}, Chapters: data.EntityMap{}, Choices: data.EntityMap{},
			Experts: data.EntityMap{}, Integrations: data.EntityMap{}, Metrics: data.EntityMap{},
			Phases: data.EntityMap{}, Questions: data.EntityMap{}, References: data.EntityMap{},
			ResourceCollections: data.EntityMap{}, ResourcePages: data.EntityMap{}, Tags: data.EntityMap{},
		},
		Structure: data.Structure{Questions: data.EntityMap{}},
	}}
}

// WithChapter adds a chapter carrying the given annotations.
func (b *KnowledgeModelBuilder) WithChapter(uuid string, annotations ...data.Annotation) *KnowledgeModelBuilder {
	b.km.Entities.Chapters[uuid] = data.Entity{UUID: uuid, Annotations: annotations}
	return b
}

// WithQuestion adds a question carrying the given annotations.
func (b *KnowledgeModelBuilder) WithQuestion(uuid string, annotations ...data.Annotation) *KnowledgeModelBuilder {
	b.km.Entities.Questions[uuid] = data.Entity{UUID: uuid, Annotations: annotations}
	return b
}

// WithAnswer adds an answer carrying the given annotations.
func (b *KnowledgeModelBuilder) WithAnswer(uuid string, annotations ...data.Annotation) *KnowledgeModelBuilder {
	b.km.Entities.Answers[uuid] = data.Entity{UUID: uuid, Annotations: annotations}
	return b
}

// Build returns the knowledge model.
func (b *KnowledgeModelBuilder) Build() data.KnowledgeModel {
	return b.km
}

// BuildJSON returns the knowledge model as an attribute value.
func (b *KnowledgeModelBuilder) BuildJSON() string {
	return mustJSON(b.km)
}

func mustJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(raw)
}

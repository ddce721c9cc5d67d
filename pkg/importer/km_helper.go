package importer

import (
	"slices"

	"wizard.dev/pluginsdk/pkg/data"
)

// KMHelper finds knowledge model entities by annotation. Lookups visit
// entities in UUID order and return the first match.
type KMHelper struct {
	km *data.KnowledgeModel
}

// NewKMHelper wraps km. A nil km matches nothing.
func NewKMHelper(km *data.KnowledgeModel) KMHelper {
	return KMHelper{km: km}
}

func (h KMHelper) AnswerUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Answers }, key, value)
}

func (h KMHelper) ChapterUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Chapters }, key, value)
}

func (h KMHelper) ChoiceUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Choices }, key, value)
}

func (h KMHelper) ExpertUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Experts }, key, value)
}

func (h KMHelper) IntegrationUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Integrations }, key, value)
}

func (h KMHelper) MetricUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Metrics }, key, value)
}

func (h KMHelper) PhaseUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Phases }, key, value)
}

func (h KMHelper) QuestionUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Questions }, key, value)
}

func (h KMHelper) ReferenceUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.References }, key, value)
}

func (h KMHelper) ResourceCollectionUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.ResourceCollections }, key, value)
}

func (h KMHelper) ResourcePageUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.ResourcePages }, key, value)
}

func (h KMHelper) TagUUIDByAnnotation(key, value string) (string, bool) {
	return h.find(func(e data.Entities) data.EntityMap { return e.Tags }, key, value)
}

func (h KMHelper) find(pick func(data.Entities) data.EntityMap, key, value string) (string, bool) {
	if h.km == nil {
		return "", false
	}
	entities := pick(h.km.Entities)
	want := data.Annotation{Key: key, Value: value}
	for _, id := range entities.UUIDs() {
		if slices.Contains(entities[id].Annotations, want) {
			return id, true
		}
	}
	return "", false
}

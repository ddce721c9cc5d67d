// Package data holds the payload types exchanged with the host through element
// attributes and events, together with their schema-validated codecs.
package data

import "time"

// Annotation is a key/value pair attached to knowledge-model entities.
type Annotation struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ProjectInfo is the short project reference embedded in other payloads.
type ProjectInfo struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

// Project is the payload of the project-value attribute.
type Project struct {
	UUID                    string `json:"uuid"`
	Name                    string `json:"name"`
	IsTemplate              bool   `json:"isTemplate"`
	KnowledgeModelPackageID string `json:"knowledgeModelPackageId"`
}

// DocumentState is the generation state of a document.
type DocumentState string

const (
	DocumentStateQueued     DocumentState = "QueuedDocumentState"
	DocumentStateInProgress DocumentState = "InProgressDocumentState"
	DocumentStateDone       DocumentState = "DoneDocumentState"
	DocumentStateError      DocumentState = "ErrorDocumentState"
)

// DocumentTemplateFormat identifies the output format a document was rendered in.
type DocumentTemplateFormat struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// Document is the payload of the document-value attribute. Nullable fields are
// always present in the JSON form.
type Document struct {
	UUID                 string                 `json:"uuid"`
	Name                 string                 `json:"name"`
	CreatedAt            time.Time              `json:"createdAt"`
	Project              ProjectInfo            `json:"project"`
	ProjectEventUUID     *string                `json:"projectEventUuid"`
	ProjectVersion       *string                `json:"projectVersion"`
	DocumentTemplateID   string                 `json:"documentTemplateId"`
	DocumentTemplateName string                 `json:"documentTemplateName"`
	Format               DocumentTemplateFormat `json:"format"`
	State                DocumentState          `json:"state"`
	CreatedBy            *string                `json:"createdBy"`
	FileSize             *int64                 `json:"fileSize"`
	WorkerLog            *string                `json:"workerLog"`
}

// IsDone reports whether the document finished generating.
func (d Document) IsDone() bool {
	return d.State == DocumentStateDone
}

package data

import (
	"embed"
	"fmt"

	"wizard.dev/pluginsdk/pkg/codec"
)

//go:embed schemas/*.json
var schemaFS embed.FS

func mustSchema(name string) *codec.Schema {
	src, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("data: missing embedded schema %s: %v", name, err))
	}
	return codec.MustCompileSchema(name, src)
}

// Codecs for the payloads the host writes into element attributes.
var (
	AnnotationCodec     = codec.NewSimple[Annotation](mustSchema("annotation"))
	ProjectInfoCodec    = codec.NewSimple[ProjectInfo](mustSchema("project-info"))
	ProjectCodec        = codec.NewSimple[Project](mustSchema("project"))
	DocumentCodec       = codec.NewSimple[Document](mustSchema("document"))
	QuestionCodec       = codec.NewSimple[Question](mustSchema("question"))
	QuestionPathCodec   = codec.NewSimple[string](mustSchema("question-path"))
	KnowledgeModelCodec = codec.NewSimple[KnowledgeModel](mustSchema("knowledge-model"))
	ImporterEventsCodec = codec.NewSimple[[]ImporterEvent](mustSchema("importer-events"))
)

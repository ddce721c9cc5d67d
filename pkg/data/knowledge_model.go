package data

import (
	"encoding/json"
	"sort"
)

// Entity is a knowledge-model entity. Only the fields the SDK needs are typed;
// everything else the host sends is kept in Extra and written back unchanged.
type Entity struct {
	UUID        string                     `json:"uuid"`
	Annotations []Annotation               `json:"annotations,omitempty"`
	Extra       map[string]json.RawMessage `json:"-"`
}

// EntityMap maps entity UUIDs to entities.
type EntityMap map[string]Entity

// UUIDs returns the keys of m in sorted order.
func (m EntityMap) UUIDs() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entities groups the entity maps of a knowledge model by entity kind.
type Entities struct {
	Answers             EntityMap `json:"answers"`
	Chapters            EntityMap `json:"chapters"`
	Choices             EntityMap `json:"choices"`
	Experts             EntityMap `json:"experts"`
	Integrations        EntityMap `json:"integrations"`
	Metrics             EntityMap `json:"metrics"`
	Phases              EntityMap `json:"phases"`
	Questions           EntityMap `json:"questions"`
	References          EntityMap `json:"references"`
	ResourceCollections EntityMap `json:"resourceCollections"`
	ResourcePages       EntityMap `json:"resourcePages"`
	Tags                EntityMap `json:"tags"`
}

// Structure holds the structural part of a knowledge model.
type Structure struct {
	Questions EntityMap `json:"questions"`
}

// KnowledgeModel is the payload of the knowledge-model-value attribute.
type KnowledgeModel struct {
	Entities  Entities                   `json:"entities"`
	Structure Structure                  `json:"structure"`
	Extra     map[string]json.RawMessage `json:"-"`
}

var (
	entityKeys         = []string{"uuid", "annotations"}
	knowledgeModelKeys = []string{"entities", "structure"}
)

func (e Entity) MarshalJSON() ([]byte, error) {
	type plain Entity
	return marshalWithExtra(plain(e), e.Extra)
}

func (e *Entity) UnmarshalJSON(raw []byte) error {
	type plain Entity
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	extra, err := collectExtra(raw, entityKeys)
	if err != nil {
		return err
	}
	*e = Entity(p)
	e.Extra = extra
	return nil
}

func (km KnowledgeModel) MarshalJSON() ([]byte, error) {
	type plain KnowledgeModel
	p := plain(km)
	p.Entities = km.Entities.normalized()
	if p.Structure.Questions == nil {
		p.Structure.Questions = EntityMap{}
	}
	return marshalWithExtra(p, km.Extra)
}

func (km *KnowledgeModel) UnmarshalJSON(raw []byte) error {
	type plain KnowledgeModel
	var p plain
	if err := json.Unmarshal(raw, &p); err != nil {
		return err
	}
	extra, err := collectExtra(raw, knowledgeModelKeys)
	if err != nil {
		return err
	}
	*km = KnowledgeModel(p)
	km.Extra = extra
	return nil
}

// normalized replaces nil maps with empty ones so the JSON form always carries
// every entity kind.
func (e Entities) normalized() Entities {
	for _, m := range []*EntityMap{
		&e.Answers, &e.Chapters, &e.Choices, &e.Experts, &e.Integrations, &e.Metrics,
		&e.Phases, &e.Questions, &e.References, &e.ResourceCollections, &e.ResourcePages, &e.Tags,
	} {
		if *m == nil {
			*m = EntityMap{}
		}
	}
	return e
}

func marshalWithExtra(v any, extra map[string]json.RawMessage) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return raw, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, typed := fields[k]; !typed {
			fields[k] = val
		}
	}
	return json.Marshal(fields)
}

func collectExtra(raw []byte, known []string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(fields, k)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

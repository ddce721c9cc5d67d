// Package plugin assembles plugin elements into a registry and the declarative
// connector table the host reads to place them.
package plugin

import (
	"encoding/json"
	"fmt"
	"io"

	"wizard.dev/pluginsdk/pkg/protocol"
)

// Metadata identifies a plugin.
type Metadata struct {
	UUID        string `json:"uuid" yaml:"uuid"`
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	Description string `json:"description" yaml:"description"`
}

// Plugin is the immutable result of a Builder.
type Plugin struct {
	UUID             string     `json:"uuid"`
	Name             string     `json:"name"`
	Version          string     `json:"version"`
	Description      string     `json:"description"`
	PluginAPIVersion string     `json:"pluginApiVersion"`
	Connectors       Connectors `json:"connectors"`
}

// Metadata returns the identity part of p.
func (p Plugin) Metadata() Metadata {
	return Metadata{UUID: p.UUID, Name: p.Name, Version: p.Version, Description: p.Description}
}

// ReadPlugin decodes a plugin descriptor as written by json.Marshal(Plugin).
func ReadPlugin(r io.Reader) (Plugin, error) {
	var p Plugin
	if err := json.NewDecoder(r).Decode(&p); err != nil {
		return Plugin{}, fmt.Errorf("failed to decode plugin: %w", err)
	}
	if _, err := CompilePatterns(allPatterns(p.Connectors)); err != nil {
		return Plugin{}, err
	}
	return p, nil
}

func allPatterns(c Connectors) []string {
	var out []string
	for _, x := range c.DocumentActions {
		out = append(out, x.DocumentTemplateIDPatterns...)
	}
	for _, x := range c.ProjectActions {
		out = append(out, x.KnowledgeModelPatterns...)
	}
	for _, x := range c.ProjectQuestionActions {
		out = append(out, x.KnowledgeModelPatterns...)
	}
	for _, x := range c.ProjectTabs {
		out = append(out, x.KnowledgeModelPatterns...)
	}
	for _, x := range c.ProjectImporters {
		out = append(out, x.KnowledgeModelPatterns...)
	}
	return out
}

func apiVersion() string {
	return protocol.PluginAPIVersion
}

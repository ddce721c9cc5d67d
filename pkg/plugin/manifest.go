package plugin

import (
	"encoding/json"
	"fmt"
	"io"
)

type manifest struct {
	Metadata
	PluginAPIVersion string `json:"pluginApiVersion"`
}

// WriteManifestScript writes the script module the host loads to identify the
// plugin before importing its elements.
func WriteManifestScript(w io.Writer, m Metadata) error {
	raw, err := json.MarshalIndent(manifest{Metadata: m, PluginAPIVersion: apiVersion()}, "    ", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if _, err := fmt.Fprintf(w, "export default function () {\n    return %s\n}\n", raw); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

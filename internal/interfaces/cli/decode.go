package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/data"
)

type decodeFunc func(raw string) (any, error)

func decodeWith[T any](d codec.Codec[T]) decodeFunc {
	return func(raw string) (any, error) {
		v, err := d.Decode(raw)
		if err != nil {
			return nil, err
		}
		return v, nil
	}
}

var decoders = map[string]decodeFunc{
	"annotation":      decodeWith(data.AnnotationCodec),
	"project-info":    decodeWith(data.ProjectInfoCodec),
	"project":         decodeWith(data.ProjectCodec),
	"document":        decodeWith(data.DocumentCodec),
	"question":        decodeWith(data.QuestionCodec),
	"question-path":   decodeWith(data.QuestionPathCodec),
	"knowledge-model": decodeWith(data.KnowledgeModelCodec),
	"importer-events": decodeWith(data.ImporterEventsCodec),
}

// DecodeKinds returns the payload kinds accepted by the decode command.
func DecodeKinds() []string {
	kinds := make([]string, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)
	return kinds
}

// NewDecodeCommand creates the decode command
func NewDecodeCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <kind> [file]",
		Short: "Validate an attribute payload and print its decoded form",
		Long: fmt.Sprintf(`Decode a JSON payload the way a plugin element decodes the matching attribute.

The payload is read from file, or from stdin when no file is given. Invalid
payloads are reported with the schema violation that an element would log.

Kinds: %s`, strings.Join(DecodeKinds(), ", ")),
		Args:      cobra.RangeArgs(1, 2),
		ValidArgs: DecodeKinds(),
		RunE: func(cmd *cobra.Command, args []string) error {
			decode, ok := decoders[args[0]]
			if !ok {
				return fmt.Errorf("unknown payload kind %q (expected one of %s)", args[0], strings.Join(DecodeKinds(), ", "))
			}

			raw, source, err := readPayload(cmd, args[1:])
			if err != nil {
				return err
			}

			v, err := decode(strings.TrimSpace(string(raw)))
			if err != nil {
				container.logger().Debug("Payload rejected", zap.String("kind", args[0]), zap.String("source", source), zap.Error(err))
				return fmt.Errorf("invalid %s payload in %s: %w", args[0], source, err)
			}

			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode decoded payload: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}
}

func readPayload(cmd *cobra.Command, args []string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return raw, "stdin", nil
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return nil, "", fmt.Errorf("failed to read payload: %w", err)
	}
	return raw, args[0], nil
}

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wizard.dev/pluginsdk/pkg/plugin"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	sectionStyle = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	tagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

// NewInspectCommand creates the inspect command
func NewInspectCommand(container *CLIContainer) *cobra.Command {
	var (
		kmPackageID string
		templateID  string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <plugin.json>",
		Short: "Show the connectors of a plugin descriptor",
		Long: `Show the connectors declared by a plugin descriptor.

With --km or --template only the connectors the host would offer for that
knowledge model package or document template are shown.`,
		Example: `  pluginsdk inspect dist/plugin.json
  pluginsdk inspect dist/plugin.json --km myorg:core:2.6.0 --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open plugin descriptor: %w", err)
			}
			defer f.Close()

			p, err := plugin.ReadPlugin(f)
			if err != nil {
				return err
			}
			container.logger().Debug("Plugin descriptor loaded",
				zap.String("path", args[0]),
				zap.Strings("elements", p.Connectors.Elements()))

			if kmPackageID != "" || templateID != "" {
				p.Connectors = p.Connectors.Applicable(kmPackageID, templateID)
			}

			if asJSON {
				out, err := json.MarshalIndent(p, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode plugin: %w", err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderPlugin(p))
			return err
		},
	}

	cmd.Flags().StringVar(&kmPackageID, "km", "", "Knowledge model package id to filter project connectors")
	cmd.Flags().StringVar(&templateID, "template", "", "Document template id to filter document actions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the descriptor as JSON")

	return cmd
}

func renderPlugin(p plugin.Plugin) string {
	sections := []string{
		headerStyle.Render(fmt.Sprintf("%s %s", p.Name, p.Version)),
		mutedStyle.Render(fmt.Sprintf("uuid %s, plugin API %s", p.UUID, p.PluginAPIVersion)),
	}
	if p.Description != "" {
		sections = append(sections, p.Description)
	}

	c := p.Connectors
	var rows []string
	for _, x := range c.DocumentActions {
		rows = append(rows, row(x.Element, x.Action.Name, x.DocumentTemplateIDPatterns))
	}
	sections = appendSection(sections, "Document actions", rows)

	rows = nil
	for _, x := range c.ProjectActions {
		rows = append(rows, row(x.Element, x.Name, x.KnowledgeModelPatterns))
	}
	sections = appendSection(sections, "Project actions", rows)

	rows = nil
	for _, x := range c.ProjectQuestionActions {
		rows = append(rows, row(x.Element, x.Name, x.KnowledgeModelPatterns))
	}
	sections = appendSection(sections, "Project question actions", rows)

	rows = nil
	for _, x := range c.ProjectTabs {
		rows = append(rows, row(x.Element, x.Tab.Name+" "+mutedStyle.Render(x.Tab.URL), x.KnowledgeModelPatterns))
	}
	sections = appendSection(sections, "Project tabs", rows)

	rows = nil
	for _, x := range c.ProjectImporters {
		rows = append(rows, row(x.Element, x.Name, x.KnowledgeModelPatterns))
	}
	sections = appendSection(sections, "Project importers", rows)

	rows = nil
	if c.Settings != nil {
		rows = append(rows, row(c.Settings.Element, "settings", nil))
	}
	if c.UserSettings != nil {
		rows = append(rows, row(c.UserSettings.Element, "user settings", nil))
	}
	sections = appendSection(sections, "Settings", rows)

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func appendSection(sections []string, title string, rows []string) []string {
	if len(rows) == 0 {
		return sections
	}
	sections = append(sections, "", sectionStyle.Render(title))
	return append(sections, rows...)
}

func row(tag, label string, patterns []string) string {
	line := fmt.Sprintf("  %s  %s", tagStyle.Render(tag), label)
	if len(patterns) > 0 {
		line += "  " + mutedStyle.Render("["+strings.Join(patterns, ", ")+"]")
	}
	return line
}

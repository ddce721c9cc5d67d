// Package factory binds UI components to a plugin's settings codecs, producing
// element definitions ready to be registered.
package factory

import (
	"wizard.dev/pluginsdk/pkg/codec"
	"wizard.dev/pluginsdk/pkg/element"
)

// Factory creates element definitions sharing one pair of settings codecs.
type Factory[S, U any] struct {
	settings     codec.Codec[S]
	userSettings codec.Codec[U]
}

// New returns a factory for plugins whose settings are decoded by settings and
// userSettings.
func New[S, U any](settings codec.Codec[S], userSettings codec.Codec[U]) Factory[S, U] {
	return Factory[S, U]{settings: settings, userSettings: userSettings}
}

// DocumentAction defines an element rendered for a document action.
func (f Factory[S, U]) DocumentAction(component element.Component[element.DocumentActionProps[S, U]]) element.Definition[S, U] {
	return element.NewDefinition(f.settings, f.userSettings, element.DocumentAction(component))
}

// ProjectAction defines an element rendered for a project action.
func (f Factory[S, U]) ProjectAction(component element.Component[element.ProjectActionProps[S, U]]) element.Definition[S, U] {
	return element.NewDefinition(f.settings, f.userSettings, element.ProjectAction(component))
}

// ProjectTab defines an element rendered inside a project tab.
func (f Factory[S, U]) ProjectTab(component element.Component[element.ProjectTabProps[S, U]]) element.Definition[S, U] {
	return element.NewDefinition(f.settings, f.userSettings, element.ProjectTab(component))
}

// ProjectQuestionAction defines an element rendered for an action on a single question.
func (f Factory[S, U]) ProjectQuestionAction(component element.Component[element.ProjectQuestionActionProps[S, U]]) element.Definition[S, U] {
	return element.NewDefinition(f.settings, f.userSettings, element.ProjectQuestionAction(component))
}

// ProjectImporter defines an element that emits importer events into a project.
func (f Factory[S, U]) ProjectImporter(component element.Component[element.ProjectImporterProps[S, U]]) element.Definition[S, U] {
	return element.NewDefinition(f.settings, f.userSettings, element.ProjectImporter(component))
}

// Settings defines the element editing the plugin-wide settings.
func (f Factory[S, U]) Settings(component element.Component[element.SettingsProps[S]]) element.Definition[S, U] {
	return element.NewDefinition(f.settings, f.userSettings, element.Settings[S, U](component))
}

// UserSettings defines the element editing the per-user settings.
func (f Factory[S, U]) UserSettings(component element.Component[element.UserSettingsProps[S, U]]) element.Definition[S, U] {
	return element.NewDefinition(f.settings, f.userSettings, element.UserSettings(component))
}

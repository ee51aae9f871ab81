package gen

import (
	"go/types"
	"text/template"

	"adapter-generator/internal/analyze"
	"adapter-generator/internal/naming"
)

// templateData holds all data needed for the adapter template.
type templateData struct {
	PackageName    string
	Imports        []importSpec
	Artifact       string
	DispatcherName string
	// Runtime is the file-level name of the runtime package.
	Runtime string
	Methods []methodData
}

// methodData is one adapter method.
type methodData struct {
	Name   string
	Source string
	Target string
	// Doc names both types with full import paths.
	Doc string
}

// reservedIdents are identifiers the template declares itself. Imports must
// not shadow them.
func reservedIdents(artifact string) []string {
	return []string{
		"a", "source", "dispatcher", "registry", "err",
		artifact, "New" + artifact, "New" + artifact + "FromRegistry", artifact + "DispatcherName",
	}
}

// buildTemplateData assigns import names and renders every type of the file.
func (g *Generator) buildTemplateData(bindings []naming.Binding) *templateData {
	imports := newImportSet(g.config.PackagePath, reservedIdents(g.config.ArtifactName)...)

	pkgs := make(map[string]*types.Package)
	for _, b := range bindings {
		packagesOf(b.Entry.Pair.Source, pkgs)
		packagesOf(b.Entry.Pair.Target, pkgs)
	}

	runtime := g.runtimePackage()

	// The runtime package is named first so it keeps its own name.
	imports.assign([]*types.Package{runtime})
	imports.assign(pkgList(pkgs))

	data := &templateData{
		PackageName:    g.config.PackageName,
		Imports:        imports.specs(),
		Artifact:       g.config.ArtifactName,
		DispatcherName: g.config.DispatcherName,
		Runtime:        imports.qualifier(runtime),
		Methods:        make([]methodData, 0, len(bindings)),
	}

	for _, b := range bindings {
		data.Methods = append(data.Methods, methodData{
			Name:   b.Identifier,
			Source: imports.typeString(b.Entry.Pair.Source),
			Target: imports.typeString(b.Entry.Pair.Target),
			Doc:    analyze.QualifiedString(b.Entry.Pair.Source) + " to " + analyze.QualifiedString(b.Entry.Pair.Target),
		})
	}

	return data
}

var adapterTemplate = template.Must(template.New("adapter").Parse(`// Code generated by adapter-generator. DO NOT EDIT.

package {{.PackageName}}

import (
{{- range .Imports}}
	{{if .NeedsAlias}}{{.Alias}} {{end}}"{{.Path}}"
{{- end}}
)

// {{.Artifact}}DispatcherName is the dispatcher New{{.Artifact}}FromRegistry
// resolves. Empty selects the only registered dispatcher.
const {{.Artifact}}DispatcherName = {{printf "%q" .DispatcherName}}

// {{.Artifact}} exposes every known conversion as a typed method. All methods
// delegate to a single dispatcher.
type {{.Artifact}} struct {
	dispatcher {{.Runtime}}.Dispatcher
}

// New{{.Artifact}} creates a {{.Artifact}} backed by dispatcher.
func New{{.Artifact}}(dispatcher {{.Runtime}}.Dispatcher) *{{.Artifact}} {
	return &{{.Artifact}}{dispatcher: dispatcher}
}

// New{{.Artifact}}FromRegistry creates a {{.Artifact}} backed by the
// dispatcher registered under {{.Artifact}}DispatcherName.
func New{{.Artifact}}FromRegistry(registry *{{.Runtime}}.DispatcherRegistry) (*{{.Artifact}}, error) {
	dispatcher, err := registry.Resolve({{.Artifact}}DispatcherName)
	if err != nil {
		return nil, err
	}

	return New{{.Artifact}}(dispatcher), nil
}
{{range .Methods}}
// {{.Name}} converts {{.Doc}}.
func (a *{{$.Artifact}}) {{.Name}}(source {{.Source}}) ({{.Target}}, error) {
	return {{$.Runtime}}.Dispatch[{{.Target}}](a.dispatcher, source)
}
{{end}}`))

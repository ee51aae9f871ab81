package gen

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"go/types"
	"maps"
	"path"
	"slices"

	"github.com/iancoleman/strcase"
	"golang.org/x/tools/imports"

	"adapter-generator/internal/common"
	"adapter-generator/internal/naming"
)

// RuntimePackage is the import path of the package providing Dispatcher and
// Dispatch to generated code.
const RuntimePackage = "adapter-generator/convert"

// ErrNoBindings means there is nothing to generate.
var ErrNoBindings = errors.New("no conversions to generate")

// GeneratorConfig holds configuration for code generation.
type GeneratorConfig struct {
	// PackagePath is the import path of the generated package.
	PackagePath string
	// PackageName is the name of the generated package.
	PackageName string
	// ArtifactName is the type name of the adapter.
	ArtifactName string
	// DispatcherName is the registry name the adapter resolves its dispatcher by.
	DispatcherName string
	// RuntimePath overrides RuntimePackage.
	RuntimePath string
}

// Generator renders adapter files.
type Generator struct {
	config GeneratorConfig
}

// NewGenerator creates a new Generator with the given configuration.
func NewGenerator(config GeneratorConfig) *Generator {
	if config.RuntimePath == "" {
		config.RuntimePath = RuntimePackage
	}

	if config.PackageName == "" {
		config.PackageName = common.PkgAlias(config.PackagePath)
	}

	return &Generator{config: config}
}

// GeneratedFile represents a generated Go source file.
type GeneratedFile struct {
	// Filename is the name of the file (e.g., "conversion_service_adapter_gen.go").
	Filename string
	// Content is the formatted Go source code.
	Content []byte
}

// Filename returns the file name of the adapter type artifact.
func Filename(artifact string) string {
	return strcase.ToSnake(artifact) + "_gen.go"
}

// Generate renders one method per binding, in binding order. It does no I/O.
func (g *Generator) Generate(bindings []naming.Binding) (*GeneratedFile, error) {
	if len(bindings) == 0 {
		return nil, ErrNoBindings
	}

	if !common.IsExportedIdent(g.config.ArtifactName) {
		return nil, fmt.Errorf("artifact name %q is not an exported identifier", g.config.ArtifactName)
	}

	if g.config.PackagePath == g.config.RuntimePath {
		return nil, fmt.Errorf("cannot generate into the runtime package %s", g.config.RuntimePath)
	}

	for _, b := range bindings {
		for _, t := range []types.Type{b.Entry.Pair.Source, b.Entry.Pair.Target} {
			if err := CheckAccessible(t, g.config.PackagePath); err != nil {
				return nil, fmt.Errorf("%s: %w", b.Identifier, err)
			}
		}
	}

	data := g.buildTemplateData(bindings)
	filename := Filename(g.config.ArtifactName)

	var buf bytes.Buffer
	if err := adapterTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template: %w", err)
	}

	// FormatOnly keeps goimports from searching for packages: every import is
	// already known.
	formatted, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return &GeneratedFile{
			Filename: filename,
			Content:  buf.Bytes(),
		}, fmt.Errorf("formatting code: %w", err)
	}

	return &GeneratedFile{
		Filename: filename,
		Content:  formatted,
	}, nil
}

func (g *Generator) runtimePackage() *types.Package {
	return types.NewPackage(g.config.RuntimePath, path.Base(g.config.RuntimePath))
}

// pkgList returns the packages of m ordered by path.
func pkgList(m map[string]*types.Package) []*types.Package {
	return slices.SortedFunc(maps.Values(m), func(a, b *types.Package) int {
		return cmp.Compare(a.Path(), b.Path())
	})
}

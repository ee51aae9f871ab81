package config

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"go/token"
	"io"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"adapter-generator/internal/analyze"
	"adapter-generator/internal/match"
)

// Directive keys.
const (
	KeyOutput     = "output"
	KeyArtifact   = "artifact"
	KeyDispatcher = "dispatcher"
	KeyExternal   = "external"
)

var directiveKeys = []string{KeyOutput, KeyArtifact, KeyDispatcher, KeyExternal}

// LoadFile reads and parses a YAML configuration file.
func LoadFile(fs afero.Fs, path string) (*Declaration, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}

	return Parse(data, path)
}

// Parse parses YAML data into a declaration named name. Unknown keys are
// rejected.
func Parse(data []byte, name string) (*Declaration, error) {
	filePos := token.Position{Filename: name}

	var f File

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, invalidf(name, filePos, "failed to parse YAML: %v", err)
	}

	if err := validateStruct(&f, name, filePos); err != nil {
		return nil, err
	}

	decl := &Declaration{
		Name:           name,
		Pos:            filePos,
		OutputPackage:  Setting{Value: f.OutputPackage, Pos: filePos},
		ArtifactName:   Setting{Value: f.ArtifactName, Pos: filePos},
		DispatcherName: Setting{Value: f.DispatcherName, Pos: filePos},
	}

	for _, ext := range f.External {
		ext.Pos.Filename = name
		decl.External = append(decl.External, ext)
	}

	return decl, nil
}

// UnmarshalYAML accepts both the mapping form {source, target} and the
// scalar shorthand "source -> target".
func (d *ExternalDef) UnmarshalYAML(node *yaml.Node) error {
	pos := token.Position{Line: node.Line, Column: node.Column}

	if node.Kind == yaml.ScalarNode {
		src, tgt, ok := strings.Cut(node.Value, "->")
		if !ok {
			return fmt.Errorf("line %d: external conversion %q must have the form \"source -> target\"", node.Line, node.Value)
		}

		*d = ExternalDef{Source: strings.TrimSpace(src), Target: strings.TrimSpace(tgt), Pos: pos}

		return nil
	}

	type plain ExternalDef

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*d = ExternalDef(p)
	d.Pos = pos

	return nil
}

// FromDirectives groups directives into one declaration per package, ordered
// by import path. A key repeated with a different value inside one package is
// a conflict.
func FromDirectives(dirs []analyze.Directive) ([]Declaration, error) {
	byPkg := make(map[string]*Declaration)

	var errs []error

	for _, d := range dirs {
		decl, ok := byPkg[d.PkgPath]
		if !ok {
			decl = &Declaration{Name: d.PkgPath, Location: d.PkgPath, Pos: d.Pos}
			byPkg[d.PkgPath] = decl
		}

		if err := applyDirective(decl, d); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	decls := make([]Declaration, 0, len(byPkg))
	for _, decl := range byPkg {
		decls = append(decls, *decl)
	}

	slices.SortFunc(decls, func(a, b Declaration) int {
		return cmp.Compare(a.Name, b.Name)
	})

	return decls, nil
}

func applyDirective(decl *Declaration, d analyze.Directive) error {
	want := 1
	if d.Key == KeyExternal {
		want = 2
	}

	switch d.Key {
	case KeyOutput, KeyArtifact, KeyDispatcher, KeyExternal:
	default:
		if hint, ok := match.Suggest(d.Key, directiveKeys); ok {
			return invalidf(decl.Name, d.Pos, "unknown directive %s%s (did you mean %s%s?)",
				analyze.DirectivePrefix, d.Key, analyze.DirectivePrefix, hint)
		}

		return invalidf(decl.Name, d.Pos, "unknown directive %s%s", analyze.DirectivePrefix, d.Key)
	}

	if len(d.Args) != want {
		return invalidf(decl.Name, d.Pos, "%s%s takes %d argument(s), got %d",
			analyze.DirectivePrefix, d.Key, want, len(d.Args))
	}

	switch d.Key {
	case KeyOutput:
		if err := validateValue(d.Args[0], "import_path", decl.Name, d.Pos); err != nil {
			return err
		}

		return setOnce(&decl.OutputPackage, "output package", decl.Name, d.Args[0], d.Pos)
	case KeyArtifact:
		if err := validateValue(d.Args[0], "exported_ident", decl.Name, d.Pos); err != nil {
			return err
		}

		return setOnce(&decl.ArtifactName, "artifact name", decl.Name, d.Args[0], d.Pos)
	case KeyDispatcher:
		return setOnce(&decl.DispatcherName, "dispatcher name", decl.Name, d.Args[0], d.Pos)
	default:
		decl.External = append(decl.External, ExternalDef{Source: d.Args[0], Target: d.Args[1], Pos: d.Pos})

		return nil
	}
}

func setOnce(s *Setting, setting, decl, value string, pos token.Position) error {
	if s.IsSet() && s.Value != value {
		return &ConflictError{
			Setting:  setting,
			First:    s.Value,
			Second:   value,
			firstAt:  origin{decl: decl, pos: s.Pos},
			secondAt: origin{decl: decl, pos: pos},
		}
	}

	if !s.IsSet() {
		*s = Setting{Value: value, Pos: pos}
	}

	return nil
}

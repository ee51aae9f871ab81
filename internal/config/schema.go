package config

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"adapter-generator/internal/typemodel"
)

const (
	// DefaultOutputPackage is relative to the main module.
	DefaultOutputPackage = "convadapter"
	// DefaultArtifactName is the type name of the generated adapter.
	DefaultArtifactName = "ConversionServiceAdapter"
)

var (
	// ErrConflictingConfiguration is wrapped by ConflictError.
	ErrConflictingConfiguration = errors.New("conflicting configuration")
	// ErrInvalidConfig is wrapped by InvalidError.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// File is the YAML configuration file.
type File struct {
	OutputPackage  string        `yaml:"output_package,omitempty" validate:"omitempty,import_path"`
	ArtifactName   string        `yaml:"artifact_name,omitempty" validate:"omitempty,exported_ident"`
	DispatcherName string        `yaml:"dispatcher_name,omitempty"`
	External       []ExternalDef `yaml:"external,omitempty" validate:"dive"`
}

// ExternalDef is an external conversion as written in a declaration: two type
// expressions that still have to be resolved against the compilation unit.
type ExternalDef struct {
	Source string `yaml:"source" validate:"required"`
	Target string `yaml:"target" validate:"required"`

	// Pos is where the conversion is declared, when known.
	Pos token.Position `yaml:"-"`
}

func (d ExternalDef) String() string {
	return d.Source + " -> " + d.Target
}

// Declaration is one source of configuration values. Empty fields are unset.
type Declaration struct {
	// Name identifies the declaration in diagnostics: a package import path or
	// a file name.
	Name string
	// Location is the import path of the declaring package, empty for files.
	Location string
	// Pos is where the declaration starts.
	Pos token.Position

	OutputPackage  Setting
	ArtifactName   Setting
	DispatcherName Setting
	External       []ExternalDef
}

// Setting is one scalar configuration value and where it was set.
type Setting struct {
	Value string
	Pos   token.Position
}

// IsSet reports whether the declaration provided a value.
func (s Setting) IsSet() bool {
	return s.Value != ""
}

// IsEmpty reports whether the declaration sets nothing at all.
func (d *Declaration) IsEmpty() bool {
	return !d.OutputPackage.IsSet() && !d.ArtifactName.IsSet() && !d.DispatcherName.IsSet() && len(d.External) == 0
}

// Effective is the configuration every later stage reads. It is computed once
// per run.
type Effective struct {
	OutputPackage  string `validate:"required,import_path"`
	ArtifactName   string `validate:"required,exported_ident"`
	DispatcherName string
	External       []External
}

// External is a resolved external conversion.
type External struct {
	Pair typemodel.TypePair
	// Declaration is the name of the first declaration listing the pair.
	Declaration string
	Pos         token.Position
}

// origin names one declaration site of a setting.
type origin struct {
	decl string
	pos  token.Position
}

func (o origin) String() string {
	if o.pos.IsValid() {
		return fmt.Sprintf("%s (%s)", o.decl, o.pos)
	}

	return o.decl
}

// ConflictError reports one setting declared with different values.
type ConflictError struct {
	Setting string
	First   string
	Second  string

	firstAt  origin
	secondAt origin
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%v: %s is %q in %s but %q in %s",
		ErrConflictingConfiguration, e.Setting, e.First, e.firstAt, e.Second, e.secondAt)
}

func (e *ConflictError) Unwrap() error { return ErrConflictingConfiguration }

// Declarations returns the names of both conflicting declarations.
func (e *ConflictError) Declarations() (first, second string) {
	return e.firstAt.decl, e.secondAt.decl
}

// Pos returns the position of the second, conflicting value.
func (e *ConflictError) Pos() token.Position {
	return e.secondAt.pos
}

// InvalidError is a malformed or unresolvable configuration value.
type InvalidError struct {
	Declaration string
	Position    token.Position
	Msg         string
}

func (e *InvalidError) Error() string {
	var b strings.Builder

	b.WriteString(ErrInvalidConfig.Error())
	b.WriteString(": ")
	b.WriteString(e.Declaration)

	if e.Position.IsValid() {
		b.WriteString(" (")
		b.WriteString(e.Position.String())
		b.WriteString(")")
	}

	b.WriteString(": ")
	b.WriteString(e.Msg)

	return b.String()
}

func (e *InvalidError) Unwrap() error { return ErrInvalidConfig }

// Pos returns where the invalid value was declared.
func (e *InvalidError) Pos() token.Position {
	return e.Position
}

func invalidf(decl string, pos token.Position, format string, args ...any) *InvalidError {
	return &InvalidError{Declaration: decl, Position: pos, Msg: fmt.Sprintf(format, args...)}
}

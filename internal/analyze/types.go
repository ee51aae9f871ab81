package analyze

import (
	"go/token"
	"go/types"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "adapter-generator/store"
	Name    string // e.g., "CarMapper"
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Candidate is a package-level type declaration of the compilation unit.
type Candidate struct {
	ID  TypeID
	Obj *types.TypeName
	Pos token.Position
}

// Directive is one "//adaptergen:<key> <args...>" comment.
type Directive struct {
	// PkgPath is the import path of the package carrying the directive.
	PkgPath string
	// PkgName is the declared name of that package.
	PkgName string
	// Key is the directive name (e.g., "artifact").
	Key string
	// Args are the whitespace-separated arguments.
	Args []string
	// Pos is the position of the comment.
	Pos token.Position
}

// DirectivePrefix starts every configuration comment.
const DirectivePrefix = "//adaptergen:"

// Module describes the main module of the compilation unit.
type Module struct {
	Path string
	Dir  string
}

// Placement is the resolved location of a generated package.
type Placement struct {
	PkgPath string
	PkgName string
	Dir     string
}

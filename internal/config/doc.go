// Package config resolves the effective configuration of an adapter from
// every configuration declaration of the compilation unit.
//
// # Declarations
//
// A declaration is either the set of "//adaptergen:" directive comments of one
// package, or a YAML file passed on the command line. Directives carry a
// location (their package); a file does not.
//
//	//adaptergen:output example.com/app/internal/adapters
//	//adaptergen:artifact Conversions
//	//adaptergen:dispatcher primary
//	//adaptergen:external string golang.org/x/text/language.Tag
//
// The file has the same four settings:
//
//	output_package: example.com/app/internal/adapters
//	artifact_name: Conversions
//	dispatcher_name: primary
//	external:
//	  - source: string
//	    target: golang.org/x/text/language.Tag
//
// # Resolution
//
// Explicit values win over defaults ("convadapter", module-relative, and
// "ConversionServiceAdapter"). A setting declared by several declarations
// must be identical everywhere; there is no priority between declarations and
// a disagreement is ErrConflictingConfiguration. When no declaration sets the
// output package, the package of the declarations that name the artifact or
// the dispatcher is used instead of the default. A package that only lists
// external conversions does not place the adapter.
//
// External conversions are the union over all declarations, in declaration
// order: the file first, then packages by import path, each in source order.
// The same pair listed by two declarations is kept once; the same pair listed
// twice by one declaration is an error.
package config

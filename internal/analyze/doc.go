// Package analyze provides package loading and declaration discovery.
//
// It uses golang.org/x/tools/go/packages with AST and go/types to build the
// compilation unit the generator works on:
//   - Candidate: a package-level type declaration that may be a converter
//   - Directive: an "//adaptergen:" configuration comment and its location
//   - instance index: every concrete instantiation of a generic type
//   - type lookup: resolution of type expressions written in configuration
//
// Nothing in this package decides what a converter is; that is the job of the
// typemodel package, which only depends on the small interfaces Unit satisfies.
package analyze

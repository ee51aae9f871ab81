// Package gen renders the adapter source file.
//
// Generation uses text/template for the layout and golang.org/x/tools/imports
// for formatting and import grouping. Output depends only on its inputs:
// imports are aliased in import path order and methods follow binding order,
// so the same conversions always produce byte-identical files.
//
// The generated file contains:
//   - a DispatcherName constant
//   - the adapter struct holding one convert.Dispatcher
//   - New<Adapter> and New<Adapter>FromRegistry constructors
//   - one method per conversion delegating to convert.Dispatch
package gen

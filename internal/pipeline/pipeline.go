// Package pipeline runs one generation: load the compilation unit, resolve the
// configuration, collect conversions, name them, emit and write the adapter.
//
// Problems local to one converter become diagnostics and the run goes on.
// Conflicting or malformed configuration and duplicate conversions abort the
// run before anything is written.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/afero"

	"adapter-generator/internal/analyze"
	"adapter-generator/internal/config"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/gen"
	"adapter-generator/internal/logger"
	"adapter-generator/internal/naming"
	"adapter-generator/internal/registry"
	"adapter-generator/internal/typemodel"
)

var (
	// ErrNoConversions means no valid conversion remains after scanning.
	ErrNoConversions = errors.New("no conversions found")
	// ErrInaccessibleExternal means an external conversion names a type the
	// output package cannot refer to.
	ErrInaccessibleExternal = errors.New("external conversion is not accessible")
)

// Options configures a run.
type Options struct {
	// Dir is the working directory for package loading.
	Dir string
	// Patterns select the root packages of the compilation unit.
	Patterns []string
	// ConfigFile is an optional YAML configuration file read from Fs.
	ConfigFile string
	// Capability overrides the converter interface ("pkg/path.Name").
	Capability string
	// BuildFlags and Env are passed to the package loader.
	BuildFlags []string
	Env        []string
	// Parallelism bounds the converter scan; <= 0 means unbounded.
	Parallelism int
	// DryRun renders the adapter without writing it.
	DryRun bool
	// Fs is where the configuration file is read and the adapter written.
	// Defaults to the OS file system.
	Fs afero.Fs
}

// Result is what a run produced. It is returned even when the run fails, with
// the fields filled up to the failing stage.
type Result struct {
	Config      config.Effective
	Placement   analyze.Placement
	Bindings    []naming.Binding
	Diagnostics diagnostic.Diagnostics
	File        *gen.GeneratedFile
	// Path is where the file was written; empty on dry runs.
	Path string
}

// Run executes the pipeline.
func Run(ctx context.Context, opts Options) (*Result, error) {
	r := &runner{
		opts: opts,
		log:  logger.FromContext(ctx),
		res:  &Result{},
	}

	if r.opts.Fs == nil {
		r.opts.Fs = afero.NewOsFs()
	}

	if len(r.opts.Patterns) == 0 {
		r.opts.Patterns = []string{"./..."}
	}

	return r.res, r.run(ctx)
}

type runner struct {
	opts Options
	log  logger.Logger
	res  *Result
	unit *analyze.Unit
	reg  *registry.Registry
}

func (r *runner) run(ctx context.Context) error {
	unit, err := analyze.NewLoader(analyze.Config{
		Dir:        r.opts.Dir,
		Env:        r.opts.Env,
		BuildFlags: r.opts.BuildFlags,
		Capability: r.opts.Capability,
	}).Load(ctx, r.opts.Patterns...)
	if err != nil {
		return fmt.Errorf("loading packages: %w", err)
	}

	r.unit = unit
	r.log.Debug("loaded packages", "packages", len(unit.Packages()), "candidates", len(unit.Candidates()))

	if err := r.resolveConfig(); err != nil {
		return err
	}

	r.reg = registry.New()

	if err := r.registerExternal(); err != nil {
		return err
	}

	if err := r.scan(ctx); err != nil {
		return err
	}

	if r.reg.Len() == 0 {
		r.res.Diagnostics.AddError(diagnostic.CodeNoConversions,
			"no converters or external conversions found", fmt.Sprint(unit.Packages()), noPos)

		return ErrNoConversions
	}

	r.res.Bindings = naming.Assign(r.reg.Entries())

	file, err := gen.NewGenerator(gen.GeneratorConfig{
		PackagePath:    r.res.Placement.PkgPath,
		PackageName:    r.res.Placement.PkgName,
		ArtifactName:   r.res.Config.ArtifactName,
		DispatcherName: r.res.Config.DispatcherName,
	}).Generate(r.res.Bindings)
	if err != nil {
		return fmt.Errorf("generating %s: %w", r.res.Config.ArtifactName, err)
	}

	r.res.File = file

	if r.opts.DryRun {
		r.log.Info("dry run, nothing written", "file", file.Filename, "methods", len(r.res.Bindings))

		return nil
	}

	path, err := gen.NewWriter(r.opts.Fs).Write(r.res.Placement.Dir, file)
	if err != nil {
		return err
	}

	r.res.Path = path
	r.log.Info("generated adapter",
		"artifact", r.res.Config.ArtifactName,
		"package", r.res.Placement.PkgPath,
		"methods", len(r.res.Bindings),
		"path", path)

	return nil
}

// resolveConfig computes the effective configuration. Every failure here is
// fatal and happens before any converter is scanned.
func (r *runner) resolveConfig() error {
	var decls []config.Declaration

	if r.opts.ConfigFile != "" {
		decl, err := config.LoadFile(r.opts.Fs, r.opts.ConfigFile)
		if err != nil {
			r.reportConfigError(err)

			return err
		}

		decls = append(decls, *decl)
	}

	fromSource, err := config.FromDirectives(r.unit.Directives())
	if err != nil {
		r.reportConfigError(err)

		return err
	}

	decls = append(decls, fromSource...)

	eff, err := config.Resolve(decls, r.unit)
	if err != nil {
		r.reportConfigError(err)

		return err
	}

	placement, err := r.unit.Placement(eff.OutputPackage)
	if err != nil {
		r.res.Diagnostics.AddError(diagnostic.CodeConfigError, err.Error(), eff.OutputPackage, noPos)

		return err
	}

	r.res.Config = eff
	r.res.Placement = placement

	r.log.Debug("resolved configuration",
		"output", eff.OutputPackage,
		"artifact", eff.ArtifactName,
		"dispatcher", eff.DispatcherName,
		"external", len(eff.External),
		"declarations", len(decls))

	return nil
}

// registerExternal adds the external conversions first, in declaration order.
func (r *runner) registerExternal() error {
	var errs []error

	for _, ext := range r.res.Config.External {
		if err := r.checkAccessible(ext.Pair); err != nil {
			err = fmt.Errorf("%w: %s declared by %s: %w", ErrInaccessibleExternal, ext.Pair, ext.Declaration, err)
			r.res.Diagnostics.AddError(diagnostic.CodeConfigError, err.Error(), ext.Declaration, ext.Pos)
			errs = append(errs, err)

			continue
		}

		entry := registry.Entry{
			Pair:   ext.Pair,
			Origin: registry.OriginExternal,
			Ref:    registry.Ref{Name: ext.Declaration, Pos: ext.Pos},
		}

		if err := r.reg.Register(entry); err != nil {
			r.reportDuplicate(err, entry)
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// scan resolves every candidate and merges the converters in canonical order.
// Duplicates are collected so that all of them are reported.
func (r *runner) scan(ctx context.Context) error {
	resolver, err := typemodel.NewResolver(r.unit.Capability(), r.unit)
	if err != nil {
		return err
	}

	results, err := resolver.ScanAll(ctx, r.unit.Candidates(), r.opts.Parallelism)
	if err != nil {
		return fmt.Errorf("scanning converters: %w", err)
	}

	var dups []error

	for _, res := range results {
		subject := res.Candidate.ID.String()

		switch {
		case res.Err == nil:
		case errors.Is(res.Err, typemodel.ErrNotAConverter):
			continue
		case errors.Is(res.Err, typemodel.ErrUnresolvedGenerics):
			r.res.Diagnostics.AddWarning(diagnostic.CodeUnresolvedGenerics, res.Err.Error(), subject, res.Candidate.Pos)

			continue
		case errors.Is(res.Err, typemodel.ErrMultipleConverterInstantiations):
			r.res.Diagnostics.AddError(diagnostic.CodeMultipleConverterInstantiations, res.Err.Error(), subject,
				res.Candidate.Pos)

			continue
		default:
			return fmt.Errorf("scanning %s: %w", subject, res.Err)
		}

		if err := r.checkAccessible(res.Pair); err != nil {
			r.res.Diagnostics.AddError(diagnostic.CodeInaccessibleType,
				fmt.Sprintf("%s converts %s: %v", subject, res.Pair, err), subject, res.Candidate.Pos)

			continue
		}

		entry := registry.Entry{
			Pair:   res.Pair,
			Origin: registry.OriginConverter,
			Ref:    registry.Ref{Name: subject, Pos: res.Candidate.Pos},
		}

		if err := r.reg.Register(entry); err != nil {
			r.reportDuplicate(err, entry)
			dups = append(dups, err)

			continue
		}

		r.log.Debug("found converter", "type", subject, "pair", res.Pair.String())
	}

	return errors.Join(dups...)
}

func (r *runner) checkAccessible(pair typemodel.TypePair) error {
	if err := gen.CheckAccessible(pair.Source, r.res.Placement.PkgPath); err != nil {
		return err
	}

	return gen.CheckAccessible(pair.Target, r.res.Placement.PkgPath)
}

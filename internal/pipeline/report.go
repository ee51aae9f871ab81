package pipeline

import (
	"errors"
	"go/token"

	"adapter-generator/internal/config"
	"adapter-generator/internal/diagnostic"
	"adapter-generator/internal/registry"
)

var noPos token.Position

// positioned is implemented by configuration errors that know their source.
type positioned interface {
	Pos() token.Position
}

// reportConfigError records one diagnostic per leaf of err.
func (r *runner) reportConfigError(err error) {
	for _, leaf := range leaves(err) {
		code := diagnostic.CodeConfigError
		subject := ""

		var cerr *config.ConflictError
		if errors.As(leaf, &cerr) {
			code = diagnostic.CodeConflictingConfiguration
			_, subject = cerr.Declarations()
		}

		var ierr *config.InvalidError
		if errors.As(leaf, &ierr) {
			subject = ierr.Declaration
		}

		pos := noPos

		var p positioned
		if errors.As(leaf, &p) {
			pos = p.Pos()
		}

		r.res.Diagnostics.AddError(code, leaf.Error(), subject, pos)
	}
}

// reportDuplicate records a DuplicateConversion diagnostic at the incoming
// declaration.
func (r *runner) reportDuplicate(err error, incoming registry.Entry) {
	r.res.Diagnostics.AddError(diagnostic.CodeDuplicateConversion, err.Error(), incoming.Ref.Name, incoming.Ref.Pos)
}

// leaves flattens errors.Join trees.
func leaves(err error) []error {
	if err == nil {
		return nil
	}

	joined, ok := err.(interface{ Unwrap() []error })
	if !ok {
		return []error{err}
	}

	var out []error
	for _, e := range joined.Unwrap() {
		out = append(out, leaves(e)...)
	}

	return out
}

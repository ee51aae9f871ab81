package config

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"

	"dario.cat/mergo"

	"adapter-generator/internal/typemodel"
)

// TypeLookup resolves the type expressions of external conversions.
type TypeLookup interface {
	LookupType(expr string) (types.Type, error)
}

// Defaults returns the configuration used for settings no declaration sets.
func Defaults() Effective {
	return Effective{
		OutputPackage:  DefaultOutputPackage,
		ArtifactName:   DefaultArtifactName,
		DispatcherName: "",
	}
}

// Resolve computes the effective configuration from decls, which must be in
// canonical order (file first, then packages by import path). All problems
// are reported together; any of them makes the configuration unusable.
func Resolve(decls []Declaration, lookup TypeLookup) (Effective, error) {
	var (
		eff  Effective
		errs []error
	)

	scalars := []struct {
		setting string
		get     func(*Declaration) Setting
		dst     *string
	}{
		{"output package", func(d *Declaration) Setting { return d.OutputPackage }, &eff.OutputPackage},
		{"artifact name", func(d *Declaration) Setting { return d.ArtifactName }, &eff.ArtifactName},
		{"dispatcher name", func(d *Declaration) Setting { return d.DispatcherName }, &eff.DispatcherName},
	}

	for _, s := range scalars {
		value, err := agree(decls, s.setting, s.get)
		if err != nil {
			errs = append(errs, err)

			continue
		}

		*s.dst = value
	}

	if eff.OutputPackage == "" && len(errs) == 0 {
		implied, err := impliedOutput(decls)
		if err != nil {
			errs = append(errs, err)
		}

		eff.OutputPackage = implied
	}

	if len(errs) > 0 {
		return Effective{}, errors.Join(errs...)
	}

	if err := mergo.Merge(&eff, Defaults()); err != nil {
		return Effective{}, fmt.Errorf("failed to apply configuration defaults: %w", err)
	}

	if err := validateStruct(&eff, "effective configuration", token.Position{}); err != nil {
		return Effective{}, err
	}

	external, err := resolveExternal(decls, lookup)
	if err != nil {
		return Effective{}, err
	}

	eff.External = external

	return eff, nil
}

// agree returns the value every declaration setting the field agrees on.
func agree(decls []Declaration, setting string, get func(*Declaration) Setting) (string, error) {
	var (
		value string
		first origin
	)

	for i := range decls {
		s := get(&decls[i])
		if !s.IsSet() {
			continue
		}

		if value == "" {
			value, first = s.Value, origin{decl: decls[i].Name, pos: s.Pos}

			continue
		}

		if s.Value != value {
			return "", &ConflictError{
				Setting:  setting,
				First:    value,
				Second:   s.Value,
				firstAt:  first,
				secondAt: origin{decl: decls[i].Name, pos: s.Pos},
			}
		}
	}

	return value, nil
}

// impliedOutput returns the single location shared by the declarations that
// name the artifact or its dispatcher, or "" when none does. External
// conversions alone do not place the adapter.
func impliedOutput(decls []Declaration) (string, error) {
	var (
		location string
		fields   string
		first    origin
	)

	for i := range decls {
		d := &decls[i]
		if d.Location == "" {
			continue
		}

		implied, pos := placingFields(d)
		if implied == "" {
			continue
		}

		if location == "" {
			location, fields, first = d.Location, implied, origin{decl: d.Name, pos: pos}

			continue
		}

		if d.Location != location {
			return "", &ConflictError{
				Setting:  fmt.Sprintf("output package (implied by %s and %s)", fields, implied),
				First:    location,
				Second:   d.Location,
				firstAt:  first,
				secondAt: origin{decl: d.Name, pos: pos},
			}
		}
	}

	return location, nil
}

// placingFields lists the settings of d that tie the adapter to d's package,
// with the position of the first one.
func placingFields(d *Declaration) (string, token.Position) {
	switch {
	case d.ArtifactName.IsSet() && d.DispatcherName.IsSet():
		return "artifact name, dispatcher name", d.ArtifactName.Pos
	case d.ArtifactName.IsSet():
		return "artifact name", d.ArtifactName.Pos
	case d.DispatcherName.IsSet():
		return "dispatcher name", d.DispatcherName.Pos
	default:
		return "", token.Position{}
	}
}

func resolveExternal(decls []Declaration, lookup TypeLookup) ([]External, error) {
	var (
		result []External
		errs   []error
		seen   = make(map[string]struct{})
	)

	for i := range decls {
		d := &decls[i]
		local := make(map[string]token.Position)

		for _, def := range d.External {
			pair, err := resolvePair(def, lookup)
			if err != nil {
				errs = append(errs, invalidf(d.Name, def.Pos, "external %s: %v", def, err))

				continue
			}

			key := pair.Key()
			if prev, dup := local[key]; dup {
				errs = append(errs, invalidf(d.Name, def.Pos, "external %s is already declared at %s", pair, prev))

				continue
			}

			local[key] = def.Pos

			if _, dup := seen[key]; dup {
				continue
			}

			seen[key] = struct{}{}
			result = append(result, External{Pair: pair, Declaration: d.Name, Pos: def.Pos})
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return result, nil
}

func resolvePair(def ExternalDef, lookup TypeLookup) (typemodel.TypePair, error) {
	if lookup == nil {
		return typemodel.TypePair{}, errors.New("no type information available")
	}

	src, err := lookup.LookupType(def.Source)
	if err != nil {
		return typemodel.TypePair{}, err
	}

	tgt, err := lookup.LookupType(def.Target)
	if err != nil {
		return typemodel.TypePair{}, err
	}

	pair := typemodel.TypePair{Source: src, Target: tgt}

	if typemodel.ContainsTypeParams(src) || typemodel.ContainsTypeParams(tgt) {
		return typemodel.TypePair{}, fmt.Errorf("%s mentions unresolved type parameters", pair)
	}

	if types.Identical(src, tgt) {
		return typemodel.TypePair{}, fmt.Errorf("source and target are the same type %s", types.TypeString(src, nil))
	}

	return pair, nil
}

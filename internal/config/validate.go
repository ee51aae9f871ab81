package config

import (
	"errors"
	"fmt"
	"go/token"

	"github.com/go-playground/validator/v10"
	"golang.org/x/mod/module"

	"adapter-generator/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("import_path", func(fl validator.FieldLevel) bool {
		return module.CheckImportPath(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("exported_ident", func(fl validator.FieldLevel) bool {
		return common.IsExportedIdent(fl.Field().String())
	})

	return v
}

// describe turns a failed validation tag into a message.
func describe(tag string, value any) string {
	switch tag {
	case "import_path":
		return fmt.Sprintf("%q is not a valid import path", value)
	case "exported_ident":
		return fmt.Sprintf("%q is not an exported Go identifier", value)
	case "required":
		return "value is required"
	default:
		return fmt.Sprintf("%v fails %q", value, tag)
	}
}

// validateStruct validates s and converts failures into InvalidErrors.
func validateStruct(s any, decl string, pos token.Position) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return invalidf(decl, pos, "%v", err)
	}

	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, invalidf(decl, pos, "%s: %s", fe.Namespace(), describe(fe.Tag(), fe.Value())))
	}

	return errors.Join(errs...)
}

// validateValue validates a single directive argument against tag.
func validateValue(value, tag, decl string, pos token.Position) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return invalidf(decl, pos, "%s", describe(verrs[0].Tag(), value))
		}

		return invalidf(decl, pos, "%v", err)
	}

	return nil
}

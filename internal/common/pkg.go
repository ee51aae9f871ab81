package common

import (
	"go/token"
	"path"
	"strings"
	"unicode"
)

// UnknownStr is the String() value of enum values outside their known range.
const UnknownStr = "unknown"

// PkgAlias returns a usable package identifier for a given package path.
// Returns empty string if pkgPath is empty.
//
// Major version suffixes ("/v2") are skipped and characters that are not
// legal in identifiers are replaced with underscores.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	base := path.Base(pkgPath)
	if isMajorVersion(base) {
		if parent := path.Dir(pkgPath); parent != "." && parent != "/" {
			base = path.Base(parent)
		}
	}

	base = strings.Map(func(r rune) rune {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}

		return '_'
	}, base)

	if base == "" || unicode.IsDigit(rune(base[0])) || token.Lookup(base).IsKeyword() {
		base = "pkg_" + base
	}

	return base
}

// IsExportedIdent reports whether name is a legal, exported Go identifier.
func IsExportedIdent(name string) bool {
	return token.IsIdentifier(name) && token.IsExported(name)
}

func isMajorVersion(elem string) bool {
	if len(elem) < 2 || elem[0] != 'v' {
		return false
	}

	for _, r := range elem[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}

// Package pattern defines the identifier grammars shared by the template
// language: component names, page paths, property and global names,
// attribute names, outlet names, and asset paths.
package pattern

import "regexp"

var (
	// ComponentName matches slug paths like `button` or `blog/article-card`.
	// Component names never start with a slash.
	ComponentName = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*(?:/[a-z0-9]+(?:-[a-z0-9]+)*)*$`)

	// PagePath matches absolute slug paths like `/`, `/about`, or
	// `/blog/first-post`. Page paths always start with a slash.
	PagePath = regexp.MustCompile(`^/(?:[a-z0-9]+(?:-[a-z0-9]+)*(?:/[a-z0-9]+(?:-[a-z0-9]+)*)*)?$`)

	// AssetPath matches absolute asset paths like `/assets/logo.svg`.
	AssetPath = regexp.MustCompile(`^/[a-zA-Z0-9._-]+(?:/[a-zA-Z0-9._-]+)*$`)

	// PropertyName matches template-scoped variables: lower snake case.
	PropertyName = regexp.MustCompile(`^[a-z][a-z0-9]*(?:_[a-z0-9]+)*$`)

	// GlobalName matches project-wide variables: upper snake case.
	GlobalName = regexp.MustCompile(`^[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)*$`)

	// ScssVariableName matches stylesheet variables: `$camelCase`.
	ScssVariableName = regexp.MustCompile(`^\$[a-z][a-zA-Z0-9]*$`)

	// AttributeName matches legal attribute names, including the `@` and
	// `:` directive shorthand prefixes.
	AttributeName = regexp.MustCompile(`^[:@]?[a-z][a-z0-9]*(?:[:.-][a-z0-9]+)*$`)

	// OutletName matches outlet names declared via `<outlet name="…">`.
	OutletName = regexp.MustCompile(`^[a-z][a-z0-9]*(?:-[a-z0-9]+)*$`)
)

// IsComponentName reports whether value is a valid component name.
func IsComponentName(value string) bool { return ComponentName.MatchString(value) }

// IsPagePath reports whether value is a valid page path.
func IsPagePath(value string) bool { return PagePath.MatchString(value) }

// IsAssetPath reports whether value is a valid asset path.
func IsAssetPath(value string) bool { return AssetPath.MatchString(value) }

// IsPropertyName reports whether value is a valid property name.
func IsPropertyName(value string) bool { return PropertyName.MatchString(value) }

// IsGlobalName reports whether value is a valid global name.
func IsGlobalName(value string) bool { return GlobalName.MatchString(value) }

// IsScssVariableName reports whether value is a valid SCSS variable name.
func IsScssVariableName(value string) bool { return ScssVariableName.MatchString(value) }

// IsAttributeName reports whether value is a legal attribute name.
func IsAttributeName(value string) bool { return AttributeName.MatchString(value) }

// IsOutletName reports whether value is a valid outlet name.
func IsOutletName(value string) bool { return OutletName.MatchString(value) }

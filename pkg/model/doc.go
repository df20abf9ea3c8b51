// Package model defines the typed form model consumed by renderers. Builders
// reside in internal/model but return the types defined here. Validation
// rules expose canonical identifiers (minLength/maxLength, pattern) with
// string parameters. Schema extensions under the `x-formgen` namespace flow
// into `FormModel` and `Field` metadata while the curated `UIHints` map
// surfaces renderer-facing directives such as `labelKey`, `placeholderKey`,
// `widget`, `componentId` and `autofocus`.
package model

// Package openapi exposes the public contracts for the loader and parser
// stages that turn the dialog descriptor (an OpenAPI 3 document) into
// operation wrappers. Implementations live under internal/openapi so
// kin-openapi types never leak to callers.
package openapi

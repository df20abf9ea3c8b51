// Package template defines the template engine seam used by the HTML
// renderers, independent of the concrete engine.
package template

// Package render defines the renderer contract shared by the HTML, JSON and
// terminal front ends of the software module dialog, together with the
// helpers they share: per-request options, localization of form models,
// validation error mapping and hidden fields.
package render

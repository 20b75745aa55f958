// Package ui renders command results for the cpgen CLI.
//
// Output goes through a Printer which decides, once, whether the destination
// is a color capable terminal. Terminal output uses lipgloss styles with
// adaptive colors and shows a pterm spinner while templates download. Text
// output is the same content without styling, suitable for pipes and logs.
//
// Errors are always rendered as a single line:
//
//	Error [fetch]: downloading templates: 404 Not Found
//
// where the bracketed stage comes from the error code (see errors.Stage).
package ui

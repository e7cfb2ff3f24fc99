// Package diag holds the diagnostics produced while scanning host files for
// embedded templates: a Diagnostic is a coded, severity-tagged message bound
// to a source.Span, with optional notes and suggested fixes.
//
// Codes are grouped by prefix (LEX, SYN, IO, CFG, OBS) and keep a stable
// string form, see codes.go. A Diagnostic is also an error, so the single
// finding that stops a parse travels through ordinary error returns and is
// recovered with errors.As.
//
// Producers take a Reporter; Bag is the usual sink. Rendering lives in
// internal/diagfmt, except FormatShortDiagnostics, the one-line form used by
// tests and quiet output.
package diag

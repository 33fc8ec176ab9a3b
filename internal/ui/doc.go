// Package ui renders command-line output for pagerterm.
//
// Two layers are provided. Formatters (Success, Error, Warning, Highlight
// and friends) colour short inline text with fatih/color and degrade to
// plain decorations when NO_COLOR is set or the output is not a terminal,
// which keeps the serial console readable. Header and Result render
// bordered lipgloss boxes for the one-shot CLI commands.
//
// Zap logging stays silent unless PAGERTERM_LOG_LEVEL is set, so these
// components are the only output a user normally sees.
package ui

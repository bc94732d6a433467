package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conduit-lang/eventc/internal/compiler/errors"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError renders a message with its suggestions and help commands
//
// Example output:
//
//	❌ SCENE NOT FOUND: Levle
//	   Cannot find scene 'Levle'.
//
//	   Did you mean: Level?
//
//	   → List scenes: eventc check game.json
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}
	if opts.NoColor {
		headerColor.DisableColor()
		bodyColor.DisableColor()
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s\n", symbol, strings.ToUpper(opts.Context))
		bodyColor.Fprintf(&b, "   %s\n", opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		bodyColor.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow := color.New(color.FgYellow)
		if opts.NoColor {
			yellow.DisableColor()
		}
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		cyan := color.New(color.FgCyan)
		if opts.NoColor {
			cyan.DisableColor()
		}
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// SceneNotFoundError reports an unknown scene with the closest scene names
func SceneNotFoundError(name string, scenes []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "Scene not found",
		Problem:     fmt.Sprintf("Cannot find scene '%s'.", name),
		Suggestions: FindSimilar(name, scenes, nil),
		HelpCommands: []string{
			"Check the project: eventc check",
		},
		NoColor: noColor,
	})
}

// ExtensionNotFoundError reports an unknown extension with the closest
// registered names
func ExtensionNotFoundError(name string, extensions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "Extension not found",
		Problem:     fmt.Sprintf("No extension named '%s' is registered.", name),
		Suggestions: FindSimilar(name, extensions, nil),
		HelpCommands: []string{
			"See all extensions: eventc extensions list",
		},
		NoColor: noColor,
	})
}

// GenerationError reports the scenes that failed to generate
func GenerationError(failed []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "Generation failed",
		Problem:     fmt.Sprintf("%d scene(s) could not be generated: %s", len(failed), strings.Join(failed, ", ")),
		Consequence: "No code was written for these scenes.",
		HelpCommands: []string{
			"Show diagnostics as JSON: eventc generate --json",
			"Validate expressions: eventc check",
		},
		NoColor: noColor,
	})
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelError,
		Context:     "Configuration error",
		Problem:     message,
		Suggestions: suggestions,
		HelpCommands: []string{
			"View config: cat eventc.yml",
			"Create a config: eventc init",
		},
		NoColor: noColor,
	})
}

// Warning creates a standardized warning message
func Warning(message string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:       ErrorLevelWarning,
		Problem:     message,
		Suggestions: suggestions,
		NoColor:     noColor,
	})
}

// Info creates a standardized info message
func Info(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelInfo,
		Problem: message,
		NoColor: noColor,
	})
}

// WriteDiagnostics prints diagnostics one per line, errors first, and a
// summary line. Nothing is printed for an empty list.
func WriteDiagnostics(w io.Writer, diagnostics errors.ErrorList, noColor bool) {
	if len(diagnostics) == 0 {
		return
	}

	red := color.New(color.FgRed)
	yellow := color.New(color.FgYellow)
	gray := color.New(color.FgHiBlack)
	if noColor {
		red.DisableColor()
		yellow.DisableColor()
		gray.DisableColor()
	}

	for _, severity := range []errors.ErrorSeverity{errors.SeverityError, errors.SeverityWarning, errors.SeverityInfo} {
		for _, diag := range diagnostics {
			if diag.Severity != severity {
				continue
			}
			c := gray
			switch severity {
			case errors.SeverityError:
				c = red
			case errors.SeverityWarning:
				c = yellow
			}
			c.Fprintf(w, "%s %s", diag.Code, diag.Location)
			fmt.Fprintf(w, ": %s\n", diag.Message)
			if diag.Suggestion != "" {
				gray.Fprintf(w, "    %s\n", diag.Suggestion)
			}
		}
	}

	errorCount, warningCount, _ := diagnostics.ErrorCount()
	fmt.Fprintf(w, "%d error(s), %d warning(s)\n", errorCount, warningCount)
}

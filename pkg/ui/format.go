package ui

import (
	"os"
	"strings"

	"github.com/arthur-debert/cpgen/pkg/errors"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format selects how the Printer renders results.
type Format int

const (
	// FormatAuto resolves to FormatTerminal or FormatText from the output
	FormatAuto Format = iota
	// FormatTerminal adds colors and the download spinner
	FormatTerminal
	// FormatText is plain, unstyled text
	FormatText
)

var formatNames = map[Format]string{
	FormatAuto:     "auto",
	FormatTerminal: "term",
	FormatText:     "text",
}

// aliases accepted by ParseFormat besides the canonical names
var formatAliases = map[string]Format{
	"":         FormatAuto,
	"terminal": FormatTerminal,
	"plain":    FormatText,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// FormatNames lists the canonical format names, for flag completion.
func FormatNames() []string {
	return []string{FormatAuto.String(), FormatTerminal.String(), FormatText.String()}
}

// ParseFormat reads an --output value. Matching is case-insensitive.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	if f, ok := formatAliases[s]; ok {
		return f, nil
	}
	return FormatAuto, errors.Newf(errors.ErrInvalidInput,
		"unknown output format %q (want one of %s)", s, strings.Join(FormatNames(), ", "))
}

// DetectFormat picks FormatText for NO_COLOR, pipes and colorless
// terminals, FormatTerminal otherwise.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}
	if termenv.NewOutput(output).EnvColorProfile() == termenv.Ascii {
		return FormatText
	}
	return FormatTerminal
}

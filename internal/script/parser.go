package script

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Format names accepted by Parse.
const (
	FormatBracket = "bracket"
	FormatXML     = "xml"
)

// Parse dispatches to the grammar named by format, applying that
// grammar's default leniency for unknown directives. Parsing the same
// source twice yields structurally identical command sequences.
func Parse(src, format string) ([]Command, error) {
	switch format {
	case FormatBracket:
		return ParseBracket(src, UnknownIgnore)
	case FormatXML:
		return ParseMarkup(src, UnknownWarn)
	default:
		return nil, errors.Errorf("unknown script format %q (supported: %s, %s)", format, FormatBracket, FormatXML)
	}
}

// ParseFile reads and parses a script file. When format is empty it is
// inferred from the file extension; anything but .xml is treated as the
// bracket form.
func ParseFile(path, format string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read script %s", path)
	}
	if format == "" {
		format = DetectFormat(path)
	}
	return Parse(string(data), format)
}

// DetectFormat maps a script path to a grammar name.
func DetectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xml") {
		return FormatXML
	}
	return FormatBracket
}

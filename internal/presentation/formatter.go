// Package presentation turns registry groups and classification records into
// the JSON printed by the command line.
package presentation

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Formatter handles output formatting
type Formatter struct {
	writer io.Writer
}

// NewFormatter creates a new formatter
func NewFormatter(writer io.Writer) *Formatter {
	return &Formatter{
		writer: writer,
	}
}

// FormatGroups formats registry groups as JSON
func (f *Formatter) FormatGroups(groups []GroupDTO) error {
	return f.FormatJSON(groups)
}

// FormatRecipes formats recipes as JSON
func (f *Formatter) FormatRecipes(recipes []RecipeDTO) error {
	return f.FormatJSON(recipes)
}

// FormatRecord formats one classification record as JSON
func (f *Formatter) FormatRecord(record RecordDTO) error {
	return f.FormatJSON(record)
}

// FormatJSON writes any value as indented JSON
func (f *Formatter) FormatJSON(v any) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// FormatLines writes one value per line, for output meant to be piped.
func (f *Formatter) FormatLines(lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	_, err := fmt.Fprintln(f.writer, strings.Join(lines, "\n"))
	return err
}

// FormatText writes s verbatim.
func (f *Formatter) FormatText(s string) error {
	_, err := io.WriteString(f.writer, s)
	return err
}

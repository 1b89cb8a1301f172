// Package quotes picks a random quote from a CSV file with a "frase" column.
package quotes

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
)

// FilePicker implements ports.QuotePicker over a CSV file.
// The file is reloaded on every pick, so external edits take effect
// immediately.
type FilePicker struct {
	path string
	// pick is swappable for deterministic tests; defaults to rand.Intn.
	pick func(n int) int
}

// PickerOption configures the FilePicker.
type PickerOption func(*FilePicker)

// WithIntN overrides the random index source.
func WithIntN(fn func(n int) int) PickerOption {
	return func(p *FilePicker) {
		p.pick = fn
	}
}

// NewFilePicker creates a picker backed by the CSV file at path.
func NewFilePicker(path string, opts ...PickerOption) *FilePicker {
	p := &FilePicker{
		path: path,
		pick: rand.Intn,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PickRandom loads the file and returns one quote uniformly at random.
// Returns domain.ErrEmptyQuoteSource when no usable rows exist.
func (p *FilePicker) PickRandom(ctx context.Context) (string, error) {
	phrases, err := p.load()
	if err != nil {
		return "", err
	}
	if len(phrases) == 0 {
		return "", domain.ErrEmptyQuoteSource
	}
	return phrases[p.pick(len(phrases))], nil
}

func (p *FilePicker) load() ([]string, error) {
	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open quote source: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse quote source: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// First row is the header; locate the "frase" column.
	col := -1
	for i, name := range records[0] {
		if strings.EqualFold(strings.TrimSpace(name), "frase") {
			col = i
			break
		}
	}
	if col == -1 {
		return nil, nil
	}

	var phrases []string
	for _, row := range records[1:] {
		if col >= len(row) {
			continue
		}
		if phrase := strings.TrimSpace(row[col]); phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	return phrases, nil
}

package quotes_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
	"github.com/GibaTrindade/bot-seplag/internal/quotes"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "frases.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFilePicker_PicksFromFraseColumn(t *testing.T) {
	path := writeCSV(t, "id,frase\n1,A primeira frase\n2,A segunda frase\n")

	picker := quotes.NewFilePicker(path, quotes.WithIntN(func(n int) int {
		assert.Equal(t, 2, n)
		return 1
	}))

	quote, err := picker.PickRandom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "A segunda frase", quote)
}

func TestFilePicker_SkipsBlankRows(t *testing.T) {
	path := writeCSV(t, "frase\nValida\n\n   \n")

	picker := quotes.NewFilePicker(path, quotes.WithIntN(func(n int) int {
		assert.Equal(t, 1, n)
		return 0
	}))

	quote, err := picker.PickRandom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Valida", quote)
}

func TestFilePicker_EmptySource(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"only header", "frase\n"},
		{"missing column", "id,texto\n1,oi\n"},
		{"empty file", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			picker := quotes.NewFilePicker(writeCSV(t, tt.content))
			_, err := picker.PickRandom(context.Background())
			assert.ErrorIs(t, err, domain.ErrEmptyQuoteSource)
		})
	}
}

func TestFilePicker_UnreadableSource(t *testing.T) {
	picker := quotes.NewFilePicker(filepath.Join(t.TempDir(), "missing.csv"))
	_, err := picker.PickRandom(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrEmptyQuoteSource)
}

func TestFilePicker_ReloadsOnEveryPick(t *testing.T) {
	path := writeCSV(t, "frase\nAntiga\n")
	picker := quotes.NewFilePicker(path, quotes.WithIntN(func(n int) int { return 0 }))

	quote, err := picker.PickRandom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Antiga", quote)

	require.NoError(t, os.WriteFile(path, []byte("frase\nNova\n"), 0o644))

	quote, err = picker.PickRandom(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Nova", quote, "external edits must take effect immediately")
}

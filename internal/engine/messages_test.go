package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GibaTrindade/bot-seplag/internal/domain"
)

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{12.5, "R$ 12,50"},
		{999.99, "R$ 999,99"},
		{1000, "R$ 1.000,00"},
		{320000, "R$ 320.000,00"},
		{1500000.5, "R$ 1.500.000,50"},
		{1234567.89, "R$ 1.234.567,89"},
		{-1234.56, "R$ -1.234,56"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBRL(tt.in))
		})
	}
}

func TestRenderCourses_Numbered(t *testing.T) {
	out := renderCourses([]domain.Course{
		{Name: "A", Start: "01/01", End: "02/01", Hours: "10", Link: "l1"},
		{Name: "B", Start: "03/01", End: "04/01", Hours: "20", Link: "l2"},
	})

	assert.Contains(t, out, "1. A")
	assert.Contains(t, out, "2. B")
	assert.Contains(t, out, "CH: 20h")
}

func TestRenderCandidates_EndsWithPrompt(t *testing.T) {
	out := renderCandidates([]domain.CandidateRecord{
		{DisplayName: "Joao", ExternalID: "1"},
	})

	assert.Contains(t, out, "1. Joao")
	assert.Contains(t, out, "Digite o número da opção.")
}

package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/apperrors"
)

func TestReadCSV(t *testing.T) {
	input := `Department,Free-Text Comments
Ward A,Staff should get better communication from management.
Ward B,The parking situation is terrible.
`
	rows, err := ReadCSV(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, "Ward A", rows[0].Department)
	assert.Equal(t, "Staff should get better communication from management.", rows[0].Text)
	assert.Equal(t, "Ward B", rows[1].Department)
}

func TestReadCSV_AliasResolution(t *testing.T) {
	tests := []struct {
		name   string
		header string
	}{
		{"feedback and team", "Team,Feedback"},
		{"response and dept", "DEPT,Response"},
		{"underscored", "ward,free_text_comments"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.header + "\nWard A,some text\n"
			rows, err := ReadCSV(strings.NewReader(input), zap.NewNop())
			require.NoError(t, err)
			require.Len(t, rows, 1)
			assert.Equal(t, "Ward A", rows[0].Department)
			assert.Equal(t, "some text", rows[0].Text)
		})
	}
}

func TestReadCSV_TextOnlyColumn(t *testing.T) {
	input := "Comments\nfirst comment\nsecond comment\n"
	rows, err := ReadCSV(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Empty(t, rows[0].Department)
}

func TestReadCSV_NoTextColumn(t *testing.T) {
	input := "Department,Score\nWard A,4\n"
	_, err := ReadCSV(strings.NewReader(input), zap.NewNop())
	require.ErrorIs(t, err, apperrors.ErrInputFormat)
}

func TestReadCSV_EmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), zap.NewNop())
	require.ErrorIs(t, err, apperrors.ErrNoRows)
}

func TestReadCSV_ShortRowSkipped(t *testing.T) {
	input := "Department,Comments\nWard A\nWard B,a real comment\n"
	rows, err := ReadCSV(strings.NewReader(input), zap.NewNop())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "a real comment", rows[0].Text)
}

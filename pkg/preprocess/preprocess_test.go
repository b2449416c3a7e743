package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/staffpulse/feedback-engine/pkg/models"
)

func TestRun(t *testing.T) {
	rows := []models.Row{
		{Index: 0, Department: "Ward A", Text: "  Needs more staff.  "},
		{Index: 1, Department: "", Text: "Management never listens."},
		{Index: 2, Department: "Ward B", Text: "   "},
		{Index: 3, Department: "Ward B", Text: ""},
	}

	comments := Run(rows, zap.NewNop())
	require.Len(t, comments, 2)

	assert.Equal(t, "Needs more staff.", comments[0].Text, "text is trimmed")
	assert.Equal(t, "Ward A", comments[0].Department)
	assert.Equal(t, 0, comments[0].RowIndex)
	assert.NotEqual(t, comments[0].ID, comments[1].ID)

	assert.Equal(t, models.DepartmentPlaceholder, comments[1].Department,
		"missing department gets the placeholder")
	assert.NotNil(t, comments[1].Themes, "theme set starts empty, not nil")
}

func TestRun_AllRowsDropped(t *testing.T) {
	rows := []models.Row{{Index: 0, Text: "\t\n"}}
	comments := Run(rows, zap.NewNop())
	assert.Empty(t, comments)
}

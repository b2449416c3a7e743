package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staffpulse/feedback-engine/pkg/apperrors"
)

func TestParseTaxonomy(t *testing.T) {
	tax, err := ParseTaxonomy([]byte(`
themes:
  - name: management
    include: ['\bmanage(r|ment)\b']
  - name: communication
    parent: management
    include: ['\bcommunicat']
    exclude: ['communication breakdown van']
`))
	require.NoError(t, err)
	require.Len(t, tax.Themes, 2)

	mgmt := tax.ByName("management")
	require.NotNil(t, mgmt)
	assert.False(t, mgmt.IsSubtheme())
	assert.Equal(t, `\bmanage(r|ment)\b`, mgmt.MatchInclude("the MANAGEMENT ignores us"))
	assert.Empty(t, mgmt.MatchInclude("nothing relevant"))

	comm := tax.ByName("communication")
	require.NotNil(t, comm)
	assert.True(t, comm.IsSubtheme())
	assert.NotEmpty(t, comm.MatchExclude("Communication Breakdown Van parked outside"))
}

func TestParseTaxonomy_DuplicateName(t *testing.T) {
	_, err := ParseTaxonomy([]byte(`
themes:
  - name: workload
    include: [workload]
  - name: workload
    include: [overworked]
`))
	require.ErrorIs(t, err, apperrors.ErrDuplicateTheme)
}

func TestParseTaxonomy_EmptyIncludes(t *testing.T) {
	_, err := ParseTaxonomy([]byte(`
themes:
  - name: workload
    include: []
`))
	require.Error(t, err)
}

func TestParseTaxonomy_UnknownParent(t *testing.T) {
	_, err := ParseTaxonomy([]byte(`
themes:
  - name: communication
    parent: management
    include: [communication]
`))
	require.ErrorIs(t, err, apperrors.ErrUnknownParent)
}

func TestParseTaxonomy_BadPattern(t *testing.T) {
	_, err := ParseTaxonomy([]byte(`
themes:
  - name: broken
    include: ['(unclosed']
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "(unclosed")
}

func TestParseTaxonomy_SubthemeBeforeParent(t *testing.T) {
	tax, err := ParseTaxonomy([]byte(`
themes:
  - name: communication
    parent: management
    include: [communication]
  - name: management
    include: [manager]
`))
	require.NoError(t, err)
	assert.Len(t, tax.Themes, 2)
}

func TestParseSolutions(t *testing.T) {
	table, err := ParseSolutions([]byte(`
categories:
  - key: better_communication
    display_name: Better Communication
    keywords: [communication]
`))
	require.NoError(t, err)
	require.Len(t, table.Categories, 1)
	assert.Contains(t, table.Markers, "should", "default markers applied when table declares none")
}

func TestParseSolutions_DuplicateCategory(t *testing.T) {
	_, err := ParseSolutions([]byte(`
categories:
  - key: accountability
    display_name: A
    keywords: [accountability]
  - key: accountability
    display_name: B
    keywords: [consequences]
`))
	require.ErrorIs(t, err, apperrors.ErrDuplicateCategory)
}

func TestParseSolutions_MissingKeywords(t *testing.T) {
	_, err := ParseSolutions([]byte(`
categories:
  - key: accountability
    display_name: A
    keywords: []
`))
	require.Error(t, err)
}

func TestLoadShippedTables(t *testing.T) {
	tax, err := LoadTaxonomy("../../rules/taxonomy.yaml")
	require.NoError(t, err)
	assert.NotNil(t, tax.ByName("it_systems"))
	assert.True(t, tax.ByName("communication").IsSubtheme())

	table, err := LoadSolutions("../../rules/solutions.yaml")
	require.NoError(t, err)
	assert.Len(t, table.Categories, 8)
}

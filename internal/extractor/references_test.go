// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractReferences_Numbered(t *testing.T) {
	raw := `Body text about methods.

References
[1] Smith et al. A Paper. NeurIPS, 2020.
[2] Jones and Lee. Another Paper. ICML, 2021.`

	refs := ExtractReferences(raw)
	require.Len(t, refs, 2)
	assert.Equal(t, "Smith et al. A Paper. NeurIPS, 2020.", refs[0])
	assert.Equal(t, "Jones and Lee. Another Paper. ICML, 2021.", refs[1])
}

func TestExtractReferences_NumberedHeading(t *testing.T) {
	raw := `Conclusion.

7 References
[1] Smith et al. A Paper. NeurIPS, 2020.`

	refs := ExtractReferences(raw)
	require.Len(t, refs, 1)
}

func TestExtractReferences_Bibliography(t *testing.T) {
	raw := `Body.

Bibliography
Smith, J. (2020). A Paper.
Jones, K. (2021). Another Paper.`

	refs := ExtractReferences(raw)
	require.Len(t, refs, 2)
	assert.Equal(t, "Smith, J. (2020). A Paper.", refs[0])
}

func TestExtractReferences_NoHeading(t *testing.T) {
	assert.Nil(t, ExtractReferences("Body text with no reference list."))
}

func TestExtractReferences_HeadingMustBeOwnLine(t *testing.T) {
	assert.Nil(t, ExtractReferences("We list references throughout the text."))
}

func TestClassifyLines_Headings(t *testing.T) {
	lines := []textLine{
		{text: "Introduction", size: 18},
		{text: "Body paragraph one.", size: 10},
		{text: "Body paragraph two.", size: 10},
		{text: "A Subsection", size: 12.5},
		{text: "More body.", size: 10},
	}

	elements := classifyLines(lines)
	require.Len(t, elements, 5)

	assert.True(t, elements[0].Heading)
	assert.Equal(t, 1, elements[0].Level)
	assert.False(t, elements[1].Heading)
	assert.True(t, elements[3].Heading)
	assert.Equal(t, 2, elements[3].Level)
	assert.False(t, elements[4].Heading)
}

func TestBodyFontSize_Dominant(t *testing.T) {
	lines := []textLine{
		{size: 10.1}, {size: 9.9}, {size: 10.0}, {size: 18},
	}
	assert.InDelta(t, 10.0, bodyFontSize(lines), 0.01)
}

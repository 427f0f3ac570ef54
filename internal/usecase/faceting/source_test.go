package faceting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kailas-cloud/facetdex/internal/domain/search/form"
)

func TestUnifiedSource_FacetFieldnames(t *testing.T) {
	src := NewUnifiedSource(testRegistry(t).UnifiedIndex())
	assert.Equal(t, []string{"color_exact", "size_exact"}, src.FacetFieldnames())
}

func TestSiteSource_FacetFieldnames(t *testing.T) {
	src := NewSiteSource(testRegistry(t).Site())
	assert.Equal(t, []string{"color_exact", "size_exact"}, src.FacetFieldnames())
}

func TestChoices(t *testing.T) {
	src := NewUnifiedSource(testRegistry(t).UnifiedIndex())
	want := []form.Choice{
		{Value: "color_exact", Label: "color_exact"},
		{Value: "size_exact", Label: "size_exact"},
	}
	assert.Equal(t, want, Choices(src))
	assert.Nil(t, Choices(nil))
}

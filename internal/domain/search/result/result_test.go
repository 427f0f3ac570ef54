package result

import "testing"

func TestNewHit(t *testing.T) {
	fields := map[string]string{"title": "Red shoes"}

	h := NewHit("catalog.product", "42", 1.5, fields)

	if h.Model() != "catalog.product" {
		t.Errorf("Model() = %q", h.Model())
	}
	if h.ID() != "42" {
		t.Errorf("ID() = %q", h.ID())
	}
	if h.Score() != 1.5 {
		t.Errorf("Score() = %f", h.Score())
	}
	if h.Fields()["title"] != "Red shoes" {
		t.Errorf("Fields() = %v", h.Fields())
	}
}

func TestPage_Facet(t *testing.T) {
	p := NewPage(3, nil, []Facet{
		{Field: "color_exact", Counts: []FacetCount{{Value: "red", Count: 2}}},
		{Field: "size_exact"},
	})

	if p.Total() != 3 {
		t.Errorf("Total() = %d", p.Total())
	}
	if len(p.Hits()) != 0 {
		t.Errorf("Hits() = %v", p.Hits())
	}
	if got := p.Facets(); len(got) != 2 || got[0].Field != "color_exact" {
		t.Errorf("Facets() = %v", got)
	}

	color, ok := p.Facet("color_exact")
	if !ok || color.Counts[0].Count != 2 {
		t.Errorf("Facet(color_exact) = %v, %v", color, ok)
	}
	if _, ok := p.Facet("missing"); ok {
		t.Error("unexpected facet")
	}
}

// Package facetdex is an in-process client for faceted model search over a
// Valkey or Redis instance with a search module.
//
// The client builds the same search form as the HTTP service: an empty query
// returns every document, selected facets narrow the results, and facet
// counts are computed for the requested facet fields when the configured
// engine allows faceting.
//
//	client, _ := facetdex.New(ctx,
//	    facetdex.WithRedis("localhost:6379", ""),
//	    facetdex.WithEngine("redis"),
//	    facetdex.WithFacetingEngines("solr", "xapian", "redis"),
//	    facetdex.WithModel("catalog.product",
//	        facetdex.TextField("title"),
//	        facetdex.TagField("color").Faceted(),
//	        facetdex.NumericField("price").FacetAs("price_bucket"),
//	    ),
//	)
//	_, _ = client.EnsureIndex(ctx)
//	res, _ := client.Search(ctx, facetdex.Query{
//	    Q:              "shoes",
//	    PossibleFacets: []string{"color_exact"},
//	    SelectedFacets: []string{"size_exact:xl"},
//	})
package facetdex

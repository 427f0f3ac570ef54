package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/facetdex/internal/usecase/faceting"
)

// facetsReport is the JSON form of the facets command output.
type facetsReport struct {
	Allowed bool     `json:"allowed"`
	Shape   string   `json:"shape"`
	Engine  string   `json:"engine,omitempty"`
	Engines []string `json:"faceting_engines"`
	Facets  []string `json:"facets"`
}

func newFacetsCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	c := &cobra.Command{
		Use:   "facets",
		Short: "Show whether faceting is allowed and which facet fields the form offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			reg, err := buildRegistry(cfg.Indexes)
			if err != nil {
				return fmt.Errorf("build index registry: %w", err)
			}
			det, err := detectFaceting(cfg, reg)
			if err != nil {
				return err
			}

			report := facetsReport{
				Allowed: det.Allowed,
				Shape:   det.Shape.String(),
				Engine:  det.Engine,
				Engines: faceting.NewDetector(cfg.Search.FacetingEngines...).Engines(),
				Facets:  []string{},
			}
			if det.Allowed {
				for _, ch := range faceting.Choices(det.Source) {
					report.Facets = append(report.Facets, ch.Value)
				}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printFacets(cmd.OutOrStdout(), report)
			return nil
		},
	}
	c.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return c
}

func printFacets(w io.Writer, r facetsReport) {
	state := "disabled"
	if r.Allowed {
		state = "enabled"
	}
	fmt.Fprintf(w, "faceting: %s\n", state)
	fmt.Fprintf(w, "shape:    %s\n", r.Shape)
	if r.Engine != "" {
		fmt.Fprintf(w, "engine:   %s\n", r.Engine)
	}
	for _, f := range r.Facets {
		fmt.Fprintf(w, "  %s\n", f)
	}
}

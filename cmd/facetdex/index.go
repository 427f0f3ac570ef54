package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/facetdex/internal/domain"
	"github.com/kailas-cloud/facetdex/internal/domain/index"
	indexrepo "github.com/kailas-cloud/facetdex/internal/repository/index"
)

// indexManager is what the index subcommands need from the index repository.
type indexManager interface {
	Name() string
	Create(ctx context.Context) error
	Drop(ctx context.Context) error
	Exists(ctx context.Context) (bool, error)
}

func newIndexCmd(flags *globalFlags) *cobra.Command {
	c := &cobra.Command{
		Use:   "index",
		Short: "Manage the search index built from the configured models",
	}

	var ignoreExisting bool
	create := &cobra.Command{
		Use:   "create",
		Short: "Create the search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withIndexRepo(cmd.Context(), flags, func(ctx context.Context, repo indexManager) error {
				return runCreate(ctx, cmd, repo, ignoreExisting)
			})
		},
	}
	create.Flags().BoolVar(&ignoreExisting, "if-not-exists", false, "succeed when the index already exists")

	drop := &cobra.Command{
		Use:   "drop",
		Short: "Drop the search index (documents are kept)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withIndexRepo(cmd.Context(), flags, func(ctx context.Context, repo indexManager) error {
				if err := repo.Drop(ctx); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "dropped %s\n", repo.Name())
				return nil
			})
		},
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Report whether the search index exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withIndexRepo(cmd.Context(), flags, func(ctx context.Context, repo indexManager) error {
				exists, err := repo.Exists(ctx)
				if err != nil {
					return err
				}
				state := "missing"
				if exists {
					state = "present"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", repo.Name(), state)
				return nil
			})
		},
	}

	c.AddCommand(create, drop, status)
	return c
}

func runCreate(ctx context.Context, cmd *cobra.Command, repo indexManager, ignoreExisting bool) error {
	err := repo.Create(ctx)
	switch {
	case err == nil:
		fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", repo.Name())
		return nil
	case ignoreExisting && errors.Is(err, domain.ErrIndexExists):
		fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", repo.Name())
		return nil
	default:
		return err
	}
}

// withIndexRepo connects to the configured store and runs fn with an index repository.
func withIndexRepo(ctx context.Context, flags *globalFlags, fn func(context.Context, indexManager) error) error {
	cfg, err := flags.load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	reg, err := buildRegistry(cfg.Indexes)
	if err != nil {
		return fmt.Errorf("build index registry: %w", err)
	}

	store, err := openStore(cfg.Search)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Search.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	return fn(ctx, indexrepo.New(store, reg, index.NewKeyspace(cfg.Search.KeyPrefix)))
}

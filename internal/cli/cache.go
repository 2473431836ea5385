package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/mgpai22/substyle/internal/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached subtitles",
}

var cacheCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove expired entries from the file cache",
	Long: `Remove expired entries from the file cache.

The redis backend expires keys on its own, so there is nothing to clean.`,
	Args: cobra.NoArgs,
	RunE: runCacheClean,
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete [video_id...]",
	Short: "Delete cached subtitles for the given video ids",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCacheDelete,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheCleanCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)
}

func openCache(ctx context.Context) (cache.Store, func(), error) {
	store, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, fmt.Errorf("caching is disabled (cache.backend is %q)", cfg.Cache.Backend)
	}
	closeFn := func() {}
	if closer, ok := store.(io.Closer); ok {
		closeFn = func() { _ = closer.Close() }
	}
	return store, closeFn, nil
}

func runCacheClean(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	fileStore, ok := store.(*cache.FileStore)
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing to clean: entries expire in redis")
		return nil
	}

	cleaned, err := fileStore.CleanExpired(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean cache: %w", err)
	}
	logger.Debugw("Cache cleaned", "dir", cfg.Cache.Dir, "removed", cleaned)
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d expired entries\n", cleaned)
	return nil
}

func runCacheDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	store, closeStore, err := openCache(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	for _, id := range args {
		if err := store.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete %s: %w", id, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
	}
	return nil
}

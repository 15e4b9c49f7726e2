package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"winamp7/storage"

	"github.com/spf13/cobra"
)

var (
	storagePrefix string
	storageLocal  bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Show what the media store holds",
	Long:  `List the uploaded tracks, album art and backgrounds in the MinIO bucket, with per-folder totals.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			store storage.Store
			err   error
		)
		if storageLocal {
			fmt.Printf("Local store: %s\n", cfg.UploadDir)
			store, err = storage.NewLocalStore(cfg.UploadDir)
		} else {
			fmt.Printf("MinIO: %s, bucket %s\n", cfg.MinioEndpoint, cfg.MinioBucket)
			store, err = storage.NewMinioStore(cfg)
		}
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		return storage.PrintStatus(ctx, os.Stdout, store, storagePrefix)
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&storagePrefix, "prefix", "p", "", "only objects under this prefix, e.g. tracks/")
	minioCmd.Flags().BoolVar(&storageLocal, "local", false, "inspect the local upload directory instead of MinIO")

	minioCmd.Example = `  # everything in the bucket
  winamp7 minio

  # uploaded backgrounds only
  winamp7 minio -p backgrounds/`
}

package cmd

import (
	"context"
	"fmt"
	"log"

	"mixfm/config"
	"mixfm/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/cobra"
)

var minioPrefix string

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Inspect the MinIO bucket",
	Long:  `Connect to MinIO and list the stored audio and cover objects, optionally filtered by prefix.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		fmt.Printf("MinIO config: %s, bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("Failed to connect to MinIO: %v", err)
		}
		fmt.Println("MinIO connection OK")

		client := storage.GetMinioClient()
		ctx := context.Background()

		var count int
		var totalSize int64
		for obj := range client.ListObjects(ctx, cfg.MinioBucket, minio.ListObjectsOptions{
			Prefix:    minioPrefix,
			Recursive: true,
		}) {
			if obj.Err != nil {
				log.Fatalf("Failed to list objects: %v", obj.Err)
			}
			fmt.Printf("  %-60s %10d bytes\n", obj.Key, obj.Size)
			count++
			totalSize += obj.Size
		}

		fmt.Printf("\n%d objects, %d bytes total\n", count, totalSize)
	},
}

func init() {
	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "object prefix to filter by")
	rootCmd.AddCommand(minioCmd)
}

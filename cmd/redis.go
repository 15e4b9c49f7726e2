package cmd

import (
	"context"
	"fmt"
	"time"

	"winamp7/cache"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check the Redis connection",
	Long:  `Connect to Redis and run a write, read and delete round trip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Redis: %s:%s, DB %d\n", cfg.RedisHost, cfg.RedisPort, cfg.RedisDB)

		client, err := cache.ConnectRedis(cfg)
		if err != nil {
			return err
		}
		defer client.Close()
		fmt.Println("Connected.")

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		if err := cache.CheckRedis(ctx, client); err != nil {
			return err
		}
		fmt.Println("Read/write check passed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}

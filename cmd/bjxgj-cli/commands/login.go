package commands

import (
	"fmt"
	"os"

	"bjxgj-exporter/lib/scrapers/bjxgj"
	"bjxgj-exporter/lib/session"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Discard the cached session and log in again by scanning a fresh QR code.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()

		cachePath := cfg.CachePath
		if cachePath == "" {
			cachePath = session.DefaultCachePath
		}
		if err := os.Remove(cachePath); err != nil && !os.IsNotExist(err) {
			fatal("failed to discard cached session", err)
		}

		client := bjxgj.NewClient(bjxgj.ClientOptions{})
		authenticate(cmd.Context(), client, cfg)
		fmt.Println("登录成功，凭证已缓存")
	},
}

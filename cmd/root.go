package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/ryan-gang/mail-sender/internal/config"
	"github.com/ryan-gang/mail-sender/internal/logger"
	"github.com/spf13/cobra"
)

const (
	envConfigPath = "MAIL_SENDER_CONFIG"
	envLogPath    = "MAIL_SENDER_LOG"
)

func init() {
	// a missing .env is the normal case
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringP("config", "c", envOr(envConfigPath, config.DefaultConfigFile), "Path to config file")
	rootCmd.PersistentFlags().String("log-file", envOr(envLogPath, logger.DefaultLogFile), "Path to log file")
	rootCmd.PersistentFlags().Duration("timeout", 10*time.Second, "SMTP connect and I/O timeout")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Mirror log lines to stderr")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

var rootCmd = &cobra.Command{
	Use:   "mail-sender",
	Short: "Compose and send email over SMTP with TLS",
	Long: `mail-sender composes plain text or HTML messages, optionally with
attachments, and delivers them through an SMTP relay over implicit TLS.

Connection settings (server, port, sender address and password) are kept in a
JSON config file. Run 'mail-sender configure' once, check them with
'mail-sender test' and then use 'mail-sender send'.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Show help if no command is provided
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

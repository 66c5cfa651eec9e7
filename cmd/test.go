package cmd

import (
	"github.com/ryan-gang/mail-sender/internal/cmdutil"
	"github.com/ryan-gang/mail-sender/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(testCmd)

	testCmd.Flags().String("server", "", "SMTP server (default from config)")
	testCmd.Flags().String("port", "", "SMTP port (default from config)")
	testCmd.Flags().String("email", "", "Sender address used to log in (default from config)")
	testCmd.Flags().String("password", "", "Password or app token (default from config)")
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Check that the SMTP server accepts the configured login",
	Long: `Connects to the SMTP server over TLS and logs in without sending anything.
Values given as flags override the stored ones for this run only, the config
file is never modified.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := cmdutil.SetupOrExit(cmd)
		defer env.Close()

		server := flagOr(cmd, "server", env.Store.GetServer())
		port := flagOr(cmd, "port", env.Store.GetPort())
		email := flagOr(cmd, "email", env.Store.GetSender())
		password := flagOr(cmd, "password", env.Store.GetPassword())

		util.CyanBold.Printf("Testing connection to %s:%s\n", server, port)
		if err := env.Mailer().TestConnection(server, port, email, password); err != nil {
			util.LogError(util.NetworkError, "testing connection", err)
			env.Exit(1)
		}
		util.GreenBold.Println("SMTP connection test succeeded")
	},
}

func flagOr(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

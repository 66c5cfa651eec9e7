package cmdutil

import (
	"io"
	"os"
	"time"

	"github.com/ryan-gang/mail-sender/internal/config"
	"github.com/ryan-gang/mail-sender/internal/logger"
	"github.com/ryan-gang/mail-sender/internal/mail"
	"github.com/ryan-gang/mail-sender/internal/util"
	"github.com/spf13/cobra"
)

// Env bundles what every command needs: the log sink, the loaded store and
// the path it came from.
type Env struct {
	ConfigPath string
	Timeout    time.Duration
	Store      *config.Store
	Log        *logger.Logger
}

// Setup opens the log file and loads the configuration named by the
// persistent flags. A malformed config file is reported and the command
// carries on with empty settings.
func Setup(cmd *cobra.Command) (*Env, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	logPath, err := cmd.Flags().GetString("log-file")
	if err != nil {
		return nil, err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		return nil, err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	var console io.Writer
	if verbose {
		console = os.Stderr
	}
	log, err := logger.New(logPath, console)
	if err != nil {
		return nil, err
	}

	store := config.NewStore(log)
	if _, err := store.Load(configPath); err != nil {
		util.LogError(util.ConfigError, "loading configuration", err)
	}

	return &Env{ConfigPath: configPath, Timeout: timeout, Store: store, Log: log}, nil
}

// SetupOrExit is Setup for commands that cannot do anything without it.
func SetupOrExit(cmd *cobra.Command) *Env {
	env, err := Setup(cmd)
	if err != nil {
		util.LogError(util.ConfigError, "preparing environment", err)
		os.Exit(1)
	}
	return env
}

func (e *Env) Mailer() *mail.Mailer {
	var opts []mail.Option
	if e.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(e.Timeout))
	}
	return mail.New(e.Store, e.Log, opts...)
}

func (e *Env) Close() {
	e.Log.Close()
}

// Exit closes the environment and terminates with code.
func (e *Env) Exit(code int) {
	e.Close()
	os.Exit(code)
}

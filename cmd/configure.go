package cmd

import (
	"fmt"
	"strings"

	"github.com/ryan-gang/mail-sender/internal/cmdutil"
	"github.com/ryan-gang/mail-sender/internal/config"
	"github.com/ryan-gang/mail-sender/internal/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configureCmd)

	configureCmd.Flags().String("preset", "", "Fill server and port from a known provider ("+presetNames()+")")
}

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Set up the SMTP server and sender account",
	Long: `Walks through the connection settings and writes them to the config file.
Press enter to keep the value shown in brackets. Keys the tool does not know
about are kept as they are.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := cmdutil.SetupOrExit(cmd)
		defer env.Close()

		values := env.Store.Values()
		if values == nil {
			values = config.Values{}
		}

		preset, _ := cmd.Flags().GetString("preset")
		if preset == "" {
			preset = promptPreset()
		}
		if preset != "" {
			if err := config.ApplyPreset(values, preset); err != nil {
				util.LogError(util.ValidationError, "applying preset", err)
				env.Exit(1)
			}
		}

		values[config.KeyServer] = prompt("SMTP server", values[config.KeyServer])
		values[config.KeyPort] = prompt("SMTP port", values[config.KeyPort])
		values[config.KeySender] = prompt("Sender email", values[config.KeySender])

		util.Cyan.Printf("Password or app token [%s]: ", util.Mask(values[config.KeyPassword]))
		values[config.KeyPassword] = util.ScanlineDefault(values[config.KeyPassword])

		values[config.KeyLanguage] = prompt("Language (BCP 47, e.g. en or zh-CN)", values[config.KeyLanguage])

		if err := env.Store.Save(env.ConfigPath, values); err != nil {
			util.LogError(util.ConfigError, "saving configuration", err)
			env.Exit(1)
		}
		util.GreenBold.Printf("Configuration saved to %s\n", env.ConfigPath)

		util.CyanBold.Println("\nNext steps:")
		util.Cyan.Println("- Run 'mail-sender test' to check the login")
		util.Cyan.Println("- Run 'mail-sender send --to ADDR --subject ...' to send a message")
	},
}

func prompt(label, current string) string {
	if current != "" {
		util.Cyan.Printf("%s [%s]: ", label, current)
	} else {
		util.Cyan.Printf("%s: ", label)
	}
	return util.ScanlineDefault(current)
}

func promptPreset() string {
	util.CyanBold.Println("Choose a provider, or press enter to type the server yourself:")
	for i, p := range config.Presets() {
		util.Cyan.Printf("%d. %s (%s:%s)\n", i+1, p.Label, p.Server, p.Port)
	}
	return presetChoice(util.ScanlineTrim())
}

// presetChoice maps a menu answer, either its number or the preset name, to
// a preset name. Unknown answers select nothing.
func presetChoice(answer string) string {
	if answer == "" {
		return ""
	}
	presets := config.Presets()
	for i, p := range presets {
		if answer == fmt.Sprint(i+1) {
			return p.Name
		}
	}
	if p, ok := config.LookupPreset(answer); ok {
		return p.Name
	}
	util.LogErrorf(util.ValidationError, "choosing provider", "unknown provider %q, skipping", answer)
	return ""
}

func presetNames() string {
	var names []string
	for _, p := range config.Presets() {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}

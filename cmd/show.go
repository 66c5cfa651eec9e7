package cmd

import (
	"slices"

	"github.com/ryan-gang/mail-sender/internal/cmdutil"
	"github.com/ryan-gang/mail-sender/internal/config"
	"github.com/ryan-gang/mail-sender/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

func init() {
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current configuration",
	Long:  `Prints every key in the config file. The password is masked.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := cmdutil.SetupOrExit(cmd)
		defer env.Close()

		util.Magenta.Printf("Config file: %s\n", env.ConfigPath)
		values := env.Store.Values()
		if len(values) == 0 {
			util.Cyan.Println("No settings yet, run 'mail-sender configure'")
			return
		}
		for _, line := range describe(values, env.Store.Language()) {
			util.Cyan.Println(line)
		}
	},
}

// describe renders values as sorted "key: value" lines for display.
func describe(values config.Values, lang language.Tag) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		v := values[k]
		switch k {
		case config.KeyPassword:
			v = util.Mask(v)
		case config.KeyLanguage:
			if lang != language.Und {
				v += " (" + display.Self.Name(lang) + ")"
			}
		}
		lines = append(lines, k+": "+v)
	}
	return lines
}

package cmd

import (
	"fmt"
	"strconv"

	"github.com/iksnae/video-chat/internal"
	"github.com/spf13/cobra"
)

const (
	keyContextDepth = "context-depth"
	keyAutoConnect  = "auto-connect"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or change saved preferences",
	Long: `Read or change the preferences stored in the settings file.

Keys:
  context-depth   caption chunks retrieved per answer (2-8, default 4)
  auto-connect    analyze each new video automatically in chat (default true)`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print preferences",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newSettingsStore()
		if err != nil {
			return err
		}
		settings, err := store.Load()
		if err != nil {
			return err
		}

		values := map[string]string{
			keyContextDepth: strconv.Itoa(settings.ContextK),
			keyAutoConnect:  strconv.FormatBool(settings.AutoConnect),
		}

		out := cmd.OutOrStdout()
		if len(args) == 1 {
			v, ok := values[args[0]]
			if !ok {
				return fmt.Errorf("unknown key %q (keys: %s, %s)", args[0], keyContextDepth, keyAutoConnect)
			}
			fmt.Fprintln(out, v)
			return nil
		}
		for _, key := range []string{keyContextDepth, keyAutoConnect} {
			fmt.Fprintf(out, "%s = %s\n", key, values[key])
		}
		fmt.Fprintln(out, dateStyle.Render("# "+store.Path()))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a preference",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := newSettingsStore()
		if err != nil {
			return err
		}
		settings, err := store.Load()
		if err != nil {
			internal.LogWarn("Replacing unreadable settings: %v", err)
			settings = internal.DefaultSettings()
		}

		key, value := args[0], args[1]
		switch key {
		case keyContextDepth:
			n, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, value, err)
			}
			settings.ContextK = internal.ClampContextDepth(n)
			if settings.ContextK != n {
				internal.PrintWarning(cmd.ErrOrStderr(), fmt.Sprintf("%s clamped to %d", key, settings.ContextK))
			}
		case keyAutoConnect:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", key, value, err)
			}
			settings.AutoConnect = b
		default:
			return fmt.Errorf("unknown key %q (keys: %s, %s)", key, keyContextDepth, keyAutoConnect)
		}

		if err := store.Save(settings); err != nil {
			return err
		}
		internal.LogDebug("Saved settings to %s", store.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

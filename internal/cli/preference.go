package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/samirrijal/mapdispatch/internal/core/domain"
)

func newPreferenceCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "preference",
		Short: "Show the remembered navigation app",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, env *Env) error {
			choice, err := env.Preferences().Current(cmd.Context())
			if errors.Is(err, domain.ErrPreferenceNotSet) {
				fmt.Fprintf(cmd.OutOrStdout(), "No app remembered for %s\n", env.Scope)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (apps %s, saved %s)\n",
				choice.App.DisplayName(), choice.Fingerprint, choice.SavedAt.Local().Format(time.DateTime))
			return nil
		}),
	}
}

func newResetCmd(withEnv envRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Forget the remembered navigation app",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(cmd *cobra.Command, args []string, env *Env) error {
			if err := env.Dispatcher().ResetPreferences(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Forgot remembered app for %s\n", env.Scope)
			return nil
		}),
	}
}

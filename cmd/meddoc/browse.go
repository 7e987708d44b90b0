package main

import (
	"github.com/spf13/cobra"

	"github.com/Veraticus/meddoc/internal/tui"
)

func browseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse uploaded documents and their results interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var opts []tui.Option
			if noHelp, _ := cmd.Flags().GetBool("no-help"); noHelp {
				opts = append(opts, tui.WithHelp(false))
			}
			return tui.Run(cmd.Context(), a.client, a.cache, opts...)
		},
	}
	cmd.Flags().Bool("no-help", false, "hide the key binding help line")
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slidenotes/internal/store"
)

func themeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [light|dark|toggle]",
		Short:     "Show or change the stored theme preference",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"light", "dark", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.openStore()
			if err != nil {
				return err
			}
			defer st.Close()
			ctx := cmd.Context()

			var t store.Theme
			switch {
			case len(args) == 0:
				t, err = st.Theme(ctx)
			case args[0] == "toggle":
				t, err = st.ToggleTheme(ctx)
			default:
				if t, err = store.ParseTheme(args[0]); err == nil {
					err = st.SetTheme(ctx, t)
				}
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), t)
			return nil
		},
	}
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prflight-io/prflight/internal/settings"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		credPath, err := settings.DefaultPath()
		if err != nil {
			return err
		}
		if err := settings.NewStore(credPath).Clear(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

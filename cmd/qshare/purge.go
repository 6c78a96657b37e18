package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"qshare/internal/api"
	"qshare/internal/config"
)

func newPurgeCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "purge <group-id>",
		Short: "Delete a group immediately (requires QSHARE_ADMIN_TOKEN)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.PurgeGroup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				fmt.Printf("purged %s\n", resp.GroupID)
				return nil
			})
		},
	}
}

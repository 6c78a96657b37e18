package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"qshare/internal/api"
	"qshare/internal/config"
)

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <group-id>",
		Short: "List the files in a shared group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.GetGroup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}

				fmt.Printf("group %s (%d files)\n", resp.GroupID, len(resp.Files))
				for _, file := range resp.Files {
					fmt.Printf("  %s  %s  %s  %s\n",
						file.ID, file.Filename, file.MimeType, humanize.IBytes(uint64(file.SizeBytes)))
				}
				return nil
			})
		},
	}
}

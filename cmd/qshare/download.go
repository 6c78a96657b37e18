package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qshare/internal/api"
	"qshare/internal/config"
)

func newDownloadCmd(cfg *config.Config) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "download <group-id>",
		Short: "Download a group as a ZIP archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			groupID := args[0]
			if outPath == "" {
				outPath = fmt.Sprintf("files-%s.zip", groupID)
			}

			out, err := os.Create(outPath)
			if err != nil {
				return err
			}

			err = withClient(cfg, func(client *api.Client) error {
				return client.DownloadArchive(cmd.Context(), groupID, out)
			})
			if closeErr := out.Close(); err == nil {
				err = closeErr
			}
			if err != nil {
				os.Remove(outPath)
				return err
			}

			fmt.Printf("wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output path (default files-<group-id>.zip)")
	return cmd
}

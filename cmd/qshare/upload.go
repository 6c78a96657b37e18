package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"qshare/internal/api"
	"qshare/internal/config"
)

// uploadManifest describes a batch upload declared in a YAML file, for
// batches where the on-disk names or detected mime types need
// overriding.
type uploadManifest struct {
	Files []manifestEntry `yaml:"files"`
}

type manifestEntry struct {
	Path     string `yaml:"path"`
	Filename string `yaml:"filename"`
	MimeType string `yaml:"mime_type"`
}

func newUploadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "upload [<file>...]",
		Short: "Upload a batch of files and print the share link",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := collectEntries(args, manifestPath)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("at least one file or a --manifest is required")
			}

			files := make([]api.UploadFile, 0, len(entries))
			for _, entry := range entries {
				f, err := os.Open(entry.Path)
				if err != nil {
					return err
				}
				defer f.Close()

				filename := entry.Filename
				if filename == "" {
					filename = filepath.Base(entry.Path)
				}
				files = append(files, api.UploadFile{
					Filename: filename,
					MimeType: entryMimeType(entry),
					Reader:   f,
				})
			}

			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.Upload(cmd.Context(), files)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}

				fmt.Printf("group:     %s\n", resp.GroupID)
				fmt.Printf("share url: %s\n", resp.ShareURL)
				fmt.Printf("uploaded:  %d files, %s\n", resp.FilesCount, humanize.IBytes(uint64(resp.TotalBytes)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "", "YAML manifest describing the batch")
	return cmd
}

func collectEntries(args []string, manifestPath string) ([]manifestEntry, error) {
	entries := make([]manifestEntry, 0, len(args))
	for _, path := range args {
		entries = append(entries, manifestEntry{Path: path})
	}

	if manifestPath == "" {
		return entries, nil
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, err
	}
	var manifest uploadManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", manifestPath, err)
	}

	baseDir := filepath.Dir(manifestPath)
	for _, entry := range manifest.Files {
		if strings.TrimSpace(entry.Path) == "" {
			return nil, fmt.Errorf("manifest %s: every file needs a path", manifestPath)
		}
		if !filepath.IsAbs(entry.Path) {
			entry.Path = filepath.Join(baseDir, entry.Path)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func entryMimeType(entry manifestEntry) string {
	if entry.MimeType != "" {
		return entry.MimeType
	}
	if mimeType := mime.TypeByExtension(filepath.Ext(entry.Path)); mimeType != "" {
		return mimeType
	}
	return "application/octet-stream"
}

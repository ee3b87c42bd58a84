package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shortform/internal/queue"
	"shortform/internal/script"
)

// duplicateScriptThreshold is the cosine similarity above which a new
// submission is treated as a duplicate of an existing job.
const duplicateScriptThreshold = 0.9

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var title string
	var force bool

	cmd := &cobra.Command{
		Use:   "generate <script.json>",
		Short: "Queue a script for video generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve path: %w", err)
			}

			info, err := os.Stat(absPath)
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("script file does not exist: %s", absPath)
				}
				return fmt.Errorf("inspect script file: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("%s is a directory", absPath)
			}

			data, err := os.ReadFile(absPath)
			if err != nil {
				return fmt.Errorf("read script file: %w", err)
			}
			if strings.TrimSpace(string(data)) == "" {
				return fmt.Errorf("script file is empty: %s", absPath)
			}

			doc, err := (script.FromJSON{Data: data}).Script(cmd.Context())
			if err != nil {
				return err
			}
			jobTitle := strings.TrimSpace(title)
			if jobTitle == "" {
				jobTitle = strings.TrimSpace(doc.Title)
			}

			return ctx.withStore(func(store *queue.Store) error {
				out := cmd.OutOrStdout()

				if !force {
					similar, err := store.FindSimilarScript(cmd.Context(), string(data), duplicateScriptThreshold)
					if err != nil {
						return err
					}
					if similar != nil {
						return fmt.Errorf(
							"script matches existing job #%d %q (%.0f%% similar); use --force to queue anyway",
							similar.Job.ID, similar.Job.Title, similar.Similarity*100,
						)
					}
				}

				job, err := store.NewJob(cmd.Context(), uuid.NewString(), jobTitle, string(data))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Queued script as job #%d (%s)\n", job.ID, filepath.Base(absPath))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Override the video title")
	cmd.Flags().BoolVar(&force, "force", false, "Queue even if a similar script is already queued")
	return cmd
}

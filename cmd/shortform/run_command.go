package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"shortform/internal/assembly"
	"shortform/internal/progress"
	"shortform/internal/queue"
	"shortform/internal/rendering"
	"shortform/internal/segmenting"
	"shortform/internal/stageexec"
)

// newRunCommand builds the one-shot pipeline command: queue a script and
// drive it through every stage in the foreground without a daemon.
func newRunCommand(ctx *commandContext) *cobra.Command {
	var title string
	var logLevel string

	cmd := &cobra.Command{
		Use:   "run <script.json>",
		Short: "Generate a video from a script in the foreground",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.cliLogger(logLevel)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read script file: %w", err)
			}
			if strings.TrimSpace(string(data)) == "" {
				return fmt.Errorf("script file is empty: %s", args[0])
			}

			return ctx.withStore(func(store *queue.Store) error {
				out := cmd.OutOrStdout()
				job, err := store.NewJob(cmd.Context(), uuid.NewString(), strings.TrimSpace(title), string(data))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Processing job #%d\n", job.ID)

				sink := progress.Func(func(event progress.Event) {
					message := strings.TrimSpace(event.Message)
					if message == "" {
						message = event.Step.String()
					}
					fmt.Fprintf(out, "  [%d/%d] %s (%.0f%%)\n", int(event.Step), event.TotalSteps, message, event.Percent)
				})

				segmenter := segmenting.NewSegmenter(cfg, store, logger)
				segmenter.WithProgressSink(sink)
				assembler := assembly.NewAssembler(cfg, store, logger)
				assembler.WithProgressSink(sink)
				renderer := rendering.NewRenderer(cfg, store, logger)
				renderer.WithProgressSink(sink)

				stages := []stageexec.Options{
					{
						Logger:     logger,
						Store:      store,
						Handler:    segmenter,
						StageName:  "segmenter",
						Processing: queue.StatusSegmenting,
						Done:       queue.StatusSegmented,
						Job:        job,
					},
					{
						Logger:     logger,
						Store:      store,
						Handler:    assembler,
						StageName:  "assembler",
						Processing: queue.StatusAssembling,
						Done:       queue.StatusAssembled,
						Job:        job,
					},
					{
						Logger:     logger,
						Store:      store,
						Handler:    renderer,
						StageName:  "renderer",
						Processing: queue.StatusRendering,
						Done:       queue.StatusCompleted,
						Job:        job,
					},
				}

				for _, stage := range stages {
					if err := stageexec.Run(cmd.Context(), stage); err != nil {
						if job.Status == queue.StatusReview {
							fmt.Fprintf(out, "Job #%d needs review: %s\n", job.ID, job.ReviewReason)
						}
						return err
					}
				}

				if job.ReviewReason != "" {
					fmt.Fprintf(out, "Completed with degraded output: %s\n", job.ReviewReason)
				}
				fmt.Fprintf(out, "Video written to %s\n", job.FinalPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Override the video title")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "Log level for foreground output")
	return cmd
}

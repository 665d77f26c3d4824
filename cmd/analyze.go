package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iksnae/video-chat/internal"
	"github.com/spf13/cobra"
)

var (
	analyzeDepth int
)

// errAnalysisFailed is returned when the service rejected the analysis
var errAnalysisFailed = errors.New("analysis failed")

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <video-url|video-id>",
	Short: "Ask the service to analyze a video's captions",
	Long: `Run the caption analysis for a video without starting a chat.

The analysis service keeps the processed captions, so later 'ask' and 'chat'
commands about the same video answer faster.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, err := internal.ResolveVideoID(args[0])
		if err != nil {
			return err
		}

		controller, err := newController(nil, nil)
		if err != nil {
			return err
		}
		defer controller.Close()

		if cmd.Flags().Changed("depth") {
			controller.SetContextDepth(analyzeDepth)
		}

		state, err := analyzeVideo(cmd.Context(), cmd.ErrOrStderr(), controller, videoID)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), lastMessage(state).Content)
		return nil
	},
}

// analyzeVideo connects controller to videoID and waits for the analysis result
func analyzeVideo(ctx context.Context, w io.Writer, controller *internal.Controller, videoID string) (internal.State, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	controller.ObserveVideoID(ctx, videoID)
	if err := controller.RequestAnalysis(ctx); err != nil {
		return controller.State(), err
	}

	err := internal.ShowProgress(ctx, w, fmt.Sprintf("Analyzing video %s", videoID), func() error {
		controller.Wait()
		if controller.State().Status != internal.StatusAnalyzed {
			return errAnalysisFailed
		}
		return nil
	})

	state := controller.State()
	if errors.Is(err, errAnalysisFailed) {
		return state, fmt.Errorf("%w: %s", errAnalysisFailed, lastMessage(state).Content)
	}
	return state, err
}

func lastMessage(state internal.State) internal.Message {
	if len(state.Messages) == 0 {
		return internal.Message{}
	}
	return state.Messages[len(state.Messages)-1]
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().IntVar(&analyzeDepth, "depth", internal.DefaultContextDepth, "Context depth to save and use (2-8)")
}

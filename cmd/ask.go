package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/iksnae/video-chat/internal"
	"github.com/spf13/cobra"
)

var (
	askSave bool
	askRaw  bool
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <video-url|video-id> <question>",
	Short: "Ask a single question about a video",
	Long: `Analyze a video and ask one question about it.

The question is every argument after the video, joined with spaces.
Use --save to keep the exchange in the history database.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		videoID, err := internal.ResolveVideoID(args[0])
		if err != nil {
			return err
		}
		question := strings.TrimSpace(strings.Join(args[1:], " "))
		if question == "" {
			return fmt.Errorf("question must not be empty")
		}

		controller, err := newController(nil, nil)
		if err != nil {
			return err
		}
		defer controller.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if _, err := analyzeVideo(ctx, cmd.ErrOrStderr(), controller, videoID); err != nil {
			return err
		}

		if err := controller.AskQuestion(ctx, question); err != nil {
			return err
		}
		controller.Wait()

		answer := lastMessage(controller.State())
		out := cmd.OutOrStdout()
		if askRaw {
			fmt.Fprintln(out, answer.Content)
		} else {
			writeMessage(out, newMarkdownRenderer(internal.IsTerminal(out)), answer)
		}

		if askSave {
			saveChat(ctx, controller)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().BoolVar(&askSave, "save", false, "Save the exchange to history")
	askCmd.Flags().BoolVar(&askRaw, "raw", false, "Print the answer without formatting")
}

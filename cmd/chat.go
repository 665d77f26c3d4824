package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/iksnae/video-chat/internal"
	"github.com/iksnae/video-chat/internal/export"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	chatNoSave    bool
	chatOEmbedURL string
	chatExportDir string
)

const chatHelp = `Commands:
  /analyze          analyze the current video (retry after a failure)
  /depth <n>        set the number of caption chunks used per answer (2-8)
  /clear            clear the chat history
  /export [format]  export the chat (json, jsonl, md, yaml; default json)
  /status           show the current status
  /help             show this help
  /quit             leave the chat
Anything else is sent as a question once the video is analyzed.`

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [video-url]",
	Short: "Chat interactively about a YouTube video",
	Long: `Start an interactive chat about a YouTube video.

With a URL argument the chat is about that video. Without one, video-chat
follows the URL a browser helper writes to <config dir>/video-chat/current-url,
switching sessions whenever you navigate to another video.

When auto-connect is enabled (the default) each new video is analyzed as soon
as it is detected. The chat is saved to the history database on exit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paths, err := appPaths()
		if err != nil {
			return fmt.Errorf("failed to get app paths: %w", err)
		}

		var source internal.BrowsingContext = internal.FileContext{Path: paths.CurrentURL}
		if len(args) == 1 {
			id, err := internal.ResolveVideoID(args[0])
			if err != nil {
				return err
			}
			source = internal.StaticContext(internal.WatchURL(id))
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		renderer := newTerminalRenderer(out, internal.IsTerminal(out))
		controller, err := newController(renderer, internal.NewOEmbedTitleSource(chatOEmbedURL, viper.GetDuration("timeout")))
		if err != nil {
			return err
		}

		fmt.Fprintln(out, headerStyle.Render("💬 video-chat"))
		fmt.Fprintln(out, dateStyle.Render("Type /help for commands, /quit to leave."))

		session := &chatSession{controller: controller, out: out, exportDir: chatExportDir}
		runErr := runChat(ctx, controller, source, viper.GetDuration("poll-interval"), cmd.InOrStdin(), session)
		controller.Close()

		if !chatNoSave {
			saveChat(context.Background(), controller)
		}
		return runErr
	},
}

// runChat drives the controller from the watcher and from input lines until
// input ends, /quit is entered or ctx is cancelled.
func runChat(ctx context.Context, c *internal.Controller, source internal.BrowsingContext, interval time.Duration, in io.Reader, session *chatSession) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	watcher := internal.NewWatcher(source, interval, internal.NewAutoAnalyzer(c))
	// The first video is known before any input is handled
	watcher.Poll(ctx)
	lines := readLines(in)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Run(gctx)
	})
	g.Go(func() error {
		// Leaving the input loop ends the chat
		defer cancel()
		for {
			select {
			case <-gctx.Done():
				return nil
			case line, ok := <-lines:
				if !ok {
					// Let answers to piped questions arrive before leaving
					c.Wait()
					return nil
				}
				if quit := session.handle(gctx, line); quit {
					return nil
				}
			}
		}
	})
	return g.Wait()
}

// readLines feeds input lines to a channel that is closed at EOF.
// The reader goroutine outlives the chat when input never ends.
func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

// chatSession interprets the lines typed into a chat
type chatSession struct {
	controller *internal.Controller
	out        io.Writer
	exportDir  string
}

// handle processes one input line and reports whether the chat should end
func (s *chatSession) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, "/") {
		s.ask(ctx, line)
		return false
	}

	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(s.out, chatHelp)
	case "/status":
		state := s.controller.State()
		fmt.Fprintf(s.out, "%s (context depth %d, %d message(s))\n", state.StatusText(), state.ContextDepth, len(state.Messages))
	case "/analyze":
		if err := s.controller.RequestAnalysis(ctx); err != nil {
			s.warn(err)
		}
	case "/clear":
		s.controller.ClearHistory()
		fmt.Fprintln(s.out, dateStyle.Render("Chat history cleared"))
	case "/depth":
		if len(fields) != 2 {
			fmt.Fprintln(s.out, "Usage: /depth <n>")
			return false
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(s.out, "Invalid depth %q\n", fields[1])
			return false
		}
		s.controller.SetContextDepth(n)
	case "/export":
		format := "json"
		if len(fields) > 1 {
			format = fields[1]
		}
		s.export(format)
	default:
		fmt.Fprintf(s.out, "Unknown command %s, type /help for a list\n", fields[0])
	}
	return false
}

// ask waits out a running analysis or answer, the way the input box stays
// disabled until the previous response arrives
func (s *chatSession) ask(ctx context.Context, question string) {
	if state := s.controller.State(); state.Status == internal.StatusAnalyzing || state.QuestionPending {
		s.controller.Wait()
	}
	if err := s.controller.AskQuestion(ctx, question); err != nil {
		s.warn(err)
	}
}

func (s *chatSession) warn(err error) {
	if errors.Is(err, internal.ErrInvalidState) {
		state := s.controller.State()
		switch {
		case state.QuestionPending:
			fmt.Fprintln(s.out, dateStyle.Render("Please wait for the current answer"))
		case state.Status == internal.StatusAnalyzed:
			fmt.Fprintln(s.out, dateStyle.Render("The video is already analyzed"))
		default:
			fmt.Fprintln(s.out, dateStyle.Render(state.StatusText()))
		}
		return
	}
	internal.LogWarn("%v", err)
}

func (s *chatSession) export(format string) {
	exporter, err := export.NewExporter(format)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return
	}
	// Include the answer that is still on its way
	s.controller.Wait()
	rec, err := s.controller.Export()
	if err != nil {
		fmt.Fprintln(s.out, dateStyle.Render("Nothing to export yet"))
		return
	}
	path, err := export.WriteFile(s.exportDir, rec, exporter)
	if err != nil {
		internal.LogError("Export failed: %v", err)
		return
	}
	fmt.Fprintln(s.out, countStyle.Render("Exported to "+path))
}

// saveChat stores the final transcript in the history database
func saveChat(ctx context.Context, c *internal.Controller) {
	rec, err := c.Export()
	if errors.Is(err, internal.ErrEmptyHistory) {
		return
	}
	if err != nil {
		internal.LogWarn("Failed to export chat: %v", err)
		return
	}

	store, db, err := openHistory()
	if err != nil {
		internal.LogWarn("Chat not saved: %v", err)
		return
	}
	defer db.Close()

	id, err := store.Save(ctx, rec)
	if err != nil {
		internal.LogWarn("Chat not saved: %v", err)
		return
	}
	internal.LogInfo("Chat saved as %s", id)
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().BoolVar(&chatNoSave, "no-save", false, "Do not save the chat to history on exit")
	chatCmd.Flags().StringVar(&chatOEmbedURL, "oembed-url", internal.DefaultOEmbedURL, "oEmbed endpoint used to look up video titles")
	chatCmd.Flags().StringVar(&chatExportDir, "out", ".", "Directory for /export files")
	chatCmd.Flags().Duration("poll-interval", internal.DefaultPollInterval, "How often to re-check the current video URL")
	_ = viper.BindPFlag("poll-interval", chatCmd.Flags().Lookup("poll-interval"))
}

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/minthub/mintassist/internal/pipeline"
)

const greeting = "Xin chào! Tôi là AI Assistant của MINT Hub. Tôi có thể giúp bạn tìm game, phần mềm, hướng dẫn cài đặt và sửa lỗi. Bạn cần giúp gì ạ? 😊"

// quickActions are the canned questions offered at the start of a chat
var quickActions = []string{"Game hay nhất", "Office 2024", "Hướng dẫn cài đặt", "Sửa lỗi game"}

var watchKB bool

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant on stdin/stdout",
	Long: `Chat reads one message per line and prints each response.

Commands inside the chat:
  /download <id>   record a download of a catalog file
  /history         show downloads recorded in this session
  /clear           clear the download history
  /quit            leave the chat

Example:
  mintassist chat
  mintassist chat --kb ./chatbot.yaml --watch`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().BoolVar(&watchKB, "watch", false, "reload the knowledge base file when it changes")
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p, cfg, logger, err := newPipeline(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if watchKB {
		go func() {
			if err := p.WatchKnowledge(ctx); err != nil {
				logger.Warn("knowledge base watch disabled", zap.Error(err))
			}
		}()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\nGợi ý: %s\n\n", greeting, strings.Join(quickActions, " | "))

	if err := chatLoop(ctx, cmd.InOrStdin(), out, p, cfg.Output.Format); err != nil {
		return err
	}
	return p.FlushMetrics()
}

// chatLoop answers lines from in until EOF or /quit
func chatLoop(ctx context.Context, in io.Reader, out io.Writer, p *pipeline.Pipeline, format string) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := chatCommand(out, p, line)
			if err != nil {
				fmt.Fprintf(out, "✗ %v\n\n", err)
			}
			if quit {
				return nil
			}
			continue
		}

		resp, err := p.Ask(ctx, line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := p.Renderer().Render(out, resp, format); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
}

// chatCommand runs one slash command and reports whether the chat should end
func chatCommand(out io.Writer, p *pipeline.Pipeline, line string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/download":
		if len(fields) != 2 {
			return false, errors.New("usage: /download <id>")
		}
		record, err := p.Catalog().RecordDownload(fields[1])
		if err != nil {
			return false, err
		}
		f, err := p.Catalog().Get(record.FileID)
		if err != nil {
			return false, err
		}
		printDownload(out, f)
		fmt.Fprintln(out)
	case "/history":
		printHistory(out, p.Catalog().History())
	case "/clear":
		fmt.Fprintf(out, "✓ Đã xóa %d lượt tải\n\n", p.Catalog().ClearHistory())
	default:
		return false, fmt.Errorf("unknown command: %s", fields[0])
	}
	return false, nil
}

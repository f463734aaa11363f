package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"os/signal"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/pyansys-rag/internal/pipeline"
	"github.com/pdiddy/pyansys-rag/pkg/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive troubleshooting shell",
	Long: `Chat reads one question per line, runs it through the pipeline, and
prints progress for each completed stage followed by the answer and its
sources. Type quit or exit, or press Ctrl-D, to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

func addChatFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("markdown", false, "render answers as terminal markdown")
	cmd.Flags().Int("num-results", 0, "search results requested per question (default from config)")
}

func init() {
	addChatFlags(chatCmd)
	rootCmd.AddCommand(chatCmd)
}

// maxInputLine bounds the length of one question read by the shell.
const maxInputLine = 1 << 20

// streamFunc runs one question and yields per-node events.
type streamFunc func(ctx context.Context, query string) iter.Seq[pipeline.Event]

// shellStyles decorates the shell's fixed output lines.
type shellStyles struct {
	title  lipgloss.Style
	hint   lipgloss.Style
	status lipgloss.Style
	header lipgloss.Style
}

func newShellStyles(out io.Writer) shellStyles {
	r := lipgloss.NewRenderer(out)
	return shellStyles{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFB71B")),
		hint:   r.NewStyle().Faint(true),
		status: r.NewStyle().Foreground(lipgloss.Color("#7D56F4")),
		header: r.NewStyle().Bold(true),
	}
}

// shell is the read-evaluate-print loop behind the chat command.
type shell struct {
	in     io.Reader
	out    io.Writer
	run    streamFunc
	render func(string) string
	styles shellStyles
}

func runChat(cmd *cobra.Command) error {
	cfg := loadConfig(viper.GetViper(), loadedSecrets)
	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}
	n := cfg.Search.NumResults
	if v, _ := cmd.Flags().GetInt("num-results"); v > 0 {
		n = v
	}

	out := cmd.OutOrStdout()
	sh := &shell{
		in:  cmd.InOrStdin(),
		out: out,
		run: func(ctx context.Context, q string) iter.Seq[pipeline.Event] {
			return p.Stream(ctx, q, n)
		},
		styles: newShellStyles(out),
	}
	if md, _ := cmd.Flags().GetBool("markdown"); md {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		sh.render = func(s string) string {
			rendered, err := r.Render(s)
			if err != nil {
				return s
			}
			return strings.TrimRight(rendered, "\n")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	sh.loop(ctx)
	return nil
}

// loop runs until EOF, quit/exit, or ctx is cancelled while waiting for
// input. A question already running is not interrupted.
func (s *shell) loop(ctx context.Context) {
	fmt.Fprintln(s.out, s.styles.title.Render("PyAnsys Troubleshooting RAG"))
	fmt.Fprintln(s.out, s.styles.hint.Render("Type a question, or 'quit'/'exit' to end."))

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	var scanErr error
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.in)
		sc.Buffer(make([]byte, 0, 64*1024), maxInputLine)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		scanErr = sc.Err()
	}()

	for {
		fmt.Fprint(s.out, "\n> ")
		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(s.out, "\nExiting.")
			return
		case l, ok := <-lines:
			if !ok {
				if scanErr != nil {
					fmt.Fprintf(s.out, "\nInput error: %v\n", scanErr)
				}
				fmt.Fprintln(s.out, "\nExiting.")
				return
			}
			line = l
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		if q := strings.ToLower(query); q == "quit" || q == "exit" {
			fmt.Fprintln(s.out, "Exiting.")
			return
		}
		s.ask(context.WithoutCancel(ctx), query)
	}
}

// statusLines maps each node to the line printed when it completes.
var statusLines = map[pipeline.Node]string{
	pipeline.SearchWeb:       "Search complete.",
	pipeline.FetchSources:    "Fetch complete.",
	pipeline.GenerateAnswer:  "Generate complete.",
	pipeline.HandleErrorNode: "Handled error.",
}

// ask runs one question and prints progress, the answer, and the sources.
func (s *shell) ask(ctx context.Context, query string) {
	fmt.Fprintf(s.out, "Query: %s\n", query)

	var final *types.State
	for ev := range s.run(ctx, query) {
		if line, ok := statusLines[ev.Node]; ok {
			fmt.Fprintln(s.out, s.styles.status.Render(line))
		}
		st := ev.State
		final = &st
	}
	if final == nil {
		fmt.Fprintln(s.out, "No output.")
		return
	}

	fmt.Fprintln(s.out, "\n"+s.styles.header.Render("Answer:")+"\n")
	answer := strings.TrimSpace(final.Answer)
	switch {
	case answer == "":
		fmt.Fprintln(s.out, "No answer generated.")
	case s.render != nil:
		fmt.Fprintln(s.out, s.render(answer))
	default:
		fmt.Fprintln(s.out, answer)
	}

	fmt.Fprintln(s.out)
	printSources(s.out, final.FetchedSources)
}

// printSources lists sources as "<n>. <title> - <url>", or "Sources: none".
func printSources(w io.Writer, sources []types.FetchedSource) {
	if len(sources) == 0 {
		fmt.Fprintln(w, "Sources: none")
		return
	}
	fmt.Fprintln(w, "Sources:")
	for i, src := range sources {
		title := strings.TrimSpace(src.Title)
		if title == "" {
			title = "(untitled)"
		}
		url := strings.TrimSpace(src.URL)
		if url == "" {
			url = "(no url)"
		}
		fmt.Fprintf(w, "%d. %s - %s\n", i+1, title, url)
	}
}

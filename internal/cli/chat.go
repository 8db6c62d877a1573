package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codifyapp/codify-go/internal/chat"
	"github.com/codifyapp/codify-go/internal/tui"
)

var chatThread string

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Chat with the code review assistant",
	Long: `Chat with the AI code review assistant.

Without arguments an interactive session opens. With a message argument
the reply is printed and the command exits; the exchange still lands in
the active conversation thread.

Examples:
  codify chat
  codify chat "Why is shadowing err a problem?"
  codify chat --thread 3f2a "And how do I avoid it?"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatThread, "thread", "", "thread id to continue")
}

func runChat(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	store := getThreads()
	if chatThread != "" {
		if err := store.SetActive(chatThread); err != nil {
			return err
		}
	}

	if len(args) == 0 {
		return tui.RunChat(store)
	}

	tracker.Check()
	reply := store.SendMessage(cmd.Context(), args[0])
	printFormatted(reply.Content)
	return nil
}

// printFormatted renders formatted reply blocks for plain stdout.
func printFormatted(text string) {
	for _, block := range chat.Format(text) {
		switch block.Kind {
		case chat.KindCode:
			fmt.Println()
			fmt.Println(indent(block.Text, "    "))
			fmt.Println()
		case chat.KindList:
			for _, item := range block.Items {
				fmt.Printf("  - %s\n", item)
			}
		default:
			var b strings.Builder
			for _, span := range block.Spans {
				if span.Code {
					b.WriteString("`" + span.Text + "`")
				} else {
					b.WriteString(span.Text)
				}
			}
			fmt.Println(b.String())
		}
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var threadsCmd = &cobra.Command{
	Use:   "threads",
	Short: "Manage conversation threads",
	Long: `List, create, select and delete chat threads.

Examples:
  codify threads
  codify threads new
  codify threads use 3f2a9c
  codify threads delete 3f2a9c`,
	Args: cobra.NoArgs,
	RunE: runThreadsList,
}

var threadsNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a fresh conversation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		t := getThreads().NewThread()
		fmt.Printf("Started %s (%s)\n", t.Title, t.ID)
		return nil
	},
}

var threadsUseCmd = &cobra.Command{
	Use:   "use <id>",
	Short: "Make a thread the active conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		store := getThreads()
		if err := store.SetActive(args[0]); err != nil {
			return err
		}
		fmt.Printf("Active thread: %s\n", store.Active().Title)
		return nil
	},
}

var threadsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a thread",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(); err != nil {
			return err
		}
		if err := getThreads().DeleteThread(args[0]); err != nil {
			return err
		}
		fmt.Println("Thread deleted.")
		return nil
	},
}

func init() {
	threadsCmd.AddCommand(threadsNewCmd)
	threadsCmd.AddCommand(threadsUseCmd)
	threadsCmd.AddCommand(threadsDeleteCmd)
}

func runThreadsList(cmd *cobra.Command, args []string) error {
	if err := requireAuth(); err != nil {
		return err
	}

	store := getThreads()
	activeID := store.Active().ID
	for _, t := range store.Threads() {
		marker := " "
		if t.ID == activeID {
			marker = "*"
		}
		fmt.Printf("%s %s  %-40s %d messages  %s\n",
			marker, t.ID, t.Title, len(t.Messages), t.LastUpdated.Format("Jan 2 15:04"))
	}
	return nil
}

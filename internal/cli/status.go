package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check backend reachability and your request quota",
	Long: `Check whether the backend answers, show the session, and print
the local and server-side rate-limit view.

With --verbose the live health endpoint and per-operation request
timings are included.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	info, err := gateway.CheckStatus(ctx)
	if err != nil {
		fmt.Printf("Backend:   unreachable (%v)\n", err)
	} else {
		fmt.Printf("Backend:   %s (v%s)\n", info.Status, info.Version)
		fmt.Printf("Endpoints: %s\n", strings.Join(info.Endpoints, ", "))
	}

	if st := session.State(); st.IsAuthenticated && st.User != nil {
		fmt.Printf("Session:   %s <%s>\n", st.User.Name, st.User.Email)
	} else {
		fmt.Println("Session:   not logged in")
	}

	local := tracker.Status()
	fmt.Printf("Requests:  %d/%d remaining (%s)\n",
		local.RemainingRequests, local.TotalRequests, local.UserType)
	if local.IsLimited {
		fmt.Printf("           %s\n", local.Message)
	}

	// The backend's view is authoritative; show it when available.
	if session.State().IsAuthenticated {
		if quota, err := gateway.RateLimitStatus(ctx); err == nil {
			fmt.Printf("Server:    %d/%d remaining", quota.Remaining, quota.Total)
			if quota.ResetAt != "" {
				fmt.Printf(", resets %s", quota.ResetAt)
			}
			fmt.Println()
		}
	}

	if !verbose {
		return nil
	}

	if health, err := gateway.CheckHealth(ctx); err == nil {
		fmt.Printf("Health:    %s, up %s\n", health.Status,
			(time.Duration(health.Uptime) * time.Second).String())
	}

	snap := collector.Snapshot()
	if len(snap.Operations) > 0 {
		fmt.Println("\nRequest timings")
		for _, op := range snap.Operations {
			fmt.Printf("  %-14s %3d calls  %3d failed  avg %6.1fms  max %4dms\n",
				op.Operation, op.Count, op.Failures, op.AvgTimeMs, op.MaxTimeMs)
		}
	}
	return nil
}

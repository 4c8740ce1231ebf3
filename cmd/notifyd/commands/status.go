package commands

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var statusAdminAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show registry status",
	Long: `Query the admin server's /debug/stats endpoint and print the
registry's current counters.

Examples:
  # Check status against the default admin address
  notifyd status

  # Check status against a custom admin address
  notifyd status --admin-addr 127.0.0.1:9109`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAdminAddr, "admin-addr", "127.0.0.1:9109", "Admin server address")
}

type statsEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		Names           int    `json:"names"`
		Clients         int    `json:"clients"`
		ControlledNames int    `json:"controlled_names"`
		NextID          uint32 `json:"next_id"`
		FreeListLen     int    `json:"free_list_len"`
	} `json:"data"`
	Error string `json:"error"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(fmt.Sprintf("http://%s/debug/stats", statusAdminAddr))
	if err != nil {
		return fmt.Errorf("notifyd is unreachable at %s: %w", statusAdminAddr, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var stats statsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("failed to decode status response: %w", err)
	}

	if stats.Status != "ok" {
		return fmt.Errorf("registry reported an error: %s", stats.Error)
	}

	fmt.Println()
	fmt.Println("notifyd Registry Status")
	fmt.Println("========================")
	fmt.Println()
	fmt.Printf("  Names:            %d\n", stats.Data.Names)
	fmt.Printf("  Clients:          %d\n", stats.Data.Clients)
	fmt.Printf("  Controlled names: %d\n", stats.Data.ControlledNames)
	fmt.Printf("  Next client id:   %d\n", stats.Data.NextID)
	fmt.Printf("  Free list length: %d\n", stats.Data.FreeListLen)
	fmt.Println()

	return nil
}

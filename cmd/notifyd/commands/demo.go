package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/marmos91/notifyd/pkg/registry"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an in-process registry walkthrough",
	Long: `demo builds a registry entirely in-process, registers a couple of
names under a single session handle, posts to one of them, checks the
change from its subscriber, and cancels the
session to show cancel_session's grouped-release behavior. It doesn't
start a server; it's a quick way to see the registry's semantics without
standing up the daemon.`,
	RunE: runDemo,
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	reg := registry.New(registry.DefaultOptions())

	session := uuid.NewString()
	fmt.Printf("session handle: %s\n\n", session)

	const uid, gid uint32 = 0, 0

	clientA, status := reg.RegisterPlain(ctx, "com.example.printer", session, registry.NoSlot, uid, gid)
	if status != registry.StatusOK {
		return fmt.Errorf("register com.example.printer: %s", status)
	}
	fmt.Printf("registered client %d on com.example.printer\n", clientA)

	clientB, status := reg.RegisterPlain(ctx, "com.example.printer.queue", session, registry.NoSlot, uid, gid)
	if status != registry.StatusOK {
		return fmt.Errorf("register com.example.printer.queue: %s", status)
	}
	fmt.Printf("registered client %d on com.example.printer.queue\n", clientB)

	if status := reg.Post(ctx, "com.example.printer", uid, gid); status != registry.StatusOK {
		return fmt.Errorf("post com.example.printer: %s", status)
	}
	fmt.Println("posted to com.example.printer")

	flag, status := reg.Check(ctx, clientA)
	if status != registry.StatusOK {
		return fmt.Errorf("check client %d: %s", clientA, status)
	}
	fmt.Printf("client %d observed change=%d\n\n", clientA, flag)

	fmt.Printf("cancelling session %s\n", session)
	if status := reg.CancelSession(ctx, session); status != registry.StatusOK {
		return fmt.Errorf("cancel_session: %s", status)
	}

	stats := reg.Stats()
	fmt.Printf("registry stats after cancel: names=%d clients=%d\n", stats.Names, stats.Clients)

	return nil
}

// ABOUTME: CLI command for starting the MCP server.
// ABOUTME: Runs a stdio-based MCP server for Claude integration.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/harperreed/vitals/internal/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server",
	Long: `Start the Model Context Protocol (MCP) server for AI assistant integration.

MCP allows AI assistants like Claude to work with your readings through a
standardized protocol. The server communicates via stdin/stdout.

The server loads your records once at startup and works on them in
memory. Changes are written to disk only when the assistant calls
save_records; undo_all discards everything since startup.

CLAUDE DESKTOP CONFIGURATION:

  Add this to your Claude Desktop config (claude_desktop_config.json):

  {
    "mcpServers": {
      "vitals": {
        "command": "vitals",
        "args": ["mcp"]
      }
    }
  }

  On macOS, the config is at:
    ~/Library/Application Support/Claude/claude_desktop_config.json

AVAILABLE TOOLS:

  add_record      Record blood pressure, pulse, and glucose readings
  edit_record     Change or clear measurements on a record
  remove_record   Remove a record by timestamp
  list_records    List records for a day, month, or trailing window
  search_date     Find the record nearest a date
  latest_record   Get the most recent record
  undo_all        Discard all changes made this session
  save_records    Write the session's records and medicines to disk
  list_medicines  List the medicine cabinet
  add_medicine    Add a medicine to the cabinet

AVAILABLE RESOURCES:

  vitals://recent    Recent readings and the medicine cabinet
  vitals://today     Today's readings
  vitals://summary   Latest value per measurement`,
	RunE: func(cmd *cobra.Command, args []string) error {
		server, err := mcp.NewServer(store, cabinet, files)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle shutdown signals
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			<-sigChan
			cancel()
		}()

		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

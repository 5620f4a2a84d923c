package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/tutorbot/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
tutorbot study questions.

By default, the server communicates over stdio using JSON-RPC. Each client
gets its own conversation, so subject switches of one client never affect
another.

Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Several clients sharing one server

Examples:
  # Stdio mode (default, for desktop assistants)
  tutorbot mcp serve

  # HTTP mode
  tutorbot mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "tutorbot": {
        "command": "/path/to/tutorbot",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	ports := &mcp.Ports{
		Sessions:  sessionRegistry,
		Knowledge: knowledgeService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}

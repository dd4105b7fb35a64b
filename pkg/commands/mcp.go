package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"tableflip.dev/medview/pkg/commands/options"
	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/runner/mcp"
)

func addMCP(topLevel *cobra.Command) {
	mo := &options.MCPOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the catalog over the Model Context Protocol.",
		Long: `Launch an MCP server that exposes the navigation tree, the reports and
location rendering. Stdio suits editors and agents that spawn medview
themselves; http serves the streamable HTTP transport.`,
		Example: `
medview mcp
medview mcp --transport http --http-port 0
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			transport, err := mcp.ParseTransport(mo.Transport)
			if err != nil {
				return err
			}
			runner := mcp.Runner{
				Name:      "medview",
				Version:   version,
				Log:       logging.Log,
				Transport: transport,
				In:        cmd.InOrStdin(),
				Out:       cmd.OutOrStdout(),
				Endpoint:  mo.Path,
				TLSCert:   mo.TLSCert,
				TLSKey:    mo.TLSKey,
			}
			if transport == mcp.TransportHTTP {
				if runner.Addr, err = mo.Addr(); err != nil {
					return err
				}
				runner.Ready = func(url string) {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "MCP HTTP server listening on %s\n", url)
				}
			}
			if runner.Viewer, err = boot(cmd, 0); err != nil {
				return err
			}
			return runner.Do(cmd.Context())
		},
	}

	options.AddMCPArgs(cmd, mo)
	topLevel.AddCommand(cmd)
}

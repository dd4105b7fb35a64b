package options

import (
	"fmt"
	"net"
	"strconv"

	"github.com/spf13/cobra"
)

// MCPOptions configure the MCP server transport.
type MCPOptions struct {
	Transport string
	Host      string
	Port      int
	Path      string
	TLSCert   string
	TLSKey    string
}

func AddMCPArgs(cmd *cobra.Command, o *MCPOptions) {
	cmd.Flags().StringVar(&o.Transport, "transport", "stdio",
		"Transport to serve on: stdio or http.")
	cmd.Flags().StringVar(&o.Host, "http-host", "127.0.0.1",
		"Interface the HTTP transport binds to.")
	cmd.Flags().IntVar(&o.Port, "http-port", 8080,
		"Port for the HTTP transport; 0 picks a free one.")
	cmd.Flags().StringVar(&o.Path, "http-path", "/mcp",
		"HTTP endpoint path.")
	cmd.Flags().StringVar(&o.TLSCert, "http-tls-cert", "",
		"TLS certificate file; serves HTTPS together with --http-tls-key.")
	cmd.Flags().StringVar(&o.TLSKey, "http-tls-key", "",
		"TLS private key file.")
}

// Addr joins host and port, rejecting ports outside 0-65535.
func (o *MCPOptions) Addr() (string, error) {
	if o.Port < 0 || o.Port > 65535 {
		return "", fmt.Errorf("invalid --http-port %d", o.Port)
	}
	host := o.Host
	if host == "" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, strconv.Itoa(o.Port)), nil
}

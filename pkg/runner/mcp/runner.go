package mcp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/logging"
)

// Transport selects the mechanism used to expose the MCP server.
type Transport string

const (
	// TransportStdio serves MCP over stdin and stdout.
	TransportStdio Transport = "stdio"
	// TransportHTTP serves MCP via the streamable HTTP transport.
	TransportHTTP Transport = "http"
)

// DefaultEndpoint is the HTTP path the server answers on.
const DefaultEndpoint = "/mcp"

// ParseTransport accepts "stdio" or "http" in any case.
func ParseTransport(s string) (Transport, error) {
	switch t := Transport(strings.ToLower(strings.TrimSpace(s))); t {
	case TransportStdio, TransportHTTP:
		return t, nil
	case "":
		return TransportStdio, nil
	default:
		return "", fmt.Errorf("unsupported transport %q (expected stdio or http)", s)
	}
}

// Runner serves one booted viewer over MCP until ctx ends.
type Runner struct {
	Viewer  *app.Viewer
	Name    string
	Version string
	Log     logrus.FieldLogger

	Transport Transport

	// Stdio streams; default to os.Stdin and os.Stdout.
	In  io.Reader
	Out io.Writer

	// HTTP settings. Ready receives the URL clients should use once the
	// listener is bound.
	Addr     string
	Endpoint string
	TLSCert  string
	TLSKey   string
	Ready    func(url string)
}

// NewServer builds the MCP server with every resource and tool registered.
func NewServer(name, version string, svc *Service) *server.MCPServer {
	srv := server.NewMCPServer(
		name+" MCP",
		version,
		server.WithResourceCapabilities(false, false),
		server.WithToolCapabilities(false),
		server.WithInstructions("Browse a medical record catalog: read the navigation tree, list and fetch reports, and open locations to get their rendered view."),
		server.WithResourceRecovery(),
		server.WithRecovery(),
	)
	registerResources(srv, svc)
	registerTools(srv, svc)
	return srv
}

func (r Runner) Do(ctx context.Context) error {
	if r.Viewer == nil {
		return errors.New("mcp: runner requires a viewer")
	}
	name := r.Name
	if name == "" {
		name = "medview"
	}
	version := r.Version
	if version == "" {
		version = "dev"
	}

	r.Viewer.Start("")
	srv := NewServer(name, version, NewService(r.Viewer))

	transport := r.Transport
	if transport == "" {
		transport = TransportStdio
	}
	log := logging.Or(r.Log).WithField("transport", string(transport))
	log.Info("starting MCP server")

	var err error
	switch transport {
	case TransportStdio:
		err = r.serveStdio(ctx, srv)
	case TransportHTTP:
		err = r.serveHTTP(ctx, srv, log)
	default:
		return fmt.Errorf("mcp: unknown transport %q", transport)
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r Runner) serveStdio(ctx context.Context, srv *server.MCPServer) error {
	in, out := r.In, r.Out
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return server.NewStdioServer(srv).Listen(ctx, in, out)
}

func (r Runner) serveHTTP(ctx context.Context, srv *server.MCPServer, log logrus.FieldLogger) error {
	tls := r.TLSCert != "" || r.TLSKey != ""
	if tls && (r.TLSCert == "" || r.TLSKey == "") {
		return errors.New("mcp: both the tls cert and key must be provided")
	}
	endpoint := NormalizeEndpoint(r.Endpoint)
	addr := r.Addr
	if addr == "" {
		addr = "127.0.0.1:8080"
	}

	mux := http.NewServeMux()
	mux.Handle(endpoint, server.NewStreamableHTTPServer(srv))
	httpSrv := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("mcp: listen on %s: %w", addr, err)
	}
	url := ListenURL(ln.Addr(), tls, endpoint)
	log.WithField("url", url).Info("MCP HTTP server listening")
	if r.Ready != nil {
		r.Ready(url)
	}

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	if tls {
		err = httpSrv.ServeTLS(ln, r.TLSCert, r.TLSKey)
	} else {
		err = httpSrv.Serve(ln)
	}
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// NormalizeEndpoint returns path with a leading slash, or DefaultEndpoint
// when it is blank.
func NormalizeEndpoint(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return DefaultEndpoint
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// ListenURL is the URL a local client reaches a listener on. Unspecified
// hosts are shown as loopback.
func ListenURL(a net.Addr, tls bool, endpoint string) string {
	scheme := "http"
	if tls {
		scheme = "https"
	}
	tcp, ok := a.(*net.TCPAddr)
	if !ok {
		return scheme + "://" + a.String() + endpoint
	}
	host := "127.0.0.1"
	if tcp.IP != nil && !tcp.IP.IsUnspecified() {
		host = tcp.IP.String()
	}
	return scheme + "://" + net.JoinHostPort(host, strconv.Itoa(tcp.Port)) + endpoint
}

package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/logging"
	"tableflip.dev/medview/pkg/store"
)

var collections = map[string]string{
	store.SourceReports: `{"reports":[
		{"id":"R1","category":"imaging","subcategory":"ct","date":"2025-02-01","title":"CT chest","body":"Lungs clear."},
		{"id":"R2","category":"imaging","subcategory":"mri","date":"2024-11-12","title":"MRI knee","body":"Small effusion."},
		{"id":"R42","category":"archive","date":"2019","title":"Letter","body":"Old letter."}
	]}`,
	store.SourceBPWeight:    `[]`,
	store.SourceMedications: `{"events":[]}`,
	store.SourcePatient:     `{"name":"Alex Doe"}`,
}

func newViewer(t *testing.T) *app.Viewer {
	t.Helper()
	src := store.SourceFunc(func(_ context.Context, name string) ([]byte, error) {
		if body, ok := collections[name]; ok {
			return []byte(body), nil
		}
		return nil, fmt.Errorf("%s: not found", name)
	})
	v, err := app.BootFrom(context.Background(), &app.Config{}, src, logging.Discard())
	if err != nil {
		t.Fatalf("boot: %v", err)
	}
	v.Start("")
	return v
}

func TestServiceNavigate(t *testing.T) {
	svc := NewService(newViewer(t))
	res, err := svc.Navigate(context.Background(), "imaging/ct/R1")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if res.Path != "#imaging/ct/R1" || res.Outcome != "rendered" || res.Title != "CT chest" {
		t.Fatalf("unexpected result %+v", res)
	}
	if !strings.Contains(res.Body, "Lungs clear.") {
		t.Fatalf("expected report body, got %q", res.Body)
	}
}

func TestServiceNavigateUnknownGoesHome(t *testing.T) {
	svc := NewService(newViewer(t))
	res, err := svc.Navigate(context.Background(), "#nowhere")
	if err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	if res.Path != "#home" || res.Title != "Overview" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestServiceNavReflectsLocation(t *testing.T) {
	svc := NewService(newViewer(t))
	if _, err := svc.Navigate(context.Background(), "#archive/R42"); err != nil {
		t.Fatalf("Navigate failed: %v", err)
	}
	nodes, err := svc.Nav(context.Background())
	if err != nil {
		t.Fatalf("Nav failed: %v", err)
	}
	var archive *NodeDTO
	for i := range nodes {
		if nodes[i].Key == "archive" {
			archive = &nodes[i]
		}
	}
	if archive == nil || !archive.Expanded || len(archive.Children) != 1 {
		t.Fatalf("unexpected archive node %+v", archive)
	}
	if leaf := archive.Children[0]; !leaf.Active || leaf.Route != "#archive/R42" {
		t.Fatalf("unexpected leaf %+v", leaf)
	}
}

func TestServiceListReports(t *testing.T) {
	svc := NewService(newViewer(t))
	reports, err := svc.ListReports(context.Background(), "imaging", "")
	if err != nil {
		t.Fatalf("ListReports failed: %v", err)
	}
	if len(reports) != 2 || reports[0].ID != "R1" || reports[1].ID != "R2" {
		t.Fatalf("unexpected reports %+v", reports)
	}
	if reports[0].Body != "" || reports[0].Link != "#imaging/ct/R1" {
		t.Fatalf("unexpected projection %+v", reports[0])
	}
	if _, err := svc.ListReports(context.Background(), "", "ct"); err == nil {
		t.Fatalf("expected error for subcategory without category")
	}
}

func TestServiceReport(t *testing.T) {
	svc := NewService(newViewer(t))
	dto, err := svc.Report(context.Background(), "R42")
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if dto.Body != "Old letter." || dto.Link != "#archive/R42" {
		t.Fatalf("unexpected report %+v", dto)
	}
	if _, err := svc.Report(context.Background(), "R404"); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
}

func TestServiceSources(t *testing.T) {
	svc := NewService(newViewer(t))
	sources, err := svc.Sources(context.Background())
	if err != nil {
		t.Fatalf("Sources failed: %v", err)
	}
	failed := 0
	for _, s := range sources {
		if s.Status == string(store.StatusFailed) {
			failed++
			if s.Name != store.SourceBloodwork || s.Error == "" {
				t.Fatalf("unexpected failed source %+v", s)
			}
		}
	}
	if failed != 1 {
		t.Fatalf("expected one failed source, got %d", failed)
	}
}

func textOf(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatalf("empty result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return text.Text
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{Params: mcp.CallToolParams{Name: name, Arguments: args}}
}

func TestNavigateTool(t *testing.T) {
	svc := NewService(newViewer(t))
	res, err := navigateHandler(svc)(context.Background(), callTool("navigate", map[string]any{"path": "#imaging/mri/R2"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected tool error: %s", textOf(t, res))
	}
	var got NavigateResult
	if err := json.Unmarshal([]byte(textOf(t, res)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Title != "MRI knee" || got.Renderer != "ReportViewer" {
		t.Fatalf("unexpected result %+v", got)
	}

	res, _ = navigateHandler(svc)(context.Background(), callTool("navigate", map[string]any{}))
	if !res.IsError {
		t.Fatalf("expected error without path")
	}
}

func TestGetReportToolNotFound(t *testing.T) {
	svc := NewService(newViewer(t))
	res, err := getReportHandler(svc)(context.Background(), callTool("get_report", map[string]any{"id": "nope"}))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	if !res.IsError || !strings.Contains(textOf(t, res), `"nope"`) {
		t.Fatalf("expected not found error, got %+v", res)
	}
}

func TestReportResource(t *testing.T) {
	svc := NewService(newViewer(t))
	req := mcp.ReadResourceRequest{Params: mcp.ReadResourceParams{
		URI:       "medview://reports/R1",
		Arguments: map[string]any{"id": []string{"R1"}},
	}}
	contents, err := reportHandler(svc)(context.Background(), req)
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := contents[0].(mcp.TextResourceContents).Text
	if !strings.Contains(text, `"link":"#imaging/ct/R1"`) {
		t.Fatalf("unexpected payload %s", text)
	}
}

func TestRunnerHTTPStopsWithContext(t *testing.T) {
	v := newViewer(t)
	ctx, cancel := context.WithCancel(context.Background())
	listening := make(chan string, 1)
	done := make(chan error, 1)
	go func() {
		done <- Runner{
			Viewer:    v,
			Log:       logging.Discard(),
			Transport: TransportHTTP,
			Addr:      "127.0.0.1:0",
			Endpoint:  "tools",
			Ready:     func(url string) { listening <- url },
		}.Do(ctx)
	}()

	select {
	case url := <-listening:
		if !strings.HasPrefix(url, "http://127.0.0.1:") || !strings.HasSuffix(url, "/tools") {
			t.Errorf("url = %q", url)
		}
	case err := <-done:
		t.Fatalf("runner exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatalf("runner did not start listening")
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatalf("runner did not stop")
	}
}

func TestRunnerStdioAnswersInitialize(t *testing.T) {
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"test","version":"1"}}}` + "\n")
	var out bytes.Buffer
	err := Runner{
		Viewer:    newViewer(t),
		Name:      "medview",
		Version:   "v1.2.3",
		Log:       logging.Discard(),
		Transport: TransportStdio,
		In:        in,
		Out:       &out,
	}.Do(context.Background())
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !strings.Contains(out.String(), `"name":"medview MCP"`) || !strings.Contains(out.String(), `"version":"v1.2.3"`) {
		t.Fatalf("unexpected response %s", out.String())
	}
}

func TestParseTransport(t *testing.T) {
	for in, want := range map[string]Transport{"": TransportStdio, "STDIO": TransportStdio, " http ": TransportHTTP} {
		got, err := ParseTransport(in)
		if err != nil || got != want {
			t.Errorf("ParseTransport(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseTransport("grpc"); err == nil {
		t.Error("expected an error for grpc")
	}
}

func TestListenURL(t *testing.T) {
	tests := map[string]struct {
		addr net.Addr
		tls  bool
		want string
	}{
		"loopback": {
			addr: &net.TCPAddr{IP: net.ParseIP("127.0.0.1"), Port: 9000},
			want: "http://127.0.0.1:9000/mcp",
		},
		"unspecified": {
			addr: &net.TCPAddr{IP: net.IPv4zero, Port: 9000},
			want: "http://127.0.0.1:9000/mcp",
		},
		"ipv6 tls": {
			addr: &net.TCPAddr{IP: net.ParseIP("::1"), Port: 443},
			tls:  true,
			want: "https://[::1]:443/mcp",
		},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := ListenURL(tc.addr, tc.tls, NormalizeEndpoint("")); got != tc.want {
				t.Errorf("ListenURL = %q, want %q", got, tc.want)
			}
		})
	}
}

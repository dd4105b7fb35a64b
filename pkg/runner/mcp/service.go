// Package mcp provides the Model Context Protocol server integration for medview.
package mcp

import (
	"context"
	"errors"
	"strings"
	"sync"

	"tableflip.dev/medview/pkg/app"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/record"
)

// ErrReportNotFound is returned when no report has the requested id.
var ErrReportNotFound = errors.New("report not found")

// Service answers MCP requests against a booted viewer. Calls are serialised
// so the router only ever has one caller.
type Service struct {
	mu     sync.Mutex
	viewer *app.Viewer
}

// NodeDTO is a nav node with its synced flags.
type NodeDTO struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     string    `json:"kind"`
	Route    string    `json:"route"`
	ReportID string    `json:"reportId,omitempty"`
	Date     string    `json:"date,omitempty"`
	Active   bool      `json:"active,omitempty"`
	Expanded bool      `json:"expanded,omitempty"`
	Children []NodeDTO `json:"children,omitempty"`
}

// SourceDTO is the load status of one collection.
type SourceDTO struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ReportDTO is a report with the location that shows it.
type ReportDTO struct {
	record.Report
	Link string `json:"link,omitempty"`
}

// NavigateResult is what a navigation settled on.
type NavigateResult struct {
	Path     string   `json:"path"`
	Route    string   `json:"route"`
	Outcome  string   `json:"outcome"`
	Renderer string   `json:"renderer,omitempty"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	History  []string `json:"history"`
}

// NewService wraps v.
func NewService(v *app.Viewer) *Service {
	return &Service{viewer: v}
}

// Navigate routes to path and returns the rendered pane.
func (s *Service) Navigate(ctx context.Context, path string) (*NavigateResult, error) {
	if s.viewer == nil {
		return nil, errors.New("viewer is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.viewer.Visit(strings.TrimSpace(path))
	return &NavigateResult{
		Path:     s.viewer.Location.Path(),
		Route:    res.Route.String(),
		Outcome:  res.Outcome.String(),
		Renderer: res.Decision.Renderer,
		Title:    s.viewer.Pane.Title(),
		Body:     s.viewer.Pane.Body(),
		History:  s.viewer.Location.History(),
	}, nil
}

// Nav returns the nav tree with the flags of the current location.
func (s *Service) Nav(ctx context.Context) ([]NodeDTO, error) {
	if s.viewer == nil {
		return nil, errors.New("viewer is not configured")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, state := s.viewer.Tree, s.viewer.State
	var build func(ids []nav.NodeID) []NodeDTO
	build = func(ids []nav.NodeID) []NodeDTO {
		out := make([]NodeDTO, 0, len(ids))
		for _, id := range ids {
			n := tree.Node(id)
			out = append(out, NodeDTO{
				Key:      n.Key,
				Label:    n.Label,
				Kind:     n.Kind.String(),
				Route:    n.Route.String(),
				ReportID: n.ReportID,
				Date:     n.Date,
				Active:   state.IsActive(n),
				Expanded: state.IsExpanded(n),
				Children: build(n.Children),
			})
		}
		return out
	}
	return build(tree.Roots), nil
}

// Sources reports the load status of every collection.
func (s *Service) Sources(ctx context.Context) ([]SourceDTO, error) {
	if s.viewer == nil {
		return nil, errors.New("viewer is not configured")
	}
	slots := s.viewer.Data.Slots()
	out := make([]SourceDTO, 0, len(slots))
	for _, slot := range slots {
		dto := SourceDTO{Name: slot.Name, Status: string(slot.Status())}
		if slot.Err != nil {
			dto.Error = slot.Err.Error()
		}
		out = append(out, dto)
	}
	return out, nil
}

// ListReports returns reports newest first, optionally limited to a
// category and subcategory.
func (s *Service) ListReports(ctx context.Context, category, subcategory string) ([]ReportDTO, error) {
	if s.viewer == nil {
		return nil, errors.New("viewer is not configured")
	}
	if category == "" && subcategory != "" {
		return nil, errors.New("subcategory requires a category")
	}
	reports := s.viewer.Reports(strings.TrimSpace(category), strings.TrimSpace(subcategory))
	out := make([]ReportDTO, 0, len(reports))
	for _, r := range reports {
		r.Body = ""
		out = append(out, ReportDTO{Report: r, Link: s.viewer.Link(r.ID)})
	}
	return out, nil
}

// Report returns one report by id.
func (s *Service) Report(ctx context.Context, id string) (*ReportDTO, error) {
	if s.viewer == nil {
		return nil, errors.New("viewer is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("id is required")
	}
	r, ok := s.viewer.Lookup.Get(id)
	if !ok {
		return nil, ErrReportNotFound
	}
	return &ReportDTO{Report: r, Link: s.viewer.Link(r.ID)}, nil
}

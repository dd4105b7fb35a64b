package renderers

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/termenv"

	"tableflip.dev/medview/pkg/catalog"
	"tableflip.dev/medview/pkg/nav"
	"tableflip.dev/medview/pkg/store"
	"tableflip.dev/medview/pkg/view"
)

const reportsJSON = `{"reports":[
 {"id":"R1","category":"imaging","subcategory":"ct","date":"2025-02-01","title":"CT chest","summary":"No acute findings.","body":"## Findings\n\nLungs clear.\n\n## Impression\n\nStable appearance.","facility":"City Hospital","images":["r1-axial.png"]},
 {"id":"R2","category":"imaging","subcategory":"xray","date":"2023","title":"Chest X-ray"},
 {"id":"R42","category":"archive","date":"2019-06","title":"Discharge letter"}
]}`

func fixture(t *testing.T, payloads map[string][]byte) Data {
	t.Helper()
	data := store.NewAppData(store.DefaultSources(), payloads)
	reports, err := data.Reports()
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	idx := catalog.Group(reports)
	return Data{
		Store:  data,
		Index:  idx,
		Lookup: catalog.NewLookup(reports),
		Tree:   nav.Build(nav.DefaultSections(), idx),
	}
}

func fullFixture(t *testing.T) Data {
	return fixture(t, map[string][]byte{
		store.SourceReports:     []byte(reportsJSON),
		store.SourceBloodwork:   []byte(`[{"date":"2024-01-10","name":"CBC","results":[{"test":"Hb","value":15}]},{"date":"2025-03-02","name":"Lipids","results":[{"test":"LDL","value":4.2,"unit":"mmol/L","range":"<3.0","flag":"H"},{"test":"HDL","value":1.4,"unit":"mmol/L"}]}]`),
		store.SourceBPWeight:    []byte(`{"readings":[{"date":"2025-01-01","systolic":118,"diastolic":76,"weight":82.5},{"date":"2025-02-01","systolic":142,"diastolic":91,"pulse":70,"weight":81}]}`),
		store.SourceMedications: []byte(`{"events":[{"date":"2023-04","drug":"Ramipril","dose":"2.5 mg","action":"start"},{"date":"2024-01-05","drug":"ramipril","dose":"5 mg","action":"change"},{"date":"2022","drug":"Amoxicillin","dose":"500 mg","action":"start"},{"date":"2022-02","drug":"Amoxicillin","action":"stop","note":"course complete"}]}`),
		store.SourcePatient:     []byte(`{"name":"Alex Doe","born":"1970-05-12","conditions":["Hypertension"],"summary":"Routine follow up of blood pressure with periodic imaging of the chest."}`),
	})
}

var plain = Options{Profile: termenv.Ascii}

func render(t *testing.T, r view.Renderer, params view.Params) *view.Pane {
	t.Helper()
	pane := view.NewPane(60)
	if err := r.Render(pane, params); err != nil {
		t.Fatalf("render: %v", err)
	}
	return pane
}

func TestRegisterSkipsDisabled(t *testing.T) {
	reg := view.NewRegistry()
	added := Register(reg, fullFixture(t), Options{Disabled: []string{view.BloodWork, " Medication "}})
	want := []string{view.Overview, view.ReportViewer, view.BPWeightTracker}
	if diff := cmp.Diff(want, added); diff != "" {
		t.Fatalf("unexpected renderers (-want +got):\n%s", diff)
	}
	if _, ok := reg.Lookup(view.BloodWork); ok {
		t.Fatalf("disabled renderer registered")
	}
}

func TestOverview(t *testing.T) {
	data := fullFixture(t)
	pane := render(t, NewOverview(data, plain), view.Params{})
	body := pane.Body()
	for _, want := range []string{"Alex Doe", "12 May 1970", "Hypertension", "reportsIndex", "#imaging/ct/R1", "#archive/R42"} {
		if !strings.Contains(body, want) {
			t.Fatalf("overview missing %q:\n%s", want, body)
		}
	}
	if strings.Index(body, "CT chest") > strings.Index(body, "Chest X-ray") {
		t.Fatalf("latest reports should be newest first:\n%s", body)
	}
}

func TestOverviewShowsFailedCollections(t *testing.T) {
	data := fixture(t, map[string][]byte{store.SourceReports: []byte(`[]`)})
	body := render(t, NewOverview(data, plain), view.Params{}).Body()
	if !strings.Contains(body, "Patient profile unavailable") {
		t.Fatalf("expected missing patient notice:\n%s", body)
	}
	var statusLine string
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "bloodwork") {
			statusLine = line
		}
	}
	if !strings.Contains(statusLine, "failed") {
		t.Fatalf("expected failed status:\n%s", body)
	}
	if !strings.Contains(body, "No reports.") {
		t.Fatalf("expected empty report list:\n%s", body)
	}
}

func TestReportViewer(t *testing.T) {
	pane := render(t, NewReportViewer(fullFixture(t), plain), view.Params{ID: "R1"})
	if pane.Title() != "CT chest" {
		t.Fatalf("unexpected title %q", pane.Title())
	}
	for _, want := range []string{"City Hospital", "1 Feb 2025", "imaging / ct", "Lungs clear", "Stable appearance", "No acute findings", "r1-axial.png"} {
		if !strings.Contains(pane.Body(), want) {
			t.Fatalf("report missing %q:\n%s", want, pane.Body())
		}
	}
}

func TestReportViewerNotFound(t *testing.T) {
	pane := render(t, NewReportViewer(fullFixture(t), plain), view.Params{ID: "nope"})
	if pane.Title() != "Report not found" || !strings.Contains(pane.Body(), `"nope"`) {
		t.Fatalf("unexpected pane %q", pane.String())
	}
}

func TestBloodWork(t *testing.T) {
	body := render(t, NewBloodWork(fullFixture(t), plain), view.Params{}).Body()
	if strings.Index(body, "Lipids") > strings.Index(body, "CBC") {
		t.Fatalf("panels should be newest first:\n%s", body)
	}
	if !strings.Contains(body, "1 of 2 results flagged") || !strings.Contains(body, "4.2 mmol/L") {
		t.Fatalf("unexpected bloodwork:\n%s", body)
	}
}

func TestBloodWorkUnavailableAndMalformed(t *testing.T) {
	body := render(t, NewBloodWork(fixture(t, nil), plain), view.Params{}).Body()
	if !strings.Contains(body, "unavailable") {
		t.Fatalf("expected unavailable notice:\n%s", body)
	}

	data := fixture(t, map[string][]byte{store.SourceBloodwork: []byte(`{"count":1}`)})
	err := NewBloodWork(data, plain).Render(view.NewPane(60), view.Params{})
	if !errors.Is(err, store.ErrShape) {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestBPWeightTracker(t *testing.T) {
	body := render(t, NewBPWeightTracker(fullFixture(t), plain), view.Params{}).Body()
	for _, want := range []string{"142/91", PressureStage2, PressureNormal, "Weight change: -1.5 kg", "130.0"} {
		if !strings.Contains(body, want) {
			t.Fatalf("tracker missing %q:\n%s", want, body)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		sys, dia int
		want     string
	}{
		{110, 70, PressureNormal},
		{124, 70, PressureElevated},
		{124, 82, PressureStage1},
		{150, 85, PressureStage2},
		{185, 100, PressureCrisis},
		{130, 125, PressureCrisis},
	}
	last := -1.0
	for _, tt := range tests[:5] {
		got, severity := Classify(tt.sys, tt.dia)
		if got != tt.want {
			t.Fatalf("Classify(%d, %d) = %s, want %s", tt.sys, tt.dia, got, tt.want)
		}
		if severity <= last {
			t.Fatalf("severity should grow with category, got %v after %v", severity, last)
		}
		last = severity
	}
	if got, _ := Classify(tests[5].sys, tests[5].dia); got != tests[5].want {
		t.Fatalf("diastolic crisis not detected: %s", got)
	}
}

func TestMedication(t *testing.T) {
	body := render(t, NewMedication(fullFixture(t), plain), view.Params{}).Body()
	current := body[:strings.Index(body, "History")]
	if !strings.Contains(current, "Ramipril") || !strings.Contains(current, "5 mg") || strings.Contains(current, "Amoxicillin") {
		t.Fatalf("unexpected current list:\n%s", current)
	}
	if !strings.Contains(body, "Amoxicillin (stopped)") || !strings.Contains(body, "course complete") {
		t.Fatalf("unexpected history:\n%s", body)
	}
}

func TestCourses(t *testing.T) {
	courses := Courses(nil)
	if len(courses) != 0 {
		t.Fatalf("expected no courses")
	}
	data := fullFixture(t)
	events, _ := data.Store.MedicationEvents()
	courses = Courses(events)
	if len(courses) != 2 || courses[0].Drug != "Amoxicillin" || courses[1].Drug != "Ramipril" {
		t.Fatalf("unexpected courses %+v", courses)
	}
	if courses[1].Since() != "2023-04" || !courses[1].Active() || courses[0].Active() {
		t.Fatalf("unexpected course state %+v", courses[1])
	}
}

func TestWrapHonoursWidth(t *testing.T) {
	text := strings.Repeat("periodic imaging ", 20)
	for _, line := range strings.Split(wrap(30, text), "\n") {
		if w := ansi.PrintableRuneWidth(line); w > 30 {
			t.Fatalf("line wider than 30: %d %q", w, line)
		}
	}
	if wrap(0, text) != text {
		t.Fatalf("zero width must not wrap")
	}
}

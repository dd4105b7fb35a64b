package renderers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/gosuri/uitable"
	colorful "github.com/lucasb-eyer/go-colorful"

	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/view"
)

// Pressure categories, mildest first.
const (
	PressureNormal   = "normal"
	PressureElevated = "elevated"
	PressureStage1   = "stage 1"
	PressureStage2   = "stage 2"
	PressureCrisis   = "crisis"
)

// Classify returns the blood pressure category of a reading and its
// severity between 0 and 1.
func Classify(systolic, diastolic int) (string, float64) {
	switch {
	case systolic > 180 || diastolic > 120:
		return PressureCrisis, 1
	case systolic >= 140 || diastolic >= 90:
		return PressureStage2, 0.75
	case systolic >= 130 || diastolic >= 80:
		return PressureStage1, 0.5
	case systolic >= 120:
		return PressureElevated, 0.25
	default:
		return PressureNormal, 0
	}
}

var (
	calm, _  = colorful.Hex("#2ea043")
	alarm, _ = colorful.Hex("#da3633")
)

// BPWeightTrackerRenderer shows blood pressure and weight readings.
type BPWeightTrackerRenderer struct {
	data Data
	opts Options
}

// NewBPWeightTracker returns the blood pressure and weight view.
func NewBPWeightTracker(data Data, opts Options) *BPWeightTrackerRenderer {
	return &BPWeightTrackerRenderer{data: data, opts: opts}
}

// Render implements view.Renderer.
func (v *BPWeightTrackerRenderer) Render(target view.Target, _ view.Params) error {
	readings, err := v.data.Store.Readings()
	if err != nil {
		return err
	}
	title := "Blood pressure & weight"
	if readings == nil {
		target.Reset(title)
		target.Write("Blood pressure and weight data unavailable.\n")
		return nil
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return record.Newer(readings[i].Date, readings[j].Date)
	})

	var b strings.Builder
	b.WriteString(heading("Summary"))
	b.WriteString(summarize(readings))

	bold := v.opts.paint(colorBold...)
	b.WriteString("\n")
	b.WriteString(heading("Readings"))
	if len(readings) == 0 {
		b.WriteString("No readings recorded.\n")
	} else {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.AddRow(bold.Sprint("Date"), bold.Sprint("BP"), bold.Sprint("Pulse"), bold.Sprint("Weight"), bold.Sprint("Category"))
		for _, r := range readings {
			bp, category := "", ""
			if r.HasPressure() {
				bp = fmt.Sprintf("%d/%d", r.Systolic, r.Diastolic)
				label, severity := Classify(r.Systolic, r.Diastolic)
				category = v.severity(label, severity)
			}
			tbl.AddRow(record.FormatDate(r.Date), bp, optionalInt(r.Pulse), optionalWeight(r.Weight), category)
		}
		tbl.RightAlign(1)
		b.WriteString(tbl.String())
		b.WriteString("\n")
	}

	target.Reset(title)
	target.Write(b.String())
	return nil
}

// severity colours label on a green to red scale.
func (v *BPWeightTrackerRenderer) severity(label string, t float64) string {
	if !v.opts.colored() {
		return label
	}
	hex := calm.BlendLab(alarm, t).Clamped().Hex()
	p := v.opts.Profile
	return p.String(label).Foreground(p.Color(hex)).String()
}

type stat struct {
	n             int
	min, max, sum float64
}

func (s *stat) add(v float64) {
	if s.n == 0 || v < s.min {
		s.min = v
	}
	if s.n == 0 || v > s.max {
		s.max = v
	}
	s.sum += v
	s.n++
}

func (s stat) row(name, unit string) []interface{} {
	if s.n == 0 {
		return []interface{}{name, "-", "-", "-"}
	}
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + unit }
	return []interface{}{name, f(s.min), f(s.sum / float64(s.n)), f(s.max)}
}

// summarize reports min, average and max over readings, which are sorted
// newest first.
func summarize(readings []record.Reading) string {
	var sys, dia, pulse, weight stat
	var firstWeight, lastWeight float64
	for _, r := range readings {
		if r.HasPressure() {
			sys.add(float64(r.Systolic))
			dia.add(float64(r.Diastolic))
		}
		if r.Pulse > 0 {
			pulse.add(float64(r.Pulse))
		}
		if r.Weight > 0 {
			if weight.n == 0 {
				lastWeight = r.Weight
			}
			firstWeight = r.Weight
			weight.add(r.Weight)
		}
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", "min", "avg", "max")
	tbl.AddRow(sys.row("Systolic", "")...)
	tbl.AddRow(dia.row("Diastolic", "")...)
	tbl.AddRow(pulse.row("Pulse", "")...)
	tbl.AddRow(weight.row("Weight", " kg")...)
	out := tbl.String() + "\n"
	if weight.n > 1 {
		out += fmt.Sprintf("Weight change: %+.1f kg\n", lastWeight-firstWeight)
	}
	return out
}

func optionalInt(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}

func optionalWeight(v float64) string {
	if v == 0 {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + " kg"
}

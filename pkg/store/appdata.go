package store

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"tableflip.dev/medview/pkg/record"
)

// Status is the outcome of loading one collection.
type Status string

const (
	// StatusOK means the payload loaded and parsed as JSON.
	StatusOK Status = "ok"
	// StatusFailed means the slot is nil; Err holds the cause.
	StatusFailed Status = "failed"
	// StatusUnknown means the collection was never requested.
	StatusUnknown Status = "unknown"
)

// Slot is the loaded payload of one collection, or the failure that left it
// empty.
type Slot struct {
	Name    string
	Payload json.RawMessage
	Err     error
}

// Status returns the slot status.
func (s Slot) Status() Status {
	if s.Err != nil || s.Payload == nil {
		return StatusFailed
	}
	return StatusOK
}

// AppData is the session store: one slot per collection, filled once by
// Loader.LoadAll and read-only afterwards. A failed collection has a nil
// payload, never a partial one.
type AppData struct {
	slots []Slot
	index map[string]int
}

// NewAppData builds a store from ready payloads; a nil value marks a failed
// collection. Names are kept in the order given.
func NewAppData(names []string, payloads map[string][]byte) *AppData {
	slots := make([]Slot, 0, len(names))
	for _, name := range names {
		raw, ok := payloads[name]
		slot := Slot{Name: name}
		switch {
		case !ok || raw == nil:
			slot.Err = fmt.Errorf("store: %s not loaded", name)
		case !gjson.ValidBytes(raw):
			slot.Err = fmt.Errorf("store: %s: %w", name, ErrMalformed)
		default:
			slot.Payload = json.RawMessage(raw)
		}
		slots = append(slots, slot)
	}
	return newAppData(slots)
}

func newAppData(slots []Slot) *AppData {
	d := &AppData{slots: slots, index: make(map[string]int, len(slots))}
	for i, s := range slots {
		d.index[s.Name] = i
	}
	return d
}

// Names returns the collection names in load order.
func (d *AppData) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.slots))
	for _, s := range d.slots {
		names = append(names, s.Name)
	}
	return names
}

// Slots returns a copy of every slot.
func (d *AppData) Slots() []Slot {
	if d == nil {
		return nil
	}
	return append([]Slot(nil), d.slots...)
}

// Payload returns the raw payload for name, or nil if it failed or is unknown.
func (d *AppData) Payload(name string) json.RawMessage {
	if d == nil {
		return nil
	}
	i, ok := d.index[name]
	if !ok || d.slots[i].Payload == nil {
		return nil
	}
	out := make(json.RawMessage, len(d.slots[i].Payload))
	copy(out, d.slots[i].Payload)
	return out
}

// Status reports how name loaded, with the recorded error for failures.
func (d *AppData) Status(name string) (Status, error) {
	if d == nil {
		return StatusUnknown, nil
	}
	i, ok := d.index[name]
	if !ok {
		return StatusUnknown, nil
	}
	return d.slots[i].Status(), d.slots[i].Err
}

// Loaded returns the names that loaded successfully.
func (d *AppData) Loaded() []string {
	return d.filter(StatusOK)
}

// Failed returns the names whose slot is nil.
func (d *AppData) Failed() []string {
	return d.filter(StatusFailed)
}

func (d *AppData) filter(want Status) []string {
	if d == nil {
		return nil
	}
	var out []string
	for _, s := range d.slots {
		if s.Status() == want {
			out = append(out, s.Name)
		}
	}
	return out
}

// Reports decodes the reports collection. A failed collection yields nil
// without error.
func (d *AppData) Reports() ([]record.Report, error) {
	var out []record.Report
	err := d.decodeList(SourceReports, &out, "reports", "items", "records")
	return out, err
}

// LabPanels decodes the bloodwork collection.
func (d *AppData) LabPanels() ([]record.LabPanel, error) {
	var out []record.LabPanel
	err := d.decodeList(SourceBloodwork, &out, "panels", "results")
	return out, err
}

// Readings decodes the blood pressure and weight collection.
func (d *AppData) Readings() ([]record.Reading, error) {
	var out []record.Reading
	err := d.decodeList(SourceBPWeight, &out, "readings", "measurements")
	return out, err
}

// MedicationEvents decodes the medications collection.
func (d *AppData) MedicationEvents() ([]record.MedicationEvent, error) {
	var out []record.MedicationEvent
	err := d.decodeList(SourceMedications, &out, "events", "medications")
	return out, err
}

// Patient decodes the patient profile. It returns nil when the collection
// failed to load.
func (d *AppData) Patient() (*record.Patient, error) {
	raw := d.Payload(SourcePatient)
	if raw == nil {
		return nil, nil
	}
	doc := gjson.ParseBytes(raw)
	if nested := doc.Get("patient"); nested.IsObject() {
		doc = nested
	}
	if !doc.IsObject() {
		return nil, fmt.Errorf("store: %s: %w", SourcePatient, ErrShape)
	}
	p := &record.Patient{}
	if err := json.Unmarshal([]byte(doc.Raw), p); err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", SourcePatient, err)
	}
	return p, nil
}

func (d *AppData) decodeList(name string, target any, keys ...string) error {
	raw := d.Payload(name)
	if raw == nil {
		return nil
	}
	list, ok := ListJSON(raw, keys...)
	if !ok {
		return fmt.Errorf("store: %s: %w", name, ErrShape)
	}
	if err := json.Unmarshal([]byte(list), target); err != nil {
		return fmt.Errorf("store: decode %s: %w", name, err)
	}
	return nil
}

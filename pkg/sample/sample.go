// Package sample provides a small fictional catalog for trying medview out.
package sample

import (
	"context"
	"encoding/json"
	"fmt"

	"tableflip.dev/medview/pkg/record"
	"tableflip.dev/medview/pkg/store"
)

// Reports returns the sample reports. One carries an undeclared imaging
// subcategory and one has no category match in the default sections.
func Reports() []record.Report {
	return []record.Report{
		{
			ID: "R1", Category: "imaging", Subcategory: "ct", Date: "2025-02-01",
			Title: "CT chest", Facility: "City Hospital", Physician: "Dr. Ortiz",
			Summary: "No acute cardiopulmonary findings.",
			Body:    "## Findings\n\nLungs are clear. No effusion.\n\n## Impression\n\nStable appearance compared with 2023.",
			Tags:    []string{"follow-up"},
			Images:  []string{"r1-axial.png", "r1-coronal.png"},
		},
		{
			ID: "R2", Category: "imaging", Subcategory: "ct", Date: "2023-03",
			Title: "CT chest", Facility: "City Hospital",
			Body: "Small nodule in the right upper lobe, 4 mm. Follow up in 24 months.",
		},
		{
			ID: "R3", Category: "imaging", Subcategory: "mri", Date: "2024-11-12",
			Title: "MRI left knee", Facility: "Northside Imaging", Physician: "Dr. Lee",
			Body: "Small joint effusion. Menisci intact.",
		},
		{
			ID: "R4", Category: "imaging", Subcategory: "xray", Date: "2022",
			Title: "Chest X-ray",
			Body:  "No focal consolidation.",
		},
		{
			ID: "R5", Category: "imaging", Subcategory: "pet", Date: "2021-08-30",
			Title: "PET-CT",
			Body:  "Filed under a subcategory the navigation does not list.",
		},
		{
			ID: "P1", Category: "pathology", Subcategory: "biopsy", Date: "2024-08-08",
			Title: "Skin biopsy, left forearm", Physician: "Dr. Patel",
			Summary: "Benign seborrhoeic keratosis.",
			Body:    "Sections show a benign epidermal proliferation. Margins clear.",
		},
		{
			ID: "R42", Category: "archive", Date: "2019-06",
			Title: "Discharge letter", Facility: "General Hospital",
			Body: "Admitted for observation after a fall. Discharged the next day.",
		},
		{
			ID: "R43", Category: "archive", Subcategory: "letters", Date: "2018",
			Title: "Referral letter",
		},
	}
}

// LabPanels returns the sample bloodwork.
func LabPanels() []record.LabPanel {
	return []record.LabPanel{
		{Date: "2024-01-10", Name: "Full blood count", Results: []record.LabResult{
			{Test: "Haemoglobin", Value: 148, Unit: "g/L", Range: "130-175"},
			{Test: "White cells", Value: 6.1, Unit: "10^9/L", Range: "4.0-11.0"},
		}},
		{Date: "2025-03-02", Name: "Lipids", Results: []record.LabResult{
			{Test: "LDL", Value: 4.2, Unit: "mmol/L", Range: "<3.0", Flag: "H"},
			{Test: "HDL", Value: 1.4, Unit: "mmol/L", Range: ">1.0"},
			{Test: "Triglycerides", Value: 1.6, Unit: "mmol/L", Range: "<1.7", Flag: "N"},
		}},
	}
}

// Readings returns the sample blood pressure and weight log.
func Readings() []record.Reading {
	return []record.Reading{
		{Date: "2025-01-01", Systolic: 118, Diastolic: 76, Pulse: 64, Weight: 82.5},
		{Date: "2025-01-15", Systolic: 131, Diastolic: 84, Pulse: 70, Weight: 82.1},
		{Date: "2025-02-01", Systolic: 142, Diastolic: 91, Pulse: 72, Weight: 81.0},
		{Date: "2025-02-15", Weight: 80.6},
	}
}

// MedicationEvents returns the sample medication history.
func MedicationEvents() []record.MedicationEvent {
	return []record.MedicationEvent{
		{Date: "2023-04", Drug: "Ramipril", Dose: "2.5 mg", Action: record.ActionStart},
		{Date: "2024-01-05", Drug: "Ramipril", Dose: "5 mg", Action: record.ActionChange, Note: "BP above target"},
		{Date: "2022", Drug: "Amoxicillin", Dose: "500 mg", Action: record.ActionStart},
		{Date: "2022-02", Drug: "Amoxicillin", Action: record.ActionStop, Note: "course complete"},
		{Date: "2025-03-10", Drug: "Atorvastatin", Dose: "20 mg", Action: record.ActionStart},
	}
}

// Patient returns the sample patient.
func Patient() record.Patient {
	return record.Patient{
		Name:       "Alex Doe",
		Born:       "1970-05-12",
		Summary:    "Routine follow up of blood pressure and lipids with periodic chest imaging.",
		Conditions: []string{"Hypertension", "Hyperlipidaemia"},
		Allergies:  []string{"Penicillin (rash)"},
	}
}

// Collections returns every sample collection keyed by its source name, in
// the object shapes the loader accepts.
func Collections() map[string]any {
	return map[string]any{
		store.SourceReports:     map[string]any{"reports": Reports()},
		store.SourceBloodwork:   map[string]any{"panels": LabPanels()},
		store.SourceBPWeight:    Readings(),
		store.SourceMedications: map[string]any{"events": MedicationEvents()},
		store.SourcePatient:     map[string]any{"patient": Patient()},
	}
}

// Write stores the sample catalog in dir and returns the collections written.
func Write(dir string) ([]string, error) {
	w, err := store.NewWriter(dir)
	if err != nil {
		return nil, err
	}
	return w.WriteAll(Collections())
}

// Source serves the sample catalog from memory. Collections named in missing
// fail to load.
func Source(missing ...string) store.SourceFunc {
	collections := Collections()
	for _, name := range missing {
		delete(collections, name)
	}
	return func(_ context.Context, name string) ([]byte, error) {
		v, ok := collections[name]
		if !ok {
			return nil, fmt.Errorf("sample: %s: %w", name, store.ErrSourceUnavailable)
		}
		return json.Marshal(v)
	}
}

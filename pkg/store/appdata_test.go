package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppDataDecodesListShapes(t *testing.T) {
	data := NewAppData(DefaultSources(), map[string][]byte{
		SourceReports:     []byte(`[{"id":"R1","category":"imaging","date":"2025"}]`),
		SourceBloodwork:   []byte(`{"updated":"2025-01-01","panels":[{"date":"2025-01-01","name":"CBC","results":[{"test":"Hb","value":13.1,"flag":"L"}]}]}`),
		SourceBPWeight:    []byte(`{"meta":{},"series":[{"date":"2025-01-02","systolic":120,"diastolic":80}]}`),
		SourceMedications: []byte(`{"events":[{"date":"2024-05","drug":"Ramipril","action":"start"}]}`),
		SourcePatient:     []byte(`{"patient":{"name":"A. Patient","conditions":["Hypertension"]}}`),
	})

	reports, err := data.Reports()
	require.NoError(t, err)
	require.Equal(t, "R1", reports[0].ID)

	panels, err := data.LabPanels()
	require.NoError(t, err)
	require.Len(t, panels, 1)
	require.True(t, panels[0].Results[0].Flagged())

	readings, err := data.Readings()
	require.NoError(t, err, "first array member is used when no known key matches")
	require.Equal(t, 120, readings[0].Systolic)

	events, err := data.MedicationEvents()
	require.NoError(t, err)
	require.Equal(t, "Ramipril", events[0].Drug)

	patient, err := data.Patient()
	require.NoError(t, err)
	require.Equal(t, "A. Patient", patient.Name)
}

func TestAppDataFailedSlotsAreNil(t *testing.T) {
	data := NewAppData(DefaultSources(), map[string][]byte{
		SourceReports: []byte(`not json`),
		SourcePatient: nil,
	})
	require.Empty(t, data.Loaded())
	require.Len(t, data.Failed(), 5)

	reports, err := data.Reports()
	require.NoError(t, err)
	require.Nil(t, reports)

	patient, err := data.Patient()
	require.NoError(t, err)
	require.Nil(t, patient)

	status, _ := data.Status("unknown")
	require.Equal(t, StatusUnknown, status)
}

func TestAppDataRejectsShapeWithoutList(t *testing.T) {
	data := NewAppData([]string{SourceReports}, map[string][]byte{
		SourceReports: []byte(`{"count": 3}`),
	})
	_, err := data.Reports()
	require.ErrorIs(t, err, ErrShape)
}

func TestAppDataPayloadIsACopy(t *testing.T) {
	data := NewAppData([]string{SourceReports}, map[string][]byte{SourceReports: []byte(`[]`)})
	p := data.Payload(SourceReports)
	p[0] = '{'
	require.Equal(t, `[]`, string(data.Payload(SourceReports)))
}

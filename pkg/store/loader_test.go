package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tableflip.dev/medview/pkg/logging"
)

type mapSource map[string]string

func (m mapSource) Fetch(_ context.Context, name string) ([]byte, error) {
	body, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("no such collection %q", name)
	}
	return []byte(body), nil
}

func TestLoadAllIsolatesFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := mapSource{
		SourceReports:     `[{"id":"R1","category":"imaging","date":"2025-01-01"}]`,
		SourceBPWeight:    `{"readings":[]}`,
		SourceMedications: `{"events":[]}`,
		// bloodwork missing, patient malformed
		SourcePatient: `{"name": `,
	}
	loader := NewLoader(src, DefaultSources(), logging.Discard())

	data, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, DefaultSources(), data.Names())
	require.ElementsMatch(t, []string{SourceBloodwork, SourcePatient}, data.Failed())
	require.ElementsMatch(t, []string{SourceReports, SourceBPWeight, SourceMedications}, data.Loaded())

	require.Nil(t, data.Payload(SourceBloodwork))
	require.Nil(t, data.Payload(SourcePatient))
	require.NotNil(t, data.Payload(SourceReports))

	status, cause := data.Status(SourcePatient)
	require.Equal(t, StatusFailed, status)
	require.ErrorIs(t, cause, ErrMalformed)
}

func TestLoadAllFetchesConcurrently(t *testing.T) {
	defer goleak.VerifyNone(t)

	names := DefaultSources()
	var started sync.WaitGroup
	started.Add(len(names))
	release := make(chan struct{})
	go func() {
		started.Wait()
		close(release)
	}()

	src := SourceFunc(func(ctx context.Context, name string) ([]byte, error) {
		started.Done()
		select {
		case <-release:
		case <-time.After(2 * time.Second):
			return nil, errors.New("fetches were serialised")
		}
		return []byte(`[]`), nil
	})

	data, err := NewLoader(src, names, logging.Discard()).LoadAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, data.Failed())
}

func TestLoadAllSlowSourceDoesNotBlockOthersFromLoading(t *testing.T) {
	defer goleak.VerifyNone(t)

	src := SourceFunc(func(ctx context.Context, name string) ([]byte, error) {
		if name == SourceBloodwork {
			time.Sleep(50 * time.Millisecond)
			return nil, errors.New("timeout")
		}
		return []byte(`{}`), nil
	})
	data, err := NewLoader(src, DefaultSources(), logging.Discard()).LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{SourceBloodwork}, data.Failed())
	require.Len(t, data.Loaded(), 4)
}

func TestLoadAllFailsWhenSourceUnavailable(t *testing.T) {
	_, err := NewLoader(nil, DefaultSources(), logging.Discard()).LoadAll(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)

	down := SourceFunc(func(context.Context, string) ([]byte, error) {
		return nil, fmt.Errorf("%w: network down", ErrSourceUnavailable)
	})
	_, err = NewLoader(down, DefaultSources(), logging.Discard()).LoadAll(context.Background())
	require.ErrorIs(t, err, ErrSourceUnavailable)
}

func TestNewLoaderDropsDuplicates(t *testing.T) {
	l := NewLoader(mapSource{}, []string{"a", " ", "b", "a"}, logging.Discard())
	require.Equal(t, []string{"a", "b"}, l.Names())
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/presensi-go-api/pkg/ai"
)

type stubDrafter struct {
	result ai.DraftResult
	err    error
	input  ai.DraftInput
}

func (s *stubDrafter) Draft(_ context.Context, input ai.DraftInput) (ai.DraftResult, error) {
	s.input = input
	return s.result, s.err
}

func TestDraftReportRejectsEmptyNotes(t *testing.T) {
	drafter := &stubDrafter{}
	svc := NewDraftService(drafter, "Desa Sidorahayu", "KKN Kelompok 34", testLogger())

	_, err := svc.DraftReport(context.Background(), "   ")
	require.ErrorIs(t, err, ErrEmptyNotes)
	require.Empty(t, drafter.input.Notes)
}

func TestDraftReportForwardsContext(t *testing.T) {
	drafter := &stubDrafter{result: ai.DraftResult{Text: "Pada hari ini dilaksanakan rapat desa.", Model: "gpt-4o-mini"}}
	svc := NewDraftService(drafter, "Desa Sidorahayu", "KKN Kelompok 34", testLogger())

	resp, err := svc.DraftReport(context.Background(), "rapat desa")
	require.NoError(t, err)
	require.Equal(t, "Pada hari ini dilaksanakan rapat desa.", resp.Description)
	require.Equal(t, "gpt-4o-mini", resp.Model)
	require.Equal(t, "rapat desa", drafter.input.Notes)
	require.Equal(t, "Desa Sidorahayu", drafter.input.Village)
}

func TestDraftReportWrapsBackendFailure(t *testing.T) {
	drafter := &stubDrafter{err: errors.New("timeout")}
	svc := NewDraftService(drafter, "", "", testLogger())

	_, err := svc.DraftReport(context.Background(), "rapat desa")
	require.ErrorIs(t, err, ErrDraftUnavailable)
}

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/presensi-go-api/internal/dto"
	"github.com/noah-isme/presensi-go-api/internal/geo"
	"github.com/noah-isme/presensi-go-api/internal/models"
	"github.com/noah-isme/presensi-go-api/internal/store"
)

func newBuilder(t *testing.T, drafting DraftService) (BuilderService, *store.MemoryStore) {
	t.Helper()

	records := store.NewMemoryStore()
	builder := NewBuilderService(records, geo.NewAdapter(), drafting, nil, nil, nil, testLogger())
	return builder, records
}

func startComposing(t *testing.T, builder BuilderService, userID string, activity models.ActivityType) dto.DraftResponse {
	t.Helper()
	ctx := context.Background()

	_, err := builder.Start(ctx, userID)
	require.NoError(t, err)

	draft, err := builder.SelectType(ctx, userID, activity)
	require.NoError(t, err)
	require.Equal(t, DraftStateComposing, draft.State)
	return draft
}

func TestSubmitCheckInWithoutOptionalFields(t *testing.T) {
	builder, records := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeCheckIn)

	record, err := builder.Submit(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, models.TypeCheckIn, record.Type)
	require.Empty(t, record.Description)
	require.Nil(t, record.Location)
	require.False(t, record.AIGenerated)
	require.NotEmpty(t, record.ID)
	require.NotZero(t, record.Timestamp)

	// The new record sits at position 0 and the sequence grew by one.
	list, err := records.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, record.ID, list[0].ID)

	// Submitted is terminal: the draft is gone.
	_, err = builder.Current("u1")
	require.ErrorIs(t, err, ErrNoDraft)
}

func TestSubmitDailyReportRequiresDescription(t *testing.T) {
	builder, records := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeDailyReport)

	_, err := builder.Submit(ctx, "u1")
	require.ErrorIs(t, err, ErrMissingDescription)

	// The failed submit leaves the store unchanged and the draft composable.
	list, err := records.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)

	draft, err := builder.Current("u1")
	require.NoError(t, err)
	require.Equal(t, DraftStateComposing, draft.State)
}

func TestGenerateDraftFillsDescription(t *testing.T) {
	drafting := &stubDrafting{response: dto.AIDraftResponse{Description: "Pada hari ini dilaksanakan rapat desa.", Model: "stub"}}
	builder, _ := newBuilder(t, drafting)
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeDailyReport)

	draft, err := builder.GenerateDraft(ctx, "u1", "rapat desa")
	require.NoError(t, err)
	require.Equal(t, "Pada hari ini dilaksanakan rapat desa.", draft.Description)
	require.True(t, draft.AIGenerated)
	require.Equal(t, "rapat desa", draft.Notes)

	record, err := builder.Submit(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "Pada hari ini dilaksanakan rapat desa.", record.Description)
	require.True(t, record.AIGenerated)
}

func TestManualEditClearsAIFlag(t *testing.T) {
	builder, _ := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeDailyReport)

	_, err := builder.GenerateDraft(ctx, "u1", "rapat desa")
	require.NoError(t, err)

	draft, err := builder.SetDescription(ctx, "u1", "Laporan ditulis ulang secara manual.")
	require.NoError(t, err)
	require.False(t, draft.AIGenerated)

	record, err := builder.Submit(ctx, "u1")
	require.NoError(t, err)
	require.False(t, record.AIGenerated)
}

func TestSwitchingTypeDiscardsReportFields(t *testing.T) {
	builder, _ := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeDailyReport)
	_, err := builder.GenerateDraft(ctx, "u1", "rapat desa")
	require.NoError(t, err)

	draft, err := builder.SelectType(ctx, "u1", models.TypeCheckOut)
	require.NoError(t, err)
	require.Empty(t, draft.Description)
	require.Empty(t, draft.Notes)
	require.False(t, draft.AIGenerated)
}

func TestAttachLocationFailureIsNonFatal(t *testing.T) {
	builder, _ := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeCheckIn)

	_, err := builder.AttachLocation(ctx, "u1", 123.0, 50.0)
	require.ErrorIs(t, err, geo.ErrUnavailable)

	// The draft is untouched and still submits.
	draft, err := builder.Current("u1")
	require.NoError(t, err)
	require.Nil(t, draft.Location)

	record, err := builder.Submit(ctx, "u1")
	require.NoError(t, err)
	require.Nil(t, record.Location)
}

func TestAttachLocationSuccess(t *testing.T) {
	builder, _ := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeCheckIn)

	draft, err := builder.AttachLocation(ctx, "u1", -7.98, 112.63)
	require.NoError(t, err)
	require.NotNil(t, draft.Location)
	require.Equal(t, -7.98, draft.Location.Lat)

	record, err := builder.Submit(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, record.Location)
	require.Equal(t, 112.63, record.Location.Lng)
}

func TestCancelDiscardsDraftWithoutSideEffects(t *testing.T) {
	builder, records := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeDailyReport)

	require.NoError(t, builder.Cancel(ctx, "u1"))

	_, err := builder.Current("u1")
	require.ErrorIs(t, err, ErrNoDraft)

	list, err := records.List(ctx, "u1")
	require.NoError(t, err)
	require.Empty(t, list)

	// Operations after cancel are no-ops against the discarded draft.
	_, err = builder.GenerateDraft(ctx, "u1", "rapat desa")
	require.ErrorIs(t, err, ErrNoDraft)
	require.ErrorIs(t, builder.Cancel(ctx, "u1"), ErrNoDraft)
}

func TestDescriptionOnlyAppliesToDailyReports(t *testing.T) {
	builder, _ := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	startComposing(t, builder, "u1", models.TypeCheckIn)

	_, err := builder.SetDescription(ctx, "u1", "tidak berlaku")
	require.ErrorIs(t, err, ErrDescriptionNotAllowed)

	_, err = builder.GenerateDraft(ctx, "u1", "rapat desa")
	require.ErrorIs(t, err, ErrDescriptionNotAllowed)
}

func TestSelectTypeValidatesEnum(t *testing.T) {
	builder, _ := newBuilder(t, &stubDrafting{})
	ctx := context.Background()

	_, err := builder.Start(ctx, "u1")
	require.NoError(t, err)

	_, err = builder.SelectType(ctx, "u1", models.ActivityType("NAP"))
	require.ErrorIs(t, err, ErrInvalidActivityType)

	// Submitting straight from Selecting fails.
	_, err = builder.Submit(ctx, "u1")
	require.ErrorIs(t, err, ErrTypeNotSelected)
}

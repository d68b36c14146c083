package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type controllerFixture struct {
	source       *fakeSource
	subscriber   *fakeSubscriber
	unsubscriber *fakeUnsubscriber
	controller   *SubscriptionListController
}

func newControllerFixture(tab Tab, opts ControllerOptions) *controllerFixture {
	f := &controllerFixture{
		source:       &fakeSource{},
		subscriber:   &fakeSubscriber{},
		unsubscriber: &fakeUnsubscriber{},
	}
	f.controller = NewSubscriptionListController("user-1", tab, ControllerDeps{
		Source:       f.source,
		Subscriber:   f.subscriber,
		Unsubscriber: f.unsubscriber,
		Logger:       logger.NewNop(),
	}, opts)
	return f
}

func TestController_EmptySelectionNeverCallsBackend(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{})
	f.controller.LoadRecords(makeFlights(3))

	outcome, err := f.controller.ConfirmBulkUnsubscribe(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrEmptySelection))
	assert.True(t, errors.Is(err, entity.ErrValidation))
	assert.False(t, outcome.Success)
	assert.Equal(t, MsgEmptySelection, outcome.Message)
	assert.Empty(t, f.unsubscriber.calls)
}

func TestController_FilterChangeClearsSelection(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{})
	f.controller.LoadRecords(makeFlights(5))
	f.controller.SelectAll(true)
	require.Len(t, f.controller.Snapshot().Selected, 5)

	f.controller.SetCriteria(FilterCriteria{FlightNumber: "1"})

	state := f.controller.Snapshot()
	assert.Empty(t, state.Selected)
	assert.False(t, state.SelectAll)
	assert.Equal(t, 1, state.TotalItems)
}

func TestController_SelectAllOnlyVisiblePage(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{PageSize: 5})
	f.controller.LoadRecords(makeFlights(23))
	f.controller.SetPage(2)

	f.controller.SelectAll(true)

	state := f.controller.Snapshot()
	assert.Len(t, state.Selected, 5)
	for _, r := range state.PageItems {
		assert.Contains(t, state.Selected, r.ID())
	}
	assert.True(t, state.SelectAll)
}

func TestController_ToggleSelectionRequiresVisibleRow(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{PageSize: 5})
	records := makeFlights(10)
	f.controller.LoadRecords(records)

	err := f.controller.ToggleSelection(records[7].ID())
	assert.True(t, errors.Is(err, entity.ErrNotFound))

	require.NoError(t, f.controller.ToggleSelection(records[0].ID()))
	assert.Equal(t, []string{records[0].ID()}, f.controller.Snapshot().Selected)

	require.NoError(t, f.controller.ToggleSelection(records[0].ID()))
	assert.Empty(t, f.controller.Snapshot().Selected)
}

func TestController_PageClamp(t *testing.T) {
	f := newControllerFixture(TabView, ControllerOptions{PageSize: 5})
	f.controller.LoadRecords(makeFlights(23))

	assert.Equal(t, 5, f.controller.SetPage(7))
	state := f.controller.Snapshot()
	assert.Equal(t, 5, state.TotalPages)
	assert.Len(t, state.PageItems, 3)

	assert.Equal(t, 1, f.controller.SetPage(-2))
}

func TestController_SetPageSizeResetsPage(t *testing.T) {
	f := newControllerFixture(TabView, ControllerOptions{PageSize: 5})
	f.controller.LoadRecords(makeFlights(23))
	f.controller.SetPage(3)

	f.controller.SetPageSize(10)

	state := f.controller.Snapshot()
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 3, state.TotalPages)
}

func TestController_PageChangeClearsSelection(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{PageSize: 5})
	f.controller.LoadRecords(makeFlights(12))
	f.controller.SelectAll(true)
	require.NoError(t, f.controller.OpenUnsubscribeDialog())

	assert.Equal(t, 2, f.controller.SetPage(2))

	state := f.controller.Snapshot()
	assert.Empty(t, state.Selected)
	assert.False(t, state.SelectAll)
	assert.False(t, state.DialogOpen)

	outcome, err := f.controller.ConfirmBulkUnsubscribe(context.Background())
	assert.True(t, errors.Is(err, entity.ErrEmptySelection))
	assert.Equal(t, MsgEmptySelection, outcome.Message)
	assert.Empty(t, f.unsubscriber.calls)
}

func TestController_SamePageKeepsSelection(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{PageSize: 5})
	f.controller.LoadRecords(makeFlights(12))
	f.controller.SelectAll(true)

	assert.Equal(t, 1, f.controller.SetPage(1))

	state := f.controller.Snapshot()
	assert.Len(t, state.Selected, 5)
	assert.True(t, state.SelectAll)
}

func TestController_PageSizeChangeClearsSelection(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{PageSize: 5})
	f.controller.LoadRecords(makeFlights(12))
	f.controller.SelectAll(true)

	f.controller.SetPageSize(3)

	state := f.controller.Snapshot()
	assert.Len(t, state.PageItems, 3)
	assert.Empty(t, state.Selected)
	assert.False(t, state.SelectAll)
}

func TestController_ConfirmRequiresOpenDialog(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{})
	f.controller.LoadRecords(makeFlights(2))
	f.controller.SelectAll(true)

	outcome, err := f.controller.ConfirmBulkUnsubscribe(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, entity.ErrValidation))
	assert.False(t, outcome.Success)
	assert.Equal(t, MsgConfirmDialogClosed, outcome.Message)
	assert.Empty(t, f.unsubscriber.calls)
	assert.Len(t, f.controller.Snapshot().Selected, 2)
}

func TestController_BulkUnsubscribeSuccess(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{})
	records := makeFlights(3)
	f.controller.LoadRecords(records)
	require.NoError(t, f.controller.ToggleSelection(records[0].ID()))
	require.NoError(t, f.controller.ToggleSelection(records[2].ID()))
	require.NoError(t, f.controller.OpenUnsubscribeDialog())
	f.unsubscriber.txHash = "0xabc"

	outcome, err := f.controller.ConfirmBulkUnsubscribe(context.Background())

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "Successfully unsubscribed from 2 flight(s)", outcome.Message)
	assert.Equal(t, "0xabc", outcome.TxHash)
	require.Len(t, f.unsubscriber.calls, 1)
	assert.Len(t, f.unsubscriber.calls[0], 2)

	state := f.controller.Snapshot()
	assert.Empty(t, state.Selected)
	assert.False(t, state.SelectAll)
	assert.False(t, state.DialogOpen)
	require.Len(t, state.PageItems, 1)
	assert.Equal(t, records[1].ID(), state.PageItems[0].ID())
}

func TestController_BulkUnsubscribeFailureKeepsSelection(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{})
	records := makeFlights(2)
	f.controller.LoadRecords(records)
	f.controller.SelectAll(true)
	require.NoError(t, f.controller.OpenUnsubscribeDialog())
	f.unsubscriber.err = &entity.CollaboratorError{Op: "unsubscribe", StatusCode: 500, Message: "Subscription service down"}

	outcome, err := f.controller.ConfirmBulkUnsubscribe(context.Background())

	require.Error(t, err)
	assert.False(t, outcome.Success)
	assert.Equal(t, "Subscription service down", outcome.Message)
	state := f.controller.Snapshot()
	assert.Len(t, state.Selected, 2)
	assert.True(t, state.DialogOpen)
	assert.Equal(t, 2, state.TotalItems)
}

func TestController_BulkUnsubscribeFailureFallbackAndLegacyClose(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{CloseDialogOnFailure: true})
	f.controller.LoadRecords(makeFlights(1))
	f.controller.SelectAll(true)
	require.NoError(t, f.controller.OpenUnsubscribeDialog())
	f.unsubscriber.err = errors.New("connection reset")

	outcome, err := f.controller.ConfirmBulkUnsubscribe(context.Background())

	require.Error(t, err)
	assert.Equal(t, FallbackUnsubscribeError, outcome.Message)
	assert.False(t, f.controller.Snapshot().DialogOpen)
}

func TestController_OpenDialogNeedsSelection(t *testing.T) {
	f := newControllerFixture(TabUnsubscribe, ControllerOptions{})
	f.controller.LoadRecords(makeFlights(1))

	err := f.controller.OpenUnsubscribeDialog()

	assert.True(t, errors.Is(err, entity.ErrEmptySelection))
	assert.False(t, f.controller.Snapshot().DialogOpen)
}

func TestController_SearchAppliesFilters(t *testing.T) {
	f := newControllerFixture(TabView, ControllerOptions{})
	f.source.records = makeFlights(12)
	f.controller.SetCriteria(FilterCriteria{FlightNumber: "12"})

	require.NoError(t, f.controller.Search(context.Background()))

	state := f.controller.Snapshot()
	require.Len(t, state.PageItems, 1)
	assert.Equal(t, "12", state.PageItems[0].FlightNumber)
	assert.False(t, state.IsSearching)
}

func TestController_SearchValidationFailsLocally(t *testing.T) {
	f := newControllerFixture(TabSubscribe, ControllerOptions{})
	f.controller.SetCriteria(FilterCriteria{CarrierCode: "AA", FlightNumber: "12"})

	err := f.controller.Search(context.Background())

	assert.EqualError(t, err, MsgFlightNumberExact)
	assert.Equal(t, 0, f.source.calls)
}

func TestController_SearchErrorKeepsPreviousRecords(t *testing.T) {
	f := newControllerFixture(TabView, ControllerOptions{})
	f.controller.LoadRecords(makeFlights(3))
	f.source.err = &entity.CollaboratorError{Op: "search", StatusCode: 502}

	err := f.controller.Search(context.Background())

	require.Error(t, err)
	assert.Equal(t, FallbackSearchError, entity.UserMessage(err, FallbackSearchError))
	assert.Equal(t, 3, f.controller.Snapshot().TotalItems)
}

func TestController_StaleSearchResponseIsDropped(t *testing.T) {
	f := newControllerFixture(TabView, ControllerOptions{})
	gate := make(chan struct{})
	f.source.gate = gate
	f.source.records = makeFlights(4)

	errs := make(chan error, 1)
	go func() {
		errs <- f.controller.Search(context.Background())
	}()
	require.Eventually(t, func() bool { return f.controller.Snapshot().IsSearching }, time.Second, time.Millisecond)

	// A tab switch invalidates the in-flight search.
	f.controller.SwitchTab(TabUnsubscribe)
	close(gate)

	err := <-errs
	assert.True(t, errors.Is(err, entity.ErrStaleResponse))
	state := f.controller.Snapshot()
	assert.Equal(t, TabUnsubscribe, state.Tab)
	assert.Equal(t, 0, state.TotalItems)
}

func TestController_DuplicateSearchIsBusy(t *testing.T) {
	f := newControllerFixture(TabView, ControllerOptions{})
	gate := make(chan struct{})
	f.source.gate = gate

	errs := make(chan error, 1)
	go func() {
		errs <- f.controller.Search(context.Background())
	}()
	require.Eventually(t, func() bool { return f.controller.Snapshot().IsSearching }, time.Second, time.Millisecond)

	err := f.controller.Search(context.Background())
	assert.True(t, errors.Is(err, entity.ErrBusy))

	close(gate)
	assert.NoError(t, <-errs)
}

func TestController_SubscribeRequiresExactMatch(t *testing.T) {
	f := newControllerFixture(TabSubscribe, ControllerOptions{})
	flight := makeFlight("AA", "1234", "2024-05-01", "JFK", "LAX")
	f.controller.LoadRecords([]entity.FlightRecord{flight})
	f.controller.SetCriteria(FilterCriteria{FlightNumber: "123"})

	outcome, err := f.controller.Subscribe(context.Background(), flight.ID())

	require.Error(t, err)
	assert.Equal(t, MsgFlightNumberMismatch, outcome.Message)
	assert.Empty(t, f.subscriber.calls)
}

func TestController_SubscribeSuccessMarksRow(t *testing.T) {
	f := newControllerFixture(TabSubscribe, ControllerOptions{})
	flight := makeFlight("AA", "1234", "2024-05-01", "JFK", "LAX")
	f.controller.LoadRecords([]entity.FlightRecord{flight})
	f.controller.SetCriteria(FilterCriteria{CarrierCode: "AA", FlightNumber: "1234"})
	f.subscriber.txHash = "0xfeed"

	outcome, err := f.controller.Subscribe(context.Background(), flight.ID())

	require.NoError(t, err)
	assert.True(t, outcome.Success)
	assert.Equal(t, "Successfully subscribed to flight AA1234", outcome.Message)
	state := f.controller.Snapshot()
	require.Len(t, state.PageItems, 1)
	assert.True(t, state.PageItems[0].IsSubscribed)
	assert.Equal(t, "0xfeed", state.PageItems[0].BlockchainTxHash)

	_, err = f.controller.Subscribe(context.Background(), flight.ID())
	assert.True(t, errors.Is(err, entity.ErrValidation))
	assert.Len(t, f.subscriber.calls, 1)
}

func TestController_SubscribeUnknownFlight(t *testing.T) {
	f := newControllerFixture(TabSubscribe, ControllerOptions{})

	_, err := f.controller.Subscribe(context.Background(), "AA-1-2024-05-01-JFK")

	assert.True(t, errors.Is(err, entity.ErrNotFound))
}

func TestController_SwitchTabResetsCriteria(t *testing.T) {
	f := newControllerFixture(TabView, ControllerOptions{})
	f.controller.SetCriteria(FilterCriteria{CarrierCode: "aa", FlightNumber: "12"})

	f.controller.SwitchTab(TabSubscribe)

	state := f.controller.Snapshot()
	assert.Equal(t, TabSubscribe, state.Tab)
	assert.True(t, state.Criteria.IsEmpty())
}

func TestIsLocalError(t *testing.T) {
	assert.True(t, IsLocalError(entity.NewValidationError("x", "bad")))
	assert.True(t, IsLocalError(entity.ErrBusy))
	assert.False(t, IsLocalError(&entity.CollaboratorError{Op: "search"}))
}

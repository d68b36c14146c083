package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/metrics"
)

// Fallback messages used when a collaborator error carries no text.
const (
	FallbackSearchError      = "Error fetching flight data"
	FallbackSubscriptions    = "Failed to load subscriptions"
	FallbackSubscribeError   = "Failed to subscribe to flight"
	FallbackUnsubscribeError = "Failed to unsubscribe from flights"
)

// FlightSource loads the records a session works on.
type FlightSource interface {
	FetchFlights(ctx context.Context, userID string, tab Tab, criteria FilterCriteria) ([]entity.FlightRecord, error)
}

// Subscriber subscribes a user to one flight.
type Subscriber interface {
	SubscribeFlight(ctx context.Context, userID string, flight entity.FlightRecord) (*entity.SubscriptionRecord, error)
}

// Unsubscriber removes a batch of subscriptions and returns the oracle
// transaction hash, if any.
type Unsubscriber interface {
	UnsubscribeFlights(ctx context.Context, userID string, flights []entity.FlightRecord) (string, error)
}

// Outcome is what happened after a subscribe or unsubscribe action. The
// presentation layer turns it into a notification.
type Outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Count   int    `json:"count"`
	TxHash  string `json:"txHash,omitempty"`
}

// ControllerDeps are the collaborators of a SubscriptionListController.
type ControllerDeps struct {
	Source       FlightSource
	Subscriber   Subscriber
	Unsubscriber Unsubscriber
	Logger       logger.Logger
	Metrics      *metrics.Metrics
}

// ControllerOptions tune per-flow behavior.
type ControllerOptions struct {
	PageSize int
	// CloseDialogOnFailure keeps the legacy behavior of closing the
	// confirmation dialog even when the unsubscribe call failed.
	CloseDialogOnFailure bool
}

// ControllerState is a consistent snapshot of a session.
type ControllerState struct {
	Tab             Tab                   `json:"tab"`
	Criteria        FilterCriteria        `json:"criteria"`
	Page            int                   `json:"page"`
	PageSize        int                   `json:"pageSize"`
	TotalPages      int                   `json:"totalPages"`
	TotalItems      int                   `json:"totalItems"`
	PageItems       []entity.FlightRecord `json:"pageItems"`
	Selected        []string              `json:"selected"`
	SelectAll       bool                  `json:"selectAll"`
	DialogOpen      bool                  `json:"dialogOpen"`
	IsSearching     bool                  `json:"isSearching"`
	IsSubscribing   bool                  `json:"isSubscribing"`
	IsUnsubscribing bool                  `json:"isUnsubscribing"`
	FilterVersion   uint64                `json:"filterVersion"`
}

// SubscriptionListController owns the filter criteria, filtered list,
// pagination and selection of one view session, and runs the
// confirm -> call -> report sequence for bulk actions.
//
// The selection is cleared whenever the filtered list is recomputed or the
// visible page changes, so a bulk action can only reach rows the user
// currently sees.
type SubscriptionListController struct {
	mu sync.Mutex

	userID string
	tab    Tab
	opts   ControllerOptions
	deps   ControllerDeps

	criteria      FilterCriteria
	all           []entity.FlightRecord
	filtered      []entity.FlightRecord
	filterVersion uint64

	page     int
	pageSize int

	selection  SelectionSet
	selectAll  bool
	dialogOpen bool

	searchSeq      uint64
	searching      bool
	searchCriteria FilterCriteria
	subscribing    bool
	unsubscribing  bool
}

// NewSubscriptionListController creates an empty session for userID on tab.
func NewSubscriptionListController(userID string, tab Tab, deps ControllerDeps, opts ControllerOptions) *SubscriptionListController {
	if opts.PageSize < 1 {
		opts.PageSize = DefaultPageSize
	}
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	return &SubscriptionListController{
		userID:    userID,
		tab:       tab,
		opts:      opts,
		deps:      deps,
		page:      1,
		pageSize:  opts.PageSize,
		selection: SelectionSet{},
		all:       []entity.FlightRecord{},
		filtered:  []entity.FlightRecord{},
	}
}

// UserID returns the owner of the session.
func (c *SubscriptionListController) UserID() string {
	return c.userID
}

// SetCriteria normalizes and stores criteria, then re-filters the cached
// records.
func (c *SubscriptionListController) SetCriteria(criteria FilterCriteria) FilterCriteria {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.criteria = criteria.Normalized()
	c.refilterLocked()
	return c.criteria
}

// ClearCriteria resets every filter.
func (c *SubscriptionListController) ClearCriteria() {
	c.SetCriteria(FilterCriteria{})
}

// SwitchTab moves the session to another flow. Criteria, records and
// selection are reset.
func (c *SubscriptionListController) SwitchTab(tab Tab) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.tab = tab
	c.criteria = FilterCriteria{}
	c.all = []entity.FlightRecord{}
	c.dialogOpen = false
	// Responses to searches issued on the old tab must not land here.
	c.searchSeq++
	c.searching = false
	c.refilterLocked()
}

// LoadRecords replaces the cached records and re-filters them.
func (c *SubscriptionListController) LoadRecords(records []entity.FlightRecord) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = append([]entity.FlightRecord(nil), records...)
	c.refilterLocked()
}

// Search validates the criteria for the current tab, fetches records from
// the source and applies the filters.
//
// Every search takes a sequence number; only the response to the latest
// search is applied and older ones return entity.ErrStaleResponse.
// Submitting the same criteria while that search is in flight returns
// entity.ErrBusy.
func (c *SubscriptionListController) Search(ctx context.Context) error {
	c.mu.Lock()
	if err := ValidateCriteria(c.criteria, c.tab); err != nil {
		c.mu.Unlock()
		return err
	}
	if c.searching && equalCriteria(c.searchCriteria, c.criteria) {
		c.mu.Unlock()
		return entity.ErrBusy
	}
	c.searchSeq++
	seq := c.searchSeq
	criteria := c.criteria
	tab := c.tab
	c.searching = true
	c.searchCriteria = criteria
	c.mu.Unlock()

	records, err := c.deps.Source.FetchFlights(ctx, c.userID, tab, criteria)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.searchSeq {
		c.deps.Metrics.StaleResponse()
		c.deps.Logger.Debug("Dropping stale search response", "seq", seq, "latest", c.searchSeq)
		return entity.ErrStaleResponse
	}
	c.searching = false

	if err != nil {
		c.deps.Logger.Error("Flight search failed", "tab", tab, "error", err)
		return err
	}

	c.all = records
	c.refilterLocked()
	return nil
}

// SetPage moves to page, clamped to the valid range, and returns the page
// actually shown. Moving to another page clears the selection.
func (c *SubscriptionListController) SetPage(page int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	page = ClampPage(page, TotalPages(len(c.filtered), c.pageSize))
	if page != c.page {
		c.clearSelectionLocked()
	}
	c.page = page
	return c.page
}

// SetPageSize changes the page size, goes back to page 1 and clears the
// selection.
func (c *SubscriptionListController) SetPageSize(size int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if size < 1 {
		size = DefaultPageSize
	}
	c.pageSize = size
	c.page = 1
	c.clearSelectionLocked()
}

// ToggleSelection adds or removes id. Only rows on the visible page can be
// selected.
func (c *SubscriptionListController) ToggleSelection(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := c.visibleIDsLocked()
	if !c.selection.Has(id) && !containsString(visible, id) {
		return fmt.Errorf("flight %s is not on the current page: %w", id, entity.ErrNotFound)
	}
	c.selection = c.selection.Toggle(id)
	c.selectAll = c.selection.Len() == len(visible) && c.selection.ContainsAll(visible)
	return nil
}

// SelectAll selects every row on the visible page, or clears the selection.
func (c *SubscriptionListController) SelectAll(checked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := c.visibleIDsLocked()
	c.selection = SelectAll(visible, checked)
	c.selectAll = checked && len(visible) > 0
}

// OpenUnsubscribeDialog asks for confirmation of the bulk unsubscribe.
func (c *SubscriptionListController) OpenUnsubscribeDialog() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selection.Len() == 0 {
		return emptySelectionError()
	}
	c.dialogOpen = true
	return nil
}

// CancelUnsubscribeDialog closes the dialog. It is refused while the
// unsubscribe call is running.
func (c *SubscriptionListController) CancelUnsubscribeDialog() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.unsubscribing {
		return entity.ErrBusy
	}
	c.dialogOpen = false
	return nil
}

// ConfirmBulkUnsubscribe unsubscribes every selected flight.
//
// An empty selection or a closed confirmation dialog fails locally without
// calling the collaborator. On success the selection, select-all flag and
// dialog are cleared and the flights leave the list. On failure the
// selection is kept.
func (c *SubscriptionListController) ConfirmBulkUnsubscribe(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	if c.selection.Len() == 0 {
		c.mu.Unlock()
		return Outcome{Message: MsgEmptySelection}, emptySelectionError()
	}
	if !c.dialogOpen {
		c.mu.Unlock()
		return Outcome{Message: MsgConfirmDialogClosed}, entity.NewValidationError("dialog", MsgConfirmDialogClosed)
	}
	if c.unsubscribing {
		c.mu.Unlock()
		return Outcome{Message: "Unsubscribe already in progress"}, entity.ErrBusy
	}
	selected := c.selectedRecordsLocked()
	if len(selected) == 0 {
		// Selection points at rows that are gone; treat as empty.
		c.selection = SelectionSet{}
		c.selectAll = false
		c.mu.Unlock()
		return Outcome{Message: MsgEmptySelection}, emptySelectionError()
	}
	c.unsubscribing = true
	c.mu.Unlock()

	txHash, err := c.deps.Unsubscriber.UnsubscribeFlights(ctx, c.userID, selected)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.unsubscribing = false

	if err != nil {
		c.deps.Metrics.ObserveUnsubscribe("failure")
		c.deps.Logger.Error("Bulk unsubscribe failed", "count", len(selected), "error", err)
		if c.opts.CloseDialogOnFailure {
			c.dialogOpen = false
		}
		return Outcome{Message: entity.UserMessage(err, FallbackUnsubscribeError)}, err
	}

	c.deps.Metrics.ObserveUnsubscribe("success")
	c.removeRecordsLocked(selected)
	c.dialogOpen = false

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Successfully unsubscribed from %d flight(s)", len(selected)),
		Count:   len(selected),
		TxHash:  txHash,
	}, nil
}

// Subscribe subscribes to the visible flight id. The flight number must
// equal the searched number exactly.
func (c *SubscriptionListController) Subscribe(ctx context.Context, id string) (Outcome, error) {
	c.mu.Lock()
	record, ok := c.findFilteredLocked(id)
	if !ok {
		c.mu.Unlock()
		err := fmt.Errorf("flight %s: %w", id, entity.ErrNotFound)
		return Outcome{Message: "Flight not found"}, err
	}
	if !ExactFlightNumberMatch(record, c.criteria) {
		c.mu.Unlock()
		err := entity.NewValidationError("flightNumber", MsgFlightNumberMismatch)
		return Outcome{Message: err.Message}, err
	}
	if record.IsSubscribed {
		c.mu.Unlock()
		err := entity.NewValidationError("flight", "Already subscribed to this flight")
		return Outcome{Message: err.Message}, err
	}
	if c.subscribing {
		c.mu.Unlock()
		return Outcome{Message: "Subscribe already in progress"}, entity.ErrBusy
	}
	c.subscribing = true
	c.mu.Unlock()

	sub, err := c.deps.Subscriber.SubscribeFlight(ctx, c.userID, record)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribing = false

	if err != nil {
		c.deps.Metrics.ObserveSubscribe("failure")
		c.deps.Logger.Error("Subscribe failed", "flight", id, "error", err)
		return Outcome{Message: entity.UserMessage(err, FallbackSubscribeError)}, err
	}

	c.deps.Metrics.ObserveSubscribe("success")
	txHash := ""
	if sub != nil {
		txHash = sub.TxHash
	}
	c.markSubscribedLocked(id, txHash)

	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Successfully subscribed to flight %s%s", record.CarrierCode, record.FlightNumber),
		Count:   1,
		TxHash:  txHash,
	}, nil
}

// Snapshot returns the current state with the visible page.
func (c *SubscriptionListController) Snapshot() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := Paginate(c.filtered, c.page, c.pageSize)
	return ControllerState{
		Tab:             c.tab,
		Criteria:        c.criteria,
		Page:            p.Page,
		PageSize:        p.PageSize,
		TotalPages:      p.TotalPages,
		TotalItems:      p.TotalItems,
		PageItems:       p.Items,
		Selected:        c.selection.IDs(),
		SelectAll:       c.selectAll,
		DialogOpen:      c.dialogOpen,
		IsSearching:     c.searching,
		IsSubscribing:   c.subscribing,
		IsUnsubscribing: c.unsubscribing,
		FilterVersion:   c.filterVersion,
	}
}

// refilterLocked recomputes the filtered list. A new list always resets
// the selection, select-all flag and page.
func (c *SubscriptionListController) refilterLocked() {
	c.filtered = ApplyFilters(c.all, c.criteria)
	c.filterVersion++
	c.clearSelectionLocked()
	c.page = 1
}

// clearSelectionLocked drops the selection. An open confirmation dialog
// would refer to rows that are no longer selected, so it closes too.
func (c *SubscriptionListController) clearSelectionLocked() {
	c.selection = SelectionSet{}
	c.selectAll = false
	if !c.unsubscribing {
		c.dialogOpen = false
	}
}

func (c *SubscriptionListController) visibleIDsLocked() []string {
	p := Paginate(c.filtered, c.page, c.pageSize)
	ids := make([]string, 0, len(p.Items))
	for _, r := range p.Items {
		ids = append(ids, r.ID())
	}
	return ids
}

// selectedRecordsLocked returns the selected rows of the visible page.
func (c *SubscriptionListController) selectedRecordsLocked() []entity.FlightRecord {
	out := make([]entity.FlightRecord, 0, c.selection.Len())
	for _, r := range Paginate(c.filtered, c.page, c.pageSize).Items {
		if c.selection.Has(r.ID()) {
			out = append(out, r)
		}
	}
	return out
}

func (c *SubscriptionListController) findFilteredLocked(id string) (entity.FlightRecord, bool) {
	for _, r := range c.filtered {
		if r.ID() == id {
			return r, true
		}
	}
	return entity.FlightRecord{}, false
}

func (c *SubscriptionListController) removeRecordsLocked(removed []entity.FlightRecord) {
	gone := make(map[string]struct{}, len(removed))
	for _, r := range removed {
		gone[r.ID()] = struct{}{}
	}
	kept := make([]entity.FlightRecord, 0, len(c.all))
	for _, r := range c.all {
		if _, ok := gone[r.ID()]; ok {
			continue
		}
		kept = append(kept, r)
	}
	c.all = kept
	c.refilterLocked()
}

func (c *SubscriptionListController) markSubscribedLocked(id, txHash string) {
	mark := func(records []entity.FlightRecord) {
		for i := range records {
			if records[i].ID() == id {
				records[i].IsSubscribed = true
				if txHash != "" {
					records[i].BlockchainTxHash = txHash
				}
			}
		}
	}
	mark(c.all)
	mark(c.filtered)
}

func emptySelectionError() error {
	return fmt.Errorf("%w: %w", entity.ErrEmptySelection, entity.NewValidationError("selection", MsgEmptySelection))
}

func equalCriteria(a, b FilterCriteria) bool {
	if a.CarrierCode != b.CarrierCode || a.FlightNumber != b.FlightNumber ||
		a.DepartureAirport != b.DepartureAirport || a.ArrivalAirport != b.ArrivalAirport {
		return false
	}
	if (a.Date == nil) != (b.Date == nil) {
		return false
	}
	return a.Date == nil || a.Date.Equal(*b.Date)
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}

// IsLocalError reports whether err is a local validation or state error
// rather than a collaborator failure.
func IsLocalError(err error) bool {
	return errors.Is(err, entity.ErrValidation) || errors.Is(err, entity.ErrEmptySelection) ||
		errors.Is(err, entity.ErrBusy) || errors.Is(err, entity.ErrNotFound)
}

package usecase

import (
	"context"
	"strings"
	"time"

	"flightwatch-service/internal/domain/entity"
	"flightwatch-service/internal/domain/repository"
	"flightwatch-service/pkg/flightstatus"
	"flightwatch-service/pkg/logger"
	"flightwatch-service/pkg/timeutil"
)

const (
	fallbackNA  = "N/A"
	fallbackTBD = "TBD"
)

// FlightView is a display-ready flight row.
type FlightView struct {
	ID           string `json:"id"`
	CarrierCode  string `json:"carrierCode"`
	CarrierName  string `json:"carrierName"`
	FlightNumber string `json:"flightNumber"`
	FlightLabel  string `json:"flightLabel"`
	DepartureDay string `json:"departureDate"`

	DepartureAirport  string `json:"departureAirport"`
	ArrivalAirport    string `json:"arrivalAirport"`
	DepartureCity     string `json:"departureCity"`
	ArrivalCity       string `json:"arrivalCity"`
	DepartureTerminal string `json:"departureTerminal"`
	ArrivalTerminal   string `json:"arrivalTerminal"`
	DepartureGate     string `json:"departureGate"`
	ArrivalGate       string `json:"arrivalGate"`

	Phase       flightstatus.Phase         `json:"phase"`
	PhaseToken  string                     `json:"phaseToken"`
	PhaseLabel  string                     `json:"phaseLabel"`
	Badge       flightstatus.BadgeCategory `json:"badgeCategory"`
	StatusText  string                     `json:"statusText"`
	IsCanceled  bool                       `json:"isCanceled"`
	IsDelayed   bool                       `json:"isDelayed"`
	DepartDelay int                        `json:"departureDelayMinutes"`
	ArriveDelay int                        `json:"arrivalDelayMinutes"`

	ScheduledDeparture string `json:"scheduledDeparture"`
	ScheduledArrival   string `json:"scheduledArrival"`
	EstimatedDeparture string `json:"estimatedDeparture"`
	EstimatedArrival   string `json:"estimatedArrival"`
	ActualDeparture    string `json:"actualDeparture"`
	ActualArrival      string `json:"actualArrival"`
	TimeRemaining      string `json:"timeRemaining"`
	FlightDuration     string `json:"flightDuration"`
	TimeFormat         string `json:"timeFormat"`

	IsSubscribed     bool   `json:"isSubscribed"`
	BlockchainTxHash string `json:"blockchainTxHash,omitempty"`
}

// ViewOptions select how timestamps are rendered. With FormatLocal and an
// empty Timezone each time is shown in its airport's zone.
type ViewOptions struct {
	Format   timeutil.Format
	Timezone string
}

// FlightViewBuilder turns flight records into FlightViews.
type FlightViewBuilder struct {
	classifier      *flightstatus.Classifier
	airlineRepo     repository.AirlineRepository
	timezoneRepo    repository.TimezoneRepository
	defaultTimezone string
	now             func() time.Time
	logger          logger.Logger
}

// NewFlightViewBuilder creates a builder. The repositories may be nil, in
// which case carrier codes and the default timezone are used.
func NewFlightViewBuilder(
	classifier *flightstatus.Classifier,
	airlineRepo repository.AirlineRepository,
	timezoneRepo repository.TimezoneRepository,
	defaultTimezone string,
	now func() time.Time,
	log logger.Logger,
) *FlightViewBuilder {
	if now == nil {
		now = time.Now
	}
	if defaultTimezone == "" {
		defaultTimezone = timeutil.DefaultTimezone
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &FlightViewBuilder{
		classifier:      classifier,
		airlineRepo:     airlineRepo,
		timezoneRepo:    timezoneRepo,
		defaultTimezone: defaultTimezone,
		now:             now,
		logger:          log,
	}
}

// BuildAll renders records in order.
func (b *FlightViewBuilder) BuildAll(ctx context.Context, records []entity.FlightRecord, opts ViewOptions) []FlightView {
	lookup := newZoneLookup(b)
	views := make([]FlightView, 0, len(records))
	for _, r := range records {
		views = append(views, b.build(ctx, r, opts, lookup))
	}
	return views
}

// Build renders one record.
func (b *FlightViewBuilder) Build(ctx context.Context, r entity.FlightRecord, opts ViewOptions) FlightView {
	return b.build(ctx, r, opts, newZoneLookup(b))
}

func (b *FlightViewBuilder) build(ctx context.Context, r entity.FlightRecord, opts ViewOptions, zones *zoneLookup) FlightView {
	phase := b.classifier.Classify(r.StatusCode, r.IsCanceled)
	desc := flightstatus.Describe(phase)
	departDelay := flightstatus.DelayMinutes(r.DepartureDelayMinutes)
	status := flightstatus.Status{
		StatusCode:            r.StatusCode,
		IsCanceled:            r.IsCanceled,
		DepartureDelayMinutes: r.DepartureDelayMinutes,
	}
	canceled := status.Canceled()

	format := opts.Format
	if format == "" {
		format = timeutil.FormatUTC
	}
	departZone, arriveZone := opts.Timezone, opts.Timezone
	if format == timeutil.FormatLocal && opts.Timezone == "" {
		departZone = zones.zoneFor(ctx, r.DepartureAirport)
		arriveZone = zones.zoneFor(ctx, r.ArrivalAirport)
	}

	return FlightView{
		ID:           r.ID(),
		CarrierCode:  orDefault(r.CarrierCode, fallbackNA),
		CarrierName:  b.carrierName(ctx, r.CarrierCode),
		FlightNumber: orDefault(r.FlightNumber, fallbackNA),
		FlightLabel:  strings.TrimSpace(r.CarrierCode) + strings.TrimSpace(r.FlightNumber),
		DepartureDay: orDefault(timeutil.DateOnly(r.DepartureDateValue()), fallbackNA),

		DepartureAirport:  orDefault(r.DepartureAirport, fallbackNA),
		ArrivalAirport:    orDefault(r.ArrivalAirport, fallbackNA),
		DepartureCity:     orDefault(r.DepartureCity, fallbackNA),
		ArrivalCity:       orDefault(r.ArrivalCity, fallbackNA),
		DepartureTerminal: orDefault(r.DepartureTerminal, fallbackTBD),
		ArrivalTerminal:   orDefault(r.ArrivalTerminal, fallbackTBD),
		DepartureGate:     orDefault(r.DepartureGate, fallbackTBD),
		ArrivalGate:       orDefault(r.ArrivalGate, fallbackTBD),

		Phase:      phase,
		PhaseToken: phase.Token(),
		PhaseLabel: desc.Label,
		Badge:      desc.Badge,
		StatusText:  b.classifier.DisplayStatus(status),
		IsCanceled:  canceled,
		IsDelayed:   !canceled && departDelay > 0,
		DepartDelay: departDelay,
		ArriveDelay: flightstatus.DelayMinutes(r.ArrivalDelayMinutes),

		ScheduledDeparture: timeutil.FormatTimestamp(r.ScheduledDepartureUTC, format, departZone),
		ScheduledArrival:   timeutil.FormatTimestamp(r.ScheduledArrivalUTC, format, arriveZone),
		EstimatedDeparture: timeutil.FormatTimestamp(r.EstimatedDepartureUTC, format, departZone),
		EstimatedArrival:   timeutil.FormatTimestamp(r.EstimatedArrivalUTC, format, arriveZone),
		ActualDeparture:    timeutil.FormatTimestamp(firstNonEmpty(r.ActualDepartureUTC, r.OutTimeUTC), format, departZone),
		ActualArrival:      timeutil.FormatTimestamp(firstNonEmpty(r.ActualArrivalUTC, r.InTimeUTC), format, arriveZone),
		TimeRemaining:      b.remaining(r, phase),
		FlightDuration:     elapsed(r),
		TimeFormat:         string(format),

		IsSubscribed:     r.IsSubscribed,
		BlockchainTxHash: r.BlockchainTxHash,
	}
}

// remaining counts down to departure before wheels-off and to arrival while
// airborne. Finished and canceled flights have nothing to count down to.
func (b *FlightViewBuilder) remaining(r entity.FlightRecord, phase flightstatus.Phase) string {
	var target string
	switch phase {
	case flightstatus.PhaseNotDeparted, flightstatus.PhaseOut:
		target = firstNonEmpty(r.EstimatedDepartureUTC, r.ScheduledDepartureUTC)
	case flightstatus.PhaseOff, flightstatus.PhaseOn:
		target = firstNonEmpty(r.EstimatedArrivalUTC, r.ScheduledArrivalUTC)
	default:
		return ""
	}
	return timeutil.RemainingDuration(target, b.now())
}

// elapsed prefers gate-to-gate times, then actual times, then the schedule.
func elapsed(r entity.FlightRecord) string {
	switch {
	case r.OutTimeUTC != "" && r.InTimeUTC != "":
		return timeutil.ElapsedDuration(r.OutTimeUTC, r.InTimeUTC)
	case r.ActualDepartureUTC != "" && r.ActualArrivalUTC != "":
		return timeutil.ElapsedDuration(r.ActualDepartureUTC, r.ActualArrivalUTC)
	default:
		return timeutil.ElapsedDuration(r.ScheduledDepartureUTC, r.ScheduledArrivalUTC)
	}
}

func (b *FlightViewBuilder) carrierName(ctx context.Context, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return fallbackNA
	}
	if b.airlineRepo == nil {
		return code
	}
	airline, err := b.airlineRepo.GetByCode(ctx, strings.ToUpper(code))
	if err != nil || airline == nil || airline.Name == "" {
		return code
	}
	return airline.Name
}

// zoneLookup memoizes airport zones for one render pass.
type zoneLookup struct {
	b     *FlightViewBuilder
	zones map[string]string
}

func newZoneLookup(b *FlightViewBuilder) *zoneLookup {
	return &zoneLookup{b: b, zones: map[string]string{}}
}

func (z *zoneLookup) zoneFor(ctx context.Context, airport string) string {
	airport = strings.ToUpper(strings.TrimSpace(airport))
	if zone, ok := z.zones[airport]; ok {
		return zone
	}
	zone := z.b.defaultTimezone
	if airport != "" && z.b.timezoneRepo != nil {
		tz, err := z.b.timezoneRepo.GetByAirportCode(ctx, airport)
		if err != nil {
			z.b.logger.Debug("No timezone for airport, using default", "airport", airport, "error", err)
		} else if tz != nil && tz.TzName != "" {
			zone = tz.TzName
		}
	}
	z.zones[airport] = zone
	return zone
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

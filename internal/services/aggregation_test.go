package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"timesheet/internal/core"
	"timesheet/internal/events"
	"timesheet/internal/memory"
)

var (
	accountA = core.Account{ID: "A", Name: "Alpha", Color: "#fff", Group: core.GroupChargeable, IsChargeable: true, IsActive: true}
	accountB = core.Account{ID: "B", Name: "Bravo", Color: "#000", Group: core.GroupNonChargeable, IsActive: true}
	accountX = core.Account{ID: "X", Name: "Xtra", Color: "#abc", Group: core.GroupExtra, IsActive: true}
)

type fixture struct {
	store     *memory.Store
	broker    *events.Broker
	agg       *Aggregator
	timesheet *TimesheetService
}

func newFixture(t *testing.T, cfg AggregatorConfig, accounts ...core.Account) fixture {
	t.Helper()
	store := memory.New(accounts...)
	broker := events.NewBroker(nil)
	agg := NewAggregator(store, store, store, cfg, nil)
	agg.Subscribe(broker)
	return fixture{
		store:     store,
		broker:    broker,
		agg:       agg,
		timesheet: NewTimesheetService(store, store, store, broker, nil),
	}
}

func (f fixture) assign(t *testing.T, week, slot, account string) {
	t.Helper()
	if _, err := f.timesheet.AssignSlot(context.Background(), week, slot, account); err != nil {
		t.Fatalf("AssignSlot(%s, %s): %v", slot, account, err)
	}
}

func mustWeek(t *testing.T, id string) core.Week {
	t.Helper()
	w, err := core.ParseWeek(id)
	if err != nil {
		t.Fatalf("ParseWeek(%q): %v", id, err)
	}
	return w
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestWeekStats_EmptyWeek(t *testing.T) {
	f := newFixture(t, AggregatorConfig{}, accountA)
	stats := f.agg.WeekStats(context.Background(), mustWeek(t, "2025-01-06"))

	if !stats.ChargeableHours.IsZero() || !stats.Utilization.IsZero() {
		t.Fatalf("empty week stats = %+v", stats)
	}
	if stats.WeekID != "2025-01-06" {
		t.Fatalf("WeekID = %s", stats.WeekID)
	}
}

func TestScenario_TwoAccounts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA, accountB)
	week := mustWeek(t, "2025-01-06")

	f.assign(t, week.ID(), "2025-01-06-09:00", "A")
	f.assign(t, week.ID(), "2025-01-06-09:30", "A")
	f.assign(t, week.ID(), "2025-01-07-09:00", "B")

	hours := f.agg.HoursForAccount(ctx, week, "A")
	if !hours.Total.Equal(dec("1")) {
		t.Fatalf("A total = %s, want 1.0", hours.Total)
	}
	if !hours.Daily[0].Equal(dec("1")) || !hours.Daily[1].IsZero() {
		t.Fatalf("A daily = %v", hours.Daily)
	}

	stats := f.agg.WeekStats(ctx, week)
	if !stats.ChargeableHours.Equal(dec("1")) {
		t.Fatalf("chargeableHours = %s, want 1.0", stats.ChargeableHours)
	}
	if !stats.TotalHours.Equal(dec("1.5")) || stats.ActiveDays != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	// 1 / 39 * 100
	if !stats.Utilization.Equal(dec("2.56")) {
		t.Fatalf("utilization = %s", stats.Utilization)
	}

	unique := f.agg.UniqueAccountsForWeek(ctx, week)
	if len(unique) != 2 || unique[0].ID != "A" || unique[1].ID != "B" {
		t.Fatalf("unique accounts = %+v", unique)
	}
}

func TestWeekStats_EachChargeableSlotAddsHalfHour(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA, accountB, accountX)
	week := mustWeek(t, "2025-02-03")

	times := []string{"08:00", "08:30", "09:00", "09:30", "10:00"}
	for i, clock := range times {
		f.assign(t, week.ID(), "2025-02-04-"+clock, "A")
		want := decimal.NewFromFloat(0.5).Mul(decimal.NewFromInt(int64(i + 1)))
		if got := f.agg.WeekStats(ctx, week).ChargeableHours; !got.Equal(want) {
			t.Fatalf("after %d slots chargeable = %s, want %s", i+1, got, want)
		}
	}

	f.assign(t, week.ID(), "2025-02-05-09:00", "B")
	f.assign(t, week.ID(), "2025-02-05-09:30", "X")
	stats := f.agg.WeekStats(ctx, week)
	if !stats.ChargeableHours.Equal(dec("2.5")) {
		t.Fatalf("non-chargeable and extra slots counted: %s", stats.ChargeableHours)
	}
	if !stats.TotalHours.Equal(dec("3.5")) {
		t.Fatalf("total hours = %s", stats.TotalHours)
	}
}

func TestWeekStats_ExtraGroupNeverChargeable(t *testing.T) {
	ctx := context.Background()
	// A legacy row where the flag and the group disagree.
	legacy := core.Account{ID: "L", Name: "Legacy", Color: "#123", Group: core.GroupExtra, IsChargeable: true, IsActive: true}
	store := memory.New()
	if err := store.SaveAccount(ctx, legacy); err != nil {
		t.Fatalf("SaveAccount: %v", err)
	}
	agg := NewAggregator(store, store, store, AggregatorConfig{}, nil)
	week := mustWeek(t, "2025-02-03")
	slot, _ := core.SlotAt("2025-02-03", "09:00")
	_ = store.PutSlot(ctx, core.Assignment{WeekID: week.ID(), Slot: slot, AccountID: "L"})

	if stats := agg.WeekStats(ctx, week); !stats.ChargeableHours.IsZero() {
		t.Fatalf("extra account counted as chargeable: %+v", stats)
	}
}

func TestHoursForAccount_TotalEqualsSumOfDaily(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)
	week := mustWeek(t, "2025-03-10")

	for day, n := range map[string]int{"2025-03-10": 3, "2025-03-12": 1, "2025-03-16": 4} {
		for i := 0; i < n; i++ {
			slot, _ := core.SlotAt(day, core.DefaultDayTimes()[i])
			f.assign(t, week.ID(), slot.ID(), "A")
		}
	}

	h := f.agg.HoursForAccount(ctx, week, "A")
	sum := decimal.Zero
	for _, d := range h.Daily {
		sum = sum.Add(d)
	}
	if !sum.Equal(h.Total) || !h.Total.Equal(dec("4")) {
		t.Fatalf("total %s, sum of daily %s", h.Total, sum)
	}
	if !h.Daily[6].Equal(dec("2")) {
		t.Fatalf("sunday = %s", h.Daily[6])
	}

	if none := f.agg.HoursForAccount(ctx, week, "nobody"); !none.Total.IsZero() {
		t.Fatalf("unknown account hours = %+v", none)
	}
}

func TestWeekStats_ReassignSameAccountIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)
	week := mustWeek(t, "2025-01-06")

	feed, cancel := f.broker.Subscribe(8)
	defer cancel()

	f.assign(t, week.ID(), "2025-01-06-09:00", "A")
	before := f.agg.WeekStats(ctx, week)
	drain(feed)

	f.assign(t, week.ID(), "2025-01-06-09:00", "A")
	after := f.agg.WeekStats(ctx, week)

	if !before.ChargeableHours.Equal(after.ChargeableHours) || !before.Utilization.Equal(after.Utilization) {
		t.Fatalf("reassignment changed totals: %+v -> %+v", before, after)
	}
	select {
	case e := <-feed:
		t.Fatalf("idempotent assignment published %+v", e)
	default:
	}
}

func drain(ch <-chan events.Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}

func TestWeekStats_OrphansAreNoData(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{Utilization: ActiveDaysPolicy{}}, accountA)
	week := mustWeek(t, "2025-01-06")
	f.assign(t, week.ID(), "2025-01-06-09:00", "A")

	orphan, _ := core.SlotAt("2025-01-08", "09:00")
	_ = f.store.PutSlot(ctx, core.Assignment{WeekID: week.ID(), Slot: orphan, AccountID: "gone"})
	f.agg.Invalidate(week.ID())

	stats := f.agg.WeekStats(ctx, week)
	if stats.ActiveDays != 1 || !stats.TotalHours.Equal(dec("0.5")) {
		t.Fatalf("orphan counted: %+v", stats)
	}
	if got := f.agg.UniqueAccountsForWeek(ctx, week); len(got) != 1 {
		t.Fatalf("orphan listed: %+v", got)
	}
	if entries := f.agg.WeekEntries(ctx, week); len(entries) != 1 {
		t.Fatalf("orphan entry rendered: %+v", entries)
	}
	if h := f.agg.HoursForAccount(ctx, week, "gone"); !h.Total.IsZero() || h.AccountID != "gone" {
		t.Fatalf("orphan hours counted: %+v", h)
	}
	if h := f.agg.HoursForAccount(ctx, week, "A"); !h.Total.Equal(dec("0.5")) {
		t.Fatalf("hours for A = %+v", h)
	}
}

func TestWeekStats_ActiveDaysPolicy(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{Utilization: ActiveDaysPolicy{}}, accountA, accountB)
	week := mustWeek(t, "2025-01-06")

	// Monday: 4 chargeable slots, Tuesday: 1 non-chargeable slot.
	for _, clock := range []string{"09:00", "09:30", "10:00", "10:30"} {
		f.assign(t, week.ID(), "2025-01-06-"+clock, "A")
	}
	f.assign(t, week.ID(), "2025-01-07-09:00", "B")

	stats := f.agg.WeekStats(ctx, week)
	if !stats.ExpectedHours.Equal(dec("15.6")) {
		t.Fatalf("expected hours = %s", stats.ExpectedHours)
	}
	// 2 / 15.6 * 100 = 12.820...
	if !stats.Utilization.Equal(dec("12.82")) {
		t.Fatalf("utilization = %s", stats.Utilization)
	}
}

func TestWeekStats_CacheInvalidatedByChangeFeed(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA, accountB)
	week := mustWeek(t, "2025-01-06")

	f.assign(t, week.ID(), "2025-01-06-09:00", "A")
	if got := f.agg.WeekStats(ctx, week).ChargeableHours; !got.Equal(dec("0.5")) {
		t.Fatalf("chargeable = %s", got)
	}
	if f.agg.Cache().Size() != 1 {
		t.Fatalf("expected the week to be cached")
	}

	f.assign(t, week.ID(), "2025-01-06-09:00", "B")
	if got := f.agg.WeekStats(ctx, week).ChargeableHours; !got.IsZero() {
		t.Fatalf("stale stats after reassignment: %s", got)
	}

	if err := f.timesheet.ClearSlot(ctx, week.ID(), "2025-01-06-09:00"); err != nil {
		t.Fatalf("ClearSlot: %v", err)
	}
	if got := f.agg.WeekStats(ctx, week).TotalHours; !got.IsZero() {
		t.Fatalf("stale stats after clear: %s", got)
	}

	f.agg.WeekStats(ctx, week)
	f.broker.Publish(events.Event{Type: events.AccountChanged, AccountID: "A"})
	if f.agg.Cache().Size() != 0 {
		t.Fatal("account change should purge the cache")
	}
}

func TestMonthlyStats_Policies(t *testing.T) {
	ctx := context.Background()
	// January 2025 spans the weeks of Dec 30, Jan 6, 13, 20 and 27.
	tests := []struct {
		name        string
		policy      MonthlyPolicy
		utilization string
		chargeable  string
		included    int
	}{
		{name: "all weeks", policy: AllWeeksPolicy{}, utilization: "2.05", chargeable: "4", included: 5},
		{name: "completed weeks", policy: CompletedWeeksPolicy{}, utilization: "5.13", chargeable: "4", included: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, AggregatorConfig{Monthly: tt.policy}, accountA)
			for _, clock := range []string{"09:00", "09:30", "10:00", "10:30"} {
				f.assign(t, "2025-01-06", "2025-01-06-"+clock, "A")
				f.assign(t, "2025-01-13", "2025-01-13-"+clock, "A")
			}
			for _, w := range []string{"2025-01-06", "2025-01-13"} {
				if err := f.timesheet.CompleteWeek(ctx, w); err != nil {
					t.Fatalf("CompleteWeek(%s): %v", w, err)
				}
			}

			ms := f.agg.MonthlyStats(ctx, 2025, time.January)
			if len(ms.Weeks) != 5 || ms.Weeks[0].WeekID != "2024-12-30" {
				t.Fatalf("weeks = %+v", ms.Weeks)
			}
			if ms.CompletedWeeks != 2 {
				t.Fatalf("completed weeks = %d", ms.CompletedWeeks)
			}
			included := 0
			for _, w := range ms.Weeks {
				if w.Included {
					included++
				}
			}
			if included != tt.included {
				t.Fatalf("included = %d, want %d", included, tt.included)
			}
			if !ms.Utilization.Equal(dec(tt.utilization)) {
				t.Fatalf("utilization = %s, want %s", ms.Utilization, tt.utilization)
			}
			if !ms.ChargeableHours.Equal(dec(tt.chargeable)) {
				t.Fatalf("chargeable = %s, want %s", ms.ChargeableHours, tt.chargeable)
			}
		})
	}
}

func TestMonthlyStats_CompletedWeeksNoneIsZero(t *testing.T) {
	f := newFixture(t, AggregatorConfig{Monthly: CompletedWeeksPolicy{}}, accountA)
	f.assign(t, "2025-01-06", "2025-01-06-09:00", "A")

	ms := f.agg.MonthlyStats(context.Background(), 2025, time.January)
	if !ms.Utilization.IsZero() || !ms.ChargeableHours.IsZero() {
		t.Fatalf("expected zero month, got %+v", ms)
	}
}

func TestMonthlyStats_InvalidMonth(t *testing.T) {
	f := newFixture(t, AggregatorConfig{})
	ms := f.agg.MonthlyStats(context.Background(), 2025, time.Month(13))
	if len(ms.Weeks) != 0 || !ms.Utilization.IsZero() {
		t.Fatalf("unexpected stats %+v", ms)
	}
}

func TestYearStats_CountsSharedWeeksOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA)
	// The week of 2025-01-27 belongs to both January and February.
	f.assign(t, "2025-01-27", "2025-01-27-09:00", "A")
	f.assign(t, "2025-01-27", "2025-01-27-09:30", "A")

	ys := f.agg.YearStats(ctx, 2025)
	if len(ys.Months) != 12 {
		t.Fatalf("months = %d", len(ys.Months))
	}
	if !ys.TotalChargeableHours.Equal(dec("1")) {
		t.Fatalf("total chargeable = %s", ys.TotalChargeableHours)
	}
	if !ys.Months[0].ChargeableHours.Equal(dec("1")) || !ys.Months[1].ChargeableHours.Equal(dec("1")) {
		t.Fatalf("shared week missing from a month: %s / %s", ys.Months[0].ChargeableHours, ys.Months[1].ChargeableHours)
	}
}

func TestAccountSummary_Budget(t *testing.T) {
	ctx := context.Background()
	budgeted := accountA
	budgeted.BudgetedHours = decimal.NewNullDecimal(dec("10"))
	f := newFixture(t, AggregatorConfig{}, budgeted, accountB, accountX)

	for _, clock := range []string{"09:00", "09:30", "10:00", "10:30"} {
		f.assign(t, "2025-05-05", "2025-05-05-"+clock, "A")
	}
	f.assign(t, "2025-05-05", "2025-05-06-09:00", "B")
	// Outside the calendar year.
	f.assign(t, "2024-12-30", "2024-12-31-09:00", "A")

	totals := f.agg.AccountSummary(ctx, 2025)
	if len(totals) != 2 {
		t.Fatalf("totals = %+v", totals)
	}
	if totals[0].Account.ID != "A" || !totals[0].TotalHours.Equal(dec("2")) {
		t.Fatalf("first total = %+v", totals[0])
	}
	if !totals[0].BudgetUsedPercent.Valid || !totals[0].BudgetUsedPercent.Decimal.Equal(dec("20")) {
		t.Fatalf("budget used = %+v", totals[0].BudgetUsedPercent)
	}
	if totals[1].BudgetUsedPercent.Valid {
		t.Fatalf("account without budget has a percentage: %+v", totals[1])
	}
}

func TestOverview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, AggregatorConfig{}, accountA, accountB)
	week := mustWeek(t, "2025-01-08")
	f.assign(t, week.ID(), "2025-01-06-09:00", "A")
	f.assign(t, week.ID(), "2025-01-07-09:00", "B")

	ov := f.agg.Overview(ctx, week)
	if ov.WeekID != "2025-01-06" || len(ov.Days) != 7 || ov.Days[6] != "2025-01-12" {
		t.Fatalf("unexpected header %+v", ov)
	}
	if ov.Status != core.StatusInProgress {
		t.Fatalf("status = %s", ov.Status)
	}
	if ov.Entries["2025-01-06-09:00"] != "A" || len(ov.Entries) != 2 {
		t.Fatalf("entries = %+v", ov.Entries)
	}
	if len(ov.Hours) != 2 || ov.Hours[0].AccountID != "A" {
		t.Fatalf("hours = %+v", ov.Hours)
	}
	sum := decimal.Zero
	for _, h := range ov.Hours {
		sum = sum.Add(h.Total)
	}
	if !ov.Stats.TotalHours.Equal(sum) || !ov.Stats.ChargeableHours.Equal(dec("0.5")) {
		t.Fatalf("stats %+v disagree with rows totalling %s", ov.Stats, sum)
	}
	if f.agg.Cache().Size() != 1 {
		t.Fatal("overview stats should be cached")
	}
}

// gatedSlots takes its snapshot, then holds the first ListSlots call until
// release is closed.
type gatedSlots struct {
	*memory.Store
	blocked atomic.Bool
	read    chan struct{}
	release chan struct{}
}

func (g *gatedSlots) ListSlots(ctx context.Context, from, to time.Time) ([]core.Assignment, error) {
	slots, err := g.Store.ListSlots(ctx, from, to)
	if g.blocked.CompareAndSwap(false, true) {
		close(g.read)
		<-g.release
	}
	return slots, err
}

func TestWeekStats_WriteDuringComputationIsNotCached(t *testing.T) {
	ctx := context.Background()
	store := memory.New(accountA)
	gated := &gatedSlots{Store: store, read: make(chan struct{}), release: make(chan struct{})}
	broker := events.NewBroker(nil)
	agg := NewAggregator(store, gated, store, AggregatorConfig{}, nil)
	agg.Subscribe(broker)
	timesheet := NewTimesheetService(store, store, store, broker, nil)
	week := mustWeek(t, "2025-01-06")

	first := make(chan core.WeekStats, 1)
	go func() { first <- agg.WeekStats(ctx, week) }()
	<-gated.read

	if _, err := timesheet.AssignSlot(ctx, week.ID(), "2025-01-06-09:00", "A"); err != nil {
		t.Fatalf("AssignSlot: %v", err)
	}
	if got := agg.WeekStats(ctx, week).ChargeableHours; !got.Equal(dec("0.5")) {
		t.Fatalf("caller after the write got chargeable = %s, want 0.5", got)
	}

	close(gated.release)
	if got := (<-first).ChargeableHours; !got.IsZero() {
		t.Fatalf("snapshot taken before the write = %s, want 0", got)
	}
	if got := agg.WeekStats(ctx, week).ChargeableHours; !got.Equal(dec("0.5")) {
		t.Fatalf("cached chargeable = %s, want 0.5", got)
	}
}

// cancellableSlots fails reads made under a cancelled context.
type cancellableSlots struct{ *memory.Store }

func (c cancellableSlots) ListSlots(ctx context.Context, from, to time.Time) ([]core.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.Store.ListSlots(ctx, from, to)
}

func TestWeekStats_LoadIgnoresCallerCancellation(t *testing.T) {
	store := memory.New(accountA)
	agg := NewAggregator(store, cancellableSlots{store}, store, AggregatorConfig{}, nil)
	week := mustWeek(t, "2025-01-06")
	timesheet := NewTimesheetService(store, store, store, events.NewBroker(nil), nil)
	if _, err := timesheet.AssignSlot(context.Background(), week.ID(), "2025-01-06-09:00", "A"); err != nil {
		t.Fatalf("AssignSlot: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := agg.WeekStats(ctx, week).ChargeableHours; !got.Equal(dec("0.5")) {
		t.Fatalf("chargeable = %s, want 0.5", got)
	}
	if agg.Cache().Size() != 1 {
		t.Fatal("computed stats should be cached")
	}
}

type failingSlots struct{ memory.Store }

func (*failingSlots) ListSlots(context.Context, time.Time, time.Time) ([]core.Assignment, error) {
	return nil, errors.New("disk on fire")
}

type failingCatalog struct{}

func (failingCatalog) GetAccount(context.Context, string) (core.Account, error) {
	return core.Account{}, errors.New("catalog unavailable")
}

func (failingCatalog) ListAccounts(context.Context) ([]core.Account, error) {
	return nil, errors.New("catalog unavailable")
}

func TestAggregator_StoreErrorsReturnSafeDefaults(t *testing.T) {
	ctx := context.Background()
	store := memory.New(accountA)
	week := mustWeek(t, "2025-01-06")

	agg := NewAggregator(store, &failingSlots{}, store, AggregatorConfig{}, nil)
	if h := agg.HoursForAccount(ctx, week, "A"); !h.Total.IsZero() {
		t.Fatalf("hours = %+v", h)
	}
	if s := agg.WeekStats(ctx, week); !s.ChargeableHours.IsZero() || s.WeekID != week.ID() {
		t.Fatalf("stats = %+v", s)
	}
	if agg.Cache().Size() != 0 {
		t.Fatal("failed computation must not be cached")
	}
	if got := agg.AccountSummary(ctx, 2025); len(got) != 0 {
		t.Fatalf("summary = %+v", got)
	}

	agg = NewAggregator(failingCatalog{}, store, store, AggregatorConfig{}, nil)
	if got := agg.UniqueAccountsForWeek(ctx, week); got == nil || len(got) != 0 {
		t.Fatalf("unique accounts = %+v", got)
	}
	if got := agg.WeekEntries(ctx, week); len(got) != 0 {
		t.Fatalf("entries = %+v", got)
	}
}

package services

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"timesheet/internal/cache"
	"timesheet/internal/core"
	"timesheet/internal/events"
	"timesheet/internal/log"
	"timesheet/internal/ports"
)

const (
	weekCachePrefix    = "week:"
	defaultConcurrency = 4
)

// AggregatorConfig selects the utilization strategies and the week stats cache size.
type AggregatorConfig struct {
	Utilization UtilizationPolicy
	Monthly     MonthlyPolicy
	CacheSize   int
	CacheTTL    time.Duration
	// Concurrency bounds how many weeks of a month are computed at once.
	Concurrency int
}

// Aggregator derives hours and utilization from slot assignments. Queries
// never fail: store errors are logged and a zero value is returned.
type Aggregator struct {
	accounts    ports.AccountCatalog
	slots       ports.SlotReader
	statuses    ports.WeekStatusStore
	utilization UtilizationPolicy
	monthly     MonthlyPolicy
	weekCache   *cache.LRUCache[core.WeekStats]
	inflight    singleflight.Group
	concurrency int
	logger      *log.Logger

	// gen orders cache writes against invalidations. A computation only
	// stores its result if no invalidation happened since it began reading.
	genMu sync.Mutex
	epoch uint64
	gens  map[string]uint64
}

// WeekOverview is everything the calendar page shows for one week.
type WeekOverview struct {
	WeekID   string              `json:"weekId"`
	Days     []string            `json:"days"`
	Times    []string            `json:"times"`
	Status   core.WeekStatus     `json:"status"`
	Entries  map[string]string   `json:"entries"`
	Accounts []core.Account      `json:"accounts"`
	Hours    []core.AccountHours `json:"hours"`
	Stats    core.WeekStats      `json:"stats"`
}

type weekData struct {
	slots   []core.Assignment
	catalog map[string]core.Account
}

func NewAggregator(accounts ports.AccountCatalog, slots ports.SlotReader, statuses ports.WeekStatusStore, cfg AggregatorConfig, logger *log.Logger) *Aggregator {
	if cfg.Utilization == nil {
		cfg.Utilization = FixedWeekPolicy{}
	}
	if cfg.Monthly == nil {
		cfg.Monthly = AllWeeksPolicy{}
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = 256
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Aggregator{
		accounts:    accounts,
		slots:       slots,
		statuses:    statuses,
		utilization: cfg.Utilization,
		monthly:     cfg.Monthly,
		weekCache:   cache.NewLRUCache[core.WeekStats](cfg.CacheSize, cfg.CacheTTL),
		concurrency: cfg.Concurrency,
		logger:      logger.WithComponent(log.ComponentAggregation),
		gens:        make(map[string]uint64),
	}
}

// Cache exposes the week stats cache so a cache.Manager can expire it.
func (a *Aggregator) Cache() *cache.LRUCache[core.WeekStats] {
	return a.weekCache
}

// Subscribe keeps the week stats cache in step with the change feed.
func (a *Aggregator) Subscribe(b *events.Broker) {
	b.Handle(a.onEvent)
}

func (a *Aggregator) onEvent(e events.Event) {
	switch e.Type {
	case events.AccountChanged:
		// A regrouped account changes every week it appears in.
		a.InvalidateAll()
	case events.SlotAssigned, events.SlotCleared, events.WeekCleared:
		a.Invalidate(e.WeekID)
	}
}

// Invalidate drops the cached stats of one week. Computations that started
// reading before the call will not cache their result.
func (a *Aggregator) Invalidate(weekID string) {
	key := weekCachePrefix + weekID
	a.genMu.Lock()
	a.gens[weekID]++
	a.weekCache.Delete(key)
	a.genMu.Unlock()
}

// InvalidateAll drops every cached week.
func (a *Aggregator) InvalidateAll() {
	a.genMu.Lock()
	a.epoch++
	a.weekCache.Purge()
	a.genMu.Unlock()
}

func (a *Aggregator) generation(weekID string) uint64 {
	a.genMu.Lock()
	defer a.genMu.Unlock()
	return a.epoch + a.gens[weekID]
}

// storeWeekStats caches stats computed from a read that began at gen.
func (a *Aggregator) storeWeekStats(weekID string, gen uint64, stats core.WeekStats) {
	a.genMu.Lock()
	defer a.genMu.Unlock()
	if a.epoch+a.gens[weekID] != gen {
		return
	}
	a.weekCache.Set(weekCachePrefix+weekID, stats)
}

func (a *Aggregator) loadWeek(ctx context.Context, week core.Week) (weekData, bool) {
	slots, err := a.slots.ListSlots(ctx, week.Start, week.End())
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to list week slots",
			log.FieldWeekID, week.ID(), log.FieldError, err)
		return weekData{}, false
	}
	catalog, ok := a.loadCatalog(ctx)
	if !ok {
		return weekData{}, false
	}
	return weekData{slots: slots, catalog: catalog}, true
}

func (a *Aggregator) loadCatalog(ctx context.Context) (map[string]core.Account, bool) {
	accounts, err := a.accounts.ListAccounts(ctx)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to list accounts", log.FieldError, err)
		return nil, false
	}
	catalog := make(map[string]core.Account, len(accounts))
	for _, acc := range accounts {
		catalog[acc.ID] = acc
	}
	return catalog, true
}

// HoursForAccount counts the account's slots on each day of the week. An
// account missing from the catalog has no hours.
func (a *Aggregator) HoursForAccount(ctx context.Context, week core.Week, accountID string) core.AccountHours {
	data, ok := a.loadWeek(ctx, week)
	if !ok {
		return core.EmptyAccountHours(accountID)
	}
	if _, known := data.catalog[accountID]; !known {
		return core.EmptyAccountHours(accountID)
	}
	return hoursFor(week, data.slots, accountID)
}

func hoursFor(week core.Week, slots []core.Assignment, accountID string) core.AccountHours {
	var counts [core.DaysPerWeek]int
	for _, s := range slots {
		if s.AccountID != accountID {
			continue
		}
		if idx := week.DayIndex(s.Slot.Date); idx >= 0 {
			counts[idx]++
		}
	}
	h := core.EmptyAccountHours(accountID)
	for i, n := range counts {
		h.Daily[i] = core.SlotsToHours(n)
		h.Total = h.Total.Add(h.Daily[i])
	}
	return h
}

// UniqueAccountsForWeek returns the accounts referenced by the week's slots,
// ordered by group then name. Orphaned references are dropped.
func (a *Aggregator) UniqueAccountsForWeek(ctx context.Context, week core.Week) []core.Account {
	data, ok := a.loadWeek(ctx, week)
	if !ok {
		return []core.Account{}
	}
	return uniqueAccounts(data)
}

func uniqueAccounts(data weekData) []core.Account {
	seen := make(map[string]struct{})
	out := []core.Account{}
	for _, s := range data.slots {
		if _, dup := seen[s.AccountID]; dup {
			continue
		}
		seen[s.AccountID] = struct{}{}
		if acc, ok := data.catalog[s.AccountID]; ok {
			out = append(out, acc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		gi, gj := groupRank(out[i].Group), groupRank(out[j].Group)
		if gi != gj {
			return gi < gj
		}
		ni, nj := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if ni != nj {
			return ni < nj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func groupRank(g core.Group) int {
	switch g {
	case core.GroupChargeable:
		return 0
	case core.GroupNonChargeable:
		return 1
	default:
		return 2
	}
}

// WeekStats returns the hours and utilization of a week. Results are cached
// and concurrent callers for the same week share one computation.
func (a *Aggregator) WeekStats(ctx context.Context, week core.Week) core.WeekStats {
	key := weekCachePrefix + week.ID()
	if stats, ok := a.weekCache.Get(key); ok {
		return stats
	}

	// Callers arriving after an invalidation get a new generation and so a
	// new flight. The shared load ignores the first caller's cancellation.
	gen := a.generation(week.ID())
	loadCtx := context.WithoutCancel(ctx)
	v, _, _ := a.inflight.Do(key+"#"+strconv.FormatUint(gen, 10), func() (interface{}, error) {
		data, ok := a.loadWeek(loadCtx, week)
		if !ok {
			return core.EmptyWeekStats(week.ID()), nil
		}
		stats := a.computeWeekStats(week, data)
		a.storeWeekStats(week.ID(), gen, stats)
		return stats, nil
	})
	return v.(core.WeekStats)
}

func (a *Aggregator) computeWeekStats(week core.Week, data weekData) core.WeekStats {
	stats := core.EmptyWeekStats(week.ID())
	chargeable, total := 0, 0
	var active [core.DaysPerWeek]bool
	for _, s := range data.slots {
		acc, ok := data.catalog[s.AccountID]
		if !ok {
			continue
		}
		idx := week.DayIndex(s.Slot.Date)
		if idx < 0 {
			continue
		}
		total++
		active[idx] = true
		if acc.CountsAsChargeable() {
			chargeable++
		}
	}
	for _, on := range active {
		if on {
			stats.ActiveDays++
		}
	}
	stats.TotalHours = core.SlotsToHours(total)
	stats.ChargeableHours = core.SlotsToHours(chargeable)
	stats.ExpectedHours = a.utilization.ExpectedHours(stats.ActiveDays)
	stats.Utilization = core.Percent(stats.ChargeableHours, stats.ExpectedHours).Round(2)
	return stats
}

func (a *Aggregator) weekStatus(ctx context.Context, weekID string) core.WeekStatus {
	status, err := a.statuses.GetWeekStatus(ctx, weekID)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to read week status",
			log.FieldWeekID, weekID, log.FieldError, err)
		return core.StatusNotStarted
	}
	return status
}

// MonthlyStats aggregates every week intersecting the month. The monthly
// policy decides which weeks feed the averaged utilization and the
// chargeable hours.
func (a *Aggregator) MonthlyStats(ctx context.Context, year int, month time.Month) core.MonthStats {
	out := core.MonthStats{
		Year:            year,
		Month:           int(month),
		ChargeableHours: decimal.Zero,
		Utilization:     decimal.Zero,
		Weeks:           []core.MonthWeek{},
	}
	if month < time.January || month > time.December {
		return out
	}

	weeks := core.WeeksInMonth(year, month)
	results := make([]core.MonthWeek, len(weeks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, w := range weeks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = core.MonthWeek{
				WeekID: w.ID(),
				Status: a.weekStatus(gctx, w.ID()),
				Stats:  a.WeekStats(gctx, w),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		a.logger.WarnContext(ctx, "Monthly stats interrupted",
			log.FieldYear, year, log.FieldMonth, int(month), log.FieldError, err)
		return out
	}

	sum := decimal.Zero
	included := 0
	for i := range results {
		mw := &results[i]
		if mw.Status == core.StatusCompleted {
			out.CompletedWeeks++
		}
		if !a.monthly.Includes(mw.Status) {
			continue
		}
		mw.Included = true
		included++
		sum = sum.Add(mw.Stats.Utilization)
		out.ChargeableHours = out.ChargeableHours.Add(mw.Stats.ChargeableHours)
	}
	if included > 0 {
		out.Utilization = sum.Div(decimal.NewFromInt(int64(included))).Round(2)
	}
	out.Weeks = results
	return out
}

// YearStats runs MonthlyStats for each month. Weeks shared by two months are
// counted once in the year totals.
func (a *Aggregator) YearStats(ctx context.Context, year int) core.YearStats {
	out := core.YearStats{
		Year:                 year,
		Months:               make([]core.MonthStats, 0, 12),
		TotalChargeableHours: decimal.Zero,
		AverageUtilization:   decimal.Zero,
	}
	seen := make(map[string]struct{})
	sum := decimal.Zero
	included := 0
	for m := time.January; m <= time.December; m++ {
		ms := a.MonthlyStats(ctx, year, m)
		out.Months = append(out.Months, ms)
		for _, w := range ms.Weeks {
			if !w.Included {
				continue
			}
			if _, dup := seen[w.WeekID]; dup {
				continue
			}
			seen[w.WeekID] = struct{}{}
			included++
			sum = sum.Add(w.Stats.Utilization)
			out.TotalChargeableHours = out.TotalChargeableHours.Add(w.Stats.ChargeableHours)
		}
	}
	if included > 0 {
		out.AverageUtilization = sum.Div(decimal.NewFromInt(int64(included))).Round(2)
	}
	return out
}

// AccountSummary totals each account's hours over the calendar year and
// relates them to the account budget. Accounts without hours are left out.
func (a *Aggregator) AccountSummary(ctx context.Context, year int) []core.AccountTotal {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	slots, err := a.slots.ListSlots(ctx, from, to)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to list year slots", log.FieldYear, year, log.FieldError, err)
		return []core.AccountTotal{}
	}
	catalog, ok := a.loadCatalog(ctx)
	if !ok {
		return []core.AccountTotal{}
	}

	counts := make(map[string]int)
	for _, s := range slots {
		if _, ok := catalog[s.AccountID]; ok {
			counts[s.AccountID]++
		}
	}

	out := make([]core.AccountTotal, 0, len(counts))
	for id, n := range counts {
		acc := catalog[id]
		total := core.SlotsToHours(n)
		t := core.AccountTotal{Account: acc, TotalHours: total}
		if acc.BudgetedHours.Valid && acc.BudgetedHours.Decimal.IsPositive() {
			t.BudgetUsedPercent = decimal.NewNullDecimal(core.Percent(total, acc.BudgetedHours.Decimal).Round(2))
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].TotalHours.Equal(out[j].TotalHours) {
			return out[i].TotalHours.GreaterThan(out[j].TotalHours)
		}
		return out[i].Account.Name < out[j].Account.Name
	})
	return out
}

// WeekEntries maps slot ids to their account. Orphaned slots are omitted.
func (a *Aggregator) WeekEntries(ctx context.Context, week core.Week) map[string]core.Account {
	out := make(map[string]core.Account)
	data, ok := a.loadWeek(ctx, week)
	if !ok {
		return out
	}
	for _, s := range data.slots {
		if acc, ok := data.catalog[s.AccountID]; ok {
			out[s.Slot.ID()] = acc
		}
	}
	return out
}

// Overview assembles the calendar view of a week from a single read, so
// the stats always agree with the rows.
func (a *Aggregator) Overview(ctx context.Context, week core.Week) WeekOverview {
	ov := WeekOverview{
		WeekID:   week.ID(),
		Times:    core.DefaultDayTimes(),
		Status:   a.weekStatus(ctx, week.ID()),
		Entries:  map[string]string{},
		Accounts: []core.Account{},
		Hours:    []core.AccountHours{},
		Stats:    core.EmptyWeekStats(week.ID()),
	}
	for _, d := range week.Days() {
		ov.Days = append(ov.Days, core.FormatDate(d))
	}

	gen := a.generation(week.ID())
	data, ok := a.loadWeek(ctx, week)
	if !ok {
		return ov
	}
	ov.Stats = a.computeWeekStats(week, data)
	a.storeWeekStats(week.ID(), gen, ov.Stats)
	for _, s := range data.slots {
		if _, known := data.catalog[s.AccountID]; known {
			ov.Entries[s.Slot.ID()] = s.AccountID
		}
	}
	ov.Accounts = uniqueAccounts(data)
	for _, acc := range ov.Accounts {
		ov.Hours = append(ov.Hours, hoursFor(week, data.slots, acc.ID))
	}
	return ov
}

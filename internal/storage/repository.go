package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"timesheet/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// A single writer keeps slot upserts serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping reports whether the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func toCoreAccount(a Account) core.Account {
	return core.Account{
		ID:            a.ID,
		Name:          a.Name,
		JobNumber:     a.JobNumber,
		JobID:         a.JobID,
		Description:   a.Description,
		IsChargeable:  a.IsChargeable,
		IsActive:      a.IsActive,
		Color:         a.Color,
		Group:         core.Group(a.AccountGroup),
		BudgetedHours: a.BudgetedHours,
	}
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, id string) (core.Account, error) {
	a, err := r.queries.GetAccount(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrAccountNotFound, id)
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return toCoreAccount(a), nil
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context) ([]core.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	accounts := make([]core.Account, len(rows))
	for i, a := range rows {
		accounts[i] = toCoreAccount(a)
	}
	return accounts, nil
}

func (r *SQLiteRepository) SaveAccount(ctx context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	err := r.queries.UpsertAccount(ctx, UpsertAccountParams{
		ID:            a.ID,
		Name:          a.Name,
		JobNumber:     a.JobNumber,
		JobID:         a.JobID,
		Description:   a.Description,
		IsChargeable:  a.IsChargeable,
		IsActive:      a.IsActive,
		Color:         a.Color,
		AccountGroup:  string(a.Group),
		BudgetedHours: a.BudgetedHours,
	})
	if err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	slog.DebugContext(ctx, "Account saved to SQLite", "id", a.ID, "group", a.Group)
	return nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	n, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrAccountNotFound, id)
	}
	return nil
}

func toAssignment(s TimeSlot) (core.Assignment, error) {
	slot, err := core.SlotAt(s.SlotDate, s.SlotTime)
	if err != nil {
		return core.Assignment{}, err
	}
	return core.Assignment{WeekID: s.WeekID, Slot: slot, AccountID: s.AccountID}, nil
}

// ListSlots skips rows whose key no longer parses and logs them.
func (r *SQLiteRepository) ListSlots(ctx context.Context, from, to time.Time) ([]core.Assignment, error) {
	rows, err := r.queries.ListTimeSlotsBetween(ctx, core.FormatDate(from), core.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("list time slots: %w", err)
	}
	out := make([]core.Assignment, 0, len(rows))
	for _, row := range rows {
		a, err := toAssignment(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed time slot",
				"slot_date", row.SlotDate, "slot_time", row.SlotTime, "error", err)
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (r *SQLiteRepository) GetSlot(ctx context.Context, slot core.Slot) (core.Assignment, bool, error) {
	row, err := r.queries.GetTimeSlot(ctx, slot.DateID(), slot.Clock())
	if errors.Is(err, sql.ErrNoRows) {
		return core.Assignment{}, false, nil
	}
	if err != nil {
		return core.Assignment{}, false, fmt.Errorf("get time slot: %w", err)
	}
	a, err := toAssignment(row)
	if err != nil {
		return core.Assignment{}, false, err
	}
	return a, true, nil
}

func (r *SQLiteRepository) CountSlotsForAccount(ctx context.Context, accountID string) (int, error) {
	n, err := r.queries.CountTimeSlotsForAccount(ctx, accountID)
	if err != nil {
		return 0, fmt.Errorf("count time slots: %w", err)
	}
	return int(n), nil
}

func (r *SQLiteRepository) PutSlot(ctx context.Context, a core.Assignment) error {
	err := r.queries.UpsertTimeSlot(ctx, UpsertTimeSlotParams{
		SlotDate:  a.Slot.DateID(),
		SlotTime:  a.Slot.Clock(),
		WeekID:    a.WeekID,
		AccountID: a.AccountID,
	})
	if err != nil {
		return fmt.Errorf("upsert time slot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSlot(ctx context.Context, slot core.Slot) error {
	if err := r.queries.DeleteTimeSlot(ctx, slot.DateID(), slot.Clock()); err != nil {
		return fmt.Errorf("delete time slot: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteSlots(ctx context.Context, from, to time.Time) (int, error) {
	n, err := r.queries.DeleteTimeSlotsBetween(ctx, core.FormatDate(from), core.FormatDate(to))
	if err != nil {
		return 0, fmt.Errorf("delete time slots: %w", err)
	}
	slog.InfoContext(ctx, "Time slots cleared", "from", core.FormatDate(from), "to", core.FormatDate(to), "count", n)
	return int(n), nil
}

func (r *SQLiteRepository) GetWeekStatus(ctx context.Context, weekID string) (core.WeekStatus, error) {
	status, err := r.queries.GetWeekStatus(ctx, weekID)
	if errors.Is(err, sql.ErrNoRows) {
		return core.StatusNotStarted, nil
	}
	if err != nil {
		return core.StatusNotStarted, fmt.Errorf("get week status: %w", err)
	}
	return core.WeekStatus(status), nil
}

func (r *SQLiteRepository) PutWeekStatus(ctx context.Context, weekID string, status core.WeekStatus) error {
	if !status.IsValid() {
		return core.ErrInvalidStatus
	}
	if err := r.queries.UpsertWeekStatus(ctx, weekID, string(status)); err != nil {
		return fmt.Errorf("upsert week status: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetWeekNote(ctx context.Context, weekID string) (string, error) {
	notes, err := r.queries.GetWeekNote(ctx, weekID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get week note: %w", err)
	}
	return notes, nil
}

func (r *SQLiteRepository) PutWeekNote(ctx context.Context, note core.WeekNote) error {
	if err := r.queries.UpsertWeekNote(ctx, note.WeekID, note.Notes); err != nil {
		return fmt.Errorf("upsert week note: %w", err)
	}
	return nil
}

func toCoreGoal(g SmartGoal) (core.SmartGoal, error) {
	out := core.SmartGoal{
		ID:           g.ID,
		Name:         g.Name,
		AreaOfFocus:  g.AreaOfFocus,
		CurrentState: g.CurrentState,
		FutureState:  g.FutureState,
		DueDate:      g.DueDate,
	}
	if err := json.Unmarshal([]byte(g.Actions), &out.Actions); err != nil {
		return out, fmt.Errorf("decode goal actions: %w", err)
	}
	if err := json.Unmarshal([]byte(g.Milestones), &out.Milestones); err != nil {
		return out, fmt.Errorf("decode goal milestones: %w", err)
	}
	out.CreatedAt = parseTimestamp(g.CreatedAt)
	return out, nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context) ([]core.SmartGoal, error) {
	rows, err := r.queries.ListSmartGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	goals := make([]core.SmartGoal, 0, len(rows))
	for _, row := range rows {
		g, err := toCoreGoal(row)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed goal", "id", row.ID, "error", err)
			continue
		}
		goals = append(goals, g)
	}
	return goals, nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id string) (core.SmartGoal, error) {
	row, err := r.queries.GetSmartGoal(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.SmartGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.SmartGoal{}, fmt.Errorf("get goal: %w", err)
	}
	return toCoreGoal(row)
}

func (r *SQLiteRepository) SaveGoal(ctx context.Context, g core.SmartGoal) error {
	actions, err := json.Marshal(nonNilCheckpoints(g.Actions))
	if err != nil {
		return fmt.Errorf("encode goal actions: %w", err)
	}
	milestones, err := json.Marshal(nonNilCheckpoints(g.Milestones))
	if err != nil {
		return fmt.Errorf("encode goal milestones: %w", err)
	}
	err = r.queries.UpsertSmartGoal(ctx, SmartGoal{
		ID:           g.ID,
		Name:         g.Name,
		AreaOfFocus:  g.AreaOfFocus,
		CurrentState: g.CurrentState,
		FutureState:  g.FutureState,
		DueDate:      g.DueDate,
		Actions:      string(actions),
		Milestones:   string(milestones),
		CreatedAt:    formatTimestamp(g.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("save goal: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id string) error {
	n, err := r.queries.DeleteSmartGoal(ctx, id)
	if err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func toCoreEvent(e Event) core.Event {
	return core.Event{
		ID:        e.ID,
		Title:     e.Title,
		Date:      e.EventDate,
		Type:      core.EventType(e.EventType),
		IsDefault: e.IsDefault,
	}
}

func (r *SQLiteRepository) ListEvents(ctx context.Context) ([]core.Event, error) {
	rows, err := r.queries.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := make([]core.Event, len(rows))
	for i, e := range rows {
		events[i] = toCoreEvent(e)
	}
	return events, nil
}

func (r *SQLiteRepository) GetEvent(ctx context.Context, id string) (core.Event, error) {
	e, err := r.queries.GetEvent(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Event{}, fmt.Errorf("event %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Event{}, fmt.Errorf("get event: %w", err)
	}
	return toCoreEvent(e), nil
}

func (r *SQLiteRepository) SaveEvent(ctx context.Context, e core.Event) error {
	err := r.queries.UpsertEvent(ctx, Event{
		ID:        e.ID,
		Title:     e.Title,
		EventDate: e.Date,
		EventType: string(e.Type),
		IsDefault: e.IsDefault,
	})
	if err != nil {
		return fmt.Errorf("save event: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteEvent(ctx context.Context, id string) error {
	n, err := r.queries.DeleteEvent(ctx, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("event %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func toCoreItem(i TrafficLightItem) core.TrafficLightItem {
	item := core.TrafficLightItem{
		ID:       i.ID,
		Role:     i.Role,
		Category: i.Category,
		Text:     i.Text,
		Notes:    i.Notes,
		ItemType: core.ItemType(i.ItemType),
	}
	if i.Rating.Valid {
		rating := int(i.Rating.Int64)
		item.Rating = &rating
	}
	return item
}

func (r *SQLiteRepository) ListItems(ctx context.Context, role, category string) ([]core.TrafficLightItem, error) {
	rows, err := r.queries.ListTrafficLightItems(ctx, role, category)
	if err != nil {
		return nil, fmt.Errorf("list traffic light items: %w", err)
	}
	items := make([]core.TrafficLightItem, len(rows))
	for i, row := range rows {
		items[i] = toCoreItem(row)
	}
	return items, nil
}

func (r *SQLiteRepository) GetItem(ctx context.Context, id string) (core.TrafficLightItem, error) {
	row, err := r.queries.GetTrafficLightItem(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.TrafficLightItem{}, fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.TrafficLightItem{}, fmt.Errorf("get traffic light item: %w", err)
	}
	return toCoreItem(row), nil
}

func (r *SQLiteRepository) SaveItem(ctx context.Context, item core.TrafficLightItem) error {
	err := r.queries.UpsertTrafficLightItem(ctx, TrafficLightItem{
		ID:       item.ID,
		Role:     item.Role,
		Category: item.Category,
		Text:     item.Text,
		Rating:   nullRating(item.Rating),
		Notes:    item.Notes,
		ItemType: string(item.ItemType),
	})
	if err != nil {
		return fmt.Errorf("save traffic light item: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteItem(ctx context.Context, id string) error {
	n, err := r.queries.DeleteTrafficLightItem(ctx, id)
	if err != nil {
		return fmt.Errorf("delete traffic light item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func toCoreResource(r Resource) core.Resource {
	return core.Resource{
		ID:        r.ID,
		Type:      core.ResourceType(r.ResourceType),
		Name:      r.Name,
		URL:       r.Url,
		Data:      r.Data,
		CreatedAt: parseTimestamp(r.CreatedAt),
	}
}

func (r *SQLiteRepository) ListResources(ctx context.Context) ([]core.Resource, error) {
	rows, err := r.queries.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	out := make([]core.Resource, len(rows))
	for i, row := range rows {
		out[i] = toCoreResource(row)
	}
	return out, nil
}

func (r *SQLiteRepository) GetResource(ctx context.Context, id string) (core.Resource, error) {
	row, err := r.queries.GetResource(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Resource{}, fmt.Errorf("resource %s: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Resource{}, fmt.Errorf("get resource: %w", err)
	}
	return toCoreResource(row), nil
}

func (r *SQLiteRepository) SaveResource(ctx context.Context, res core.Resource) error {
	err := r.queries.UpsertResource(ctx, Resource{
		ID:           res.ID,
		ResourceType: string(res.Type),
		Name:         res.Name,
		Url:          res.URL,
		Data:         res.Data,
		CreatedAt:    formatTimestamp(res.CreatedAt),
	})
	if err != nil {
		return fmt.Errorf("save resource: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteResource(ctx context.Context, id string) error {
	n, err := r.queries.DeleteResource(ctx, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("resource %s: %w", id, core.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) GetProfile(ctx context.Context) (core.Profile, error) {
	p, err := r.queries.GetProfile(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultProfile(), nil
	}
	if err != nil {
		return core.DefaultProfile(), fmt.Errorf("get profile: %w", err)
	}
	return core.Profile{Name: p.Name, Position: p.Position, UpdatedAt: parseTimestamp(p.UpdatedAt)}, nil
}

func (r *SQLiteRepository) SaveProfile(ctx context.Context, p core.Profile) error {
	err := r.queries.UpsertProfile(ctx, Profile{
		Name:      p.Name,
		Position:  p.Position,
		UpdatedAt: formatTimestamp(p.UpdatedAt),
	})
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func nonNilCheckpoints(c []core.Checkpoint) []core.Checkpoint {
	if c == nil {
		return []core.Checkpoint{}
	}
	return c
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

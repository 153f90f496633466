package memory

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"timesheet/internal/core"
)

// Store keeps every record in process memory. It implements all the ports
// and is used for tests and throwaway sessions.
type Store struct {
	mu       sync.Mutex
	accounts map[string]core.Account
	order    []string
	slots    map[string]core.Assignment
	statuses map[string]core.WeekStatus
	notes    map[string]string
	goals    map[string]core.SmartGoal
	events   map[string]core.Event
	items    map[string]core.TrafficLightItem
	itemSeq  []string
	res      map[string]core.Resource
	profile  *core.Profile
}

// New returns a store seeded with the example goal, the default events and accounts.
func New(accounts ...core.Account) *Store {
	s := &Store{
		accounts: make(map[string]core.Account),
		slots:    make(map[string]core.Assignment),
		statuses: make(map[string]core.WeekStatus),
		notes:    make(map[string]string),
		goals:    make(map[string]core.SmartGoal),
		events:   make(map[string]core.Event),
		items:    make(map[string]core.TrafficLightItem),
		res:      make(map[string]core.Resource),
	}
	goal := core.ExampleGoal()
	s.goals[goal.ID] = goal
	for _, e := range core.DefaultEvents() {
		s.events[e.ID] = e
	}
	for _, a := range accounts {
		s.putAccount(a.Normalize())
	}
	return s
}

// NewFromFiles seeds accounts from base/seed_accounts.txt. Each line is
// id|name|group|color; blank lines and # comments are skipped.
func NewFromFiles(base string) *Store {
	var accounts []core.Account
	for _, line := range readLines(filepath.Join(base, "seed_accounts.txt")) {
		parts := strings.Split(line, "|")
		if len(parts) != 4 {
			continue
		}
		a := core.Account{
			ID:       strings.TrimSpace(parts[0]),
			Name:     strings.TrimSpace(parts[1]),
			Group:    core.Group(strings.TrimSpace(parts[2])),
			Color:    strings.TrimSpace(parts[3]),
			IsActive: true,
		}.Normalize()
		if a.Validate() != nil {
			continue
		}
		accounts = append(accounts, a)
	}
	return New(accounts...)
}

func (s *Store) putAccount(a core.Account) {
	if _, ok := s.accounts[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.accounts[a.ID] = a
}

func (s *Store) GetAccount(_ context.Context, id string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.accounts[id]
	if !ok {
		return core.Account{}, fmt.Errorf("%w: %s", core.ErrAccountNotFound, id)
	}
	return a, nil
}

// ListAccounts returns accounts in insertion order.
func (s *Store) ListAccounts(_ context.Context) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Account, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.accounts[id])
	}
	return out, nil
}

func (s *Store) SaveAccount(_ context.Context, a core.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putAccount(a)
	return nil
}

func (s *Store) DeleteAccount(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrAccountNotFound, id)
	}
	delete(s.accounts, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) ListSlots(_ context.Context, from, to time.Time) ([]core.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fromID, toID := core.FormatDate(from), core.FormatDate(to)
	var out []core.Assignment
	for _, a := range s.slots {
		d := a.Slot.DateID()
		if d >= fromID && d <= toID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot.ID() < out[j].Slot.ID() })
	return out, nil
}

func (s *Store) GetSlot(_ context.Context, slot core.Slot) (core.Assignment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.slots[slot.ID()]
	return a, ok, nil
}

func (s *Store) CountSlotsForAccount(_ context.Context, accountID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.slots {
		if a.AccountID == accountID {
			n++
		}
	}
	return n, nil
}

func (s *Store) PutSlot(_ context.Context, a core.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slots[a.Slot.ID()] = a
	return nil
}

func (s *Store) DeleteSlot(_ context.Context, slot core.Slot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.slots, slot.ID())
	return nil
}

func (s *Store) DeleteSlots(_ context.Context, from, to time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fromID, toID := core.FormatDate(from), core.FormatDate(to)
	n := 0
	for id, a := range s.slots {
		d := a.Slot.DateID()
		if d >= fromID && d <= toID {
			delete(s.slots, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) GetWeekStatus(_ context.Context, weekID string) (core.WeekStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.statuses[weekID]; ok {
		return st, nil
	}
	return core.StatusNotStarted, nil
}

func (s *Store) PutWeekStatus(_ context.Context, weekID string, status core.WeekStatus) error {
	if !status.IsValid() {
		return core.ErrInvalidStatus
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[weekID] = status
	return nil
}

func (s *Store) GetWeekNote(_ context.Context, weekID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes[weekID], nil
}

func (s *Store) PutWeekNote(_ context.Context, note core.WeekNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes[note.WeekID] = note.Notes
	return nil
}

// ListGoals returns goals oldest first.
func (s *Store) ListGoals(_ context.Context) ([]core.SmartGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.SmartGoal, 0, len(s.goals))
	for _, g := range s.goals {
		out = append(out, cloneGoal(g))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) GetGoal(_ context.Context, id string) (core.SmartGoal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.goals[id]
	if !ok {
		return core.SmartGoal{}, fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	return cloneGoal(g), nil
}

func (s *Store) SaveGoal(_ context.Context, g core.SmartGoal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals[g.ID] = cloneGoal(g)
	return nil
}

func (s *Store) DeleteGoal(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.goals[id]; !ok {
		return fmt.Errorf("goal %s: %w", id, core.ErrNotFound)
	}
	delete(s.goals, id)
	return nil
}

// ListEvents returns events by date.
func (s *Store) ListEvents(_ context.Context) ([]core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date == out[j].Date {
			return out[i].ID < out[j].ID
		}
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (s *Store) GetEvent(_ context.Context, id string) (core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return core.Event{}, fmt.Errorf("event %s: %w", id, core.ErrNotFound)
	}
	return e, nil
}

func (s *Store) SaveEvent(_ context.Context, e core.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[e.ID] = e
	return nil
}

func (s *Store) DeleteEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return fmt.Errorf("event %s: %w", id, core.ErrNotFound)
	}
	delete(s.events, id)
	return nil
}

// ListItems returns the items of a role category in insertion order.
func (s *Store) ListItems(_ context.Context, role, category string) ([]core.TrafficLightItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []core.TrafficLightItem
	for _, id := range s.itemSeq {
		it, ok := s.items[id]
		if ok && it.Role == role && it.Category == category {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *Store) GetItem(_ context.Context, id string) (core.TrafficLightItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return core.TrafficLightItem{}, fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	return it, nil
}

func (s *Store) SaveItem(_ context.Context, item core.TrafficLightItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[item.ID]; !ok {
		s.itemSeq = append(s.itemSeq, item.ID)
	}
	s.items[item.ID] = item
	return nil
}

func (s *Store) DeleteItem(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("item %s: %w", id, core.ErrNotFound)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) ListResources(_ context.Context) ([]core.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Resource, 0, len(s.res))
	for _, r := range s.res {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetResource(_ context.Context, id string) (core.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.res[id]
	if !ok {
		return core.Resource{}, fmt.Errorf("resource %s: %w", id, core.ErrNotFound)
	}
	return r, nil
}

func (s *Store) SaveResource(_ context.Context, r core.Resource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.res[r.ID] = r
	return nil
}

func (s *Store) DeleteResource(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.res[id]; !ok {
		return fmt.Errorf("resource %s: %w", id, core.ErrNotFound)
	}
	delete(s.res, id)
	return nil
}

func (s *Store) GetProfile(_ context.Context) (core.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return core.DefaultProfile(), nil
	}
	return *s.profile, nil
}

func (s *Store) SaveProfile(_ context.Context, p core.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	return nil
}

func cloneGoal(g core.SmartGoal) core.SmartGoal {
	g.Actions = append([]core.Checkpoint(nil), g.Actions...)
	g.Milestones = append([]core.Checkpoint(nil), g.Milestones...)
	return g
}

func readLines(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()
	var out []string
	seen := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		out = append(out, line)
	}
	return out
}

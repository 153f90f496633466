package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"timesheet/internal/core"
)

func TestMemoryStoreAccountsAndSlots(t *testing.T) {
	ctx := context.Background()
	s := New(core.Account{ID: "a", Name: "A", Color: "#fff", Group: core.GroupChargeable, IsActive: true})

	a, err := s.GetAccount(ctx, "a")
	if err != nil || !a.IsChargeable {
		t.Fatalf("unexpected account: %+v err=%v", a, err)
	}
	if _, err := s.GetAccount(ctx, "missing"); !errors.Is(err, core.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}

	mon, _ := core.SlotAt("2025-01-06", "09:00")
	sun, _ := core.SlotAt("2025-01-12", "18:00")
	next, _ := core.SlotAt("2025-01-13", "09:00")
	for _, sl := range []core.Slot{mon, sun, next} {
		if err := s.PutSlot(ctx, core.Assignment{WeekID: core.WeekOf(sl.Date).ID(), Slot: sl, AccountID: "a"}); err != nil {
			t.Fatalf("PutSlot: %v", err)
		}
	}

	week, _ := core.ParseWeek("2025-01-06")
	got, err := s.ListSlots(ctx, week.Start, week.End())
	if err != nil || len(got) != 2 {
		t.Fatalf("ListSlots = %v err=%v", got, err)
	}
	if got[0].Slot.ID() != mon.ID() {
		t.Fatalf("slots not ordered: %v", got)
	}

	n, err := s.DeleteSlots(ctx, week.Start, week.End())
	if err != nil || n != 2 {
		t.Fatalf("DeleteSlots = %d err=%v", n, err)
	}
	if c, _ := s.CountSlotsForAccount(ctx, "a"); c != 1 {
		t.Fatalf("expected the next week's slot to survive, count=%d", c)
	}
}

func TestMemoryStoreWeekStatusDefault(t *testing.T) {
	ctx := context.Background()
	s := New()
	st, err := s.GetWeekStatus(ctx, "2025-01-06")
	if err != nil || st != core.StatusNotStarted {
		t.Fatalf("unexpected status %q err=%v", st, err)
	}
	if err := s.PutWeekStatus(ctx, "2025-01-06", "bogus"); !errors.Is(err, core.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestMemoryStoreSeeds(t *testing.T) {
	ctx := context.Background()
	s := New()
	if _, err := s.GetGoal(ctx, core.ExampleGoalID); err != nil {
		t.Fatalf("example goal missing: %v", err)
	}
	events, _ := s.ListEvents(ctx)
	if len(events) != 3 || events[0].Title != "Easter Break" {
		t.Fatalf("unexpected default events %+v", events)
	}
	p, _ := s.GetProfile(ctx)
	if p.Name != core.DefaultProfileName {
		t.Fatalf("unexpected default profile %+v", p)
	}
}

func TestMemoryStoreGoalIsolation(t *testing.T) {
	ctx := context.Background()
	s := New()
	g, _ := s.GetGoal(ctx, core.ExampleGoalID)
	g.Milestones[0].IsCompleted = true
	again, _ := s.GetGoal(ctx, core.ExampleGoalID)
	if again.Milestones[0].IsCompleted {
		t.Fatal("mutating a returned goal leaked into the store")
	}
	_ = s.SaveGoal(ctx, core.SmartGoal{ID: "g2", Name: "Later", CreatedAt: time.Now()})
	goals, _ := s.ListGoals(ctx)
	if len(goals) != 2 || goals[0].ID != core.ExampleGoalID {
		t.Fatalf("unexpected goals %+v", goals)
	}
}

func TestNewFromFilesSeedsAccounts(t *testing.T) {
	dir := t.TempDir()
	s := NewFromFiles(dir)
	accounts, _ := s.ListAccounts(context.Background())
	if len(accounts) != 0 {
		t.Fatalf("expected no accounts without a seed file, got %v", accounts)
	}

	content := "# id|name|group|color\nacme|ACME Corp|chargeable|#ff0000\nacme|ACME Corp|chargeable|#ff0000\ntraining|Training|non-chargeable|#00f\nbroken line\nbad|Bad|chargeable|red\n"
	if err := os.WriteFile(filepath.Join(dir, "seed_accounts.txt"), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	s = NewFromFiles(dir)
	accounts, _ = s.ListAccounts(context.Background())
	if len(accounts) != 2 || accounts[0].ID != "acme" || !accounts[0].IsChargeable || accounts[1].IsChargeable {
		t.Fatalf("unexpected accounts %+v", accounts)
	}
}

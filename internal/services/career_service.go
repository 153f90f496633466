package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"timesheet/internal/core"
	"timesheet/internal/log"
	"timesheet/internal/ports"
)

// CareerService holds the career-tracking records next to the timesheet:
// goals, calendar events, traffic-light ratings, resources, the profile and
// week notes. None of it feeds the aggregation.
type CareerService struct {
	store  ports.CareerStore
	notes  ports.WeekNoteStore
	logger *log.Logger
	now    func() time.Time
}

func NewCareerService(store ports.CareerStore, notes ports.WeekNoteStore, logger *log.Logger) *CareerService {
	if logger == nil {
		logger = log.Discard()
	}
	return &CareerService{
		store:  store,
		notes:  notes,
		logger: logger.WithComponent(log.ComponentCareer),
		now:    time.Now,
	}
}

// Goals

func (s *CareerService) ListGoals(ctx context.Context) []core.SmartGoal {
	goals, err := s.store.ListGoals(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list goals", log.FieldError, err)
		return []core.SmartGoal{}
	}
	if goals == nil {
		return []core.SmartGoal{}
	}
	return goals
}

func (s *CareerService) GetGoal(ctx context.Context, id string) (core.SmartGoal, error) {
	return s.store.GetGoal(ctx, id)
}

func (s *CareerService) CreateGoal(ctx context.Context, g core.SmartGoal) (core.SmartGoal, error) {
	g.ID = uuid.NewString()
	g.CreatedAt = s.now().UTC()
	g.Actions = withCheckpointIDs(g.Actions)
	g.Milestones = withCheckpointIDs(g.Milestones)
	if err := g.Validate(); err != nil {
		return core.SmartGoal{}, err
	}
	if err := s.store.SaveGoal(ctx, g); err != nil {
		return core.SmartGoal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

// UpdateGoal replaces the goal's fields, keeping its id and creation time.
func (s *CareerService) UpdateGoal(ctx context.Context, g core.SmartGoal) (core.SmartGoal, error) {
	existing, err := s.store.GetGoal(ctx, g.ID)
	if err != nil {
		return core.SmartGoal{}, err
	}
	g.CreatedAt = existing.CreatedAt
	g.Actions = withCheckpointIDs(g.Actions)
	g.Milestones = withCheckpointIDs(g.Milestones)
	if err := g.Validate(); err != nil {
		return core.SmartGoal{}, err
	}
	if err := s.store.SaveGoal(ctx, g); err != nil {
		return core.SmartGoal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

// DeleteGoal removes a goal. The example goal is protected.
func (s *CareerService) DeleteGoal(ctx context.Context, id string) error {
	if id == core.ExampleGoalID {
		return fmt.Errorf("goal %s: %w", id, core.ErrProtected)
	}
	return s.store.DeleteGoal(ctx, id)
}

func (s *CareerService) ToggleAction(ctx context.Context, goalID, actionID string) (core.SmartGoal, error) {
	return s.toggle(ctx, goalID, actionID, func(g *core.SmartGoal) []core.Checkpoint { return g.Actions })
}

func (s *CareerService) ToggleMilestone(ctx context.Context, goalID, milestoneID string) (core.SmartGoal, error) {
	return s.toggle(ctx, goalID, milestoneID, func(g *core.SmartGoal) []core.Checkpoint { return g.Milestones })
}

func (s *CareerService) toggle(ctx context.Context, goalID, checkpointID string, list func(*core.SmartGoal) []core.Checkpoint) (core.SmartGoal, error) {
	g, err := s.store.GetGoal(ctx, goalID)
	if err != nil {
		return core.SmartGoal{}, err
	}
	items := list(&g)
	found := false
	for i := range items {
		if items[i].ID == checkpointID {
			items[i].IsCompleted = !items[i].IsCompleted
			found = true
			break
		}
	}
	if !found {
		return core.SmartGoal{}, fmt.Errorf("checkpoint %s: %w", checkpointID, core.ErrNotFound)
	}
	if err := s.store.SaveGoal(ctx, g); err != nil {
		return core.SmartGoal{}, fmt.Errorf("save goal: %w", err)
	}
	return g, nil
}

func withCheckpointIDs(items []core.Checkpoint) []core.Checkpoint {
	out := make([]core.Checkpoint, 0, len(items))
	for _, c := range items {
		if strings.TrimSpace(c.ID) == "" {
			c.ID = uuid.NewString()
		}
		out = append(out, c)
	}
	return out
}

// Events

func (s *CareerService) ListEvents(ctx context.Context) []core.Event {
	evs, err := s.store.ListEvents(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list events", log.FieldError, err)
		return []core.Event{}
	}
	if evs == nil {
		return []core.Event{}
	}
	return evs
}

func (s *CareerService) AddEvent(ctx context.Context, e core.Event) (core.Event, error) {
	e.ID = uuid.NewString()
	e.IsDefault = false
	if err := e.Validate(); err != nil {
		return core.Event{}, err
	}
	if err := s.store.SaveEvent(ctx, e); err != nil {
		return core.Event{}, fmt.Errorf("save event: %w", err)
	}
	return e, nil
}

// DeleteEvent removes a user event. Default events are protected.
func (s *CareerService) DeleteEvent(ctx context.Context, id string) error {
	e, err := s.store.GetEvent(ctx, id)
	if err != nil {
		return err
	}
	if e.IsDefault {
		return fmt.Errorf("event %s: %w", id, core.ErrProtected)
	}
	return s.store.DeleteEvent(ctx, id)
}

// Traffic light

func (s *CareerService) ListItems(ctx context.Context, role, category string) []core.TrafficLightItem {
	items, err := s.store.ListItems(ctx, role, category)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list traffic light items",
			"role", role, "category", category, log.FieldError, err)
		return []core.TrafficLightItem{}
	}
	if items == nil {
		return []core.TrafficLightItem{}
	}
	return items
}

// InitializeCategory seeds an empty role category with unrated items, one
// per default text. A category that already has items is left alone.
func (s *CareerService) InitializeCategory(ctx context.Context, role, category string, defaults []string) ([]core.TrafficLightItem, error) {
	existing, err := s.store.ListItems(ctx, role, category)
	if err != nil {
		return nil, fmt.Errorf("list traffic light items: %w", err)
	}
	if len(existing) > 0 {
		return existing, nil
	}
	out := make([]core.TrafficLightItem, 0, len(defaults))
	for _, text := range defaults {
		item := core.TrafficLightItem{ID: uuid.NewString(), Role: role, Category: category, Text: text}
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if err := s.store.SaveItem(ctx, item); err != nil {
			return nil, fmt.Errorf("save traffic light item: %w", err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *CareerService) AddItem(ctx context.Context, item core.TrafficLightItem) (core.TrafficLightItem, error) {
	item.ID = uuid.NewString()
	if err := item.Validate(); err != nil {
		return core.TrafficLightItem{}, err
	}
	if err := s.store.SaveItem(ctx, item); err != nil {
		return core.TrafficLightItem{}, fmt.Errorf("save traffic light item: %w", err)
	}
	return item, nil
}

// UpdateItem changes the text, notes and type of an item. Role, category and
// rating are kept.
func (s *CareerService) UpdateItem(ctx context.Context, update core.TrafficLightItem) (core.TrafficLightItem, error) {
	item, err := s.store.GetItem(ctx, update.ID)
	if err != nil {
		return core.TrafficLightItem{}, err
	}
	item.Text = update.Text
	item.Notes = update.Notes
	item.ItemType = update.ItemType
	if err := item.Validate(); err != nil {
		return core.TrafficLightItem{}, err
	}
	if err := s.store.SaveItem(ctx, item); err != nil {
		return core.TrafficLightItem{}, fmt.Errorf("save traffic light item: %w", err)
	}
	return item, nil
}

// RateItem sets the rating. Giving the current rating again clears it.
func (s *CareerService) RateItem(ctx context.Context, id string, rating int) (core.TrafficLightItem, error) {
	if rating < 1 || rating > 5 {
		return core.TrafficLightItem{}, core.ErrInvalidRating
	}
	item, err := s.store.GetItem(ctx, id)
	if err != nil {
		return core.TrafficLightItem{}, err
	}
	if item.Rating != nil && *item.Rating == rating {
		item.Rating = nil
	} else {
		item.Rating = &rating
	}
	if err := s.store.SaveItem(ctx, item); err != nil {
		return core.TrafficLightItem{}, fmt.Errorf("save traffic light item: %w", err)
	}
	return item, nil
}

func (s *CareerService) DeleteItem(ctx context.Context, id string) error {
	return s.store.DeleteItem(ctx, id)
}

// CategoryProgress is the share of the maximum score reached, 0..100.
func (s *CareerService) CategoryProgress(ctx context.Context, role, category string) int {
	items := s.ListItems(ctx, role, category)
	if len(items) == 0 {
		return 0
	}
	score := 0
	for _, it := range items {
		if it.Rating != nil {
			score += *it.Rating
		}
	}
	return int(math.Round(float64(score) / float64(len(items)*5) * 100))
}

// Resources

func (s *CareerService) ListResources(ctx context.Context) []core.Resource {
	res, err := s.store.ListResources(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to list resources", log.FieldError, err)
		return []core.Resource{}
	}
	if res == nil {
		return []core.Resource{}
	}
	return res
}

func (s *CareerService) AddResource(ctx context.Context, r core.Resource) (core.Resource, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = s.now().UTC()
	if err := r.Validate(); err != nil {
		return core.Resource{}, err
	}
	if err := s.store.SaveResource(ctx, r); err != nil {
		return core.Resource{}, fmt.Errorf("save resource: %w", err)
	}
	return r, nil
}

func (s *CareerService) UpdateResource(ctx context.Context, r core.Resource) (core.Resource, error) {
	existing, err := s.store.GetResource(ctx, r.ID)
	if err != nil {
		return core.Resource{}, err
	}
	r.CreatedAt = existing.CreatedAt
	if err := r.Validate(); err != nil {
		return core.Resource{}, err
	}
	if err := s.store.SaveResource(ctx, r); err != nil {
		return core.Resource{}, fmt.Errorf("save resource: %w", err)
	}
	return r, nil
}

func (s *CareerService) DeleteResource(ctx context.Context, id string) error {
	return s.store.DeleteResource(ctx, id)
}

// Profile

func (s *CareerService) Profile(ctx context.Context) core.Profile {
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read profile", log.FieldError, err)
		return core.DefaultProfile()
	}
	return p
}

func (s *CareerService) UpdateProfile(ctx context.Context, p core.Profile) (core.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Position = strings.TrimSpace(p.Position)
	p.UpdatedAt = s.now().UTC()
	if err := p.Validate(); err != nil {
		return core.Profile{}, err
	}
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("save profile: %w", err)
	}
	return p, nil
}

// Week notes

func (s *CareerService) WeekNote(ctx context.Context, weekID string) (core.WeekNote, error) {
	week, err := core.ParseWeek(weekID)
	if err != nil {
		return core.WeekNote{}, err
	}
	notes, err := s.notes.GetWeekNote(ctx, week.ID())
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to read week note", log.FieldWeekID, week.ID(), log.FieldError, err)
		return core.WeekNote{WeekID: week.ID()}, nil
	}
	return core.WeekNote{WeekID: week.ID(), Notes: notes}, nil
}

func (s *CareerService) SaveWeekNote(ctx context.Context, weekID, notes string) (core.WeekNote, error) {
	week, err := core.ParseWeek(weekID)
	if err != nil {
		return core.WeekNote{}, err
	}
	note := core.WeekNote{WeekID: week.ID(), Notes: notes}
	if err := s.notes.PutWeekNote(ctx, note); err != nil {
		return core.WeekNote{}, fmt.Errorf("save week note: %w", err)
	}
	return note, nil
}

package core

import (
	"errors"
	"strings"
	"time"
)

const (
	EventCompany  EventType = "company"
	EventHoliday  EventType = "holiday"
	EventPersonal EventType = "personal"

	ResourceURL  ResourceType = "url"
	ResourceFile ResourceType = "file"

	ItemDaily    ItemType = "daily"
	ItemTraining ItemType = "training"
	ItemWider    ItemType = "wider"

	// ExampleGoalID is the seeded goal that cannot be deleted.
	ExampleGoalID = "example-goal"

	DefaultProfileName     = "John Doe"
	DefaultProfilePosition = "Graduate"
)

type (
	EventType    string
	ResourceType string
	ItemType     string

	// Checkpoint is an action or milestone of a goal.
	Checkpoint struct {
		ID          string `json:"id"`
		Text        string `json:"text"`
		IsCompleted bool   `json:"isCompleted"`
	}

	SmartGoal struct {
		ID           string       `json:"id"`
		Name         string       `json:"name"`
		AreaOfFocus  string       `json:"areaOfFocus"`
		CurrentState string       `json:"currentState"`
		FutureState  string       `json:"futureState"`
		DueDate      string       `json:"dueDate"`
		Actions      []Checkpoint `json:"actions"`
		Milestones   []Checkpoint `json:"milestones"`
		CreatedAt    time.Time    `json:"createdAt"`
	}

	Event struct {
		ID        string    `json:"id"`
		Title     string    `json:"title"`
		Date      string    `json:"date"`
		Type      EventType `json:"type"`
		IsDefault bool      `json:"isDefault"`
	}

	// TrafficLightItem is a self-assessment line of a role requirement category.
	TrafficLightItem struct {
		ID       string   `json:"id"`
		Role     string   `json:"role"`
		Category string   `json:"category"`
		Text     string   `json:"text"`
		Rating   *int     `json:"rating"`
		Notes    string   `json:"notes"`
		ItemType ItemType `json:"itemType,omitempty"`
	}

	Resource struct {
		ID        string       `json:"id"`
		Type      ResourceType `json:"type"`
		Name      string       `json:"name"`
		URL       string       `json:"url,omitempty"`
		Data      string       `json:"data,omitempty"`
		CreatedAt time.Time    `json:"createdAt"`
	}

	Profile struct {
		Name      string    `json:"name"`
		Position  string    `json:"position"`
		UpdatedAt time.Time `json:"updatedAt"`
	}

	WeekNote struct {
		WeekID string `json:"weekId"`
		Notes  string `json:"notes"`
	}
)

var (
	ErrEmptyName     = errors.New("empty name")
	ErrEmptyTitle    = errors.New("empty title")
	ErrEmptyText     = errors.New("empty text")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidType   = errors.New("invalid type")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrEmptyCategory = errors.New("role and category are required")
	ErrMissingURL    = errors.New("url resources need a url")
	ErrMissingData   = errors.New("file resources need data")
)

func (g SmartGoal) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return ErrEmptyName
	}
	if g.DueDate != "" {
		if _, err := ParseDate(g.DueDate); err != nil {
			return ErrInvalidDate
		}
	}
	for _, c := range append(append([]Checkpoint(nil), g.Actions...), g.Milestones...) {
		if strings.TrimSpace(c.Text) == "" {
			return ErrEmptyText
		}
	}
	return nil
}

func (e Event) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := ParseDate(e.Date); err != nil {
		return ErrInvalidDate
	}
	switch e.Type {
	case EventCompany, EventHoliday, EventPersonal:
	default:
		return ErrInvalidType
	}
	return nil
}

func (i TrafficLightItem) Validate() error {
	if strings.TrimSpace(i.Role) == "" || strings.TrimSpace(i.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(i.Text) == "" {
		return ErrEmptyText
	}
	if i.Rating != nil && (*i.Rating < 1 || *i.Rating > 5) {
		return ErrInvalidRating
	}
	switch i.ItemType {
	case "", ItemDaily, ItemTraining, ItemWider:
	default:
		return ErrInvalidType
	}
	return nil
}

func (r Resource) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrEmptyName
	}
	switch r.Type {
	case ResourceURL:
		if strings.TrimSpace(r.URL) == "" {
			return ErrMissingURL
		}
	case ResourceFile:
		if r.Data == "" {
			return ErrMissingData
		}
	default:
		return ErrInvalidType
	}
	return nil
}

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// DefaultProfile is returned until the user saves one.
func DefaultProfile() Profile {
	return Profile{Name: DefaultProfileName, Position: DefaultProfilePosition}
}

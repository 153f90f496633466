package core

import "time"

// ExampleGoal is the goal every fresh database starts with.
func ExampleGoal() SmartGoal {
	return SmartGoal{
		ID:           ExampleGoalID,
		Name:         "Example - SMART Goal",
		AreaOfFocus:  "Professional Development",
		CurrentState: "Currently managing small projects with basic project management tools",
		FutureState:  "Confidently managing complex projects using advanced methodologies",
		DueDate:      "2025-12-31",
		Actions: []Checkpoint{
			{ID: "action-1", Text: "Complete Project Management certification"},
			{ID: "action-2", Text: "Shadow senior project managers"},
			{ID: "action-3", Text: "Implement new project tracking system"},
		},
		Milestones: []Checkpoint{
			{ID: "milestone-1", Text: "Complete PM certification coursework"},
			{ID: "milestone-2", Text: "Lead first major project independently"},
			{ID: "milestone-3", Text: "Implement and document three PM best practices"},
		},
		CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// DefaultEvents are the protected calendar events seeded on first start.
func DefaultEvents() []Event {
	return []Event{
		{ID: "default-event-1", Title: "Christmas Party", Date: "2025-12-20", Type: EventCompany, IsDefault: true},
		{ID: "default-event-2", Title: "Easter Break", Date: "2025-04-18", Type: EventHoliday, IsDefault: true},
		{ID: "default-event-3", Title: "June Break", Date: "2025-06-15", Type: EventHoliday, IsDefault: true},
	}
}

package storage

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
)

const upsertAccount = `-- name: UpsertAccount :exec
INSERT INTO accounts (id, name, job_number, job_id, description, is_chargeable, is_active, color, account_group, budgeted_hours)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    job_number = excluded.job_number,
    job_id = excluded.job_id,
    description = excluded.description,
    is_chargeable = excluded.is_chargeable,
    is_active = excluded.is_active,
    color = excluded.color,
    account_group = excluded.account_group,
    budgeted_hours = excluded.budgeted_hours
`

type UpsertAccountParams struct {
	ID            string
	Name          string
	JobNumber     string
	JobID         string
	Description   string
	IsChargeable  bool
	IsActive      bool
	Color         string
	AccountGroup  string
	BudgetedHours decimal.NullDecimal
}

func (q *Queries) UpsertAccount(ctx context.Context, arg UpsertAccountParams) error {
	_, err := q.db.ExecContext(ctx, upsertAccount,
		arg.ID,
		arg.Name,
		arg.JobNumber,
		arg.JobID,
		arg.Description,
		arg.IsChargeable,
		arg.IsActive,
		arg.Color,
		arg.AccountGroup,
		arg.BudgetedHours,
	)
	return err
}

const accountColumns = `id, name, job_number, job_id, description, is_chargeable, is_active, color, account_group, budgeted_hours`

const getAccount = `-- name: GetAccount :one
SELECT ` + accountColumns + ` FROM accounts WHERE id = ?
`

func (q *Queries) GetAccount(ctx context.Context, id string) (Account, error) {
	row := q.db.QueryRowContext(ctx, getAccount, id)
	var i Account
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.JobNumber,
		&i.JobID,
		&i.Description,
		&i.IsChargeable,
		&i.IsActive,
		&i.Color,
		&i.AccountGroup,
		&i.BudgetedHours,
	)
	return i, err
}

const listAccounts = `-- name: ListAccounts :many
SELECT ` + accountColumns + ` FROM accounts ORDER BY rowid
`

func (q *Queries) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := q.db.QueryContext(ctx, listAccounts)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Account
	for rows.Next() {
		var i Account
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.JobNumber,
			&i.JobID,
			&i.Description,
			&i.IsChargeable,
			&i.IsActive,
			&i.Color,
			&i.AccountGroup,
			&i.BudgetedHours,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAccount = `-- name: DeleteAccount :execrows
DELETE FROM accounts WHERE id = ?
`

func (q *Queries) DeleteAccount(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAccount, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const upsertTimeSlot = `-- name: UpsertTimeSlot :exec
INSERT INTO time_slots (slot_date, slot_time, week_id, account_id, updated_at)
VALUES (?, ?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
ON CONFLICT(slot_date, slot_time) DO UPDATE SET
    week_id = excluded.week_id,
    account_id = excluded.account_id,
    updated_at = excluded.updated_at
`

type UpsertTimeSlotParams struct {
	SlotDate  string
	SlotTime  string
	WeekID    string
	AccountID string
}

func (q *Queries) UpsertTimeSlot(ctx context.Context, arg UpsertTimeSlotParams) error {
	_, err := q.db.ExecContext(ctx, upsertTimeSlot,
		arg.SlotDate,
		arg.SlotTime,
		arg.WeekID,
		arg.AccountID,
	)
	return err
}

const getTimeSlot = `-- name: GetTimeSlot :one
SELECT slot_date, slot_time, week_id, account_id FROM time_slots
WHERE slot_date = ? AND slot_time = ?
`

func (q *Queries) GetTimeSlot(ctx context.Context, slotDate, slotTime string) (TimeSlot, error) {
	row := q.db.QueryRowContext(ctx, getTimeSlot, slotDate, slotTime)
	var i TimeSlot
	err := row.Scan(&i.SlotDate, &i.SlotTime, &i.WeekID, &i.AccountID)
	return i, err
}

const listTimeSlotsBetween = `-- name: ListTimeSlotsBetween :many
SELECT slot_date, slot_time, week_id, account_id FROM time_slots
WHERE slot_date BETWEEN ? AND ?
ORDER BY slot_date, slot_time
`

func (q *Queries) ListTimeSlotsBetween(ctx context.Context, from, to string) ([]TimeSlot, error) {
	rows, err := q.db.QueryContext(ctx, listTimeSlotsBetween, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TimeSlot
	for rows.Next() {
		var i TimeSlot
		if err := rows.Scan(&i.SlotDate, &i.SlotTime, &i.WeekID, &i.AccountID); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countTimeSlotsForAccount = `-- name: CountTimeSlotsForAccount :one
SELECT COUNT(*) FROM time_slots WHERE account_id = ?
`

func (q *Queries) CountTimeSlotsForAccount(ctx context.Context, accountID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTimeSlotsForAccount, accountID)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteTimeSlot = `-- name: DeleteTimeSlot :exec
DELETE FROM time_slots WHERE slot_date = ? AND slot_time = ?
`

func (q *Queries) DeleteTimeSlot(ctx context.Context, slotDate, slotTime string) error {
	_, err := q.db.ExecContext(ctx, deleteTimeSlot, slotDate, slotTime)
	return err
}

const deleteTimeSlotsBetween = `-- name: DeleteTimeSlotsBetween :execrows
DELETE FROM time_slots WHERE slot_date BETWEEN ? AND ?
`

func (q *Queries) DeleteTimeSlotsBetween(ctx context.Context, from, to string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTimeSlotsBetween, from, to)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getWeekStatus = `-- name: GetWeekStatus :one
SELECT status FROM week_statuses WHERE week_id = ?
`

func (q *Queries) GetWeekStatus(ctx context.Context, weekID string) (string, error) {
	row := q.db.QueryRowContext(ctx, getWeekStatus, weekID)
	var status string
	err := row.Scan(&status)
	return status, err
}

const upsertWeekStatus = `-- name: UpsertWeekStatus :exec
INSERT INTO week_statuses (week_id, status, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
ON CONFLICT(week_id) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at
`

func (q *Queries) UpsertWeekStatus(ctx context.Context, weekID, status string) error {
	_, err := q.db.ExecContext(ctx, upsertWeekStatus, weekID, status)
	return err
}

const getWeekNote = `-- name: GetWeekNote :one
SELECT notes FROM week_notes WHERE week_id = ?
`

func (q *Queries) GetWeekNote(ctx context.Context, weekID string) (string, error) {
	row := q.db.QueryRowContext(ctx, getWeekNote, weekID)
	var notes string
	err := row.Scan(&notes)
	return notes, err
}

const upsertWeekNote = `-- name: UpsertWeekNote :exec
INSERT INTO week_notes (week_id, notes, updated_at)
VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
ON CONFLICT(week_id) DO UPDATE SET notes = excluded.notes, updated_at = excluded.updated_at
`

func (q *Queries) UpsertWeekNote(ctx context.Context, weekID, notes string) error {
	_, err := q.db.ExecContext(ctx, upsertWeekNote, weekID, notes)
	return err
}

const goalColumns = `id, name, area_of_focus, current_state, future_state, due_date, actions, milestones, created_at`

const upsertSmartGoal = `-- name: UpsertSmartGoal :exec
INSERT INTO smart_goals (` + goalColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    name = excluded.name,
    area_of_focus = excluded.area_of_focus,
    current_state = excluded.current_state,
    future_state = excluded.future_state,
    due_date = excluded.due_date,
    actions = excluded.actions,
    milestones = excluded.milestones
`

func (q *Queries) UpsertSmartGoal(ctx context.Context, arg SmartGoal) error {
	_, err := q.db.ExecContext(ctx, upsertSmartGoal,
		arg.ID,
		arg.Name,
		arg.AreaOfFocus,
		arg.CurrentState,
		arg.FutureState,
		arg.DueDate,
		arg.Actions,
		arg.Milestones,
		arg.CreatedAt,
	)
	return err
}

const getSmartGoal = `-- name: GetSmartGoal :one
SELECT ` + goalColumns + ` FROM smart_goals WHERE id = ?
`

func (q *Queries) GetSmartGoal(ctx context.Context, id string) (SmartGoal, error) {
	row := q.db.QueryRowContext(ctx, getSmartGoal, id)
	var i SmartGoal
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.AreaOfFocus,
		&i.CurrentState,
		&i.FutureState,
		&i.DueDate,
		&i.Actions,
		&i.Milestones,
		&i.CreatedAt,
	)
	return i, err
}

const listSmartGoals = `-- name: ListSmartGoals :many
SELECT ` + goalColumns + ` FROM smart_goals ORDER BY created_at, id
`

func (q *Queries) ListSmartGoals(ctx context.Context) ([]SmartGoal, error) {
	rows, err := q.db.QueryContext(ctx, listSmartGoals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SmartGoal
	for rows.Next() {
		var i SmartGoal
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.AreaOfFocus,
			&i.CurrentState,
			&i.FutureState,
			&i.DueDate,
			&i.Actions,
			&i.Milestones,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteSmartGoal = `-- name: DeleteSmartGoal :execrows
DELETE FROM smart_goals WHERE id = ?
`

func (q *Queries) DeleteSmartGoal(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteSmartGoal, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const upsertEvent = `-- name: UpsertEvent :exec
INSERT INTO events (id, title, event_date, event_type, is_default)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    event_date = excluded.event_date,
    event_type = excluded.event_type,
    is_default = excluded.is_default
`

func (q *Queries) UpsertEvent(ctx context.Context, arg Event) error {
	_, err := q.db.ExecContext(ctx, upsertEvent,
		arg.ID,
		arg.Title,
		arg.EventDate,
		arg.EventType,
		arg.IsDefault,
	)
	return err
}

const getEvent = `-- name: GetEvent :one
SELECT id, title, event_date, event_type, is_default FROM events WHERE id = ?
`

func (q *Queries) GetEvent(ctx context.Context, id string) (Event, error) {
	row := q.db.QueryRowContext(ctx, getEvent, id)
	var i Event
	err := row.Scan(&i.ID, &i.Title, &i.EventDate, &i.EventType, &i.IsDefault)
	return i, err
}

const listEvents = `-- name: ListEvents :many
SELECT id, title, event_date, event_type, is_default FROM events ORDER BY event_date, id
`

func (q *Queries) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, listEvents)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Event
	for rows.Next() {
		var i Event
		if err := rows.Scan(&i.ID, &i.Title, &i.EventDate, &i.EventType, &i.IsDefault); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteEvent = `-- name: DeleteEvent :execrows
DELETE FROM events WHERE id = ?
`

func (q *Queries) DeleteEvent(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteEvent, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const upsertTrafficLightItem = `-- name: UpsertTrafficLightItem :exec
INSERT INTO traffic_light_items (id, role, category, text, rating, notes, item_type)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    role = excluded.role,
    category = excluded.category,
    text = excluded.text,
    rating = excluded.rating,
    notes = excluded.notes,
    item_type = excluded.item_type
`

func (q *Queries) UpsertTrafficLightItem(ctx context.Context, arg TrafficLightItem) error {
	_, err := q.db.ExecContext(ctx, upsertTrafficLightItem,
		arg.ID,
		arg.Role,
		arg.Category,
		arg.Text,
		arg.Rating,
		arg.Notes,
		arg.ItemType,
	)
	return err
}

const getTrafficLightItem = `-- name: GetTrafficLightItem :one
SELECT id, role, category, text, rating, notes, item_type FROM traffic_light_items WHERE id = ?
`

func (q *Queries) GetTrafficLightItem(ctx context.Context, id string) (TrafficLightItem, error) {
	row := q.db.QueryRowContext(ctx, getTrafficLightItem, id)
	var i TrafficLightItem
	err := row.Scan(&i.ID, &i.Role, &i.Category, &i.Text, &i.Rating, &i.Notes, &i.ItemType)
	return i, err
}

const listTrafficLightItems = `-- name: ListTrafficLightItems :many
SELECT id, role, category, text, rating, notes, item_type FROM traffic_light_items
WHERE role = ? AND category = ?
ORDER BY rowid
`

func (q *Queries) ListTrafficLightItems(ctx context.Context, role, category string) ([]TrafficLightItem, error) {
	rows, err := q.db.QueryContext(ctx, listTrafficLightItems, role, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TrafficLightItem
	for rows.Next() {
		var i TrafficLightItem
		if err := rows.Scan(&i.ID, &i.Role, &i.Category, &i.Text, &i.Rating, &i.Notes, &i.ItemType); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteTrafficLightItem = `-- name: DeleteTrafficLightItem :execrows
DELETE FROM traffic_light_items WHERE id = ?
`

func (q *Queries) DeleteTrafficLightItem(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteTrafficLightItem, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const upsertResource = `-- name: UpsertResource :exec
INSERT INTO resources (id, resource_type, name, url, data, created_at)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    resource_type = excluded.resource_type,
    name = excluded.name,
    url = excluded.url,
    data = excluded.data
`

func (q *Queries) UpsertResource(ctx context.Context, arg Resource) error {
	_, err := q.db.ExecContext(ctx, upsertResource,
		arg.ID,
		arg.ResourceType,
		arg.Name,
		arg.Url,
		arg.Data,
		arg.CreatedAt,
	)
	return err
}

const getResource = `-- name: GetResource :one
SELECT id, resource_type, name, url, data, created_at FROM resources WHERE id = ?
`

func (q *Queries) GetResource(ctx context.Context, id string) (Resource, error) {
	row := q.db.QueryRowContext(ctx, getResource, id)
	var i Resource
	err := row.Scan(&i.ID, &i.ResourceType, &i.Name, &i.Url, &i.Data, &i.CreatedAt)
	return i, err
}

const listResources = `-- name: ListResources :many
SELECT id, resource_type, name, url, data, created_at FROM resources ORDER BY created_at, id
`

func (q *Queries) ListResources(ctx context.Context) ([]Resource, error) {
	rows, err := q.db.QueryContext(ctx, listResources)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Resource
	for rows.Next() {
		var i Resource
		if err := rows.Scan(&i.ID, &i.ResourceType, &i.Name, &i.Url, &i.Data, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteResource = `-- name: DeleteResource :execrows
DELETE FROM resources WHERE id = ?
`

func (q *Queries) DeleteResource(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteResource, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProfile = `-- name: GetProfile :one
SELECT name, position, updated_at FROM profile WHERE id = 1
`

func (q *Queries) GetProfile(ctx context.Context) (Profile, error) {
	row := q.db.QueryRowContext(ctx, getProfile)
	var i Profile
	err := row.Scan(&i.Name, &i.Position, &i.UpdatedAt)
	return i, err
}

const upsertProfile = `-- name: UpsertProfile :exec
INSERT INTO profile (id, name, position, updated_at) VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET name = excluded.name, position = excluded.position, updated_at = excluded.updated_at
`

func (q *Queries) UpsertProfile(ctx context.Context, arg Profile) error {
	_, err := q.db.ExecContext(ctx, upsertProfile, arg.Name, arg.Position, arg.UpdatedAt)
	return err
}

// nullRating converts an optional rating to its column value.
func nullRating(r *int) sql.NullInt64 {
	if r == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*r), Valid: true}
}

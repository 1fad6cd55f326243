package models

import "time"

// Reminder is an upcoming maintenance item, due by date, mileage, or both.
type Reminder struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicle_id"`
	Title       string    `json:"title"`
	DueDate     *Date     `json:"due_date"`
	DueMileage  *int      `json:"due_mileage"`
	IsCompleted bool      `json:"is_completed"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateReminderRequest is the JSON body for POST /reminders.
type CreateReminderRequest struct {
	VehicleID  string `json:"vehicle_id"`
	Title      string `json:"title"`
	DueDate    string `json:"due_date"`
	DueMileage *int   `json:"due_mileage"`
	Notes      string `json:"notes"`
}

// UpdateReminderRequest is the JSON body for PUT /reminders/{id}.
type UpdateReminderRequest struct {
	VehicleID   Optional[string] `json:"vehicle_id"`
	Title       Optional[string] `json:"title"`
	DueDate     Optional[string] `json:"due_date"`
	DueMileage  Optional[int]    `json:"due_mileage"`
	IsCompleted Optional[bool]   `json:"is_completed"`
	Notes       Optional[string] `json:"notes"`
}

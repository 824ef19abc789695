package model

import "time"

type TaskId int64

// Task is a row of the tasks table as it is returned to API clients.
type Task struct {
	ID               TaskId     `json:"id"`
	ClientName       string     `json:"client_name"`
	TaskDescription  string     `json:"task_description"`
	DateCommissioned *time.Time `json:"date_commissioned"`
	DateDelivered    *time.Time `json:"date_delivered"`
	ExpectedAmount   float64    `json:"expected_amount"`
	IsPaid           bool       `json:"is_paid"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TaskPayload is the raw create/update request body before validation.
// Dates travel as strings so that "" and a missing field both normalize
// to "no value". ExpectedAmount and IsPaid are pointers so a
// present-but-zero value can be told apart from an absent one.
type TaskPayload struct {
	ClientName       string   `json:"client_name"`
	TaskDescription  string   `json:"task_description"`
	DateCommissioned string   `json:"date_commissioned"`
	DateDelivered    string   `json:"date_delivered"`
	ExpectedAmount   *float64 `json:"expected_amount"`
	IsPaid           *bool    `json:"is_paid"`
}

// TaskInput is a validated, normalized payload ready for persistence.
type TaskInput struct {
	ClientName       string
	TaskDescription  string
	DateCommissioned *time.Time
	DateDelivered    *time.Time
	ExpectedAmount   float64
	IsPaid           bool
}

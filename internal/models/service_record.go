package models

import "time"

// ServiceRecord represents one maintenance event in a vehicle's history.
type ServiceRecord struct {
	ID          string    `json:"id"`
	VehicleID   string    `json:"vehicle_id"`
	Title       string    `json:"title"`
	Category    *string   `json:"category"`
	ServiceDate Date      `json:"service_date"`
	Mileage     *int      `json:"mileage"`
	Cost        *Money    `json:"cost"`
	Notes       *string   `json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateServiceRecordRequest is the JSON body for POST /service-records.
// ServiceDate stays a raw string so an unparseable date can be rejected
// rather than silently dropped.
type CreateServiceRecordRequest struct {
	VehicleID   string `json:"vehicle_id"`
	Title       string `json:"title"`
	Category    string `json:"category"`
	ServiceDate string `json:"service_date"`
	Mileage     *int   `json:"mileage"`
	Cost        *Money `json:"cost"`
	Notes       string `json:"notes"`
}

// UpdateServiceRecordRequest is the JSON body for PUT /service-records/{id}.
type UpdateServiceRecordRequest struct {
	VehicleID   Optional[string] `json:"vehicle_id"`
	Title       Optional[string] `json:"title"`
	Category    Optional[string] `json:"category"`
	ServiceDate Optional[string] `json:"service_date"`
	Mileage     Optional[int]    `json:"mileage"`
	Cost        Optional[Money]  `json:"cost"`
	Notes       Optional[string] `json:"notes"`
}

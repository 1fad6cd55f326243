package models

import "time"

// Vehicle represents a row in the vehicles table. Every vehicle belongs to
// exactly one user; everything hanging off a vehicle is reachable only
// through that owner.
type Vehicle struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Nickname  *string   `json:"nickname"`
	VIN       *string   `json:"vin"`
	Year      *int      `json:"year"`
	Make      *string   `json:"make"`
	Model     *string   `json:"model"`
	Trim      *string   `json:"trim"`
	Engine    *string   `json:"engine"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateVehicleRequest is the JSON body for POST /vehicles.
type CreateVehicleRequest struct {
	Nickname string `json:"nickname"`
	VIN      string `json:"vin"`
	Year     *int   `json:"year"`
	Make     string `json:"make"`
	Model    string `json:"model"`
	Trim     string `json:"trim"`
	Engine   string `json:"engine"`
}

// UpdateVehicleRequest is the JSON body for PUT /vehicles/{id}.
type UpdateVehicleRequest struct {
	Nickname Optional[string] `json:"nickname"`
	VIN      Optional[string] `json:"vin"`
	Year     Optional[int]    `json:"year"`
	Make     Optional[string] `json:"make"`
	Model    Optional[string] `json:"model"`
	Trim     Optional[string] `json:"trim"`
	Engine   Optional[string] `json:"engine"`
}

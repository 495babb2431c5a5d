package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Vehicle belongs to exactly one user. Its dedup identity is
// (UserID, Make, Model, Year); VIN is informational only.
type Vehicle struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Make      string
	Model     string
	Year      int
	VIN       *string
	CreatedAt time.Time
}

// VehicleInfo is what the customer typed in the wizard. Year stays text
// until the commit gate parses it.
type VehicleInfo struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  string `json:"year"`
	VIN   string `json:"vin,omitempty"`
}

func (v VehicleInfo) Trimmed() VehicleInfo {
	return VehicleInfo{
		Make:  strings.TrimSpace(v.Make),
		Model: strings.TrimSpace(v.Model),
		Year:  strings.TrimSpace(v.Year),
		VIN:   strings.TrimSpace(v.VIN),
	}
}

func (v VehicleInfo) IsComplete() bool {
	t := v.Trimmed()
	return t.Make != "" && t.Model != "" && t.Year != ""
}

// VINOrNil returns nil when no VIN was entered.
func (v VehicleInfo) VINOrNil() *string {
	vin := strings.TrimSpace(v.VIN)
	if vin == "" {
		return nil
	}
	return &vin
}

// VehicleIdentity is the dedup key of a vehicle.
type VehicleIdentity struct {
	UserID uuid.UUID
	Make   string
	Model  string
	Year   int
}

func (v Vehicle) Identity() VehicleIdentity {
	return VehicleIdentity{UserID: v.UserID, Make: v.Make, Model: v.Model, Year: v.Year}
}

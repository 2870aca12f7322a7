package models

import (
	"time"

	"github.com/google/uuid"
)

// Country is the root of the geographic reference hierarchy.
type Country struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;size:50;not null;uniqueIndex:uq_countries_name"`
	States    []State   `gorm:"foreignKey:CountryID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// State belongs to exactly one country. Names repeat across countries
// but not within one.
type State struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	CountryID uuid.UUID `gorm:"column:country_id;type:uuid;not null;uniqueIndex:uq_states_country_name"`
	Name      string    `gorm:"column:name;size:50;not null;uniqueIndex:uq_states_country_name"`
	Cities    []City    `gorm:"foreignKey:StateID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// City belongs to exactly one state.
type City struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	StateID   uuid.UUID `gorm:"column:state_id;type:uuid;not null;uniqueIndex:uq_cities_state_name"`
	Name      string    `gorm:"column:name;size:50;not null;uniqueIndex:uq_cities_state_name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

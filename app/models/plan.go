package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Plan is an immutable reference row describing a priced subscription tier
// and the task quota it grants. Plans are seeded once and never mutated at
// runtime.
type Plan struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(100);not null" json:"name" validate:"required,min=2,max=100"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	TasksLimit  int             `gorm:"not null" json:"tasks_limit" validate:"gte=0"`
	Color       string          `gorm:"type:varchar(20);default:'#06b6d4'" json:"color"`
	IsPopular   bool            `gorm:"default:false" json:"is_popular"`
	Features    string          `gorm:"type:json" json:"-"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// FeatureList decodes the stored JSON feature array. Order is preserved.
func (p *Plan) FeatureList() []string {
	if p.Features == "" {
		return nil
	}
	var features []string
	if err := json.Unmarshal([]byte(p.Features), &features); err != nil {
		return nil
	}
	return features
}

// SetFeatures encodes the given feature list into the stored JSON column.
func (p *Plan) SetFeatures(features []string) error {
	data, err := json.Marshal(features)
	if err != nil {
		return err
	}
	p.Features = string(data)
	return nil
}

// IsFree reports whether this is the zero-price tier users fall back to when
// a paid plan expires.
func (p *Plan) IsFree() bool {
	return p.Price.IsZero()
}

// MarshalJSON exposes features as a decoded array instead of a raw JSON string.
func (p Plan) MarshalJSON() ([]byte, error) {
	type alias Plan
	return json.Marshal(struct {
		alias
		Features []string `json:"features"`
	}{
		alias:    alias(p),
		Features: p.FeatureList(),
	})
}

package models

import (
	"time"
)

// Condition описывает состояние товара в объявлении
type Condition string

const (
	ConditionNew          Condition = "new"
	ConditionLikeNew      Condition = "like_new"
	ConditionSlightlyUsed Condition = "slightly_used"
	ConditionUsed         Condition = "used"
	ConditionNonWorking   Condition = "non_working"
)

// Valid проверяет, что значение состояния входит в допустимый набор
func (c Condition) Valid() bool {
	switch c {
	case ConditionNew, ConditionLikeNew, ConditionSlightlyUsed, ConditionUsed, ConditionNonWorking:
		return true
	}
	return false
}

// Listing представляет модель объявления о продаже товара
type Listing struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Condition   Condition `json:"condition"`
	Price       float64   `json:"price"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ListingPatch представляет частичное обновление объявления.
// Заполняются только изменяемые поля, nil-поля не трогают сохраненное значение.
type ListingPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Condition   *Condition `json:"condition,omitempty"`
	Price       *float64   `json:"price,omitempty"`
}

// IsEmpty сообщает, что патч не содержит ни одного поля
func (p *ListingPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Condition == nil && p.Price == nil
}

// ApplyTo возвращает копию объявления с примененными полями патча.
// Функция чистая: исходное объявление не изменяется, updated_at выставляет вызывающий.
func (p *ListingPatch) ApplyTo(listing Listing) Listing {
	if p.Title != nil {
		listing.Title = *p.Title
	}
	if p.Description != nil {
		listing.Description = *p.Description
	}
	if p.Condition != nil {
		listing.Condition = *p.Condition
	}
	if p.Price != nil {
		listing.Price = *p.Price
	}
	return listing
}

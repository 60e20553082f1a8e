package events

import "github.com/go-playground/validator/v10"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Type string

const (
	TypeSeminar    Type = "seminar"
	TypeConcert    Type = "concert"
	TypeWorkshop   Type = "workshop"
	TypeExhibition Type = "exhibition"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeSeminar, TypeConcert, TypeWorkshop, TypeExhibition:
		return true
	}
	return false
}

// TierName is a named ticket category with its own price and quota.
type TierName string

const (
	TierRegular TierName = "Regular"
	TierVIP     TierName = "VIP"
	TierVVIP    TierName = "VVIP"
)

func (n TierName) IsValid() bool {
	switch n {
	case TierRegular, TierVIP, TierVVIP:
		return true
	}
	return false
}

// ConcertTiers are the categories a concert must expose before any sale.
var ConcertTiers = []TierName{TierRegular, TierVIP, TierVVIP}

// RegisterValidations adds the tickettier validation used by DTO binding tags
// to gin's validator engine.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("tickettier", func(fl validator.FieldLevel) bool {
		return TierName(fl.Field().String()).IsValid()
	})
}

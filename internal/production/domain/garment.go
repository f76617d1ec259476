package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownGarment  = errors.New("unknown garment type")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
)

// GarmentType identifies one of the producible garment categories.
type GarmentType string

const (
	GarmentPolo           GarmentType = "polo"
	GarmentLongSleevePolo GarmentType = "long-sleeve-polo"
	GarmentShorts         GarmentType = "shorts"
	GarmentSkirtShorts    GarmentType = "skirt-shorts"
	GarmentAthleticShorts GarmentType = "athletic-shorts"
)

// AllGarmentTypes returns every garment type in catalog order.
func AllGarmentTypes() []GarmentType {
	return []GarmentType{
		GarmentPolo,
		GarmentLongSleevePolo,
		GarmentShorts,
		GarmentSkirtShorts,
		GarmentAthleticShorts,
	}
}

// IsValid reports whether the garment type is part of the catalog.
func (g GarmentType) IsValid() bool {
	switch g {
	case GarmentPolo, GarmentLongSleevePolo, GarmentShorts, GarmentSkirtShorts, GarmentAthleticShorts:
		return true
	}
	return false
}

func (g GarmentType) String() string { return string(g) }

// ParseGarmentType converts a string into a GarmentType.
func ParseGarmentType(s string) (GarmentType, error) {
	g := GarmentType(s)
	if !g.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownGarment, s)
	}
	return g, nil
}

// Size is a garment size label, e.g. "8", "12", "M", "XL".
// Sizes are free-form labels; the duration table decides which ones carry
// dedicated timing data.
type Size string

// OrderItem is one line of an order: a garment type and how many units.
// Items are immutable; editing an order replaces the whole item list.
type OrderItem struct {
	Garment  GarmentType
	Quantity int
}

// NewOrderItem validates and builds an order line.
func NewOrderItem(garment GarmentType, quantity int) (OrderItem, error) {
	if !garment.IsValid() {
		return OrderItem{}, fmt.Errorf("%w: %q", ErrUnknownGarment, garment)
	}
	if quantity < 1 {
		return OrderItem{}, ErrInvalidQuantity
	}
	return OrderItem{Garment: garment, Quantity: quantity}, nil
}

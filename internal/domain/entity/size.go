// Package entity contains the core business objects of the project.
package entity

import "slices"

// Size represents a product size tier.
type Size string

const (
	// SizeS indicates the small size tier.
	SizeS Size = "S"
	// SizeM indicates the medium size tier.
	SizeM Size = "M"
	// SizeL indicates the large size tier.
	SizeL Size = "L"
	// SizeXL indicates the extra-large size tier.
	SizeXL Size = "XL"
)

// String returns the string representation of the Size.
func (s Size) String() string {
	return string(s)
}

// IsValid checks if the Size is a valid value.
func (s Size) IsValid() bool {
	switch s {
	case SizeS, SizeM, SizeL, SizeXL:
		return true
	default:
		return false
	}
}

// Sizes lists all valid size tiers in ascending order.
func Sizes() []Size {
	return []Size{SizeS, SizeM, SizeL, SizeXL}
}

// SizeFromString converts a string to a Size, reporting whether it is valid.
func SizeFromString(s string) (Size, bool) {
	size := Size(s)

	return size, size.IsValid()
}

// ContainsSize checks if the given slice contains a specific size.
func ContainsSize(sizes []Size, size Size) bool {
	return slices.Contains(sizes, size)
}

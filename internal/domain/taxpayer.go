// Package domain defines the core types and interfaces for Harrier.
package domain

import (
	"time"
)

// TaxpayerType classifies a registered taxpayer.
type TaxpayerType string

const (
	TaxpayerIndividual  TaxpayerType = "Individual"
	TaxpayerCorporate   TaxpayerType = "Corporate"
	TaxpayerPartnership TaxpayerType = "Partnership"
	TaxpayerNGO         TaxpayerType = "NGO"
)

// IsCorporate reports whether the taxpayer is a corporate entity.
// Partnerships and NGOs are registered forms but are not scored by the
// corporate-only detectors.
func (t TaxpayerType) IsCorporate() bool {
	return t == TaxpayerCorporate
}

// TaxpayerProfile is a registered taxpayer as supplied by the normalizer.
// Identity fields are immutable; turnover and sector may be amended upstream.
// The engine treats profiles as read-only input.
type TaxpayerProfile struct {
	ID               string       `json:"id"`
	TIN              string       `json:"tin"`
	Name             string       `json:"name"`
	Type             TaxpayerType `json:"type"`
	RegistrationDate time.Time    `json:"registrationDate"`

	// Location
	Region   string `json:"region,omitempty"`
	District string `json:"district,omitempty"`

	// Business classification
	Sector    string `json:"sector"`
	Subsector string `json:"subsector,omitempty"`

	// Self-declared scale
	AnnualTurnover float64 `json:"annualTurnover"`
	EmployeeCount  int     `json:"employeeCount"`
}

// SizeBucket groups taxpayers by declared annual turnover.
type SizeBucket string

const (
	SizeSmall     SizeBucket = "Small"
	SizeMedium    SizeBucket = "Medium"
	SizeLarge     SizeBucket = "Large"
	SizeVeryLarge SizeBucket = "Very Large"
)

// Turnover thresholds for size buckets, in the currency unit of the
// source system.
const (
	smallTurnoverMax  = 1_000_000
	mediumTurnoverMax = 10_000_000
	largeTurnoverMax  = 100_000_000
)

// BucketForTurnover maps a declared annual turnover to its size bucket.
func BucketForTurnover(turnover float64) SizeBucket {
	switch {
	case turnover < smallTurnoverMax:
		return SizeSmall
	case turnover < mediumTurnoverMax:
		return SizeMedium
	case turnover < largeTurnoverMax:
		return SizeLarge
	default:
		return SizeVeryLarge
	}
}

// SizeBucket returns the taxpayer's turnover size bucket.
func (p *TaxpayerProfile) SizeBucket() SizeBucket {
	return BucketForTurnover(p.AnnualTurnover)
}

// Package pricing computes the rental price breakdown shown at checkout.
//
// All amounts are whole rupiah. Percentages are applied with half-up
// rounding in integer arithmetic so results never depend on float formatting.
package pricing

import (
	"strings"

	"carrental/internal/domain"
)

type ServiceType string

const (
	SelfDrive  ServiceType = "self_drive"
	WithDriver ServiceType = "with_driver"
)

type LocationType string

const (
	LocationOffice LocationType = "office"
	LocationCustom LocationType = "custom"
)

// Rules holds the fixed surcharges and percentages.
type Rules struct {
	DeliveryFee      int64 `json:"deliveryFee"`
	ReturnFee        int64 `json:"returnFee"`
	DriverFeePerDay  int64 `json:"driverFeePerDay"`
	InsurancePercent int64 `json:"insurancePercent"`
	ServiceFee       int64 `json:"serviceFee"`
	TaxPercent       int64 `json:"taxPercent"`
}

func DefaultRules() Rules {
	return Rules{
		DeliveryFee:      50_000,
		ReturnFee:        50_000,
		DriverFeePerDay:  100_000,
		InsurancePercent: 5,
		ServiceFee:       25_000,
		TaxPercent:       11,
	}
}

type Input struct {
	DailyRate      int64
	WithDriverRate int64
	ServiceType    ServiceType
	PickupLocation LocationType
	ReturnLocation LocationType
	DurationDays   int
}

// Breakdown is the priced checkout, also persisted on the booking row.
type Breakdown struct {
	ServiceType    ServiceType `json:"serviceType"`
	RatePerDay     int64       `json:"ratePerDay"`
	DurationDays   int         `json:"durationDays"`
	Subtotal       int64       `json:"subtotal"`
	DeliveryFee    int64       `json:"deliveryFee"`
	ReturnFee      int64       `json:"returnFee"`
	DriverFee      int64       `json:"driverFee"`
	InsuranceFee   int64       `json:"insuranceFee"`
	ServiceFee     int64       `json:"serviceFee"`
	TotalBeforeTax int64       `json:"totalBeforeTax"`
	Tax            int64       `json:"tax"`
	Total          int64       `json:"total"`
}

// Compute applies the rules to one rental.
func (r Rules) Compute(in Input) (Breakdown, error) {
	if in.DurationDays < 1 {
		return Breakdown{}, domain.ValidationError{Field: "durationDays", Msg: "minimal 1 hari"}
	}
	if in.DailyRate < 0 || in.WithDriverRate < 0 {
		return Breakdown{}, domain.ValidationError{Field: "rate", Msg: "tarif tidak boleh negatif"}
	}
	if in.ServiceType != SelfDrive && in.ServiceType != WithDriver {
		return Breakdown{}, domain.ValidationError{Field: "serviceType", Msg: "harus self_drive atau with_driver"}
	}
	if !validLocation(in.PickupLocation) {
		return Breakdown{}, domain.ValidationError{Field: "pickupLocation", Msg: "harus office atau custom"}
	}
	if !validLocation(in.ReturnLocation) {
		return Breakdown{}, domain.ValidationError{Field: "returnLocation", Msg: "harus office atau custom"}
	}

	rate := in.DailyRate
	if in.ServiceType == WithDriver && in.WithDriverRate > 0 {
		rate = in.WithDriverRate
	}
	if rate <= 0 {
		return Breakdown{}, domain.ValidationError{Field: "rate", Msg: "tarif kendaraan belum diatur"}
	}

	days := int64(in.DurationDays)
	b := Breakdown{
		ServiceType:  in.ServiceType,
		RatePerDay:   rate,
		DurationDays: in.DurationDays,
		Subtotal:     rate * days,
		ServiceFee:   r.ServiceFee,
	}
	if in.PickupLocation == LocationCustom {
		b.DeliveryFee = r.DeliveryFee
	}
	if in.ReturnLocation == LocationCustom {
		b.ReturnFee = r.ReturnFee
	}
	if in.ServiceType == WithDriver {
		b.DriverFee = r.DriverFeePerDay * days
	}
	b.InsuranceFee = percentOf(b.Subtotal, r.InsurancePercent)
	b.TotalBeforeTax = b.Subtotal + b.DeliveryFee + b.ReturnFee + b.DriverFee + b.InsuranceFee + b.ServiceFee
	b.Tax = percentOf(b.TotalBeforeTax, r.TaxPercent)
	b.Total = b.TotalBeforeTax + b.Tax
	return b, nil
}

// Fees returns every non-rental component before tax.
func (b Breakdown) Fees() int64 {
	return b.DeliveryFee + b.ReturnFee + b.DriverFee + b.InsuranceFee + b.ServiceFee
}

// percentOf rounds amount*pct/100 half-up. Amounts are never negative here.
func percentOf(amount, pct int64) int64 {
	return (amount*pct + 50) / 100
}

func validLocation(l LocationType) bool {
	return l == LocationOffice || l == LocationCustom
}

// ParseServiceType accepts the spellings the booking form sends.
// Empty input defaults to self drive.
func ParseServiceType(s string) (ServiceType, error) {
	switch normalizeToken(s) {
	case "", "selfdrive", "lepaskunci":
		return SelfDrive, nil
	case "withdriver", "driver", "dengansopir", "sopir":
		return WithDriver, nil
	}
	return "", domain.ValidationError{Field: "serviceType", Msg: "harus self_drive atau with_driver"}
}

// ParseLocationType maps free-form location kinds. Empty means office.
func ParseLocationType(s string) (LocationType, error) {
	switch normalizeToken(s) {
	case "", "office", "kantor", "garage":
		return LocationOffice, nil
	case "custom", "delivery", "antar", "address":
		return LocationCustom, nil
	}
	return "", domain.ValidationError{Field: "location", Msg: "harus office atau custom"}
}

func normalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

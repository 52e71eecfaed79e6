package pricing

import (
	"testing"
	"time"

	"carrental/internal/domain"
)

func TestComputeSelfDriveOfficeToOffice(t *testing.T) {
	b, err := DefaultRules().Compute(Input{
		DailyRate:      350_000,
		WithDriverRate: 550_000,
		ServiceType:    SelfDrive,
		PickupLocation: LocationOffice,
		ReturnLocation: LocationOffice,
		DurationDays:   3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// subtotal 1.050.000, insurance 52.500, service 25.000
	// before tax 1.127.500, tax 124.025
	want := Breakdown{
		ServiceType:    SelfDrive,
		RatePerDay:     350_000,
		DurationDays:   3,
		Subtotal:       1_050_000,
		InsuranceFee:   52_500,
		ServiceFee:     25_000,
		TotalBeforeTax: 1_127_500,
		Tax:            124_025,
		Total:          1_251_525,
	}
	if b != want {
		t.Fatalf("breakdown mismatch\n got: %+v\nwant: %+v", b, want)
	}
}

func TestComputeWithDriverCustomLocations(t *testing.T) {
	b, err := DefaultRules().Compute(Input{
		DailyRate:      350_000,
		WithDriverRate: 550_000,
		ServiceType:    WithDriver,
		PickupLocation: LocationCustom,
		ReturnLocation: LocationCustom,
		DurationDays:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.RatePerDay != 550_000 || b.Subtotal != 1_100_000 {
		t.Fatalf("rate/subtotal = %d/%d", b.RatePerDay, b.Subtotal)
	}
	if b.DeliveryFee != 50_000 || b.ReturnFee != 50_000 {
		t.Fatalf("delivery/return = %d/%d", b.DeliveryFee, b.ReturnFee)
	}
	if b.DriverFee != 200_000 {
		t.Fatalf("driver fee = %d", b.DriverFee)
	}
	if b.InsuranceFee != 55_000 {
		t.Fatalf("insurance = %d", b.InsuranceFee)
	}
	// 1.100.000 + 100.000 + 200.000 + 55.000 + 25.000
	if b.TotalBeforeTax != 1_480_000 {
		t.Fatalf("total before tax = %d", b.TotalBeforeTax)
	}
	if b.Tax != 162_800 || b.Total != 1_642_800 {
		t.Fatalf("tax/total = %d/%d", b.Tax, b.Total)
	}
	if b.Fees() != 380_000 {
		t.Fatalf("fees = %d", b.Fees())
	}
}

func TestComputeRoundsHalfUp(t *testing.T) {
	// subtotal 10.010 -> insurance 500.5 -> 501
	b, err := DefaultRules().Compute(Input{
		DailyRate:      10_010,
		ServiceType:    SelfDrive,
		PickupLocation: LocationOffice,
		ReturnLocation: LocationOffice,
		DurationDays:   1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.InsuranceFee != 501 {
		t.Fatalf("insurance = %d, want 501", b.InsuranceFee)
	}
	// before tax 10.010 + 501 + 25.000 = 35.511, tax 3906.21 -> 3906
	if b.TotalBeforeTax != 35_511 || b.Tax != 3_906 {
		t.Fatalf("before tax/tax = %d/%d", b.TotalBeforeTax, b.Tax)
	}
	if b.Total != b.TotalBeforeTax+b.Tax {
		t.Fatalf("total is not before-tax + tax")
	}
}

func TestComputeWithDriverFallsBackToDailyRate(t *testing.T) {
	b, err := DefaultRules().Compute(Input{
		DailyRate:      300_000,
		ServiceType:    WithDriver,
		PickupLocation: LocationOffice,
		ReturnLocation: LocationCustom,
		DurationDays:   1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.RatePerDay != 300_000 {
		t.Fatalf("rate = %d, want daily rate", b.RatePerDay)
	}
	if b.DeliveryFee != 0 || b.ReturnFee != 50_000 {
		t.Fatalf("delivery/return = %d/%d", b.DeliveryFee, b.ReturnFee)
	}
}

func TestComputeRejectsBadInput(t *testing.T) {
	base := Input{
		DailyRate:      100_000,
		ServiceType:    SelfDrive,
		PickupLocation: LocationOffice,
		ReturnLocation: LocationOffice,
		DurationDays:   1,
	}
	cases := map[string]func(in *Input){
		"zero days":     func(in *Input) { in.DurationDays = 0 },
		"negative rate": func(in *Input) { in.DailyRate = -1 },
		"no rate":       func(in *Input) { in.DailyRate = 0 },
		"bad service":   func(in *Input) { in.ServiceType = "boat" },
		"bad pickup":    func(in *Input) { in.PickupLocation = "" },
		"bad return":    func(in *Input) { in.ReturnLocation = "moon" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			if _, err := DefaultRules().Compute(in); !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCustomRules(t *testing.T) {
	rules := Rules{ServiceFee: 0, TaxPercent: 0, InsurancePercent: 0}
	b, err := rules.Compute(Input{
		DailyRate:      200_000,
		ServiceType:    SelfDrive,
		PickupLocation: LocationCustom,
		ReturnLocation: LocationOffice,
		DurationDays:   2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Total != 400_000 {
		t.Fatalf("total = %d, want 400000", b.Total)
	}
}

func TestDurationDays(t *testing.T) {
	day := func(s string) time.Time {
		v, err := time.Parse("2006-01-02 15:04", s)
		if err != nil {
			t.Fatalf("bad fixture %q: %v", s, err)
		}
		return v
	}
	cases := []struct {
		pickup, ret string
		want        int
	}{
		{"2025-03-01 09:00", "2025-03-01 18:00", 1},
		{"2025-03-01 09:00", "2025-03-02 08:00", 1},
		{"2025-03-01 09:00", "2025-03-04 09:00", 3},
		{"2025-02-27 10:00", "2025-03-02 10:00", 3},
	}
	for _, tc := range cases {
		got, err := DurationDays(day(tc.pickup), day(tc.ret))
		if err != nil {
			t.Fatalf("%s -> %s: %v", tc.pickup, tc.ret, err)
		}
		if got != tc.want {
			t.Fatalf("%s -> %s = %d, want %d", tc.pickup, tc.ret, got, tc.want)
		}
	}

	if _, err := DurationDays(day("2025-03-05 10:00"), day("2025-03-04 10:00")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for reversed range, got %v", err)
	}
	if _, err := DurationDays(time.Time{}, day("2025-03-04 10:00")); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for zero pickup, got %v", err)
	}
}

func TestParseServiceAndLocation(t *testing.T) {
	for in, want := range map[string]ServiceType{
		"":            SelfDrive,
		"self_drive":  SelfDrive,
		"Self Drive":  SelfDrive,
		"with-driver": WithDriver,
		"With Driver": WithDriver,
	} {
		got, err := ParseServiceType(in)
		if err != nil || got != want {
			t.Fatalf("ParseServiceType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseServiceType("helicopter"); err == nil {
		t.Fatalf("expected error for unknown service type")
	}

	for in, want := range map[string]LocationType{
		"":       LocationOffice,
		"office": LocationOffice,
		"CUSTOM": LocationCustom,
	} {
		got, err := ParseLocationType(in)
		if err != nil || got != want {
			t.Fatalf("ParseLocationType(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLocationType("airport-lounge"); err == nil {
		t.Fatalf("expected error for unknown location type")
	}
}

package pricing

import (
	"context"
	"strings"
	"testing"

	"medride/internal/types"
)

var (
	testAtlanta  = types.Point{Lat: 33.7490, Lng: -84.3880}
	testPiedmont = types.Point{Lat: 33.8038, Lng: -84.3694}
)

func TestBackupQuote_FixedDistanceArithmetic(t *testing.T) {
	calc := NewBackupCalculator(DefaultRateCard())

	tests := []struct {
		name  string
		req   QuoteRequest
		miles float64
		want  FareBreakdown
	}{
		{
			name:  "standard one-way, no extras",
			req:   QuoteRequest{VehicleType: VehicleStandard},
			miles: 10.0,
			want: FareBreakdown{
				BaseFare:       4500,
				DistanceMiles:  10.0,
				DistanceCharge: 3000,
				Subtotal:       7500,
				PlatformFee:    375,
				Tax:            630,
				Total:          8505,
			},
		},
		{
			name: "wheelchair round trip with stairs and add-ons",
			req: QuoteRequest{
				VehicleType:   VehicleWheelchair,
				PickupStairs:  StairsFew,
				DropoffStairs: StairsFullFlight,
				Services:      AdditionalServices{NeedsRamp: true, NeedsWaitTime: true},
				RoundTrip:     true,
			},
			miles: 5.0,
			want: FareBreakdown{
				BaseFare:            15000,
				DistanceMiles:       5.0,
				DistanceCharge:      3000,
				PickupStairsCharge:  3000,
				DropoffStairsCharge: 15000,
				RampCharge:          2000,
				WaitTimeCharge:      2500,
				RoundTrip:           true,
				Subtotal:            40500,
				PlatformFee:         2025,
				Tax:                 3402,
				Total:               45927,
			},
		},
		{
			name: "stretcher with stair chair",
			req: QuoteRequest{
				VehicleType:  VehicleStretcher,
				PickupStairs: StairsSome,
				Services:     AdditionalServices{NeedsStairChair: true, NeedsCompanion: true},
			},
			miles: 2.0,
			want: FareBreakdown{
				BaseFare:           15000,
				DistanceMiles:      2.0,
				DistanceCharge:     600,
				PickupStairsCharge: 3500,
				StairChairCharge:   4000,
				CompanionCharge:    1500,
				Subtotal:           24600,
				PlatformFee:        1230,
				Tax:                2066,
				Total:              27896,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := calc.quoteForDistance(tt.req, tt.miles)
			if err != nil {
				t.Fatalf("quoteForDistance: %v", err)
			}
			if q.Breakdown != tt.want {
				t.Errorf("breakdown = %+v, want %+v", q.Breakdown, tt.want)
			}
			if q.EstimatedFare.Amount != tt.want.Total {
				t.Errorf("estimated fare = %d, want %d", q.EstimatedFare.Amount, tt.want.Total)
			}
		})
	}
}

func TestBackupQuote_FeeBeforeTaxOrder(t *testing.T) {
	// 15000 * 8% tax first then 5% fee would give a different total; the
	// formula must apply the fee to the subtotal and tax to subtotal+fee.
	calc := NewBackupCalculator(DefaultRateCard())
	q, err := calc.quoteForDistance(QuoteRequest{VehicleType: VehicleStretcher}, 0.5)
	if err != nil {
		t.Fatalf("quoteForDistance: %v", err)
	}
	bd := q.Breakdown
	if bd.PlatformFee != applyBps(bd.Subtotal, 500) {
		t.Errorf("platform fee %d not 5%% of subtotal %d", bd.PlatformFee, bd.Subtotal)
	}
	if bd.Tax != applyBps(bd.Subtotal+bd.PlatformFee, 800) {
		t.Errorf("tax %d not 8%% of subtotal+fee %d", bd.Tax, bd.Subtotal+bd.PlatformFee)
	}
}

func TestBackupQuote_BreakdownRecomposition(t *testing.T) {
	calc := NewBackupCalculator(DefaultRateCard())
	reqs := []QuoteRequest{
		{VehicleType: VehicleStandard, Pickup: testAtlanta, Dropoff: testPiedmont},
		{VehicleType: VehicleWheelchair, Pickup: testAtlanta, Dropoff: testPiedmont, RoundTrip: true, PickupStairs: StairsMany},
		{VehicleType: VehicleStretcher, Pickup: testAtlanta, Dropoff: testPiedmont,
			Services: AdditionalServices{NeedsRamp: true, NeedsCompanion: true, NeedsStairChair: true, NeedsWaitTime: true}},
	}
	for _, req := range reqs {
		q, err := calc.Quote(context.Background(), req)
		if err != nil {
			t.Fatalf("Quote: %v", err)
		}
		bd := q.Breakdown
		items := bd.BaseFare + bd.DistanceCharge + bd.PickupStairsCharge + bd.DropoffStairsCharge +
			bd.RampCharge + bd.CompanionCharge + bd.StairChairCharge + bd.WaitTimeCharge
		if items != bd.Subtotal {
			t.Errorf("line items sum %d != subtotal %d", items, bd.Subtotal)
		}
		if bd.Subtotal+bd.PlatformFee+bd.Tax != bd.Total {
			t.Errorf("subtotal+fee+tax = %d, want total %d", bd.Subtotal+bd.PlatformFee+bd.Tax, bd.Total)
		}
	}
}

func TestBackupQuote_VehicleTiersOrdered(t *testing.T) {
	card := DefaultRateCard()
	if !(card.BaseFares[VehicleStandard] < card.BaseFares[VehicleWheelchair] &&
		card.BaseFares[VehicleWheelchair] < card.BaseFares[VehicleStretcher]) {
		t.Errorf("base fares must be ordered standard < wheelchair < stretcher: %+v", card.BaseFares)
	}
}

func TestBackupQuote_InvalidPickup(t *testing.T) {
	calc := NewBackupCalculator(DefaultRateCard())
	_, err := calc.Quote(context.Background(), QuoteRequest{
		VehicleType: VehicleStandard,
		Pickup:      types.Point{Lat: 0, Lng: 0},
		Dropoff:     testPiedmont,
	})
	if err == nil {
		t.Fatal("expected error for sentinel pickup")
	}
	if !strings.Contains(err.Error(), "Pickup") {
		t.Errorf("error %q does not identify the pickup endpoint", err)
	}
}

func TestBackupQuote_UnknownVehicleType(t *testing.T) {
	calc := NewBackupCalculator(DefaultRateCard())
	_, err := calc.Quote(context.Background(), QuoteRequest{
		VehicleType: VehicleType("hoverboard"),
		Pickup:      testAtlanta,
		Dropoff:     testPiedmont,
	})
	if err == nil {
		t.Fatal("expected error for unknown vehicle type")
	}
}

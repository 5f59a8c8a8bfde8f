package bookings

import "math"

// Fee rates applied to the base amount of every booking.
const (
	PlatformFeeRate           = 0.05
	CommunityContributionRate = 0.02
)

// Pricing is the full monetary breakdown of a booking, computed once
// at creation time from the listing's nightly price.
type Pricing struct {
	BaseAmount            float64
	PlatformFee           float64
	CommunityContribution float64
	HostEarnings          float64
	TotalAmount           float64
}

// ComputePricing derives the booking money breakdown.
//
//	base     = price_per_night * nights
//	fee      = 5% of base  (paid by the guest on top of base)
//	donation = 2% of base  (funded out of the host's share)
//	host     = base - fee - donation
//	total    = base + fee  (what the guest is charged)
//
// Every component is rounded to cents independently, so
// host + fee + donation may drift from base by at most a cent; the
// stored components are authoritative, not the identity.
func ComputePricing(pricePerNight float64, nights int) Pricing {
	base := round2(pricePerNight * float64(nights))
	fee := round2(base * PlatformFeeRate)
	contribution := round2(base * CommunityContributionRate)

	return Pricing{
		BaseAmount:            base,
		PlatformFee:           fee,
		CommunityContribution: contribution,
		HostEarnings:          round2(base - fee - contribution),
		TotalAmount:           round2(base + fee),
	}
}

// round2 rounds to 2 decimal places, half away from zero.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

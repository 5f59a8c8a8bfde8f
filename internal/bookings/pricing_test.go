package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePricing(t *testing.T) {
	// 3 nights at 1000/night.
	p := ComputePricing(1000, 3)

	assert.Equal(t, 3000.0, p.BaseAmount)
	assert.Equal(t, 150.0, p.PlatformFee)
	assert.Equal(t, 60.0, p.CommunityContribution)
	assert.Equal(t, 2790.0, p.HostEarnings)
	assert.Equal(t, 3150.0, p.TotalAmount)

	// Guest pays base plus fee; host gets base minus fee minus contribution.
	assert.Equal(t, p.BaseAmount+p.PlatformFee, p.TotalAmount)
	assert.Equal(t, p.BaseAmount-p.PlatformFee-p.CommunityContribution, p.HostEarnings)
}

func TestComputePricingRoundsToCents(t *testing.T) {
	// 1 night at 999.99: fee is 49.9995, rounds half-up to 50.00.
	p := ComputePricing(999.99, 1)

	assert.Equal(t, 999.99, p.BaseAmount)
	assert.Equal(t, 50.0, p.PlatformFee)
	assert.Equal(t, 20.0, p.CommunityContribution)
	assert.Equal(t, 929.99, p.HostEarnings)
	assert.Equal(t, 1049.99, p.TotalAmount)
}

func TestComputePricingSingleNight(t *testing.T) {
	p := ComputePricing(850.50, 1)

	assert.Equal(t, 850.50, p.BaseAmount)
	assert.Equal(t, 42.53, p.PlatformFee)
	assert.Equal(t, 17.01, p.CommunityContribution)
	assert.Equal(t, 790.96, p.HostEarnings)
	assert.Equal(t, 893.03, p.TotalAmount)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1.23, round2(1.234))
	assert.Equal(t, 1.24, round2(1.235))
	assert.Equal(t, 0.0, round2(0.004))
	assert.Equal(t, 100.0, round2(99.999))
}

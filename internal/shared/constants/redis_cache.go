package constants

import (
	"fmt"
	"time"
)

// Redis cache keys and TTLs for VillageStay.
// Pattern: villagestay:{module}:{operation}:{identifier}:{params?}

// ================== CACHE TTL DURATIONS ==================

// Static data (long TTL: rarely changes)
const (
	TTL_STATIC_LONG  = 24 * time.Hour
	TTL_STATIC_SHORT = 6 * time.Hour // user profiles
)

// Semi-static data (medium TTL: changes occasionally)
const (
	TTL_SEMI_STATIC_MEDIUM = 2 * time.Hour    // listing details
	TTL_SEMI_STATIC_SHORT  = 1 * time.Hour    // listing search results
	TTL_SEMI_STATIC_QUICK  = 15 * time.Minute // browse pages
)

// Dynamic data (short TTL: changes frequently)
const (
	TTL_DYNAMIC_MEDIUM = 10 * time.Minute // booking history
	TTL_DYNAMIC_SHORT  = 5 * time.Minute  // availability probes
)

// ================== REDIS KEY PREFIXES ==================

const (
	CACHE_PREFIX = "villagestay"
)

// ================== LISTINGS MODULE ==================

const (
	CACHE_KEY_LISTINGS_LIST   = CACHE_PREFIX + ":listings:list"         // + :page:X:limit:Y:location:Z
	CACHE_KEY_LISTING_DETAIL  = CACHE_PREFIX + ":listings:detail:uuid:" // + listing-id
	CACHE_KEY_LISTING_BY_HOST = CACHE_PREFIX + ":listings:host:uuid:"   // + host-id
)

const (
	TTL_LISTINGS_LIST  = TTL_SEMI_STATIC_QUICK
	TTL_LISTING_DETAIL = TTL_SEMI_STATIC_MEDIUM
)

// ================== BOOKINGS MODULE ==================

const (
	CACHE_KEY_USER_BOOKINGS  = CACHE_PREFIX + ":bookings:user:uuid:"   // + user-id:page:X
	CACHE_KEY_BOOKING_DETAIL = CACHE_PREFIX + ":bookings:detail:uuid:" // + booking-id
)

const (
	TTL_USER_BOOKINGS  = TTL_DYNAMIC_MEDIUM
	TTL_BOOKING_DETAIL = TTL_DYNAMIC_MEDIUM
)

// ================== AUTH MODULE ==================

const (
	CACHE_KEY_USER_PROFILE = CACHE_PREFIX + ":auth:user:profile:uuid:" // + user-id
)

const (
	TTL_USER_PROFILE = TTL_STATIC_SHORT
)

// ================== CACHE INVALIDATION PATTERNS ==================

const (
	PATTERN_INVALIDATE_LISTINGS_ALL = CACHE_PREFIX + ":listings:*"
	PATTERN_INVALIDATE_USER_ALL     = CACHE_PREFIX + ":*:user:*"
)

// ================== HELPER FUNCTIONS ==================

func BuildListingDetailKey(listingID string) string {
	return CACHE_KEY_LISTING_DETAIL + listingID
}

func BuildListingListKey(page, limit int, location string) string {
	if location != "" {
		return fmt.Sprintf("%s:page:%d:limit:%d:location:%s", CACHE_KEY_LISTINGS_LIST, page, limit, location)
	}
	return fmt.Sprintf("%s:page:%d:limit:%d", CACHE_KEY_LISTINGS_LIST, page, limit)
}

func BuildUserBookingsKey(userID string, page int) string {
	return fmt.Sprintf("%s%s:page:%d", CACHE_KEY_USER_BOOKINGS, userID, page)
}

func BuildUserProfileKey(userID string) string {
	return CACHE_KEY_USER_PROFILE + userID
}

package entity

import (
	"time"
)

type User struct {
	ID          string `json:"id" firestore:"id"`
	Email       string `json:"email" firestore:"email"`
	Username    string `json:"username" firestore:"username"`
	Phone       string `json:"phone" firestore:"phone"`
	Role        string `json:"role" firestore:"role"` // "buyer", "vendor", "rider"
	Status      string `json:"status" firestore:"status"`
	CommunityID string `json:"community_id" firestore:"communityId"`

	FullName  string `json:"full_name,omitempty" firestore:"fullName,omitempty"`
	Address   string `json:"address,omitempty" firestore:"address,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty" firestore:"avatarURL,omitempty"`

	// Vendor aggregates, maintained by the review use case
	VendorRating      float64 `json:"vendor_rating,omitempty" firestore:"vendorRating,omitempty"`
	VendorReviewCount int     `json:"vendor_review_count,omitempty" firestore:"vendorReviewCount,omitempty"`

	// Rider fields
	DeliveryRadiusKm float64 `json:"delivery_radius_km,omitempty" firestore:"deliveryRadiusKm,omitempty"`
	RiderAvailable   bool    `json:"rider_available,omitempty" firestore:"riderAvailable,omitempty"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

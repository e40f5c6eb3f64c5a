package dto

// ClaimListingRequest is the payload submitted by the claim-your-listing form.
type ClaimListingRequest struct {
	BusinessID   string `json:"business_id,omitempty" form:"business_id"`
	BusinessName string `json:"business_name" form:"business_name"`
	OwnerName    string `json:"owner_name" form:"owner_name"`
	Email        string `json:"email" form:"email"`
	Phone        string `json:"phone" form:"phone"`
	Message      string `json:"message,omitempty" form:"message"`
}

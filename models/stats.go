package models

// Stats is the aggregate snapshot served by the stats endpoints.
// TotalFunding is nil, and therefore omitted, unless the caller is an admin.
type Stats struct {
	Users         int64    `json:"users"`
	Requests      int64    `json:"requests"`
	DoneDonations int64    `json:"doneDonations"`
	TotalFunding  *float64 `json:"totalFunding,omitempty"`
}

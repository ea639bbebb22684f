package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationRequest struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	RequesterName     string             `bson:"requesterName" json:"requesterName"`
	RequesterEmail    string             `bson:"requesterEmail" json:"requesterEmail"` // owner
	RecipientName     string             `bson:"recipientName" json:"recipientName"`
	RecipientDistrict string             `bson:"recipientDistrict" json:"recipientDistrict"`
	RecipientUpazila  string             `bson:"recipientUpazila" json:"recipientUpazila"`
	HospitalName      string             `bson:"hospitalName" json:"hospitalName"`
	FullAddress       string             `bson:"fullAddress" json:"fullAddress"`
	BloodGroup        string             `bson:"bloodGroup" json:"bloodGroup"`
	DonationDate      string             `bson:"donationDate" json:"donationDate"`
	DonationTime      string             `bson:"donationTime" json:"donationTime"`
	RequestMessage    string             `bson:"requestMessage,omitempty" json:"requestMessage,omitempty"`
	Status            RequestStatus      `bson:"status" json:"status"`
	DonorName         string             `bson:"donorName,omitempty" json:"donorName,omitempty"`
	DonorEmail        string             `bson:"donorEmail,omitempty" json:"donorEmail,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}

// DonationRequestInput is the payload accepted on create.
type DonationRequestInput struct {
	RequesterName     string `json:"requesterName"`
	RecipientName     string `json:"recipientName" binding:"required"`
	RecipientDistrict string `json:"recipientDistrict" binding:"required"`
	RecipientUpazila  string `json:"recipientUpazila" binding:"required"`
	HospitalName      string `json:"hospitalName" binding:"required"`
	FullAddress       string `json:"fullAddress"`
	BloodGroup        string `json:"bloodGroup" binding:"required,bloodgroup"`
	DonationDate      string `json:"donationDate" binding:"required"`
	DonationTime      string `json:"donationTime" binding:"required"`
	RequestMessage    string `json:"requestMessage"`
}

// DonationRequestUpdate is the allowlist for PATCH. Pointers distinguish
// "absent" from "set to empty". Donor fields are only written by the
// donate operation.
type DonationRequestUpdate struct {
	RequesterName     *string `json:"requesterName"`
	RecipientName     *string `json:"recipientName"`
	RecipientDistrict *string `json:"recipientDistrict"`
	RecipientUpazila  *string `json:"recipientUpazila"`
	HospitalName      *string `json:"hospitalName"`
	FullAddress       *string `json:"fullAddress"`
	BloodGroup        *string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
	DonationDate      *string `json:"donationDate"`
	DonationTime      *string `json:"donationTime"`
	RequestMessage    *string `json:"requestMessage"`
	Status            *string `json:"status"`
}

// Fields returns the $set document. The status value is parsed so that
// unknown states never reach the store.
func (u DonationRequestUpdate) Fields() (map[string]any, error) {
	set := map[string]any{}
	put := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	put("requesterName", u.RequesterName)
	put("recipientName", u.RecipientName)
	put("recipientDistrict", u.RecipientDistrict)
	put("recipientUpazila", u.RecipientUpazila)
	put("hospitalName", u.HospitalName)
	put("fullAddress", u.FullAddress)
	put("bloodGroup", u.BloodGroup)
	put("donationDate", u.DonationDate)
	put("donationTime", u.DonationTime)
	put("requestMessage", u.RequestMessage)
	if u.Status != nil {
		st, err := ParseRequestStatus(*u.Status)
		if err != nil {
			return nil, err
		}
		set["status"] = st
	}
	return set, nil
}

// RequestFilter narrows the staff listing.
type RequestFilter struct {
	Status RequestStatus
}

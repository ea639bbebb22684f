package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Avatar     string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	BloodGroup string             `bson:"bloodGroup,omitempty" json:"bloodGroup,omitempty"`
	District   string             `bson:"district,omitempty" json:"district,omitempty"`
	Upazila    string             `bson:"upazila,omitempty" json:"upazila,omitempty"`
	Role       Role               `bson:"role" json:"role"`
	Status     UserStatus         `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProfileUpdate holds the only user fields a profile edit may touch.
type ProfileUpdate struct {
	Name       string `json:"name"`
	Avatar     string `json:"avatar"`
	BloodGroup string `json:"bloodGroup" binding:"omitempty,bloodgroup"`
	District   string `json:"district"`
	Upazila    string `json:"upazila"`
}

// Fields returns the $set document for a profile edit. Empty values are
// skipped so a partial payload leaves the other fields alone.
func (p ProfileUpdate) Fields() map[string]any {
	set := map[string]any{}
	if p.Name != "" {
		set["name"] = p.Name
	}
	if p.Avatar != "" {
		set["avatar"] = p.Avatar
	}
	if p.BloodGroup != "" {
		set["bloodGroup"] = p.BloodGroup
	}
	if p.District != "" {
		set["district"] = p.District
	}
	if p.Upazila != "" {
		set["upazila"] = p.Upazila
	}
	return set
}

// DonorFilter narrows the public donor search.
type DonorFilter struct {
	BloodGroup string
	District   string
	Upazila    string
}

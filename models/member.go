package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Role string

const (
	RoleManager Role = "MANAGER"
	RoleStaff   Role = "STAFF"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleManager:
		return RoleManager, true
	case RoleStaff:
		return RoleStaff, true
	}
	return "", false
}

// Member is a person from the member directory. The role is fixed once the
// member is registered; ExternalID is the identifier issued by the external
// members API.
type Member struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	Role       Role               `json:"role" bson:"role"`
	ExternalID string             `json:"externalId" bson:"externalId"`
	Active     bool               `json:"active" bson:"active"`
}

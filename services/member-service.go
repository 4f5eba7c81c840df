package services

import (
	"context"
	"fmt"

	"portfolio-manager/portfolios-service/logging"
	"portfolio-manager/portfolios-service/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemberDirectory is the lookup contract the project side depends on.
// FindAllByIDs returns only the members that exist, so callers detect missing
// ids by comparing counts.
type MemberDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error)
	FindAllByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Member, error)
}

type MemberService struct {
	MembersCollection *mongo.Collection
	ExternalAPI       ExternalMembersAPI
}

func NewMemberService(membersCollection *mongo.Collection, externalAPI ExternalMembersAPI) *MemberService {
	return &MemberService{
		MembersCollection: membersCollection,
		ExternalAPI:       externalAPI,
	}
}

// CreateMember registers a member in the directory. The external identifier
// comes from the members API; when the call fails the member still gets a
// generated identifier so registration does not depend on the remote side.
func (s *MemberService) CreateMember(ctx context.Context, name string, role models.Role) (*models.Member, error) {
	if name == "" {
		return nil, &models.ValidationError{Message: "member name is required"}
	}
	if role != models.RoleManager && role != models.RoleStaff {
		return nil, &models.ValidationError{Message: fmt.Sprintf("unknown member role: %s", role)}
	}

	externalID, err := s.ExternalAPI.RegisterMember(ctx, name, role)
	if err != nil {
		externalID = uuid.New().String()
		logging.Logger.Warnf("Event ID: MEMBERS_API_UNAVAILABLE, Description: members API call failed, generated external id %s locally: %v", externalID, err)
	}

	member := &models.Member{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Role:       role,
		ExternalID: externalID,
		Active:     true,
	}

	if _, err := s.MembersCollection.InsertOne(ctx, member); err != nil {
		return nil, fmt.Errorf("failed to create member: %w", err)
	}
	return member, nil
}

func (s *MemberService) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Member, error) {
	var member models.Member
	err := s.MembersCollection.FindOne(ctx, bson.M{"_id": id}).Decode(&member)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", models.ErrMemberNotFound, id.Hex())
		}
		return nil, fmt.Errorf("error fetching member: %w", err)
	}
	return &member, nil
}

func (s *MemberService) FindAllByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Member, error) {
	cursor, err := s.MembersCollection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("error fetching members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return members, nil
}

func (s *MemberService) GetAllMembers(ctx context.Context) ([]models.Member, error) {
	cursor, err := s.MembersCollection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("error fetching members: %w", err)
	}
	defer cursor.Close(ctx)

	members := []models.Member{}
	if err := cursor.All(ctx, &members); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}
	return members, nil
}

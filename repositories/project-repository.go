package repositories

import (
	"context"
	"fmt"
	"regexp"

	"portfolio-manager/portfolios-service/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProjectStore persists projects in a MongoDB collection.
type MongoProjectStore struct {
	collection *mongo.Collection
}

func NewMongoProjectStore(collection *mongo.Collection) *MongoProjectStore {
	return &MongoProjectStore{collection: collection}
}

func (s *MongoProjectStore) Save(ctx context.Context, project *models.Project) error {
	filter := bson.M{"_id": project.ID}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, filter, project, opts); err != nil {
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (s *MongoProjectStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&project)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%w: %s", models.ErrProjectNotFound, id.Hex())
		}
		return nil, fmt.Errorf("error fetching project: %w", err)
	}
	return &project, nil
}

func (s *MongoProjectStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", models.ErrProjectNotFound, id.Hex())
	}
	return nil
}

func (s *MongoProjectStore) FindPage(ctx context.Context, filter ProjectFilter, page PageRequest) (*ProjectPage, error) {
	query := bson.M{}
	if filter.Name != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(filter.Name), "$options": "i"}
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	total, err := s.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetSkip(int64(page.Page) * int64(page.Size)).
		SetLimit(int64(page.Size))

	cursor, err := s.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}

	return &ProjectPage{
		Items:      projects,
		TotalCount: total,
		Page:       page.Page,
		Size:       page.Size,
	}, nil
}

func (s *MongoProjectStore) CountByStatus(ctx context.Context) (map[models.ProjectStatus]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects by status: %w", err)
	}
	defer cursor.Close(ctx)

	counts := map[models.ProjectStatus]int64{}
	for cursor.Next(ctx) {
		var row struct {
			Status models.ProjectStatus `bson:"_id"`
			Count  int64                `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode status count: %w", err)
		}
		counts[row.Status] = row.Count
	}
	return counts, cursor.Err()
}

func (s *MongoProjectStore) SumBudgetByStatus(ctx context.Context) (map[models.ProjectStatus]float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$status", "total": bson.M{"$sum": "$budget"}}}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to sum budgets by status: %w", err)
	}
	defer cursor.Close(ctx)

	totals := map[models.ProjectStatus]float64{}
	for cursor.Next(ctx) {
		var row struct {
			Status models.ProjectStatus `bson:"_id"`
			Total  float64              `bson:"total"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode budget sum: %w", err)
		}
		totals[row.Status] = row.Total
	}
	return totals, cursor.Err()
}

// AverageFinishedDurationDays averages actualEndDate-startDate over finished
// projects. The day arithmetic happens client side; the returned pointer is
// nil when no finished project carries an actual end date.
func (s *MongoProjectStore) AverageFinishedDurationDays(ctx context.Context) (*float64, error) {
	filter := bson.M{
		"status":        models.StatusFinished,
		"actualEndDate": bson.M{"$ne": nil},
	}
	cursor, err := s.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load finished projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []models.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode finished projects: %w", err)
	}

	return averageDurationDays(projects), nil
}

func averageDurationDays(projects []models.Project) *float64 {
	var total float64
	var counted int
	for _, p := range projects {
		if p.ActualEndDate == nil {
			continue
		}
		total += p.ActualEndDate.Sub(p.StartDate).Hours() / 24
		counted++
	}
	if counted == 0 {
		return nil
	}
	avg := total / float64(counted)
	return &avg
}

func (s *MongoProjectStore) CountUniqueAllocatedMembers(ctx context.Context) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$teamMemberIds"}},
		{{Key: "$group", Value: bson.M{"_id": "$teamMemberIds"}}},
		{{Key: "$count", Value: "count"}},
	}
	cursor, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("failed to count unique allocated members: %w", err)
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var row struct {
			Count int64 `bson:"count"`
		}
		if err := cursor.Decode(&row); err != nil {
			return 0, fmt.Errorf("failed to decode unique member count: %w", err)
		}
		return row.Count, nil
	}
	return 0, cursor.Err()
}

func (s *MongoProjectStore) CountActiveProjectsForMember(ctx context.Context, memberID, excludedProjectID primitive.ObjectID) (int64, error) {
	filter := bson.M{
		"teamMemberIds": memberID,
		"status":        bson.M{"$nin": bson.A{models.StatusFinished, models.StatusCancelled}},
	}
	if excludedProjectID != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": excludedProjectID}
	}

	count, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to count active projects for member: %w", err)
	}
	return count, nil
}

package repositories

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"portfolio-manager/portfolios-service/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InMemoryProjectStore keeps the portfolio in a mutex-guarded map. It backs
// the service tests and serializes every call, so a capacity pre-check and
// the following save cannot interleave with another writer's.
type InMemoryProjectStore struct {
	mu       sync.Mutex
	projects map[primitive.ObjectID]models.Project
}

func NewInMemoryProjectStore() *InMemoryProjectStore {
	return &InMemoryProjectStore{projects: map[primitive.ObjectID]models.Project{}}
}

func (s *InMemoryProjectStore) Save(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *project
	stored.TeamMemberIDs = append([]primitive.ObjectID(nil), project.TeamMemberIDs...)
	s.projects[project.ID] = stored
	return nil
}

func (s *InMemoryProjectStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrProjectNotFound, id.Hex())
	}
	project := stored
	project.TeamMemberIDs = append([]primitive.ObjectID(nil), stored.TeamMemberIDs...)
	return &project, nil
}

func (s *InMemoryProjectStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("%w: %s", models.ErrProjectNotFound, id.Hex())
	}
	delete(s.projects, id)
	return nil
}

func (s *InMemoryProjectStore) FindPage(ctx context.Context, filter ProjectFilter, page PageRequest) (*ProjectPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := []models.Project{}
	for _, p := range s.projects {
		if filter.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Name)) {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		matched = append(matched, p)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := int64(len(matched))
	start := page.Page * page.Size
	if start > len(matched) {
		start = len(matched)
	}
	end := start + page.Size
	if page.Size <= 0 || end > len(matched) {
		end = len(matched)
	}

	return &ProjectPage{
		Items:      append([]models.Project{}, matched[start:end]...),
		TotalCount: total,
		Page:       page.Page,
		Size:       page.Size,
	}, nil
}

func (s *InMemoryProjectStore) CountByStatus(ctx context.Context) (map[models.ProjectStatus]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[models.ProjectStatus]int64{}
	for _, p := range s.projects {
		counts[p.Status]++
	}
	return counts, nil
}

func (s *InMemoryProjectStore) SumBudgetByStatus(ctx context.Context) (map[models.ProjectStatus]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	totals := map[models.ProjectStatus]float64{}
	for _, p := range s.projects {
		totals[p.Status] += p.Budget
	}
	return totals, nil
}

func (s *InMemoryProjectStore) AverageFinishedDurationDays(ctx context.Context) (*float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	finished := []models.Project{}
	for _, p := range s.projects {
		if p.Status == models.StatusFinished {
			finished = append(finished, p)
		}
	}
	return averageDurationDays(finished), nil
}

func (s *InMemoryProjectStore) CountUniqueAllocatedMembers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	unique := map[primitive.ObjectID]struct{}{}
	for _, p := range s.projects {
		for _, memberID := range p.TeamMemberIDs {
			unique[memberID] = struct{}{}
		}
	}
	return int64(len(unique)), nil
}

func (s *InMemoryProjectStore) CountActiveProjectsForMember(ctx context.Context, memberID, excludedProjectID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, p := range s.projects {
		if p.ID == excludedProjectID || p.Status.IsTerminal() {
			continue
		}
		for _, id := range p.TeamMemberIDs {
			if id == memberID {
				count++
				break
			}
		}
	}
	return count, nil
}

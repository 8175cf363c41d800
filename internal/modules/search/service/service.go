package search

import (
	"context"
	"encoding/json"
	"html"
	"strings"

	"anoa.com/kulupportal/internal/entity"
	"anoa.com/kulupportal/pkg/logger"
	"github.com/google/uuid"
	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const ProjectsIndex = "projects"

type ProjectIndex interface {
	IndexProject(ctx context.Context, project *entity.Project) error
	DeleteProject(ctx context.Context, id uuid.UUID) error
	SearchProjects(ctx context.Context, query string, limit int) ([]uuid.UUID, error)
	Enabled() bool
}

type projectIndex struct {
	client    meilisearch.ServiceManager
	sanitizer *bluemonday.Policy
}

// NewProjectIndex returns the meilisearch backed project index. A nil client
// gives a disabled index whose writes are no-ops.
func NewProjectIndex(ctx context.Context, client meilisearch.ServiceManager) ProjectIndex {
	s := &projectIndex{
		client:    client,
		sanitizer: bluemonday.StrictPolicy(),
	}
	if client != nil {
		s.initIndex(ctx)
	}
	return s
}

func (s *projectIndex) Enabled() bool {
	return s.client != nil
}

func (s *projectIndex) initIndex(ctx context.Context) {
	filterable := []any{"year"}
	if _, err := s.client.Index(ProjectsIndex).UpdateFilterableAttributes(&filterable); err != nil {
		logger.Warn(ctx, "update projects filterable attributes", zap.Error(err))
	}

	sortable := []string{"year", "created_at"}
	if _, err := s.client.Index(ProjectsIndex).UpdateSortableAttributes(&sortable); err != nil {
		logger.Warn(ctx, "update projects sortable attributes", zap.Error(err))
	}
}

type projectDoc struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Achievement string `json:"achievement"`
	Year        int    `json:"year"`
	LeadName    string `json:"lead_name"`
	CreatedAt   int64  `json:"created_at"`
}

func (s *projectIndex) clean(text string) string {
	text = strings.ReplaceAll(text, "</p>", " ")
	text = strings.ReplaceAll(text, "<br>", " ")
	text = html.UnescapeString(s.sanitizer.Sanitize(text))
	return strings.Join(strings.Fields(text), " ")
}

func (s *projectIndex) IndexProject(ctx context.Context, project *entity.Project) error {
	if s.client == nil || project == nil {
		return nil
	}

	doc := projectDoc{
		ID:          project.ID.String(),
		Name:        s.clean(project.Name),
		Description: s.clean(project.Description),
		Year:        project.Year,
		CreatedAt:   project.CreatedAt.Unix(),
	}
	if project.Achievement != nil {
		doc.Achievement = s.clean(*project.Achievement)
	}
	if project.Lead != nil {
		doc.LeadName = project.Lead.Name
	}

	task, err := s.client.Index(ProjectsIndex).AddDocuments([]projectDoc{doc}, strPtr("id"))
	if err != nil {
		return err
	}
	logger.Debug(ctx, "indexed project", zap.String("project_id", doc.ID), zap.Int64("task_uid", task.TaskUID))
	return nil
}

func (s *projectIndex) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if s.client == nil {
		return nil
	}
	_, err := s.client.Index(ProjectsIndex).DeleteDocument(id.String())
	return err
}

// SearchProjects returns matching project ids in relevance order.
func (s *projectIndex) SearchProjects(ctx context.Context, query string, limit int) ([]uuid.UUID, error) {
	if s.client == nil {
		return nil, nil
	}

	res, err := s.client.Index(ProjectsIndex).Search(query, &meilisearch.SearchRequest{
		Limit:                int64(limit),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		return nil, err
	}

	// hits are decoded through JSON so only the id attribute matters
	raw, err := json.Marshal(res.Hits)
	if err != nil {
		return nil, err
	}
	var hits []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &hits); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(hits))
	for _, h := range hits {
		if id, err := uuid.Parse(h.ID); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func strPtr(s string) *string {
	return &s
}

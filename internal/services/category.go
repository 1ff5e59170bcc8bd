package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/stwalsh4118/ciftlik/internal/logger"
	"github.com/stwalsh4118/ciftlik/internal/models"
	"github.com/stwalsh4118/ciftlik/internal/repository"
)

// BuildCategoryTree assembles a flat category list into a forest in two
// passes. A node whose parent is missing from the list becomes a root.
// Siblings are ordered by name, then id.
func BuildCategoryTree(categories []models.Category) []*models.CategoryNode {
	nodes := make(map[string]*models.CategoryNode, len(categories))
	for _, c := range categories {
		nodes[c.ID] = &models.CategoryNode{Category: c, Children: []*models.CategoryNode{}}
	}

	roots := make([]*models.CategoryNode, 0)
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID != nil {
			if parent, ok := nodes[*c.ParentID]; ok && parent != node {
				parent.Children = append(parent.Children, node)
				continue
			}
		}
		roots = append(roots, node)
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*models.CategoryNode) {
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Name != nodes[j].Name {
			return nodes[i].Name < nodes[j].Name
		}
		return nodes[i].ID < nodes[j].ID
	})
	for _, n := range nodes {
		sortNodes(n.Children)
	}
}

// CategoryService manages the category hierarchy.
type CategoryService interface {
	Tree(ctx context.Context) ([]*models.CategoryNode, error)
	List(ctx context.Context) ([]models.Category, error)
	Get(ctx context.Context, id string) (*models.Category, error)

	// Create stores a category. The parent, when given, must exist.
	Create(ctx context.Context, c *models.Category) (*models.Category, error)

	// Update rewrites a category. Returns ErrCategoryCycle when the new
	// parent is the category itself or one of its descendants.
	Update(ctx context.Context, id string, c *models.Category) (*models.Category, error)

	// Delete removes a leaf category. Returns ErrCategoryHasChildren otherwise.
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo repository.CategoryRepository
	log  *logger.Logger
}

// NewCategoryService creates a new instance of CategoryService.
func NewCategoryService(repo repository.CategoryRepository, log *logger.Logger) CategoryService {
	return &categoryService{
		repo: repo,
		log:  log.WithComponent("category"),
	}
}

func (s *categoryService) Tree(ctx context.Context) ([]*models.CategoryNode, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	return BuildCategoryTree(all), nil
}

func (s *categoryService) List(ctx context.Context) ([]models.Category, error) {
	return s.repo.Find(ctx, repository.Filter{Order: "name, id"})
}

func (s *categoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("%w: kategori %s", ErrNotFound, id)
	}
	return c, nil
}

func (s *categoryService) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	c.ID = ""
	if err := models.Validate(c); err != nil {
		return nil, err
	}
	if c.ParentID != nil {
		parent, err := s.repo.FindByID(ctx, *c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, models.NewValidationError("ust_kategori_id", "üst kategori bulunamadı")
		}
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	s.log.Info("Category created", logger.Fields{"kategori_id": c.ID, "ust_kategori_id": models.Deref(c.ParentID)})
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, id string, c *models.Category) (*models.Category, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt

	if err := models.Validate(c); err != nil {
		return nil, err
	}
	if c.ParentID != nil {
		if err := s.checkParent(ctx, id, *c.ParentID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// checkParent walks up from parentID and fails if it reaches id.
func (s *categoryService) checkParent(ctx context.Context, id, parentID string) error {
	all, err := s.List(ctx)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Category, len(all))
	for _, c := range all {
		byID[c.ID] = c
	}

	if _, ok := byID[parentID]; !ok {
		return models.NewValidationError("ust_kategori_id", "üst kategori bulunamadı")
	}

	visited := make(map[string]bool)
	for cur := parentID; cur != ""; {
		if cur == id {
			return fmt.Errorf("%w: %s", ErrCategoryCycle, id)
		}
		if visited[cur] {
			break
		}
		visited[cur] = true
		cur = models.Deref(byID[cur].ParentID)
	}
	return nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: %s has %d", ErrCategoryHasChildren, id, children)
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("%w: kategori %s", ErrNotFound, id)
	}
	s.log.Info("Category deleted", logger.Fields{"kategori_id": id})
	return nil
}

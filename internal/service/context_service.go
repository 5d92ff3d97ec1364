package service

import (
	"context"

	"bizmail-be/internal/dto"
	"bizmail-be/internal/entity"
	"bizmail-be/internal/repository/contract"
)

type IContextService interface {
	Create(ctx context.Context, req *dto.CreateContextRequest) (*dto.ContextResponse, error)
	Show(ctx context.Context, id int) (*dto.ContextResponse, error)
	GetAll(ctx context.Context, skip, limit int) ([]*dto.ContextResponse, error)
	Update(ctx context.Context, req *dto.UpdateContextRequest) (*dto.ContextResponse, error)
	Delete(ctx context.Context, id int) (bool, error)
	GetContextText(ctx context.Context, id int) (string, bool, error)
}

type contextService struct {
	store contract.Store
}

func NewContextService(store contract.Store) IContextService {
	return &contextService{store: store}
}

func (s *contextService) Create(ctx context.Context, req *dto.CreateContextRequest) (*dto.ContextResponse, error) {
	c, err := s.store.CreateContext(ctx, req.Name, req.ContextText, req.Description)
	if err != nil {
		return nil, err
	}
	return contextToResponse(c), nil
}

func (s *contextService) Show(ctx context.Context, id int) (*dto.ContextResponse, error) {
	c, err := s.store.GetContext(ctx, id)
	if err != nil {
		return nil, err
	}
	return contextToResponse(c), nil
}

func (s *contextService) GetAll(ctx context.Context, skip, limit int) ([]*dto.ContextResponse, error) {
	contexts, err := s.store.ListContexts(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	res := make([]*dto.ContextResponse, 0, len(contexts))
	for _, c := range contexts {
		res = append(res, contextToResponse(c))
	}
	return res, nil
}

func (s *contextService) Update(ctx context.Context, req *dto.UpdateContextRequest) (*dto.ContextResponse, error) {
	c, err := s.store.UpdateContext(ctx, req.Id, req.Name, req.ContextText, req.Description)
	if err != nil {
		return nil, err
	}
	return contextToResponse(c), nil
}

func (s *contextService) Delete(ctx context.Context, id int) (bool, error) {
	return s.store.DeleteContext(ctx, id)
}

// GetContextText returns the raw context text used to bias generation.
func (s *contextService) GetContextText(ctx context.Context, id int) (string, bool, error) {
	c, err := s.store.GetContext(ctx, id)
	if err != nil || c == nil {
		return "", false, err
	}
	return c.ContextText, true, nil
}

func contextToResponse(c *entity.CompanyContext) *dto.ContextResponse {
	if c == nil {
		return nil
	}
	return &dto.ContextResponse{
		Id:          c.Id,
		Name:        c.Name,
		ContextText: c.ContextText,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

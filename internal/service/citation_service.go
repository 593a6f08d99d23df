package service

import (
	"context"

	"sheets-editor-be/internal/dto"
	"sheets-editor-be/pkg/citation"
)

type ICitationService interface {
	Resolve(ctx context.Context, req *dto.ResolveCitationsRequest) (*citation.Result, error)
}

type citationService struct {
	resolver *citation.Resolver
}

func NewCitationService(literalThreshold int) ICitationService {
	return &citationService{
		resolver: citation.NewResolver(literalThreshold),
	}
}

func (s *citationService) Resolve(ctx context.Context, req *dto.ResolveCitationsRequest) (*citation.Result, error) {
	resolver := s.resolver
	if req.LiteralThreshold > 0 {
		resolver = citation.NewResolver(req.LiteralThreshold)
	}
	return resolver.Resolve(req.Text, req.Sources), nil
}

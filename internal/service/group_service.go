package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// GroupService reads user groups.
type GroupService interface {
	// FindByIDs returns the groups for ids. Any unknown id fails the whole
	// call with ErrGroupNotFound.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error)

	// FindByEvent returns the groups attached automatically on event.
	FindByEvent(ctx context.Context, event domain.GroupEvent) ([]*domain.Group, error)
}

// GroupServiceImpl implements GroupService.
type GroupServiceImpl struct {
	groups store.GroupStore
	logger *slog.Logger
}

var _ GroupService = (*GroupServiceImpl)(nil)

// NewGroupService creates a GroupService.
func NewGroupService(groups store.GroupStore, logger *slog.Logger) *GroupServiceImpl {
	return &GroupServiceImpl{groups: groups, logger: logger.With("component", "group_service")}
}

// FindByIDs implements GroupService.
func (s *GroupServiceImpl) FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	wanted := domain.MergeGroups(ids, nil)
	if len(wanted) == 0 {
		return []*domain.Group{}, nil
	}

	groups, err := s.groups.FindByIDs(ctx, wanted)
	if err != nil {
		return nil, technical("find groups", err)
	}
	if len(groups) < len(wanted) {
		var missing []string
		for _, id := range wanted {
			if !slices.ContainsFunc(groups, func(g *domain.Group) bool { return g.ID == id }) {
				missing = append(missing, id)
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, strings.Join(missing, ", "))
	}
	return groups, nil
}

// FindByEvent implements GroupService.
func (s *GroupServiceImpl) FindByEvent(ctx context.Context, event domain.GroupEvent) ([]*domain.Group, error) {
	all, err := s.groups.FindAll(ctx)
	if err != nil {
		return nil, technical("find groups", err)
	}
	out := []*domain.Group{}
	for _, g := range all {
		if g.AppliesOn(event) {
			out = append(out, g)
		}
	}
	return out, nil
}

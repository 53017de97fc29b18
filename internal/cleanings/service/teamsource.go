package service

import (
	"context"
	"fmt"
	"sort"

	"stayclean_backend/internal/cleanings/repository"
	"stayclean_backend/internal/cleanings/transport"

	"github.com/google/uuid"
)

// TeamSources is the diagnostic view of a property's team associations:
// the deduplicated union of both models plus the per-source counts before
// deduplication.
type TeamSources struct {
	Teams       []repository.TeamRef
	ViaGrouping int
	ViaDirect   int
}

// AvailableTeams resolves the union of both team-association models for a
// property. Both sources are always consulted regardless of which one the
// write path uses, so diagnostics see every executor that exists. The result
// is deduplicated by team id and sorted for stable output.
func (s *Service) AvailableTeams(ctx context.Context, tenantID, propertyID uuid.UUID) (*TeamSources, error) {
	grouping, err := s.store.ListGroupingTeams(ctx, tenantID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grouping teams: %w", err)
	}

	direct, err := s.store.ListDirectTeams(ctx, tenantID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve direct teams: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(grouping)+len(direct))
	union := make([]repository.TeamRef, 0, len(grouping)+len(direct))
	for _, team := range grouping {
		if _, ok := seen[team.ID]; ok {
			continue
		}
		seen[team.ID] = struct{}{}
		union = append(union, team)
	}
	for _, team := range direct {
		if _, ok := seen[team.ID]; ok {
			continue
		}
		seen[team.ID] = struct{}{}
		union = append(union, team)
	}

	sort.Slice(union, func(i, j int) bool {
		return union[i].ID.String() < union[j].ID.String()
	})

	return &TeamSources{
		Teams:       union,
		ViaGrouping: len(grouping),
		ViaDirect:   len(direct),
	}, nil
}

// EffectiveTeams resolves the team set the assignment write path respects:
// the grouping chain when it yields anything, otherwise the legacy direct
// links. This stays a separate function from AvailableTeams on purpose:
// the two answer different questions and folding them into one resolver has
// produced duplicate-reason bugs before.
func (s *Service) EffectiveTeams(ctx context.Context, tenantID, propertyID uuid.UUID) ([]repository.TeamRef, error) {
	grouping, err := s.store.ListGroupingTeams(ctx, tenantID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve grouping teams: %w", err)
	}
	if len(grouping) > 0 {
		sortTeams(grouping)
		return grouping, nil
	}

	direct, err := s.store.ListDirectTeams(ctx, tenantID, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve direct teams: %w", err)
	}
	sortTeams(direct)
	return direct, nil
}

func sortTeams(teams []repository.TeamRef) {
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].ID.String() < teams[j].ID.String()
	})
}

// PropertyTeams builds the API view of both resolutions for a property.
func (s *Service) PropertyTeams(ctx context.Context, tenantID, propertyID uuid.UUID) (*transport.PropertyTeamsResponse, error) {
	sources, err := s.AvailableTeams(ctx, tenantID, propertyID)
	if err != nil {
		return nil, err
	}

	effective, err := s.EffectiveTeams(ctx, tenantID, propertyID)
	if err != nil {
		return nil, err
	}

	return &transport.PropertyTeamsResponse{
		Available: toTeamInfos(sources.Teams),
		Effective: toTeamInfos(effective),
		Breakdown: transport.TeamSourceBreakdown{
			ViaGrouping: sources.ViaGrouping,
			ViaDirect:   sources.ViaDirect,
		},
	}, nil
}

func toTeamInfos(teams []repository.TeamRef) []transport.TeamInfo {
	infos := make([]transport.TeamInfo, 0, len(teams))
	for _, team := range teams {
		infos = append(infos, transport.TeamInfo{ID: team.ID, Name: team.Name})
	}
	return infos
}

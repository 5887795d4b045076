package service

import (
	"context"

	"github.com/formforge/formforge/internal/repository"
)

type DashboardService struct {
	forms      *repository.FormRepo
	subs       *repository.SubmissionRepo
	workspaces *repository.WorkspaceRepo
}

func NewDashboardService(forms *repository.FormRepo, subs *repository.SubmissionRepo, workspaces *repository.WorkspaceRepo) *DashboardService {
	return &DashboardService{forms: forms, subs: subs, workspaces: workspaces}
}

type FormStat struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	WorkspaceID     string `json:"workspaceId"`
	IsPublic        bool   `json:"isPublic"`
	SubmissionCount int    `json:"submissionCount"`
	CreatedAt       string `json:"createdAt"`
}

type Overview struct {
	FormCount       int        `json:"formCount"`
	WorkspaceCount  int        `json:"workspaceCount"`
	SubmissionCount int        `json:"submissionCount"`
	Forms           []FormStat `json:"forms"`
}

// Overview aggregates the owner's forms with per-form submission counts.
func (s *DashboardService) Overview(ctx context.Context, ownerID string) (*Overview, error) {
	forms, err := s.forms.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	wsCount, err := s.workspaces.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	totalSubs := 0
	stats := make([]FormStat, 0, len(forms))
	for _, f := range forms {
		count, err := s.subs.CountByForm(ctx, f.ID)
		if err != nil {
			count = f.SubmissionCount
		}
		totalSubs += count
		stats = append(stats, FormStat{
			ID:              f.ID,
			Title:           f.Title,
			Slug:            f.Slug,
			WorkspaceID:     f.WorkspaceID,
			IsPublic:        f.IsPublic,
			SubmissionCount: count,
			CreatedAt:       f.CreatedAt,
		})
	}

	return &Overview{
		FormCount:       len(forms),
		WorkspaceCount:  wsCount,
		SubmissionCount: totalSubs,
		Forms:           stats,
	}, nil
}

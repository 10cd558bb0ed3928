package application

import (
	"context"
	"time"

	"zorgmatch/internal/common"
)

type Repository interface {
	Create(ctx context.Context, a Application) (*Application, error)
	GetByID(ctx context.Context, id common.UUID) (*Application, error)
	ListByApplicant(ctx context.Context, applicantID common.UUID) ([]Application, error)
	ListForTarget(ctx context.Context, targetType string, targetID common.UUID) ([]Application, error)
	// ListForOwner returns all vacancy applications whose target vacancy is
	// owned by the given user.
	ListForOwner(ctx context.Context, ownerID common.UUID) ([]Application, error)
	UpdateStatus(ctx context.Context, id common.UUID, status Status) (*Application, error)
	// MarkResponded stamps respondedAt on every still-unanswered application
	// the applicant has against a vacancy owned by ownerID. Set-once: rows
	// with respondedAt already present are untouched. Returns the number of
	// applications stamped.
	MarkResponded(ctx context.Context, ownerID, applicantID common.UUID, at time.Time) (int, error)
}

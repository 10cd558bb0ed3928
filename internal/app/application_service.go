package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"zorgmatch/internal/common"
	"zorgmatch/internal/domain/application"
	"zorgmatch/internal/domain/message"
	"zorgmatch/internal/domain/user"
	"zorgmatch/internal/domain/vacancy"
)

// Values above the cap are counted as a full day so one forgotten thread does
// not dominate an organisation's average.
const maxResponseHours = 24.0

// ApplicationService covers the apply flow and the organisation's view of
// incoming applications, including the response-time statistic.
type ApplicationService struct {
	applications application.Repository
	vacancies    vacancy.Repository
	users        user.Repository
	messages     message.Repository
	logger       Logger
}

func NewApplicationService(applications application.Repository, vacancies vacancy.Repository, users user.Repository, messages message.Repository, logger Logger) *ApplicationService {
	return &ApplicationService{
		applications: applications,
		vacancies:    vacancies,
		users:        users,
		messages:     messages,
		logger:       logger,
	}
}

// Apply creates a pending application and delivers the motivation text as the
// opening chat message to the vacancy owner.
func (s *ApplicationService) Apply(ctx context.Context, applicantID, vacancyID common.UUID, motivation string) (*application.Application, error) {
	if strings.TrimSpace(motivation) == "" {
		return nil, common.NewValidationError("invalid application", map[string]string{"message": "message is required"})
	}
	account, err := s.users.GetByID(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if account.Role != user.RoleZzper {
		return nil, common.NewError(common.CodeForbidden, "only zzp users can apply to vacancies", nil)
	}
	target, err := s.vacancies.GetByID(ctx, vacancyID)
	if err != nil {
		return nil, err
	}
	if target.Status != vacancy.StatusActive {
		return nil, common.NewError(common.CodeNotFound, "vacancy not found", nil)
	}
	if target.UserID == applicantID {
		return nil, common.NewError(common.CodeValidation, "cannot apply to own vacancy", nil)
	}
	existing, err := s.applications.ListByApplicant(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	for _, a := range existing {
		if a.TargetType == application.TargetVacancy && a.TargetID == vacancyID {
			return nil, common.NewError(common.CodeConflict, "already applied to this vacancy", nil)
		}
	}
	created, err := s.applications.Create(ctx, application.Application{
		ApplicantID: applicantID,
		TargetType:  application.TargetVacancy,
		TargetID:    vacancyID,
		Message:     motivation,
		Status:      application.StatusPending,
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.messages.Create(ctx, message.Message{
		SenderID:   applicantID,
		ReceiverID: target.UserID,
		Content:    motivation,
	}); err != nil {
		s.logError(fmt.Sprintf("failed to deliver application message application_id=%s", created.ID))
	}
	s.logInfo(fmt.Sprintf("application created application_id=%s vacancy_id=%s", created.ID, vacancyID))
	return created, nil
}

func (s *ApplicationService) ListOwn(ctx context.Context, applicantID common.UUID) ([]application.Application, error) {
	return s.applications.ListByApplicant(ctx, applicantID)
}

// ListForOwner returns every application against the organisation's vacancies
// together with the applicant card. The online flag is hidden when the
// applicant opted out of sharing it.
func (s *ApplicationService) ListForOwner(ctx context.Context, ownerID common.UUID) ([]application.WithApplicant, error) {
	items, err := s.applications.ListForOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	result := make([]application.WithApplicant, 0, len(items))
	for _, item := range items {
		enriched := application.WithApplicant{Application: item}
		applicant, err := s.users.GetByID(ctx, item.ApplicantID)
		if err == nil {
			info := application.ApplicantInfo{
				ID:               applicant.ID,
				FirstName:        applicant.FirstName,
				LastName:         applicant.LastName,
				Email:            applicant.Email,
				ShowOnlineStatus: applicant.ShowOnlineStatus,
			}
			if applicant.ShowOnlineStatus {
				info.IsOnline = applicant.IsOnline
			}
			enriched.Applicant = &info
		}
		result = append(result, enriched)
	}
	return result, nil
}

func (s *ApplicationService) UpdateStatus(ctx context.Context, ownerID, applicationID common.UUID, status application.Status) (*application.Application, error) {
	switch status {
	case application.StatusAccepted, application.StatusRejected, application.StatusPending:
	default:
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be pending, accepted, or rejected"})
	}
	current, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	target, err := s.vacancies.GetByID(ctx, current.TargetID)
	if err != nil {
		return nil, err
	}
	if target.UserID != ownerID {
		return nil, common.NewError(common.CodeForbidden, "application belongs to another organisation", nil)
	}
	return s.applications.UpdateStatus(ctx, applicationID, status)
}

// AverageResponseTimeHours is the mean time the organisation took to first
// answer an applicant, in hours over all responded applications against its
// vacancies. Empty sets yield 0; the final average is capped at a day.
func (s *ApplicationService) AverageResponseTimeHours(ctx context.Context, ownerID common.UUID) (float64, error) {
	items, err := s.applications.ListForOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	var total float64
	var count int
	for _, item := range items {
		if item.RespondedAt == nil {
			continue
		}
		hours := item.RespondedAt.Sub(item.CreatedAt).Hours()
		if hours < 0 {
			hours = 0
		}
		total += hours
		count++
	}
	if count == 0 {
		return 0, nil
	}
	average := total / float64(count)
	if average > maxResponseHours {
		average = maxResponseHours
	}
	return average, nil
}

// MarkResponded stamps respondedAt on the applicant's still-open applications
// the moment the vacancy owner first writes them.
func (s *ApplicationService) MarkResponded(ctx context.Context, ownerID, applicantID common.UUID, at time.Time) error {
	stamped, err := s.applications.MarkResponded(ctx, ownerID, applicantID, at)
	if err != nil {
		return err
	}
	if stamped > 0 {
		s.logInfo(fmt.Sprintf("response recorded owner_id=%s applicant_id=%s count=%d", ownerID, applicantID, stamped))
	}
	return nil
}

func (s *ApplicationService) logInfo(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Info(msg)
}

func (s *ApplicationService) logError(msg string) {
	if s.logger == nil {
		return
	}
	s.logger.Error(msg)
}

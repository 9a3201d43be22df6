package assignment

import (
	"context"
	stderrs "errors"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tathmini/core"
)

var (
	// errors
	ErrNotFound = stderrs.New("assignment not found")
)

type (
	Repository interface {
		CreateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
		QueryAllAssignments(ctx context.Context) ([]Assignment, error)
		GetAssignment(ctx context.Context, id string) (Assignment, error)
		// UpdateAssignment only writes content, score, status and updated_at;
		// other fields stay untouched.
		UpdateAssignment(ctx context.Context, asg Assignment) (Assignment, error)
	}

	ServiceInterface interface {
		Query(ctx context.Context, filter QueryFilter, srt Sort) ([]Assignment, error)
		GetByID(ctx context.Context, id string) (Assignment, error)
		Edit(ctx context.Context, id string, ea EditAssignment) (Assignment, error)
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, mailSvc: mailSvc}
}

// Query fetches the full record set and evaluates the filter/sort locally.
func (svc *Service) Query(ctx context.Context, filter QueryFilter, srt Sort) ([]Assignment, error) {
	all, err := svc.repo.QueryAllAssignments(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying assignments")
	}
	filter.Clean()
	return Query(all, filter, srt), nil
}

func (svc *Service) GetByID(ctx context.Context, id string) (Assignment, error) {
	return svc.repo.GetAssignment(ctx, id)
}

// Edit validates the submitted fields, derives the status from the score and
// writes the partial update. It is the sole writer of the
// "scored if and only if a score is present" rule.
func (svc *Service) Edit(ctx context.Context, id string, ea EditAssignment) (Assignment, error) {
	if err := ea.Validate(); err != nil {
		return Assignment{}, err // nothing reaches the store
	}

	orig, err := svc.repo.GetAssignment(ctx, id)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Assignment{}, ErrNotFound
		}
		return Assignment{}, errors.Wrap(err, "finding assignment by ID")
	}

	status := StatusPending
	if ea.score.Valid {
		status = StatusScored
	}
	asg, err := svc.repo.UpdateAssignment(ctx, Assignment{
		ID:        id,
		Content:   null.NewString(ea.Content, ea.Content != ""),
		Score:     ea.score,
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}

	if asg.IsScored() && (!orig.IsScored() || orig.Score != asg.Score) {
		svc.sendScoredMail(asg)
	}
	return asg, nil
}

func (svc *Service) sendScoredMail(asg Assignment) {
	if !asg.UserEmail.Valid || asg.UserEmail.String == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: asg.UserName.String, Address: asg.UserEmail.String}},
		Subject:      "Your assignment has been scored",
		TemplateName: "assignment-scored",
		TemplateData: struct {
			Title string
			Score int
		}{asg.DisplayTitle(), asg.Score.Int},
	})
}

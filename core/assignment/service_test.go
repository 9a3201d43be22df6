package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tathmini/core"
)

type fakeRepo struct {
	table map[string]*Assignment
}

func newFakeRepo(asgs ...Assignment) *fakeRepo {
	repo := &fakeRepo{table: make(map[string]*Assignment, len(asgs))}
	for i := range asgs {
		repo.table[asgs[i].ID] = &asgs[i]
	}
	return repo
}

func (r *fakeRepo) CreateAssignment(_ context.Context, asg Assignment) (Assignment, error) {
	r.table[asg.ID] = &asg
	return asg, nil
}

func (r *fakeRepo) QueryAllAssignments(_ context.Context) ([]Assignment, error) {
	asgs := make([]Assignment, 0, len(r.table))
	for _, a := range r.table {
		asgs = append(asgs, *a)
	}
	return asgs, nil
}

func (r *fakeRepo) GetAssignment(_ context.Context, id string) (Assignment, error) {
	if asg, ok := r.table[id]; ok {
		return *asg, nil
	}
	return Assignment{}, ErrNotFound
}

func (r *fakeRepo) UpdateAssignment(_ context.Context, asg Assignment) (Assignment, error) {
	orig, ok := r.table[asg.ID]
	if !ok {
		return Assignment{}, ErrNotFound
	}
	orig.Content = asg.Content
	orig.Score = asg.Score
	orig.Status = asg.Status
	orig.UpdatedAt = asg.UpdatedAt
	return *orig, nil
}

type recordingMailSvc struct {
	sent []*core.EmailMessage
}

func (svc *recordingMailSvc) SendMessages(messages ...*core.EmailMessage) {
	svc.sent = append(svc.sent, messages...)
}

func TestService_Edit(t *testing.T) {
	ctx := context.Background()
	submitted := time.Date(2021, 5, 1, 9, 0, 0, 0, time.UTC)

	newSvc := func(asgs ...Assignment) (*Service, *fakeRepo, *recordingMailSvc) {
		repo := newFakeRepo(asgs...)
		mailSvc := &recordingMailSvc{}
		return NewService(repo, mailSvc), repo, mailSvc
	}

	pending := Assignment{
		ID:          "a1",
		UserName:    null.StringFrom("Jane Doe"),
		UserEmail:   null.StringFrom("jane@test.cd"),
		Title:       null.StringFrom("Essay"),
		Content:     null.StringFrom("old content"),
		SubmittedAt: null.TimeFrom(submitted),
		Status:      StatusPending,
	}
	scored := pending
	scored.ID = "a2"
	scored.Status = StatusScored
	scored.Score = null.IntFrom(70)

	t.Run("scoring a pending assignment", func(t *testing.T) {
		svc, repo, mailSvc := newSvc(pending)

		asg, err := svc.Edit(ctx, "a1", EditAssignment{Content: "new content", Score: "85"})
		if err != nil {
			t.Fatalf("Edit(): %v", err)
		}
		if asg.Status != StatusScored {
			t.Errorf("status = %q, want %q", asg.Status, StatusScored)
		}
		if !asg.Score.Valid || asg.Score.Int != 85 {
			t.Errorf("score = %v, want 85", asg.Score)
		}
		if asg.Content.String != "new content" {
			t.Errorf("content = %q, want %q", asg.Content.String, "new content")
		}
		// untouched fields survive
		stored, _ := repo.GetAssignment(ctx, "a1")
		if stored.UserName.String != "Jane Doe" || !stored.SubmittedAt.Time.Equal(submitted) {
			t.Errorf("untouched fields changed: %+v", stored)
		}
		if len(mailSvc.sent) != 1 {
			t.Fatalf("sent %d mails, want 1", len(mailSvc.sent))
		}
		if to := mailSvc.sent[0].To[0].Address; to != "jane@test.cd" {
			t.Errorf("mail to = %q, want jane@test.cd", to)
		}
	})

	t.Run("clearing the score reverts to pending", func(t *testing.T) {
		svc, _, mailSvc := newSvc(scored)

		asg, err := svc.Edit(ctx, "a2", EditAssignment{Content: "kept", Score: ""})
		if err != nil {
			t.Fatalf("Edit(): %v", err)
		}
		if asg.Status != StatusPending {
			t.Errorf("status = %q, want %q", asg.Status, StatusPending)
		}
		if asg.Score.Valid {
			t.Errorf("score = %v, want cleared", asg.Score)
		}
		if len(mailSvc.sent) != 0 {
			t.Errorf("sent %d mails, want 0", len(mailSvc.sent))
		}
	})

	t.Run("unchanged score sends no mail", func(t *testing.T) {
		svc, _, mailSvc := newSvc(scored)

		if _, err := svc.Edit(ctx, "a2", EditAssignment{Score: "70"}); err != nil {
			t.Fatalf("Edit(): %v", err)
		}
		if len(mailSvc.sent) != 0 {
			t.Errorf("sent %d mails, want 0", len(mailSvc.sent))
		}
	})

	t.Run("re-scoring sends mail again", func(t *testing.T) {
		svc, _, mailSvc := newSvc(scored)

		if _, err := svc.Edit(ctx, "a2", EditAssignment{Score: "90"}); err != nil {
			t.Fatalf("Edit(): %v", err)
		}
		if len(mailSvc.sent) != 1 {
			t.Errorf("sent %d mails, want 1", len(mailSvc.sent))
		}
	})

	t.Run("no user email skips the mail", func(t *testing.T) {
		quiet := pending
		quiet.ID = "a5"
		quiet.UserEmail = null.String{}
		svc, _, mailSvc := newSvc(quiet)

		if _, err := svc.Edit(ctx, "a5", EditAssignment{Score: "50"}); err != nil {
			t.Fatalf("Edit(): %v", err)
		}
		if len(mailSvc.sent) != 0 {
			t.Errorf("sent %d mails, want 0", len(mailSvc.sent))
		}
	})

	t.Run("invalid score writes nothing", func(t *testing.T) {
		svc, repo, _ := newSvc(pending)

		_, err := svc.Edit(ctx, "a1", EditAssignment{Content: "tampered", Score: "lol"})
		if err == nil {
			t.Fatal("Edit() expected error, got nil")
		}
		if _, ok := err.(*core.ValidationError); !ok {
			t.Fatalf("Edit() error type = %T, want *core.ValidationError", err)
		}
		stored, _ := repo.GetAssignment(ctx, "a1")
		if stored.Content.String != "old content" || stored.Status != StatusPending {
			t.Errorf("store changed on invalid input: %+v", stored)
		}
	})

	t.Run("unknown assignment", func(t *testing.T) {
		svc, _, _ := newSvc()

		if _, err := svc.Edit(ctx, "nope", EditAssignment{Score: "10"}); err != ErrNotFound {
			t.Errorf("Edit() error = %v, want %v", err, ErrNotFound)
		}
	})
}

func TestService_Query(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo(
		Assignment{ID: "a1", UserName: null.StringFrom("Jane"), Status: StatusScored, Score: null.IntFrom(85)},
		Assignment{ID: "a2", UserName: null.StringFrom("John"), Status: StatusPending},
	)
	svc := NewService(repo, &recordingMailSvc{})

	asgs, err := svc.Query(ctx, QueryFilter{Search: "  JANE  "}, Sort{})
	if err != nil {
		t.Fatalf("Query(): %v", err)
	}
	if len(asgs) != 1 || asgs[0].ID != "a1" {
		t.Errorf("Query() = %v, want [a1]", asgs)
	}
}

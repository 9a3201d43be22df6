package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/tathmini/core/admin"
	"github.com/trezcool/tathmini/core/assignment"
)

func CreateAdmin(
	t *testing.T,
	repo admin.Repository,
	name, email, pwd string,
	isActive bool,
) admin.Admin {
	adm := admin.Admin{
		Name:  name,
		Email: email,
	}
	adm.SetActive(isActive)
	if pwd != "" {
		if err := adm.SetPassword(pwd); err != nil {
			t.Fatalf("CreateAdmin(): %v", err)
		}
	}
	adm, err := repo.CreateAdmin(context.Background(), adm)
	if err != nil {
		t.Fatalf("CreateAdmin(): %v", err)
	}
	return adm
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	userName, userEmail, title, content string,
	submittedAt time.Time,
	score *int,
) assignment.Assignment {
	asg := assignment.Assignment{
		UserName:    null.NewString(userName, userName != ""),
		UserEmail:   null.NewString(userEmail, userEmail != ""),
		Title:       null.NewString(title, title != ""),
		Content:     null.NewString(content, content != ""),
		SubmittedAt: null.NewTime(submittedAt.UTC(), !submittedAt.IsZero()),
		Status:      assignment.StatusPending,
		Score:       null.IntFromPtr(score),
	}
	if asg.Score.Valid {
		asg.Status = assignment.StatusScored
	}
	asg, err := repo.CreateAssignment(context.Background(), asg)
	if err != nil {
		t.Fatalf("CreateAssignment(): %v", err)
	}
	return asg
}

func IntPtr(i int) *int { return &i }

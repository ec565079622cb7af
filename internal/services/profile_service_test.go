package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/voxhire/voxhire/internal/models"
	pgrepo "github.com/voxhire/voxhire/internal/repositories/postgres"
	"github.com/voxhire/voxhire/internal/utils"
)

// racingProfiles slips a winning row in just before every Insert, so the
// caller always loses the create race on the user_id unique index.
type racingProfiles struct {
	*memProfiles
	winnerID string
	once     sync.Once
}

func (r *racingProfiles) Insert(ctx context.Context, p *models.Profile) error {
	r.once.Do(func() {
		_ = r.memProfiles.Insert(ctx, &models.Profile{ID: r.winnerID, UserID: p.UserID})
	})
	return r.memProfiles.Insert(ctx, p)
}

func TestEnsureProfileIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newMemProfiles()
	svc := NewProfileService(repo)

	first, err := svc.EnsureProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("first EnsureProfile: %v", err)
	}
	if first.ID == "" || first.UserID != "user-1" {
		t.Fatalf("unexpected profile %+v", first)
	}

	second, err := svc.EnsureProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("second EnsureProfile: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("repeat call created a new profile: %s vs %s", second.ID, first.ID)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("want one row, got %d", len(repo.rows))
	}
}

func TestEnsureProfileLostCreateRace(t *testing.T) {
	ctx := context.Background()
	winnerID := uuid.NewString()
	repo := &racingProfiles{memProfiles: newMemProfiles(), winnerID: winnerID}
	svc := NewProfileService(repo)

	p, err := svc.EnsureProfile(ctx, "user-1")
	if err != nil {
		t.Fatalf("loser of the create race must recover: %v", err)
	}
	if p.ID != winnerID {
		t.Fatalf("loser must return the winner's row, got %s want %s", p.ID, winnerID)
	}
	if len(repo.rows) != 1 {
		t.Fatalf("want one row, got %d", len(repo.rows))
	}
}

func TestEnsureProfileConcurrent(t *testing.T) {
	ctx := context.Background()
	repo := newMemProfiles()
	svc := NewProfileService(repo)

	const n = 8
	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := svc.EnsureProfile(ctx, "user-1")
			if err != nil {
				t.Errorf("EnsureProfile: %v", err)
				return
			}
			ids[i] = p.ID
		}(i)
	}
	wg.Wait()

	if len(repo.rows) != 1 {
		t.Fatalf("want one row, got %d", len(repo.rows))
	}
	for i := 1; i < n; i++ {
		if ids[i] != ids[0] {
			t.Fatalf("callers disagree on the profile: %v", ids)
		}
	}
}

func TestUpdateResumePartialFields(t *testing.T) {
	ctx := context.Background()
	repo := newMemProfiles(&models.Profile{
		ID:         "cand-1",
		UserID:     "user-1",
		Email:      "cand@example.com",
		ResumeText: "original text",
		ResumeURL:  "https://storage.example/resume.pdf",
		Skills:     []string{"go", "sql"},
	})
	svc := NewProfileService(repo)

	text := "refreshed text"
	p, err := svc.UpdateResume(ctx, "user-1", ResumeUpdate{ResumeText: &text})
	if err != nil {
		t.Fatalf("UpdateResume: %v", err)
	}
	if p.ResumeText != "refreshed text" {
		t.Fatalf("resume text not updated: %q", p.ResumeText)
	}
	// nil fields keep their current values
	if p.Email != "cand@example.com" {
		t.Fatalf("email clobbered: %q", p.Email)
	}
	if p.ResumeURL != "https://storage.example/resume.pdf" {
		t.Fatalf("resume url clobbered: %q", p.ResumeURL)
	}
	if len(p.Skills) != 2 {
		t.Fatalf("skills clobbered: %v", p.Skills)
	}

	sections := json.RawMessage(`[{"company":"Acme","years":3}]`)
	skills := []string{"go", "sql", "kubernetes"}
	p, err = svc.UpdateResume(ctx, "user-1", ResumeUpdate{Skills: &skills, Experience: &sections})
	if err != nil {
		t.Fatalf("second UpdateResume: %v", err)
	}
	if len(p.Skills) != 3 || string(p.Experience) != string(sections) {
		t.Fatalf("sections not applied: skills=%v experience=%s", p.Skills, p.Experience)
	}
	if p.ResumeText != "refreshed text" {
		t.Fatalf("earlier update lost: %q", p.ResumeText)
	}
}

func TestUpdateResumeCreatesMissingProfile(t *testing.T) {
	ctx := context.Background()
	repo := newMemProfiles()
	svc := NewProfileService(repo)

	text := "first upload"
	p, err := svc.UpdateResume(ctx, "user-new", ResumeUpdate{ResumeText: &text})
	if err != nil {
		t.Fatalf("UpdateResume on fresh account: %v", err)
	}
	if p.UserID != "user-new" || p.ResumeText != "first upload" {
		t.Fatalf("unexpected profile %+v", p)
	}
}

func TestGetMe(t *testing.T) {
	ctx := context.Background()
	svc := NewProfileService(newMemProfiles(&models.Profile{ID: "cand-1", UserID: "user-1"}))

	if _, err := svc.GetMe(ctx, "user-1"); err != nil {
		t.Fatalf("GetMe: %v", err)
	}
	_, err := svc.GetMe(ctx, "user-ghost")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Fatalf("want NOT_FOUND, got %v", err)
	}
}

var _ pgrepo.ProfileRepository = (*racingProfiles)(nil)

package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coinflipper/login-service/internal/domain"
	"github.com/coinflipper/login-service/internal/usecase"
)

func newSessionUsecase(sessions *fakeSessionRepo, users *fakeUserRepo) *usecase.SessionUsecase {
	return usecase.NewSessionUsecase(sessions, users, discardLogger())
}

func sessionFor(user *domain.User) *domain.Session {
	return &domain.Session{Key: "sess-" + user.ID, UserID: user.ID, User: user}
}

// ---- Resolve ----

func TestResolve_EmptyKey_IsAnonymous(t *testing.T) {
	id := newSessionUsecase(nil, nil).Resolve(context.Background(), "")
	if id.LoggedIn() {
		t.Error("empty key must resolve to anonymous")
	}
}

func TestResolve_UnknownKey_IsAnonymous(t *testing.T) {
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, _ string) (*domain.Session, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	id := newSessionUsecase(sessions, nil).Resolve(context.Background(), "gone")
	if id.LoggedIn() {
		t.Error("unknown key must resolve to anonymous")
	}
}

func TestResolve_StoreError_DegradesToAnonymous(t *testing.T) {
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, _ string) (*domain.Session, error) {
			return nil, errors.New("db down")
		},
	}

	id := newSessionUsecase(sessions, nil).Resolve(context.Background(), "whatever")
	if id.LoggedIn() {
		t.Error("a store failure must not produce a logged-in identity")
	}
}

func TestResolve_SetsRawAndEffectiveUsers(t *testing.T) {
	session := sessionFor(testUser)
	session.PretendingTo = &testTarget.ID
	session.PretendUser = testTarget

	sessions := &fakeSessionRepo{
		find: func(_ context.Context, key string) (*domain.Session, error) {
			if key != session.Key {
				return nil, domain.ErrSessionNotFound
			}
			return session, nil
		},
		listPretendingForUser: func(_ context.Context, _ string) ([]*domain.Session, error) {
			return []*domain.Session{session}, nil
		},
	}

	id := newSessionUsecase(sessions, nil).Resolve(context.Background(), session.Key)
	if !id.LoggedIn() {
		t.Fatal("expected a logged-in identity")
	}
	if id.User != testUser {
		t.Error("raw user must be the session owner")
	}
	if id.EffectiveUser != testTarget {
		t.Error("effective user must be the pretend target")
	}
	if !id.IsAdmin() {
		t.Error("admin bit comes from the raw user, pretending must not hide it")
	}
	if len(id.PretendingSessions) != 1 || id.PretendingSessions[0] != session {
		t.Error("an admin's in-flight impersonations must ride along on the identity")
	}
}

func TestResolve_NonAdmin_SkipsPretendingLookup(t *testing.T) {
	plain := &domain.User{ID: "user-3", Username: "plain"}
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, _ string) (*domain.Session, error) {
			return sessionFor(plain), nil
		},
		listPretendingForUser: func(_ context.Context, _ string) ([]*domain.Session, error) {
			t.Error("pretending sessions are an admin-only lookup")
			return nil, nil
		},
	}

	id := newSessionUsecase(sessions, nil).Resolve(context.Background(), "sess-user-3")
	if !id.LoggedIn() {
		t.Fatal("expected a logged-in identity")
	}
	if id.PretendingSessions != nil {
		t.Error("non-admins carry no pretending sessions")
	}
}

func TestResolve_PretendingLookupFailure_StillLoggedIn(t *testing.T) {
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, _ string) (*domain.Session, error) {
			return sessionFor(testUser), nil
		},
		listPretendingForUser: func(_ context.Context, _ string) ([]*domain.Session, error) {
			return nil, errors.New("db down")
		},
	}

	id := newSessionUsecase(sessions, nil).Resolve(context.Background(), "sess-user-1")
	if !id.LoggedIn() {
		t.Error("a failed pretending lookup must not log the admin out")
	}
	if id.PretendingSessions != nil {
		t.Error("failed lookup leaves the list empty")
	}
}

func TestResolve_DoesNotTouch(t *testing.T) {
	touched := false
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, _ string) (*domain.Session, error) {
			return sessionFor(testUser), nil
		},
		touch: func(_ context.Context, _ string) error {
			touched = true
			return nil
		},
		listPretendingForUser: func(_ context.Context, _ string) ([]*domain.Session, error) {
			return nil, nil
		},
	}

	newSessionUsecase(sessions, nil).Resolve(context.Background(), "sess-user-1")
	if touched {
		t.Error("Resolve must not bump last activity")
	}
}

// ---- Retrieve ----

func TestRetrieve_TouchesAndReturnsFreshActivity(t *testing.T) {
	var touchedKey string
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, key string) (*domain.Session, error) {
			return &domain.Session{Key: key, UserID: testUser.ID, User: testUser}, nil
		},
		touch: func(_ context.Context, key string) error {
			touchedKey = key
			return nil
		},
	}

	before := time.Now()
	session, err := newSessionUsecase(sessions, nil).Retrieve(context.Background(), "sess-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if touchedKey != "sess-1" {
		t.Errorf("touched %q, want sess-1", touchedKey)
	}
	if session.LastActivity == nil || session.LastActivity.Before(before) {
		t.Errorf("last activity %v not bumped", session.LastActivity)
	}
}

func TestRetrieve_UnknownKey_ReturnsErrSessionNotFound(t *testing.T) {
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, _ string) (*domain.Session, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	_, err := newSessionUsecase(sessions, nil).Retrieve(context.Background(), "gone")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("want ErrSessionNotFound, got %v", err)
	}
}

// ---- DeleteAllForOwner ----

func TestDeleteAllForOwner_ScopedToSeedSessionOwner(t *testing.T) {
	var deletedUserID string
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, key string) (*domain.Session, error) {
			if key != "sess-user-1" {
				return nil, domain.ErrSessionNotFound
			}
			return sessionFor(testUser), nil
		},
		deleteAllForUser: func(_ context.Context, userID string) (int, error) {
			deletedUserID = userID
			return 3, nil
		},
	}

	deleted, err := newSessionUsecase(sessions, nil).DeleteAllForOwner(context.Background(), "sess-user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("deleted = %d, want 3", deleted)
	}
	if deletedUserID != testUser.ID {
		t.Errorf("deleted sessions for %q, want %q", deletedUserID, testUser.ID)
	}
}

func TestDeleteAllForOwner_UnknownSeed_ReturnsErrSessionNotFound(t *testing.T) {
	sessions := &fakeSessionRepo{
		find: func(_ context.Context, _ string) (*domain.Session, error) {
			return nil, domain.ErrSessionNotFound
		},
	}

	_, err := newSessionUsecase(sessions, nil).DeleteAllForOwner(context.Background(), "gone")
	if !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("want ErrSessionNotFound, got %v", err)
	}
}

// ---- Cleanup ----

func TestCleanup_UsesGivenThreshold(t *testing.T) {
	var cutoff time.Time
	sessions := &fakeSessionRepo{
		deleteStale: func(_ context.Context, c time.Time) (int, error) {
			cutoff = c
			return 5, nil
		},
	}

	deleted, err := newSessionUsecase(sessions, nil).Cleanup(context.Background(), 48*time.Hour)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 5 {
		t.Errorf("deleted = %d, want 5", deleted)
	}

	want := time.Now().Add(-48 * time.Hour)
	if cutoff.Before(want.Add(-time.Minute)) || cutoff.After(want.Add(time.Minute)) {
		t.Errorf("cutoff %v not near %v", cutoff, want)
	}
}

func TestCleanup_ZeroThreshold_DefaultsToStaleAfter(t *testing.T) {
	var cutoff time.Time
	sessions := &fakeSessionRepo{
		deleteStale: func(_ context.Context, c time.Time) (int, error) {
			cutoff = c
			return 0, nil
		},
	}

	if _, err := newSessionUsecase(sessions, nil).Cleanup(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Now().Add(-domain.SessionStaleAfter)
	if cutoff.Before(want.Add(-time.Minute)) || cutoff.After(want.Add(time.Minute)) {
		t.Errorf("cutoff %v not near default %v", cutoff, want)
	}
}

// ---- SessionsDashboard ----

func TestSessionsDashboard_AggregatesPerUser(t *testing.T) {
	recent := time.Now().Add(-time.Hour)
	ancient := time.Now().Add(-90 * 24 * time.Hour)

	sessions := &fakeSessionRepo{
		listAll: func(_ context.Context) ([]*domain.Session, error) {
			return []*domain.Session{
				{Key: "a", UserID: testUser.ID, User: testUser, LastActivity: &ancient},
				{Key: "b", UserID: testUser.ID, User: testUser, LastActivity: &recent},
				{Key: "c", UserID: testTarget.ID, User: testTarget},
			}, nil
		},
	}

	dash, err := newSessionUsecase(sessions, nil).SessionsDashboard(context.Background(), domain.SessionStaleAfter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dash.TotalSessions != 3 {
		t.Errorf("total sessions = %d, want 3", dash.TotalSessions)
	}
	if dash.UniqueUsers != 2 {
		t.Errorf("unique users = %d, want 2", dash.UniqueUsers)
	}
	// "a" is past the threshold and "c" never had activity.
	if dash.StaleSessions != 2 {
		t.Errorf("stale sessions = %d, want 2", dash.StaleSessions)
	}

	if len(dash.Summaries) != 2 {
		t.Fatalf("summaries = %d, want 2", len(dash.Summaries))
	}
	first := dash.Summaries[0]
	if first.Username != testUser.Username || first.Count != 2 {
		t.Errorf("summary[0] = %+v, want jpnance with 2 sessions", first)
	}
	if first.LastActivity == nil || !first.LastActivity.Equal(recent) {
		t.Errorf("summary[0] last activity = %v, want the most recent %v", first.LastActivity, recent)
	}
}

// ---- per-username operations ----

func TestListForUsername_UnknownUser_ReturnsErrUserNotFound(t *testing.T) {
	users := &fakeUserRepo{
		findByUsername: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
	}

	_, err := newSessionUsecase(nil, users).ListForUsername(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("want ErrUserNotFound, got %v", err)
	}
}

func TestDeleteAllForUsername_ResolvesUserFirst(t *testing.T) {
	var deletedUserID string
	users := &fakeUserRepo{
		findByUsername: func(_ context.Context, username string) (*domain.User, error) {
			if username != testTarget.Username {
				return nil, domain.ErrUserNotFound
			}
			return testTarget, nil
		},
	}
	sessions := &fakeSessionRepo{
		deleteAllForUser: func(_ context.Context, userID string) (int, error) {
			deletedUserID = userID
			return 2, nil
		},
	}

	deleted, err := newSessionUsecase(sessions, users).DeleteAllForUsername(context.Background(), testTarget.Username)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 2 || deletedUserID != testTarget.ID {
		t.Errorf("deleted %d for %q, want 2 for %q", deleted, deletedUserID, testTarget.ID)
	}
}

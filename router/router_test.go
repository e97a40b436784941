package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Gravitalia/gallery/database"
	"github.com/Gravitalia/gallery/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Profile(user string) (model.Profile, error) {
	args := m.Called(user)
	return args.Get(0).(model.Profile), args.Error(1)
}

func (m *MockStore) Gallery(user, viewer string) ([]model.Post, error) {
	args := m.Called(user, viewer)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockStore) Post(id, viewer string) (model.Post, error) {
	args := m.Called(id, viewer)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockStore) Author(post string) (string, error) {
	args := m.Called(post)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Relate(user, to, relation string) (bool, error) {
	args := m.Called(user, to, relation)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) Unrelate(user, to, relation string) (bool, error) {
	args := m.Called(user, to, relation)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) IsSubscriber(user, to string) (bool, error) {
	args := m.Called(user, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) IsBlocked(user, by string) (bool, error) {
	args := m.Called(user, by)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) AcquireReport(reporter, target string) (bool, error) {
	args := m.Called(reporter, target)
	return args.Bool(0), args.Error(1)
}

func (m *MockStore) ReleaseReport(reporter, target string) error {
	args := m.Called(reporter, target)
	return args.Error(0)
}

func (m *MockStore) CreateReport(report model.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

// setup installs a mock store and a token checker accepting
// "token-<vanity>"
func setup(t *testing.T) *MockStore {
	t.Helper()

	m := &MockStore{}
	previousStore, previousCheck := store, checkToken
	UseStore(m)
	checkToken = func(token string) (string, error) {
		if vanity, ok := strings.CutPrefix(token, "token-"); ok {
			return vanity, nil
		}
		return "", errors.New("invalid token")
	}

	t.Cleanup(func() {
		store, checkToken = previousStore, previousCheck
		m.AssertExpectations(t)
	})

	return m
}

func do(handler http.HandlerFunc, method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.RequestError {
	t.Helper()

	var envelope model.RequestError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func TestUsersOwnerGallery(t *testing.T) {
	m := setup(t)
	posts := []model.Post{{Id: "1", Hash: []any{"abc"}, Like: 2}}
	m.On("Profile", "alice").Return(model.Profile{Public: false}, nil)
	m.On("Gallery", "alice", "alice").Return(posts, nil)

	rec := do(UserHandler, http.MethodGet, "/users/@me", "token-alice", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var gallery model.Gallery
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gallery))
	assert.True(t, gallery.Owner)
	assert.True(t, gallery.CanAccessPost)
	require.Len(t, gallery.Posts, 1)
	assert.Equal(t, "1", gallery.Posts[0].Id)
}

func TestUsersPrivateGalleryForStranger(t *testing.T) {
	m := setup(t)
	m.On("Profile", "alice").Return(model.Profile{Public: false}, nil)
	m.On("IsBlocked", "bob", "alice").Return(false, nil)
	m.On("IsSubscriber", "bob", "alice").Return(false, nil)

	rec := do(UserHandler, http.MethodGet, "/users/alice", "token-bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var gallery model.Gallery
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gallery))
	assert.False(t, gallery.Owner)
	assert.False(t, gallery.CanAccessPost)
	assert.Empty(t, gallery.Posts)
}

func TestUsersBlockedViewer(t *testing.T) {
	m := setup(t)
	m.On("Profile", "alice").Return(model.Profile{Public: true}, nil)
	m.On("IsBlocked", "bob", "alice").Return(true, nil)

	rec := do(UserHandler, http.MethodGet, "/users/alice", "token-bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var gallery model.Gallery
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &gallery))
	assert.False(t, gallery.CanAccessPost)
}

func TestUsersSuspended(t *testing.T) {
	m := setup(t)
	m.On("Profile", "alice").Return(model.Profile{Public: true, Suspended: true}, nil)

	rec := do(UserHandler, http.MethodGet, "/users/alice", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorInvalidUser, decodeEnvelope(t, rec).Message)
}

func TestUsersMeWithoutToken(t *testing.T) {
	setup(t)

	rec := do(UserHandler, http.MethodGet, "/users/@me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetPost(t *testing.T) {
	m := setup(t)
	m.On("Post", "42", "bob").Return(model.Post{Id: "42", Author: "alice", Description: "sunset", Like: 3, Liked: true}, nil)
	m.On("Profile", "alice").Return(model.Profile{Public: true}, nil)
	m.On("IsBlocked", "bob", "alice").Return(false, nil)

	rec := do(PostHandler, http.MethodGet, "/posts/42", "token-bob", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var post model.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))
	assert.Equal(t, "sunset", post.Description)
	assert.True(t, post.Liked)
}

func TestGetPostHiddenByPrivacy(t *testing.T) {
	m := setup(t)
	m.On("Post", "42", "").Return(model.Post{Id: "42", Author: "alice"}, nil)
	m.On("Profile", "alice").Return(model.Profile{Public: false}, nil)

	rec := do(PostHandler, http.MethodGet, "/posts/42", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ErrorInvalidPost, decodeEnvelope(t, rec).Message)
}

func TestGetPostMissing(t *testing.T) {
	m := setup(t)
	m.On("Post", "404", "").Return(model.Post{}, database.ErrInvalidPost)

	rec := do(PostHandler, http.MethodGet, "/posts/404", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(PostHandler, http.MethodDelete, "/posts/404", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLike(t *testing.T) {
	m := setup(t)
	m.On("Author", "42").Return("alice", nil)
	m.On("Relate", "bob", "42", "Like").Return(true, nil)

	rec := do(RelationHandler, http.MethodPost, "/relation/like", "token-bob", `{"id":"42"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RequestError{Error: false, Message: OkCreatedRelation}, decodeEnvelope(t, rec))
}

func TestLikeIsIdempotent(t *testing.T) {
	m := setup(t)
	m.On("Author", "42").Return("alice", nil)
	m.On("Relate", "bob", "42", "Like").Return(false, database.ErrAlreadyRelated)

	rec := do(RelationHandler, http.MethodPost, "/relation/like", "token-bob", `{"id":"42"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, OkExistsRelation, decodeEnvelope(t, rec).Message)
	m.AssertNotCalled(t, "Unrelate", mock.Anything, mock.Anything, mock.Anything)
}

func TestLikeOwnPost(t *testing.T) {
	m := setup(t)
	m.On("Author", "42").Return("alice", nil)

	rec := do(RelationHandler, http.MethodPost, "/relation/like", "token-alice", `{"id":"42"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorOwnPost, decodeEnvelope(t, rec).Message)
	m.AssertNotCalled(t, "Relate", mock.Anything, mock.Anything, mock.Anything)
}

func TestUnlike(t *testing.T) {
	m := setup(t)
	m.On("Unrelate", "bob", "42", "Like").Return(true, nil)

	rec := do(RelationHandler, http.MethodDelete, "/relation/like", "token-bob", `{"id":"42"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, OkDeletedRelation, decodeEnvelope(t, rec).Message)
}

func TestSubscribeToggles(t *testing.T) {
	m := setup(t)
	m.On("Relate", "bob", "alice", "Subscriber").Return(false, database.ErrAlreadyRelated)
	m.On("Unrelate", "bob", "alice", "Subscriber").Return(true, nil)

	rec := do(RelationHandler, http.MethodPost, "/relation/subscriber", "token-bob", `{"id":"alice"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, OkDeletedRelation, decodeEnvelope(t, rec).Message)
}

func TestRelationErrors(t *testing.T) {
	setup(t)

	rec := do(RelationHandler, http.MethodPost, "/relation/hug", "token-bob", `{"id":"42"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidRelation, decodeEnvelope(t, rec).Message)

	rec = do(RelationHandler, http.MethodPost, "/relation/like", "", `{"id":"42"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(RelationHandler, http.MethodPost, "/relation/like", "token-bob", `{"id":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidBody, decodeEnvelope(t, rec).Message)

	rec = do(RelationHandler, http.MethodGet, "/relation/like", "token-bob", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestReport(t *testing.T) {
	m := setup(t)
	date := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	previousNow := now
	now = func() time.Time { return date }
	t.Cleanup(func() { now = previousNow })

	m.On("AcquireReport", "bob", "42").Return(true, nil)
	m.On("CreateReport", mock.MatchedBy(func(r model.Report) bool {
		return r.Id != "" && r.Reporter == "bob" && r.TargetId == "42" &&
			r.Type == model.ReportPost && r.Reason == model.ReasonNudity && r.CreatedAt.Equal(date)
	})).Return(nil)

	rec := do(Report, http.MethodPost, "/reports", "token-bob", `{"target_id":"42","type":"POST","reason":"NUDITY"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var report model.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "bob", report.Reporter)
	assert.Equal(t, model.ReasonNudity, report.Reason)
	assert.NotEmpty(t, report.Id)
}

func TestReportInvalidReason(t *testing.T) {
	setup(t)

	rec := do(Report, http.MethodPost, "/reports", "token-bob", `{"target_id":"42","type":"POST","reason":"INAPPROPRIATE"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid report: reason", decodeEnvelope(t, rec).Message)
}

func TestReportCooldown(t *testing.T) {
	m := setup(t)
	m.On("AcquireReport", "bob", "42").Return(false, nil)

	rec := do(Report, http.MethodPost, "/reports", "token-bob", `{"target_id":"42","type":"USER","reason":"SPAM"}`)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	m.AssertNotCalled(t, "CreateReport", mock.Anything)
}

func TestReportCacheDown(t *testing.T) {
	m := setup(t)
	m.On("AcquireReport", "bob", "42").Return(false, errors.New("connection refused"))
	m.On("CreateReport", mock.Anything).Return(nil)

	rec := do(Report, http.MethodPost, "/reports", "token-bob", `{"target_id":"42","type":"COMMENT","reason":"OTHER","description":"rude"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestReportUnauthorized(t *testing.T) {
	setup(t)

	rec := do(Report, http.MethodPost, "/reports", "bad", `{}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(Report, http.MethodGet, "/reports", "token-bob", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// cooldownStore keeps report reservations in memory and fails the
// first failures report writes
type cooldownStore struct {
	*MockStore
	reserved map[string]bool
	failures int
	created  []model.Report
}

func (s *cooldownStore) AcquireReport(reporter, target string) (bool, error) {
	key := reporter + "\x00" + target
	if s.reserved[key] {
		return false, nil
	}
	s.reserved[key] = true
	return true, nil
}

func (s *cooldownStore) ReleaseReport(reporter, target string) error {
	delete(s.reserved, reporter+"\x00"+target)
	return nil
}

func (s *cooldownStore) CreateReport(report model.Report) error {
	if s.failures > 0 {
		s.failures--
		return errors.New("neo4j unavailable")
	}
	s.created = append(s.created, report)
	return nil
}

func TestReportRetryAfterFailedWrite(t *testing.T) {
	s := &cooldownStore{MockStore: setup(t), reserved: map[string]bool{}, failures: 1}
	UseStore(s)

	body := `{"target_id":"42","type":"POST","reason":"SPAM"}`

	rec := do(Report, http.MethodPost, "/reports", "token-bob", body)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Empty(t, s.reserved)

	rec = do(Report, http.MethodPost, "/reports", "token-bob", body)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, s.created, 1)

	rec = do(Report, http.MethodPost, "/reports", "token-bob", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, ErrorAlreadyReported, decodeEnvelope(t, rec).Message)
}

func TestReportMalformedCooldownKey(t *testing.T) {
	m := setup(t)
	m.On("AcquireReport", "bob", "42 x").Return(false, database.ErrMalformedKey)

	rec := do(Report, http.MethodPost, "/reports", "token-bob", `{"target_id":"42 x","type":"POST","reason":"SPAM"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, ErrorInvalidBody, decodeEnvelope(t, rec).Message)
	m.AssertNotCalled(t, "CreateReport", mock.Anything)
}

func TestUsersAccessCheckFailure(t *testing.T) {
	m := setup(t)
	m.On("Profile", "alice").Return(model.Profile{Public: true}, nil)
	m.On("IsBlocked", "bob", "alice").Return(false, errors.New("neo4j unavailable"))

	rec := do(UserHandler, http.MethodGet, "/users/alice", "token-bob", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrorInternalServerError, decodeEnvelope(t, rec).Message)
}

package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/social-service/internal/api/http"
	"github.com/spec-kit/social-service/internal/api/http/handlers"
	"github.com/spec-kit/social-service/internal/auth"
	"github.com/spec-kit/social-service/internal/config"
	"github.com/spec-kit/social-service/internal/domain"
	"github.com/spec-kit/social-service/internal/events"
	"github.com/spec-kit/social-service/internal/observability"
	"github.com/spec-kit/social-service/internal/repository"
	"github.com/spec-kit/social-service/internal/service"
	"github.com/spec-kit/social-service/internal/worker"
)

// store is an in-memory stand-in for the Postgres repositories. It reproduces
// the error surface the services depend on: pgx.ErrNoRows for misses and
// pgconn.PgError codes for constraint violations.
type store struct {
	mu       sync.Mutex
	users    map[string]*domain.User
	posts    map[string]*domain.Post
	comments map[string]*domain.Comment
	likes    map[string]map[string]bool // postID -> userID
}

func newStore() *store {
	return &store{
		users:    make(map[string]*domain.User),
		posts:    make(map[string]*domain.Post),
		comments: make(map[string]*domain.Comment),
		likes:    make(map[string]map[string]bool),
	}
}

func (s *store) Create(ctx context.Context, username, email, passwordHash string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *store) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id.String()]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (s *store) GetLoginByEmail(ctx context.Context, email string) (*repository.LoginRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			return &repository.LoginRecord{ID: user.ID, PasswordHash: user.PasswordHash, IsAdmin: user.IsAdmin}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *store) List(ctx context.Context, limit, offset int64) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, *user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (s *store) UpdateBio(ctx context.Context, id uuid.UUID, bio *string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id.String()]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	user.Bio = bio
	copied := *user
	return &copied, nil
}

func (s *store) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id.String()]; !ok {
		return 0, nil
	}
	delete(s.users, id.String())
	return 1, nil
}

type fakePostRepo struct{ s *store }

func (r fakePostRepo) Create(ctx context.Context, authorID uuid.UUID, content string) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post := &domain.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID.String(),
		Content:   content,
		CreatedAt: time.Now(),
	}
	r.s.posts[post.ID] = post
	return post, nil
}

func (r fakePostRepo) List(ctx context.Context, limit, offset int64) ([]domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Post, 0, len(r.s.posts))
	for _, post := range r.s.posts {
		copied := *post
		copied.LikeCount = int64(len(r.s.likes[post.ID]))
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return page(out, limit, offset), nil
}

func (r fakePostRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post, ok := r.s.posts[id.String()]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *post
	copied.LikeCount = int64(len(r.s.likes[post.ID]))
	return &copied, nil
}

func (r fakePostRepo) GetAuthorID(ctx context.Context, id uuid.UUID) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	post, ok := r.s.posts[id.String()]
	if !ok {
		return "", pgx.ErrNoRows
	}
	return post.AuthorID, nil
}

func (r fakePostRepo) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.posts[id.String()]
	return ok, nil
}

func (r fakePostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.posts, id.String())
	delete(r.s.likes, id.String())
	return nil
}

type fakeCommentRepo struct{ s *store }

func (r fakeCommentRepo) Create(ctx context.Context, authorID, postID uuid.UUID, content string) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID.String()]; !ok {
		return nil, &pgconn.PgError{Code: "23503"}
	}
	comment := &domain.Comment{
		ID:        uuid.NewString(),
		AuthorID:  authorID.String(),
		PostID:    postID.String(),
		Content:   content,
		CreatedAt: time.Now(),
	}
	r.s.comments[comment.ID] = comment
	return comment, nil
}

func (r fakeCommentRepo) ListByPost(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]domain.Comment, 0)
	for _, comment := range r.s.comments {
		if comment.PostID == postID.String() {
			out = append(out, *comment)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeLikeRepo struct{ s *store }

func (r fakeLikeRepo) Create(ctx context.Context, userID, postID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[postID.String()]; !ok {
		return &pgconn.PgError{Code: "23503"}
	}
	if r.s.likes[postID.String()][userID.String()] {
		return &pgconn.PgError{Code: "23505"}
	}
	if r.s.likes[postID.String()] == nil {
		r.s.likes[postID.String()] = make(map[string]bool)
	}
	r.s.likes[postID.String()][userID.String()] = true
	return nil
}

func (r fakeLikeRepo) Delete(ctx context.Context, userID, postID uuid.UUID) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.likes[postID.String()][userID.String()] {
		return 0, nil
	}
	delete(r.s.likes[postID.String()], userID.String())
	return 1, nil
}

func page[T any](items []T, limit, offset int64) []T {
	if offset >= int64(len(items)) {
		return nil
	}
	items = items[offset:]
	if limit < int64(len(items)) {
		items = items[:limit]
	}
	return items
}

type env struct {
	app    *fiber.App
	store  *store
	hasher *auth.PasswordHasher
	auth   *service.AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()

	pool := worker.NewPool(2, 8)
	t.Cleanup(pool.Close)
	hasher := auth.NewPasswordHasher(bcrypt.MinCost, pool)

	st := newStore()
	authCfg := config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60}
	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(authCfg, st, hasher)
	userService := service.NewUserService(st, hasher)
	postService := service.NewPostService(fakePostRepo{st}, fakeLikeRepo{st}, dispatcher)
	commentService := service.NewCommentService(fakeCommentRepo{st}, fakePostRepo{st}, dispatcher)

	logger := zap.NewNop()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("test", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService),
		Users:          handlers.NewUsersHandler(userService),
		Posts:          handlers.NewPostsHandler(postService),
		Comments:       handlers.NewCommentsHandler(commentService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), logger),
	})

	return &env{app: app, store: st, hasher: hasher, auth: authService}
}

func (e *env) seedUser(t *testing.T, username, email, password string, isAdmin bool) *domain.User {
	t.Helper()
	hash, err := e.hasher.Hash(context.Background(), password)
	require.NoError(t, err)
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
	}
	e.store.mu.Lock()
	e.store.users[user.ID] = user
	e.store.mu.Unlock()
	return user
}

func (e *env) seedPost(t *testing.T, authorID, content string) *domain.Post {
	t.Helper()
	post := &domain.Post{
		ID:        uuid.NewString(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	e.store.mu.Lock()
	e.store.posts[post.ID] = post
	e.store.mu.Unlock()
	return post
}

func (e *env) tokenFor(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := e.auth.TokenManager().Generate(user.ID, user.IsAdmin)
	require.NoError(t, err)
	return token
}

func (e *env) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func detail(t *testing.T, raw []byte) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	return body["detail"]
}

func TestLoginIssuesToken(t *testing.T) {
	e := newEnv(t)
	user := e.seedUser(t, "alice", "alice@example.com", "hunter2", false)

	status, raw := e.do(t, "POST", "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "hunter2",
	})
	require.Equal(t, 200, status, string(raw))

	var body map[string]string
	require.NoError(t, json.Unmarshal(raw, &body))
	require.NotEmpty(t, body["accessToken"])

	status, raw = e.do(t, "GET", "/auth/me", body["accessToken"], nil)
	require.Equal(t, 200, status, string(raw))
	var me map[string]any
	require.NoError(t, json.Unmarshal(raw, &me))
	assert.Equal(t, user.ID, me["id"])
	assert.Equal(t, "alice", me["username"])
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	e.seedUser(t, "alice", "alice@example.com", "hunter2", false)

	status, raw := e.do(t, "POST", "/auth/login", "", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, 401, status)
	wrongPassword := detail(t, raw)

	status, raw = e.do(t, "POST", "/auth/login", "", map[string]string{
		"email": "nobody@example.com", "password": "hunter2",
	})
	assert.Equal(t, 401, status)
	unknownEmail := detail(t, raw)

	assert.Equal(t, "Invalid credentials", wrongPassword)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	e := newEnv(t)

	status, _ := e.do(t, "POST", "/posts", "", map[string]string{"content": "hi"})
	assert.Equal(t, 401, status)

	status, _ = e.do(t, "GET", "/posts", "", nil)
	assert.Equal(t, 200, status)
}

func TestAdminOnlyUserEndpoints(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "root", "root@example.com", "admin", true)
	member := e.seedUser(t, "bob", "bob@example.com", "hunter2", false)

	status, raw := e.do(t, "GET", "/users", e.tokenFor(t, member), nil)
	assert.Equal(t, 403, status)
	assert.Equal(t, "Admin access required", detail(t, raw))

	status, raw = e.do(t, "GET", "/users", e.tokenFor(t, admin), nil)
	require.Equal(t, 200, status, string(raw))
	var users []map[string]any
	require.NoError(t, json.Unmarshal(raw, &users))
	assert.Len(t, users, 2)
}

func TestAdminCreatesUserWithHashedPassword(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "root", "root@example.com", "admin", true)

	status, raw := e.do(t, "POST", "/users", e.tokenFor(t, admin), map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "s3cret",
	})
	require.Equal(t, 201, status, string(raw))

	var created map[string]any
	require.NoError(t, json.Unmarshal(raw, &created))
	assert.Equal(t, "carol", created["username"])

	rec, err := e.store.GetLoginByEmail(context.Background(), "carol@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", rec.PasswordHash)
	ok, err := e.hasher.Verify(context.Background(), "s3cret", rec.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDeletePostOwnership(t *testing.T) {
	e := newEnv(t)
	admin := e.seedUser(t, "root", "root@example.com", "admin", true)
	alice := e.seedUser(t, "alice", "alice@example.com", "hunter2", false)
	bob := e.seedUser(t, "bob", "bob@example.com", "hunter2", false)

	alicePost := e.seedPost(t, alice.ID, "mine")
	bobPost := e.seedPost(t, bob.ID, "not yours")
	adminTarget := e.seedPost(t, bob.ID, "admin can remove")

	status, raw := e.do(t, "DELETE", "/posts/"+bobPost.ID, e.tokenFor(t, alice), nil)
	assert.Equal(t, 403, status)
	assert.Equal(t, "You can only delete your own posts", detail(t, raw))

	status, _ = e.do(t, "DELETE", "/posts/"+alicePost.ID, e.tokenFor(t, alice), nil)
	assert.Equal(t, 204, status)

	status, _ = e.do(t, "DELETE", "/posts/"+adminTarget.ID, e.tokenFor(t, admin), nil)
	assert.Equal(t, 204, status)

	status, raw = e.do(t, "DELETE", "/posts/"+alicePost.ID, e.tokenFor(t, alice), nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Post not found", detail(t, raw))
}

func TestLikeLifecycle(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser(t, "alice", "alice@example.com", "hunter2", false)
	post := e.seedPost(t, alice.ID, "likeable")
	token := e.tokenFor(t, alice)

	status, _ := e.do(t, "POST", "/posts/"+post.ID+"/like", token, nil)
	assert.Equal(t, 204, status)

	status, raw := e.do(t, "POST", "/posts/"+post.ID+"/like", token, nil)
	assert.Equal(t, 409, status)
	assert.Equal(t, "Post already liked", detail(t, raw))

	status, raw = e.do(t, "GET", "/posts/"+post.ID, "", nil)
	require.Equal(t, 200, status)
	var fetched map[string]any
	require.NoError(t, json.Unmarshal(raw, &fetched))
	assert.Equal(t, float64(1), fetched["likeCount"])

	status, _ = e.do(t, "DELETE", "/posts/"+post.ID+"/like", token, nil)
	assert.Equal(t, 204, status)

	status, raw = e.do(t, "DELETE", "/posts/"+post.ID+"/like", token, nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Post or like not found", detail(t, raw))

	status, raw = e.do(t, "POST", "/posts/"+uuid.NewString()+"/like", token, nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Post not found", detail(t, raw))
}

func TestCommentsFlow(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser(t, "alice", "alice@example.com", "hunter2", false)
	post := e.seedPost(t, alice.ID, "discuss")
	token := e.tokenFor(t, alice)

	status, raw := e.do(t, "POST", "/posts/"+post.ID+"/comments", token, map[string]string{"content": "first"})
	require.Equal(t, 201, status, string(raw))
	var comment map[string]any
	require.NoError(t, json.Unmarshal(raw, &comment))
	assert.Equal(t, post.ID, comment["post_id"])
	assert.Equal(t, alice.ID, comment["authorId"])

	status, raw = e.do(t, "POST", "/posts/"+uuid.NewString()+"/comments", token, map[string]string{"content": "lost"})
	assert.Equal(t, 404, status)
	assert.Equal(t, "Post not found", detail(t, raw))

	status, raw = e.do(t, "GET", "/posts/"+post.ID+"/comments", "", nil)
	require.Equal(t, 200, status)
	var comments []map[string]any
	require.NoError(t, json.Unmarshal(raw, &comments))
	assert.Len(t, comments, 1)

	status, raw = e.do(t, "GET", "/posts/"+uuid.NewString()+"/comments", "", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, "Post not found", detail(t, raw))
}

func TestMalformedIdentifiers(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser(t, "alice", "alice@example.com", "hunter2", false)
	token := e.tokenFor(t, alice)

	status, raw := e.do(t, "GET", "/posts/not-a-uuid", "", nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid post ID", detail(t, raw))

	status, raw = e.do(t, "DELETE", "/posts/not-a-uuid", token, nil)
	assert.Equal(t, 400, status)
	assert.Equal(t, "Invalid post ID", detail(t, raw))
}

func TestCreatePostAttributedToCaller(t *testing.T) {
	e := newEnv(t)
	alice := e.seedUser(t, "alice", "alice@example.com", "hunter2", false)

	status, raw := e.do(t, "POST", "/posts", e.tokenFor(t, alice), map[string]string{"content": "hello world"})
	require.Equal(t, 201, status, string(raw))

	var post map[string]any
	require.NoError(t, json.Unmarshal(raw, &post))
	assert.Equal(t, alice.ID, post["authorId"])
	assert.Equal(t, "hello world", post["content"])
	assert.Equal(t, float64(0), post["likeCount"])
}

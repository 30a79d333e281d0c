package service

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/blogsolution/blog-service/internal/core/domain"
	"github.com/blogsolution/blog-service/internal/core/ports"
	"github.com/blogsolution/blog-service/internal/core/policy"
)

// ---------------------------------------------------------------------------
// In-memory versioned repository
// ---------------------------------------------------------------------------

type rowOps[T domain.Ownable] struct {
	clone      func(T) T
	setID      func(T, int64)
	setVersion func(T, int64)
	notFound   error
}

type memRepo[T domain.Ownable] struct {
	mu     sync.Mutex
	ops    rowOps[T]
	rows   map[int64]T
	nextID int64
	writes int

	// interleave runs once, before the next conditional write, to simulate
	// another request committing between load and write.
	interleave func()
	// onDelete runs after a row is removed, for cascades.
	onDelete func(id int64)
	err      error
}

func newMemRepo[T domain.Ownable](ops rowOps[T]) *memRepo[T] {
	return &memRepo[T]{ops: ops, rows: make(map[int64]T)}
}

func (m *memRepo[T]) Create(_ context.Context, r T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	m.ops.setID(r, m.nextID)
	m.rows[m.nextID] = m.ops.clone(r)
	return nil
}

func (m *memRepo[T]) FindByID(_ context.Context, id int64) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.err != nil {
		return zero, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return zero, m.ops.notFound
	}
	return m.ops.clone(r), nil
}

func (m *memRepo[T]) CurrentVersion(_ context.Context, id int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	if !ok {
		return 0, m.ops.notFound
	}
	return r.VersionToken(), nil
}

func (m *memRepo[T]) UpdateIfVersion(_ context.Context, r T, expected int64) (bool, error) {
	m.runInterleave()
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[r.ResourceID()]
	if !ok || stored.VersionToken() != expected {
		return false, nil
	}
	m.writes++
	m.ops.setVersion(r, expected+1)
	m.rows[r.ResourceID()] = m.ops.clone(r)
	return true, nil
}

func (m *memRepo[T]) DeleteIfVersion(_ context.Context, id, expected int64) (bool, error) {
	m.runInterleave()
	m.mu.Lock()
	stored, ok := m.rows[id]
	if !ok || stored.VersionToken() != expected {
		m.mu.Unlock()
		return false, nil
	}
	m.writes++
	delete(m.rows, id)
	m.mu.Unlock()

	if m.onDelete != nil {
		m.onDelete(id)
	}
	return true, nil
}

func (m *memRepo[T]) runInterleave() {
	m.mu.Lock()
	f := m.interleave
	m.interleave = nil
	m.mu.Unlock()
	if f != nil {
		f()
	}
}

func (m *memRepo[T]) get(id int64) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rows[id]
	return r, ok
}

func (m *memRepo[T]) sorted() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]int64, 0, len(m.rows))
	for id := range m.rows {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.ops.clone(m.rows[id]))
	}
	return out
}

// ---------------------------------------------------------------------------
// Per-kind repositories sharing one in-memory database
// ---------------------------------------------------------------------------

type memBlogs struct{ *memRepo[*domain.Blog] }

func (m memBlogs) List(_ context.Context, page ports.Page) ([]*domain.Blog, int64, error) {
	all := m.sorted()
	start := (page.Page - 1) * page.Limit
	if start > len(all) {
		start = len(all)
	}
	end := min(start+page.Limit, len(all))
	return all[start:end], int64(len(all)), nil
}

type memPosts struct{ *memRepo[*domain.Post] }

func (m memPosts) ListByBlog(_ context.Context, blogID int64) ([]*domain.Post, error) {
	var out []*domain.Post
	for _, p := range m.sorted() {
		if p.BlogID == blogID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memComments struct{ *memRepo[*domain.Comment] }

func (m memComments) ListByPost(_ context.Context, postID int64) ([]*domain.Comment, error) {
	var out []*domain.Comment
	for _, c := range m.sorted() {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memDB struct {
	blogs    memBlogs
	posts    memPosts
	comments memComments
	users    *stubUserRepo
	roles    *stubRoleRepo
}

func newMemDB() *memDB {
	db := &memDB{
		blogs: memBlogs{newMemRepo(rowOps[*domain.Blog]{
			clone:      func(b *domain.Blog) *domain.Blog { c := *b; return &c },
			setID:      func(b *domain.Blog, id int64) { b.ID = id },
			setVersion: func(b *domain.Blog, v int64) { b.Version = v },
			notFound:   domain.ErrBlogNotFound,
		})},
		posts: memPosts{newMemRepo(rowOps[*domain.Post]{
			clone:      func(p *domain.Post) *domain.Post { c := *p; return &c },
			setID:      func(p *domain.Post, id int64) { p.ID = id },
			setVersion: func(p *domain.Post, v int64) { p.Version = v },
			notFound:   domain.ErrPostNotFound,
		})},
		comments: memComments{newMemRepo(rowOps[*domain.Comment]{
			clone:      func(c *domain.Comment) *domain.Comment { x := *c; return &x },
			setID:      func(c *domain.Comment, id int64) { c.ID = id },
			setVersion: func(c *domain.Comment, v int64) { c.Version = v },
			notFound:   domain.ErrCommentNotFound,
		})},
		roles: newStubRoleRepo(),
	}
	db.users = newStubUserRepo(db)

	db.posts.onDelete = func(postID int64) {
		for _, c := range db.comments.sorted() {
			if c.PostID == postID {
				db.comments.mu.Lock()
				delete(db.comments.rows, c.ID)
				db.comments.mu.Unlock()
			}
		}
	}
	db.blogs.onDelete = func(blogID int64) {
		for _, p := range db.posts.sorted() {
			if p.BlogID == blogID {
				db.posts.mu.Lock()
				delete(db.posts.rows, p.ID)
				db.posts.mu.Unlock()
				db.posts.onDelete(p.ID)
			}
		}
	}
	return db
}

func (db *memDB) seedBlog(owner string) *domain.Blog {
	b := &domain.Blog{Title: "blog", UserID: owner, Version: 1}
	_ = db.blogs.Create(context.Background(), b)
	return b
}

func (db *memDB) seedPost(blogID int64, owner string) *domain.Post {
	p := &domain.Post{BlogID: blogID, Title: "title", Content: "body", UserID: owner, Version: 1}
	_ = db.posts.Create(context.Background(), p)
	return p
}

func (db *memDB) seedComment(postID int64, owner string) *domain.Comment {
	c := &domain.Comment{PostID: postID, Content: "nice", UserID: owner, Version: 1}
	_ = db.comments.Create(context.Background(), c)
	return c
}

// ---------------------------------------------------------------------------
// Accounts
// ---------------------------------------------------------------------------

type stubUserRepo struct {
	mu    sync.Mutex
	db    *memDB
	users map[string]*domain.User
}

func newStubUserRepo(db *memDB) *stubUserRepo {
	return &stubUserRepo{db: db, users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.Roles = slices.Clone(u.Roles)
	return &c
}

func (r *stubUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrUserExists
		}
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) AddRole(_ context.Context, id, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	if !slices.Contains(u.Roles, role) {
		u.Roles = append(u.Roles, role)
	}
	return nil
}

// Delete mirrors the store rules: restrict on posts and comments, cascade
// on blogs.
func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	for _, p := range r.db.posts.sorted() {
		if p.UserID == id {
			return domain.ErrPrincipalOwnsContent
		}
	}
	for _, c := range r.db.comments.sorted() {
		if c.UserID == id {
			return domain.ErrPrincipalOwnsContent
		}
	}

	r.mu.Lock()
	if _, ok := r.users[id]; !ok {
		r.mu.Unlock()
		return domain.ErrUserNotFound
	}
	delete(r.users, id)
	r.mu.Unlock()

	for _, b := range r.db.blogs.sorted() {
		if b.UserID == id {
			r.db.blogs.mu.Lock()
			delete(r.db.blogs.rows, b.ID)
			r.db.blogs.mu.Unlock()
		}
	}
	return nil
}

func (r *stubUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type stubRoleRepo struct {
	mu      sync.Mutex
	roles   map[string]bool
	ensured int
}

func newStubRoleRepo() *stubRoleRepo {
	return &stubRoleRepo{roles: make(map[string]bool)}
}

func (r *stubRoleRepo) EnsureRole(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.roles[name] {
		r.roles[name] = true
		r.ensured++
	}
	return nil
}

func (r *stubRoleRepo) Exists(_ context.Context, name string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.roles[name], nil
}

// ---------------------------------------------------------------------------
// Idempotency store, authorizer spy, invalidator
// ---------------------------------------------------------------------------

type stubIdempotencyStore struct {
	keys map[string]int64
	err  error
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{keys: make(map[string]int64)}
}

func (s *stubIdempotencyStore) Lookup(_ context.Context, scope, key string) (int64, bool, error) {
	if s.err != nil {
		return 0, false, s.err
	}
	id, ok := s.keys[scope+"|"+key]
	return id, ok, nil
}

func (s *stubIdempotencyStore) Remember(_ context.Context, scope, key string, id int64) error {
	if s.err != nil {
		return s.err
	}
	s.keys[scope+"|"+key] = id
	return nil
}

// countingAuthorizer delegates to the real evaluator and counts calls.
type countingAuthorizer struct {
	inner *policy.Evaluator
	calls int
}

func newCountingAuthorizer() *countingAuthorizer {
	return &countingAuthorizer{inner: policy.NewEvaluator(nil, zerolog.Nop())}
}

func (a *countingAuthorizer) Authorize(ctx context.Context, p domain.Principal, r domain.Ownable, action domain.Action) (domain.Decision, error) {
	a.calls++
	return a.inner.Authorize(ctx, p, r, action)
}

type stubInvalidator struct{ forgotten []string }

func (s *stubInvalidator) Invalidate(userID string) { s.forgotten = append(s.forgotten, userID) }

var errStoreDown = errors.New("store unavailable")

var (
	alice = domain.Principal{ID: "alice", Roles: []string{domain.RoleUser}}
	bob   = domain.Principal{ID: "bob", Roles: []string{domain.RoleUser}}
	admin = domain.Principal{ID: "root", Roles: []string{domain.RoleAdmin}}
)

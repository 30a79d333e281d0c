package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createBlogRequest struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
}

// updateBlogRequest carries an optional version; the If-Match header wins
// when both are present.
type updateBlogRequest struct {
	Title       string `json:"title"       validate:"required,max=100"`
	Description string `json:"description" validate:"max=1000"`
	Version     int64  `json:"version"     validate:"gte=0"`
}

type createPostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
}

type updatePostRequest struct {
	Title   string `json:"title"   validate:"required,max=200"`
	Content string `json:"content" validate:"required"`
	Version int64  `json:"version" validate:"gte=0"`
}

type createCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
}

type updateCommentRequest struct {
	Content string `json:"content" validate:"required,max=500"`
	Version int64  `json:"version" validate:"gte=0"`
}

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type assignRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// --- Response types ---

type blogLinks struct {
	Self  string `json:"self"`
	Posts string `json:"posts"`
}

type blogResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	UserID      string    `json:"user_id"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Links       blogLinks `json:"_links"`
}

type blogDetailResponse struct {
	blogResponse
	Posts []postResponse `json:"posts"`
}

type postLinks struct {
	Self     string `json:"self"`
	Blog     string `json:"blog"`
	Comments string `json:"comments"`
}

type postResponse struct {
	ID        int64     `json:"id"`
	BlogID    int64     `json:"blog_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Links     postLinks `json:"_links"`
}

type postDetailResponse struct {
	postResponse
	Comments []commentResponse `json:"comments"`
}

type commentLinks struct {
	Self string `json:"self"`
	Post string `json:"post"`
}

type commentResponse struct {
	ID        int64        `json:"id"`
	PostID    int64        `json:"post_id"`
	Content   string       `json:"content"`
	UserID    string       `json:"user_id"`
	Version   int64        `json:"version"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Links     commentLinks `json:"_links"`
}

// createdResponse wraps a newly created resource. AlreadyExisted is set when
// an Idempotency-Key replay returned the original.
type createdResponse[T any] struct {
	Data           T    `json:"data"`
	AlreadyExisted bool `json:"already_existed"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listBlogsResponse struct {
	Data       []blogResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

type listPostsResponse struct {
	Data []postResponse `json:"data"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Roles     []string  `json:"roles"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Token string        `json:"token,omitempty"`
	User  *userResponse `json:"user,omitempty"`
}

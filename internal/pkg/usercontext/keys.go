package usercontext

// Shared Locals keys used across controllers and middlewares
const (
	ContextKey = "USER_CONTEXT"
	UserKey    = "AUTH_USER"
	KeyUserID  = "user_id"
)

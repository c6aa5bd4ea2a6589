package constants

// Session / context keys
const (
	SessionCookieName = "marketplace_session"
	ContextKeyUserID  = "user_id"
	ContextKeyUser    = "current_user"
	ContextKeyProject = "project"
	ContextKeyTask    = "task"
)

// Pagination bounds
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Submission upload limits. Only archive containers are accepted as
// deliverables; anything else is rejected before a row is written.
const MaxSubmissionSize = 50 << 20 // 50 MiB

var AllowedArchiveExtensions = []string{".zip", ".tar", ".gz", ".tgz", ".tar.gz", ".rar", ".7z"}

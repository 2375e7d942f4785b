// Package authz holds the authorization rules for daily reports,
// comments and the employee directory. Every decision is a pure
// function of the actor and the ownership facts the caller loaded
// beforehand; the package performs no I/O and keeps no state.
//
// The same functions back the page guards, the API guards and the UI
// affordance checks, so the three call sites cannot drift apart.
package authz

// Code classifies a deny decision.
type Code string

const (
	// CodeUnauthorized means no valid actor was presented. Maps to 401.
	CodeUnauthorized Code = "UNAUTHORIZED"
	// CodeForbidden means the actor lacks privilege or ownership. Maps to 403.
	CodeForbidden Code = "FORBIDDEN"
)

// Error is a terminal deny decision. It is never retryable.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return string(e.Code) + ": " + e.Message
}

var (
	errAuthRequired       = &Error{Code: CodeUnauthorized, Message: "認証が必要です"}
	errViewReport         = &Error{Code: CodeForbidden, Message: "この日報を閲覧する権限がありません"}
	errEditReport         = &Error{Code: CodeForbidden, Message: "自分の日報のみ編集できます"}
	errComment            = &Error{Code: CodeForbidden, Message: "コメントを投稿する権限がありません"}
	errDeleteComment      = &Error{Code: CodeForbidden, Message: "このコメントを削除する権限がありません"}
	errEmployeeManagement = &Error{Code: CodeForbidden, Message: "従業員管理の権限がありません"}
)

// RequireAuthenticated denies with UNAUTHORIZED when no actor is
// present. It runs first inside every other check, so a missing actor
// is always reported as UNAUTHORIZED and never as FORBIDDEN. Callers
// observe the distinction as HTTP 401 vs 403.
func RequireAuthenticated(actor *Actor) error {
	if actor == nil {
		return errAuthRequired
	}
	return nil
}

// AuthorizeViewReport decides whether the actor may read a report.
// Admins see everything. Everyone sees their own reports. Managers
// additionally see reports of their direct reports, exactly one
// hierarchy level; the edge is not transitive.
func AuthorizeViewReport(actor *Actor, ownerEmployeeID int64, ownerManagerID *int64) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleManager:
		if actor.EmployeeID == ownerEmployeeID {
			return nil
		}
		if ownerManagerID != nil && actor.EmployeeID == *ownerManagerID {
			return nil
		}
	case RoleSales:
		if actor.EmployeeID == ownerEmployeeID {
			return nil
		}
	}
	return errViewReport
}

// AuthorizeEditReport decides whether the actor may modify or delete a
// report. Strict ownership: admin status does not grant edit rights on
// someone else's report, and editing is never delegated up the
// hierarchy.
func AuthorizeEditReport(actor *Actor, ownerEmployeeID int64) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.EmployeeID == ownerEmployeeID {
		return nil
	}
	return errEditReport
}

// AuthorizeComment decides whether the actor may post comments.
// Managers and admins only. The rule is independent of the target
// report; callers that expose a comment endpoint must enforce
// AuthorizeViewReport on the report first.
func AuthorizeComment(actor *Actor) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case RoleManager, RoleAdmin:
		return nil
	case RoleSales:
	}
	return errComment
}

// AuthorizeDeleteComment decides whether the actor may delete a
// comment. Strict commenter ownership, same shape as report edits.
func AuthorizeDeleteComment(actor *Actor, commenterEmployeeID int64) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	if actor.EmployeeID == commenterEmployeeID {
		return nil
	}
	return errDeleteComment
}

// AuthorizeEmployeeManagement gates the whole employee directory
// surface. Admin only, checked before any employee facts are loaded.
func AuthorizeEmployeeManagement(actor *Actor) error {
	if err := RequireAuthenticated(actor); err != nil {
		return err
	}
	switch actor.Role {
	case RoleAdmin:
		return nil
	case RoleManager, RoleSales:
	}
	return errEmployeeManagement
}

// Boolean forms of the checks above, for call sites that only decide
// whether to render an affordance. Never authoritative: the server-side
// check on the actual mutation runs independently.

func CanViewReport(actor *Actor, ownerEmployeeID int64, ownerManagerID *int64) bool {
	return AuthorizeViewReport(actor, ownerEmployeeID, ownerManagerID) == nil
}

func CanEditReport(actor *Actor, ownerEmployeeID int64) bool {
	return AuthorizeEditReport(actor, ownerEmployeeID) == nil
}

func CanComment(actor *Actor) bool {
	return AuthorizeComment(actor) == nil
}

func CanDeleteComment(actor *Actor, commenterEmployeeID int64) bool {
	return AuthorizeDeleteComment(actor, commenterEmployeeID) == nil
}

func CanAccessEmployeeManagement(actor *Actor) bool {
	return AuthorizeEmployeeManagement(actor) == nil
}

// Package visibility decides whether a viewer may see a content item and
// provides the matching query-level filter. Every listing path must go
// through Scope so the rules cannot drift between endpoints.
package visibility

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Viewer is the ambient identity a request carries. The zero value is an
// unauthenticated viewer.
type Viewer struct {
	UserID  *uuid.UUID
	IsAdmin bool
}

// IsAuthor reports whether the viewer is the given author.
func (v Viewer) IsAuthor(authorID uuid.UUID) bool {
	return v.UserID != nil && *v.UserID == authorID
}

// Visible evaluates the policy for one non-deleted item: not hidden means
// visible to everyone; hidden means visible only to admins and the
// author. Soft-deleted rows never reach this predicate in listing paths
// (GORM's soft delete excludes them for every viewer, admins included).
func Visible(isHidden bool, authorID uuid.UUID, viewer Viewer) bool {
	if !isHidden {
		return true
	}
	return viewer.IsAdmin || viewer.IsAuthor(authorID)
}

// Scope returns the query-level equivalent of Visible for posts and
// comments (both use is_hidden/author_id columns). Soft delete is already
// applied by GORM's default scope.
func Scope(viewer Viewer) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewer.IsAdmin {
			return db
		}
		if viewer.UserID != nil {
			return db.Where("is_hidden = ? OR author_id = ?", false, *viewer.UserID)
		}
		return db.Where("is_hidden = ?", false)
	}
}

// Package resolver decides the publication status of an article.
package resolver

import "emphasize/internal/models"

// Resolve maps an article's draft flag and the process-wide drafts-visible
// mode to a publication status. It returns ok=false when the article is
// suppressed: a suppressed article must not appear in any output set, which
// is distinct from a visible draft.
//
// Resolve is a pure function: repeated calls with identical inputs return
// identical results.
func Resolve(draft, draftsVisible bool) (status models.Status, ok bool) {
	switch {
	case !draft:
		return models.StatusPublished, true
	case draftsVisible:
		return models.StatusDraft, true
	default:
		return "", false
	}
}

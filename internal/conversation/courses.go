package conversation

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/leeedrea/whatsapp-receipt-tracker/internal/domain"
)

// recentCourseWindow bounds the de-duplication history: a course is not
// re-recommended while it sits among the user's last N recommendations.
const recentCourseWindow = 5

// recommendCourse offers at most one catalog course tagged with the spend
// category. No eligible course is a silent no-op, not an error.
func (e *Engine) recommendCourse(ctx context.Context, u *domain.User, category string, reply func(string)) {
	recent, err := e.repo.RecentCourseIDs(ctx, u.ID, recentCourseWindow)
	if err != nil {
		e.log.Error("course history read failed", zap.Error(err), zap.String("user", u.ID))
		return
	}
	seen := map[string]bool{}
	for _, id := range recent {
		seen[id] = true
	}

	tag := strings.ToLower(category)
	for _, c := range e.catalog {
		if seen[c.ID] || !c.MatchesTag(tag) {
			continue
		}
		if err := e.repo.AddCourseRecommendation(ctx, u.ID, c.ID); err != nil {
			e.log.Error("course history write failed", zap.Error(err), zap.String("user", u.ID))
			return
		}
		reply(courseRecommendationText(c))
		return
	}
}

// handleCourses lists titles for the recommendation history, catalog order,
// silently skipping ids no longer in the catalog.
func (e *Engine) handleCourses(ctx context.Context, u *domain.User, reply func(string)) {
	recent, err := e.repo.RecentCourseIDs(ctx, u.ID, recentCourseWindow)
	if err != nil {
		e.log.Error("course history read failed", zap.Error(err), zap.String("user", u.ID))
		return
	}
	if len(recent) == 0 {
		reply(noCoursesText)
		return
	}

	seen := map[string]bool{}
	for _, id := range recent {
		seen[id] = true
	}

	var b strings.Builder
	b.WriteString("Recent Courses:\n\n")
	listed := false
	for _, c := range e.catalog {
		if !seen[c.ID] {
			continue
		}
		fmt.Fprintf(&b, "- %s (%s diamonds)\n", c.Title, c.Diamonds)
		listed = true
	}
	if !listed {
		// Every recent id is stale; nothing left to show.
		reply(noCoursesText)
		return
	}
	reply(b.String())
}

package sweep

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spiffcs/collabsweep/internal/model"
)

// callLog records every remote call in order across the fakes.
type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeSource struct {
	log   *callLog
	pages []model.Page
	err   error
	errAt int // page index (0-based) that fails when err is set
}

func (s *fakeSource) FetchPage(_ context.Context, cursor string) (model.Page, error) {
	idx := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil {
			return model.Page{}, fmt.Errorf("bad cursor %q", cursor)
		}
		idx = n
	}
	if s.log != nil {
		s.log.add("fetch(%d)", idx)
	}
	if s.err != nil && idx == s.errAt {
		return model.Page{}, s.err
	}
	if idx >= len(s.pages) {
		return model.Page{}, fmt.Errorf("no page %d", idx)
	}
	return s.pages[idx], nil
}

// pagesOf splits issues into pages with numeric cursors.
func pagesOf(sizes []int, mk func(n int) model.Issue) []model.Page {
	var pages []model.Page
	n := 1
	for i, size := range sizes {
		page := model.Page{
			HasNextPage: i < len(sizes)-1,
			EndCursor:   strconv.Itoa(i + 1),
		}
		for j := 0; j < size; j++ {
			page.Issues = append(page.Issues, mk(n))
			n++
		}
		pages = append(pages, page)
	}
	return pages
}

type fakeMembers struct {
	log       *callLog
	demoteErr map[string]error
	closeErr  map[int]error
}

func (m *fakeMembers) DemoteToOutsideCollaborator(_ context.Context, login string) error {
	m.log.add("demote(%s)", login)
	return m.demoteErr[login]
}

func (m *fakeMembers) CloseIssue(_ context.Context, number int) error {
	m.log.add("close(%d)", number)
	return m.closeErr[number]
}

// recordingSleep records pauses in the shared log instead of sleeping.
func recordingSleep(l *callLog) SleepFunc {
	return func(ctx context.Context, d time.Duration) error {
		l.add("sleep(%s)", d)
		return ctx.Err()
	}
}

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func openIssue(number, ageDays int, assignees ...string) model.Issue {
	return model.Issue{
		Number:    number,
		State:     model.StateOpen,
		CreatedAt: daysAgo(ageDays),
		Assignees: assignees,
	}
}

func singlePage(issues ...model.Issue) []model.Page {
	return []model.Page{{Issues: issues}}
}

package sweep

import (
	"context"
	"fmt"

	"github.com/spiffcs/collabsweep/internal/log"
	"github.com/spiffcs/collabsweep/internal/model"
)

// FetchAll reads every page from src in order and returns the accumulated
// issues. Any page error aborts the fetch; partial results are discarded.
// onPage, when non-nil, is called after each page with the running total.
func FetchAll(ctx context.Context, src IssueSource, onPage func(page, total int)) ([]model.Issue, error) {
	var issues []model.Issue
	cursor := ""
	seen := make(map[string]bool)

	for pageNum := 1; ; pageNum++ {
		page, err := src.FetchPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		issues = append(issues, page.Issues...)
		log.Debug("fetched issue page", "page", pageNum, "issues", len(page.Issues), "total", len(issues))
		if onPage != nil {
			onPage(pageNum, len(issues))
		}

		if !page.HasNextPage {
			break
		}
		if page.EndCursor == "" || seen[page.EndCursor] {
			return nil, fmt.Errorf("issue source reported more pages without a new cursor after page %d", pageNum)
		}
		seen[page.EndCursor] = true
		cursor = page.EndCursor
	}

	return issues, nil
}

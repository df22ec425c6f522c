package output

import (
	"fmt"
	"io"

	"github.com/sirseerhq/sirseer-pulls/internal/github"
)

// Summary holds aggregate statistics over a selected result set. It is
// rendered to stderr after a listing so the stdout document stays clean.
type Summary struct {
	Total  int
	Open   int
	Closed int

	// Oldest and Newest are creation dates, YYYY-MM-DD. Empty when Total is zero.
	Oldest string
	Newest string
}

// Summarize computes aggregate statistics for a result set.
func Summarize(records []github.PullRequest) Summary {
	s := Summary{Total: len(records)}
	if len(records) == 0 {
		return s
	}

	oldest := records[0].CreatedAt
	newest := records[0].CreatedAt
	for _, pr := range records {
		switch pr.State {
		case github.StateOpen:
			s.Open++
		case github.StateClosed:
			s.Closed++
		}
		if pr.CreatedAt.Before(oldest) {
			oldest = pr.CreatedAt
		}
		if pr.CreatedAt.After(newest) {
			newest = pr.CreatedAt
		}
	}

	s.Oldest = oldest.Format("2006-01-02")
	s.Newest = newest.Format("2006-01-02")
	return s
}

// Fprint renders the summary as a single human-readable line.
func (s Summary) Fprint(w io.Writer) {
	if s.Total == 0 {
		fmt.Fprintln(w, "No pull requests found")
		return
	}
	fmt.Fprintf(w, "%d pull requests (%d open, %d closed), created %s .. %s\n",
		s.Total, s.Open, s.Closed, s.Oldest, s.Newest)
}

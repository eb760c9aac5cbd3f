package format

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/cristianoliveira/casewatch/internal/domain"
	"github.com/cristianoliveira/casewatch/internal/fetch"
	"github.com/dustin/go-humanize"
)

// Footer renders the pagination summary.
func Footer(page, totalPages, total int) string {
	if totalPages < 1 {
		totalPages = 1
	}
	return fmt.Sprintf("page %d of %d (%s total)", page, totalPages, humanize.Comma(int64(total)))
}

// EmptyLine is shown instead of a table when a loaded page has no items.
func EmptyLine(noun string) string {
	return fmt.Sprintf("No %s match the current filters.", noun)
}

// ErrorLine is shown when nothing could be loaded.
func ErrorLine(noun string, err error) string {
	return fmt.Sprintf("Could not load %s: %v", noun, err)
}

type jsonPage[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
}

// WriteState renders a fetch state: the items with a pagination footer, or
// an explicit empty or error line.
func WriteState[T any, F any](w io.Writer, noun string, st fetch.State[T, F], columns []Column[T], opts Options) error {
	if opts.style() == StyleJSON {
		if st.Status() == fetch.StatusError {
			return fmt.Errorf("load %s: %w", noun, st.Err)
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonPage[T]{Data: st.Items, Total: st.Total, Page: st.Page, TotalPages: st.TotalPages})
	}

	var err error
	switch st.Status() {
	case fetch.StatusError:
		_, err = fmt.Fprintln(w, ErrorLine(noun, st.Err))
	case fetch.StatusEmpty, fetch.StatusIdle:
		_, err = fmt.Fprintln(w, EmptyLine(noun))
	case fetch.StatusLoading:
		_, err = fmt.Fprintf(w, "Loading %s...\n", noun)
	default:
		table := NewTable(columns...)
		if opts.style() == StyleCompact {
			err = table.WriteCompact(w, st.Items)
		} else {
			err = table.Write(w, st.Items)
		}
		if err == nil {
			_, err = fmt.Fprintln(w, Footer(st.Page, st.TotalPages, st.Total))
		}
	}
	return err
}

// WriteAlerts renders an alert fetch state.
func WriteAlerts(w io.Writer, st fetch.State[domain.Alert, domain.AlertFilter], opts Options) error {
	return WriteState(w, "alerts", st, AlertColumns(opts.now()), opts)
}

// WritePersons renders a person fetch state.
func WritePersons(w io.Writer, st fetch.State[domain.Person, domain.PersonFilter], opts Options) error {
	return WriteState(w, "persons", st, PersonColumns(opts.now()), opts)
}

// WriteDetections renders a detection fetch state.
func WriteDetections(w io.Writer, st fetch.State[domain.Detection, domain.DetectionFilter], opts Options) error {
	return WriteState(w, "detections", st, DetectionColumns(opts.now()), opts)
}

// WriteNotifications renders the notification feed. Notifications are not
// paginated, so there is no footer.
func WriteNotifications(w io.Writer, notifs []domain.Notification, opts Options) error {
	if opts.style() == StyleJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if notifs == nil {
			notifs = []domain.Notification{}
		}
		return enc.Encode(notifs)
	}
	if len(notifs) == 0 {
		_, err := fmt.Fprintln(w, "No notifications.")
		return err
	}
	table := NewTable(NotificationColumns(opts.now())...)
	if opts.style() == StyleCompact {
		return table.WriteCompact(w, notifs)
	}
	if err := table.Write(w, notifs); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, Badge(domain.CountUnread(notifs)))
	return err
}

// Badge renders the unread counter.
func Badge(unread int) string {
	switch unread {
	case 0:
		return "no unread notifications"
	case 1:
		return "1 unread notification"
	default:
		return fmt.Sprintf("%s unread notifications", humanize.Comma(int64(unread)))
	}
}

// Updated renders when data was last refreshed.
func Updated(at, now time.Time) string {
	if at.IsZero() {
		return "never updated"
	}
	return "updated " + humanize.RelTime(at, now, "ago", "from now")
}

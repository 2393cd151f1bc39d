// Package journal retrieves systemd journal excerpts, optionally through a
// privilege launcher, and classifies the outcome.
package journal

import "strconv"

// Scope selects the system or the per-user journal.
type Scope int

const (
	System Scope = iota
	User
)

func (s Scope) String() string {
	if s == User {
		return "user"
	}
	return "system"
}

// Line count bounds.
const (
	DefaultLines = 200
	MinLines     = 50
	MaxLines     = 1000
	LinesStep    = 50
)

// Priorities maps a 1-based priority id to its journalctl level.
var Priorities = []string{"emerg", "alert", "crit", "err", "warning", "notice", "info", "debug"}

// PriorityLabels are display names indexed by priority id; 0 is no filter.
var PriorityLabels = []string{"All Priorities", "Emergency", "Alert", "Critical", "Error", "Warning", "Notice", "Info", "Debug"}

// Filter is a named journalctl refinement.
type Filter struct {
	Label string
	Args  []string
}

var systemFilters = []Filter{
	{Label: "All Logs"},
	{Label: "Kernel Logs", Args: []string{"-k"}},
	{Label: "Boot Logs", Args: []string{"-b"}},
	{Label: "System Services", Args: []string{"-u", "systemd"}},
	{Label: "Authentication", Args: []string{"-u", "systemd-logind"}},
	{Label: "Cron Jobs", Args: []string{"-u", "cron"}},
	{Label: "Network Manager", Args: []string{"-u", "NetworkManager"}},
	{Label: "Bluetooth", Args: []string{"-u", "bluetooth"}},
	{Label: "USB Events", Args: []string{"-k"}},
}

var userFilters = []Filter{
	{Label: "All Logs"},
	{Label: "User Services"},
	{Label: "Desktop Session", Args: []string{"_SYSTEMD_USER_UNIT=gnome-session.target"}},
	{Label: "Applications", Args: []string{"_COMM=gjs"}},
	{Label: "Shell", Args: []string{"_COMM=gnome-shell"}},
}

// Filters returns the filter table of a scope, indexed by filter id.
func Filters(scope Scope) []Filter {
	if scope == User {
		return userFilters
	}
	return systemFilters
}

// Query selects which journal lines to fetch.
type Query struct {
	Filter   int
	Priority int
	MaxLines int
}

// DefaultQuery returns an unfiltered query for DefaultLines lines.
func DefaultQuery() Query {
	return Query{MaxLines: DefaultLines}
}

// WithLines returns q with MaxLines moved by delta and kept within bounds.
func (q Query) WithLines(delta int) Query {
	q.MaxLines += delta
	if q.MaxLines < MinLines {
		q.MaxLines = MinLines
	}
	if q.MaxLines > MaxLines {
		q.MaxLines = MaxLines
	}
	return q
}

// CycleFilter advances to the next filter of the scope, wrapping around.
func (q Query) CycleFilter(scope Scope) Query {
	q.Filter = (q.Filter + 1) % len(Filters(scope))
	return q
}

// CyclePriority advances to the next priority, wrapping to "all".
func (q Query) CyclePriority() Query {
	q.Priority = (q.Priority + 1) % len(PriorityLabels)
	return q
}

// FilterLabel names the query's filter in the given scope.
func (q Query) FilterLabel(scope Scope) string {
	filters := Filters(scope)
	if q.Filter < 0 || q.Filter >= len(filters) {
		return filters[0].Label
	}
	return filters[q.Filter].Label
}

// PriorityLabel names the query's priority.
func (q Query) PriorityLabel() string {
	if q.Priority < 0 || q.Priority >= len(PriorityLabels) {
		return PriorityLabels[0]
	}
	return PriorityLabels[q.Priority]
}

// BuildArgs renders the journalctl arguments for a query. User queries
// pass --user; out-of-range filter and priority ids are ignored.
func BuildArgs(scope Scope, q Query) []string {
	lines := q.MaxLines
	if lines <= 0 {
		lines = DefaultLines
	}

	var args []string
	if scope == User {
		args = append(args, "--user")
	}
	args = append(args, "--no-pager", "-n", strconv.Itoa(lines), "-o", "short")

	if q.Priority > 0 && q.Priority <= len(Priorities) {
		args = append(args, "-p", Priorities[q.Priority-1])
	}

	filters := Filters(scope)
	if q.Filter > 0 && q.Filter < len(filters) {
		args = append(args, filters[q.Filter].Args...)
	}
	return args
}

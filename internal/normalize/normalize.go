package normalize

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/resourceboard/backend/internal/models"
)

// Raw is an untyped record from the table store. Source schemas disagree on
// field names, so every accessor walks an ordered alias chain and defaults
// instead of failing.
type Raw map[string]any

// Lookup resolves external tracker account ids and display names to
// canonical developer ids. Built once per load cycle.
type Lookup map[string]string

const (
	defaultCapacity  = 8
	defaultEndOffset = 3
)

func BuildLookup(rawDevs []Raw) Lookup {
	lookup := Lookup{}
	for _, d := range rawDevs {
		id := getString(d, "id")
		if id == "" {
			continue
		}
		if acct := getString(d, "jira_account_id", "tracker_account_id"); acct != "" {
			lookup[acct] = id
		}
		if name := getString(d, "display_name"); name != "" {
			lookup[name] = id
		}
		if name := getString(d, "name"); name != "" {
			lookup[name] = id
		}
	}
	return lookup
}

func Developer(raw Raw) models.Developer {
	name := getString(raw, "display_name", "name")
	if name == "" {
		name = "Unknown"
	}
	role := getString(raw, "role")
	if role == "" {
		role = "Developer"
	}
	avatar := getString(raw, "avatar")
	if avatar == "" {
		avatar = placeholderAvatar(name)
	}
	capacity := getInt(raw, "capacity")
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return models.Developer{
		ID:               getString(raw, "id"),
		Name:             name,
		Role:             role,
		Avatar:           avatar,
		Capacity:         capacity,
		TrackerAccountID: getString(raw, "jira_account_id", "tracker_account_id"),
	}
}

// Block applies the zero-length-today default: a record with no time window
// becomes a block covering only the current date rather than a parse error.
func Block(raw Raw, now time.Time) models.AvailabilityBlock {
	reason := getString(raw, "reason")
	blockType := models.AvailabilityOOO
	switch models.AvailabilityType(reason) {
	case models.AvailabilityAvailable, models.AvailabilityOOO, models.AvailabilityMaintenance, models.AvailabilityDowntime:
		blockType = models.AvailabilityType(reason)
	}
	today := models.DateKey(now)
	start := getString(raw, "start_time", "start_date")
	if start == "" {
		start = today
	}
	end := getString(raw, "end_time", "end_date")
	if end == "" {
		end = today
	}
	return models.AvailabilityBlock{
		ID:          getString(raw, "id"),
		DeveloperID: getString(raw, "developer_id"),
		Type:        blockType,
		StartDate:   models.DateOnly(start),
		EndDate:     models.DateOnly(end),
		Notes:       reason,
	}
}

func Ticket(raw Raw, lookup Lookup, now time.Time) models.Ticket {
	assigneeID := models.UnassignedID
	if acct := getString(raw, "assignee_jira_id"); acct != "" && lookup[acct] != "" {
		assigneeID = lookup[acct]
	} else if name := getString(raw, "assignee"); name != "" && lookup[name] != "" {
		assigneeID = lookup[name]
	} else if direct := getString(raw, "assignee_id"); direct != "" {
		assigneeID = direct
	}

	fallbackStart := models.DateKey(now)
	if updated := getString(raw, "updated_at"); updated != "" {
		fallbackStart = models.DateOnly(updated)
	}
	start := getString(raw, "start_date")
	if start == "" {
		start = fallbackStart
	}
	start = models.DateOnly(start)
	end := getString(raw, "end_date")
	if end == "" {
		end = models.AddDays(start, defaultEndOffset)
	}
	end = models.DateOnly(end)

	key := getString(raw, "key")
	id := key
	if id == "" {
		id = getString(raw, "id")
	}
	if key == "" {
		key = "UNK-000"
	}
	title := getString(raw, "summary", "title")
	if title == "" {
		title = "Untitled Issue"
	}
	status := models.TicketStatus(getString(raw, "status"))
	switch status {
	case models.StatusTodo, models.StatusInProgress, models.StatusDone, models.StatusBlocked:
	default:
		status = models.StatusTodo
	}
	priority := getString(raw, "priority")
	if priority == "" {
		priority = "Medium"
	}

	labels := getStrings(raw, "labels")
	if len(labels) == 0 {
		labels = InferLabels(title, priority)
	}

	return models.Ticket{
		ID:         id,
		Key:        key,
		Title:      title,
		AssigneeID: assigneeID,
		Status:     status,
		StartDate:  start,
		EndDate:    end,
		Priority:   priority,
		Labels:     labels,
	}
}

// InferLabels derives display labels from free text when the source record
// carries none. Precedence is Major over Bug; the classification is a
// heuristic display aid and tolerates empty or garbled input.
func InferLabels(title, priority string) []string {
	lower := strings.ToLower(title)
	var labels []string
	if priority == "High" || strings.Contains(lower, "critical") {
		labels = append(labels, models.LabelMajor)
	}
	if strings.Contains(lower, "bug") {
		labels = append(labels, models.LabelBug)
	}
	return labels
}

func placeholderAvatar(name string) string {
	return fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=random", url.QueryEscape(name))
}

func getString(raw Raw, names ...string) string {
	for _, name := range names {
		v, ok := raw[name]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case *string:
			if t != nil {
				if s := strings.TrimSpace(*t); s != "" {
					return s
				}
			}
		case time.Time:
			return t.UTC().Format(time.RFC3339)
		}
	}
	return ""
}

func getInt(raw Raw, names ...string) int {
	for _, name := range names {
		v, ok := raw[name]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case int:
			return t
		case int32:
			return int(t)
		case int64:
			return int(t)
		case float64:
			return int(t)
		}
	}
	return 0
}

func getStrings(raw Raw, name string) []string {
	v, ok := raw[name]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

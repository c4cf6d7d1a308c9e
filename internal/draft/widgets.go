package draft

import (
	"slices"

	"github.com/ganot/pmdash/internal/domain/user"
)

// Widgets is an edit session over the People page widget preferences.
type Widgets struct {
	original user.PeoplePageWidgets
	current  user.PeoplePageWidgets
}

// BeginWidgets opens a widget draft with defaults filled in.
func BeginWidgets(saved *user.PeoplePageWidgets) *Widgets {
	merged := user.MergeWidgetDefaults(saved)
	return &Widgets{original: merged.Clone(), current: merged}
}

// Current returns a copy of the edited preferences.
func (w *Widgets) Current() user.PeoplePageWidgets {
	return w.current.Clone()
}

// ToggleVisible shows or hides a widget. Newly shown widgets go last.
func (w *Widgets) ToggleVisible(id string) {
	if slices.Contains(w.current.Visible, id) {
		w.current.Visible = slices.DeleteFunc(w.current.Visible, func(v string) bool { return v == id })
		return
	}
	w.current.Visible = append(w.current.Visible, id)
}

// ToggleStatusLabel enables or disables a status label on the
// projects-by-status widget.
func (w *Widgets) ToggleStatusLabel(label string) {
	labels := slices.Clone(w.current.StatusLabels())
	if slices.Contains(labels, label) {
		labels = slices.DeleteFunc(labels, func(l string) bool { return l == label })
	} else {
		labels = append(labels, label)
	}
	if labels == nil {
		labels = []string{}
	}
	if w.current.Config == nil {
		w.current.Config = map[string]user.WidgetConfig{}
	}
	w.current.Config[user.WidgetProjectsByStatus] = user.WidgetConfig{Statuses: labels}
}

// Dirty reports whether visibility, order or the status labels changed.
func (w *Widgets) Dirty() bool {
	return !slices.Equal(w.original.Visible, w.current.Visible) ||
		!slices.Equal(w.original.Order, w.current.Order) ||
		!slices.Equal(w.original.StatusLabels(), w.current.StatusLabels())
}

// Saved rebases the draft on the preferences the server returned.
func (w *Widgets) Saved(saved user.PeoplePageWidgets) {
	merged := user.MergeWidgetDefaults(&saved)
	w.original = merged.Clone()
	w.current = merged
}

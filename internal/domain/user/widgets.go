package user

import "slices"

// Widget identifiers on the people page.
const (
	WidgetProjectsByStatus = "projectsByStatus"
	WidgetActiveVsInactive = "activeVsInactive"
)

// DefaultWidgetOrder lists every known widget in default order.
var DefaultWidgetOrder = []string{WidgetProjectsByStatus, WidgetActiveVsInactive}

// DefaultStatusLabels are the status labels shown by the projects-by-status widget.
var DefaultStatusLabels = []string{"Not started", "In progress", "Completed", "Canceled", "Archived"}

// WidgetConfig is the per-widget configuration blob.
type WidgetConfig struct {
	Statuses []string `json:"statuses,omitempty"`
}

// PeoplePageWidgets is the per-user people-page preference blob.
type PeoplePageWidgets struct {
	Visible []string                `json:"visible"`
	Order   []string                `json:"order"`
	Config  map[string]WidgetConfig `json:"config,omitempty"`
}

// DefaultWidgets returns a fresh default preference blob.
func DefaultWidgets() PeoplePageWidgets {
	return PeoplePageWidgets{
		Visible: slices.Clone(DefaultWidgetOrder),
		Order:   slices.Clone(DefaultWidgetOrder),
		Config: map[string]WidgetConfig{
			WidgetProjectsByStatus: {Statuses: slices.Clone(DefaultStatusLabels)},
		},
	}
}

// MergeWidgetDefaults fills missing visibility, order and config entries
// from the defaults.
func MergeWidgetDefaults(in *PeoplePageWidgets) PeoplePageWidgets {
	out := DefaultWidgets()
	if in == nil {
		return out
	}
	if visible := nonEmpty(in.Visible); len(visible) > 0 {
		out.Visible = visible
	}
	if order := nonEmpty(in.Order); len(order) > 0 {
		out.Order = order
	}
	for id, cfg := range in.Config {
		out.Config[id] = WidgetConfig{Statuses: slices.Clone(cfg.Statuses)}
	}
	return out
}

// Clone returns a deep copy.
func (w PeoplePageWidgets) Clone() PeoplePageWidgets {
	out := PeoplePageWidgets{
		Visible: slices.Clone(w.Visible),
		Order:   slices.Clone(w.Order),
	}
	if w.Config != nil {
		out.Config = make(map[string]WidgetConfig, len(w.Config))
		for id, cfg := range w.Config {
			out.Config[id] = WidgetConfig{Statuses: slices.Clone(cfg.Statuses)}
		}
	}
	return out
}

// OrderedVisible returns visible widget ids in configured order, falling
// back to the default order when nothing would be shown.
func (w PeoplePageWidgets) OrderedVisible() []string {
	order := w.Order
	if len(order) == 0 {
		order = DefaultWidgetOrder
	}
	visible := make(map[string]bool, len(w.Visible))
	for _, id := range w.Visible {
		visible[id] = true
	}
	var out []string
	for _, id := range order {
		if visible[id] {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return slices.Clone(DefaultWidgetOrder)
	}
	return out
}

// StatusLabels returns the labels enabled for the projects-by-status widget.
func (w PeoplePageWidgets) StatusLabels() []string {
	if cfg, ok := w.Config[WidgetProjectsByStatus]; ok && cfg.Statuses != nil {
		return cfg.Statuses
	}
	return DefaultStatusLabels
}

func nonEmpty(in []string) []string {
	var out []string
	for _, v := range in {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

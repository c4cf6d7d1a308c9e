// Package filter computes the visible, grouped subset of the cached projects
// and people from a filter selection. Everything here is pure: the same
// inputs always produce the same output.
package filter

import (
	"slices"
	"sort"
	"strings"

	"github.com/ganot/pmdash/internal/domain/project"
	"github.com/ganot/pmdash/internal/domain/user"
)

// Key prefixes and bare flags understood by a Selection.
const (
	StatusPrefix   = "status:"
	TeamPrefix     = "team:"
	UnassignedKey  = StatusPrefix + "UNASSIGNED"
	RecommendedKey = "recommended"
)

// StatusKey returns the selection key for a folder.
func StatusKey(folder project.FolderKey) string {
	return StatusPrefix + string(folder)
}

// TeamKey returns the selection key for a team label or id.
func TeamKey(team string) string {
	return TeamPrefix + team
}

// Selection is an immutable set of namespaced filter keys.
type Selection struct {
	keys map[string]struct{}
}

// NewSelection builds a selection from keys; blanks are ignored.
func NewSelection(keys ...string) Selection {
	s := Selection{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			s.keys[k] = struct{}{}
		}
	}
	return s
}

// Has reports whether key is selected.
func (s Selection) Has(key string) bool {
	_, ok := s.keys[key]
	return ok
}

// Len returns the number of selected keys.
func (s Selection) Len() int {
	return len(s.keys)
}

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool {
	return len(s.keys) == 0
}

// Keys returns the selected keys sorted.
func (s Selection) Keys() []string {
	out := make([]string, 0, len(s.keys))
	for k := range s.keys {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Toggle returns a copy with key flipped.
func (s Selection) Toggle(key string) Selection {
	next := NewSelection(s.Keys()...)
	if next.Has(key) {
		delete(next.keys, key)
	} else if key = strings.TrimSpace(key); key != "" {
		next.keys[key] = struct{}{}
	}
	return next
}

// Equal reports set equality.
func (s Selection) Equal(other Selection) bool {
	if len(s.keys) != len(other.keys) {
		return false
	}
	for k := range s.keys {
		if !other.Has(k) {
			return false
		}
	}
	return true
}

// IsActive reports whether the selection narrows anything compared to the
// defaults. An empty selection is not active.
func (s Selection) IsActive(defaults Selection) bool {
	if s.Empty() {
		return false
	}
	return !s.Equal(defaults)
}

// Folders returns the selected folder keys, excluding the unassigned flag.
func (s Selection) Folders() map[project.FolderKey]bool {
	out := map[project.FolderKey]bool{}
	for k := range s.keys {
		if k == UnassignedKey || !strings.HasPrefix(k, StatusPrefix) {
			continue
		}
		out[project.FolderKey(strings.TrimPrefix(k, StatusPrefix))] = true
	}
	return out
}

// Unassigned reports whether the unassigned-only flag is selected.
func (s Selection) Unassigned() bool {
	return s.Has(UnassignedKey)
}

// Recommended reports whether the recommended-only flag is selected.
func (s Selection) Recommended() bool {
	return s.Has(RecommendedKey)
}

// Teams returns the selected team values. When normalize is set, labels are
// trimmed and lower-cased; blanks are dropped either way.
func (s Selection) Teams(normalize bool) map[string]bool {
	out := map[string]bool{}
	for k := range s.keys {
		if !strings.HasPrefix(k, TeamPrefix) {
			continue
		}
		team := strings.TrimPrefix(k, TeamPrefix)
		if normalize {
			team = user.NormalizeTeam(team)
		}
		if team != "" {
			out[team] = true
		}
	}
	return out
}

// AvailableTeams returns the distinct team labels among users, sorted. Labels
// that normalise to the same key collapse to the first one seen.
func AvailableTeams(users []user.Summary) []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range users {
		label := strings.TrimSpace(u.Team)
		key := user.NormalizeTeam(label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// SeedSelection is every folder plus every team. The unassigned flag is not
// part of the seed because selecting it narrows to memberless projects.
func SeedSelection(teams []string) Selection {
	keys := make([]string, 0, len(project.Folders)+len(teams))
	for _, f := range project.Folders {
		keys = append(keys, StatusKey(f.Key))
	}
	for _, t := range teams {
		keys = append(keys, TeamKey(t))
	}
	return NewSelection(keys...)
}

// DefaultSelection is the reference set IsActive compares against: every
// folder, the unassigned flag and every team.
func DefaultSelection(teams []string) Selection {
	keys := append(SeedSelection(teams).Keys(), UnassignedKey)
	return NewSelection(keys...)
}

// Seeder seeds the dashboard selection exactly once.
type Seeder struct {
	seeded bool
}

// Seed returns the selection to use after the team set has been observed.
// The first call replaces an empty selection with SeedSelection; an explicit
// selection is kept. Later calls never change the selection.
func (s *Seeder) Seed(current Selection, teams []string) (Selection, bool) {
	if s.seeded {
		return current, false
	}
	s.seeded = true
	if !current.Empty() {
		return current, false
	}
	return SeedSelection(teams), true
}

// Seeded reports whether Seed already ran.
func (s *Seeder) Seeded() bool {
	return s.seeded
}

// Reset arms the seeder again, e.g. after a workspace switch.
func (s *Seeder) Reset() {
	s.seeded = false
}

func containsAll(set map[string]bool, keys []string) bool {
	return len(keys) > 0 && !slices.ContainsFunc(keys, func(k string) bool { return !set[k] })
}

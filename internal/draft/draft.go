// Package draft tracks edits to a selected project or widget configuration
// against the value they started from.
package draft

import (
	"errors"
	"slices"
	"strings"

	"github.com/ganot/pmdash/internal/domain/project"
)

// ErrNoDraft is returned when an operation needs an open draft.
var ErrNoDraft = errors.New("no project selected")

// Draft is the editable copy of a project's mutable fields.
type Draft struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      project.Status `json:"status"`
	MemberIDs   []string       `json:"memberIds"`
}

// Begin creates a draft from p. The name is copied as is; clamping happens
// when the payload is built.
func Begin(p project.Project) Draft {
	members := slices.Clone(p.MemberIDs)
	if members == nil {
		members = []string{}
	}
	return Draft{
		Name:        p.Name,
		Description: p.Description,
		Status:      p.EffectiveStatus(),
		MemberIDs:   members,
	}
}

// AddMember appends id unless already present.
func (d *Draft) AddMember(id string) {
	if id == "" || slices.Contains(d.MemberIDs, id) {
		return
	}
	d.MemberIDs = append(d.MemberIDs, id)
}

// RemoveMember drops every occurrence of id.
func (d *Draft) RemoveMember(id string) {
	d.MemberIDs = slices.DeleteFunc(d.MemberIDs, func(m string) bool { return m == id })
}

// Dirty compares d against the project it was taken from. Strings compare
// exactly, status with the NOT_STARTED default, and members as sorted lists
// so order is ignored but duplicates count.
func Dirty(original project.Project, d Draft) bool {
	if original.Name != d.Name || original.Description != d.Description {
		return true
	}
	status := d.Status
	if status == "" {
		status = project.StatusNotStarted
	}
	if original.EffectiveStatus() != status {
		return true
	}
	return memberKey(original.MemberIDs) != memberKey(d.MemberIDs)
}

func memberKey(ids []string) string {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	return strings.Join(sorted, "|")
}

// Payload builds the full update body: name trimmed and clamped, description
// trimmed (empty is omitted on the wire), members never nil.
func (d Draft) Payload(teamID string) project.Payload {
	members := slices.Clone(d.MemberIDs)
	if members == nil {
		members = []string{}
	}
	status := d.Status
	if status == "" {
		status = project.StatusNotStarted
	}
	return project.Payload{
		Name:        project.ClampTitle(strings.TrimSpace(d.Name)),
		Description: strings.TrimSpace(d.Description),
		Status:      status,
		TeamID:      teamID,
		MemberIDs:   members,
	}
}

// CloseAction is what a close request resolves to.
type CloseAction int

const (
	// CloseNone means nothing was open.
	CloseNone CloseAction = iota
	// Closed means the clean draft was discarded.
	Closed
	// SaveRequired means the draft is dirty and must be saved instead.
	SaveRequired
)

// Editor holds the selected project and its draft. Selecting another project
// or clearing the selection silently discards the draft.
type Editor struct {
	source *project.Project
	draft  Draft
}

// Select opens a fresh draft for p.
func (e *Editor) Select(p project.Project) {
	src := p.Clone()
	e.source = &src
	e.draft = Begin(src)
}

// Clear drops the selection and any draft.
func (e *Editor) Clear() {
	e.source = nil
	e.draft = Draft{}
}

// Selected returns the selected project id, or "".
func (e *Editor) Selected() string {
	if e.source == nil {
		return ""
	}
	return e.source.ID
}

// Source returns the project the draft was taken from.
func (e *Editor) Source() (project.Project, bool) {
	if e.source == nil {
		return project.Project{}, false
	}
	return e.source.Clone(), true
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() (Draft, bool) {
	if e.source == nil {
		return Draft{}, false
	}
	d := e.draft
	d.MemberIDs = slices.Clone(d.MemberIDs)
	return d, true
}

// Edit applies fn to the open draft.
func (e *Editor) Edit(fn func(*Draft)) error {
	if e.source == nil {
		return ErrNoDraft
	}
	fn(&e.draft)
	return nil
}

// Dirty reports whether the open draft differs from its source.
func (e *Editor) Dirty() bool {
	return e.source != nil && Dirty(*e.source, e.draft)
}

// Close closes a clean draft. A dirty draft stays open and SaveRequired is
// returned so the caller saves instead.
func (e *Editor) Close() CloseAction {
	switch {
	case e.source == nil:
		return CloseNone
	case e.Dirty():
		return SaveRequired
	default:
		e.Clear()
		return Closed
	}
}

// Refresh rebases the selection on a newer copy of the same project. The draft
// is rebuilt from it, so a saved draft reads clean afterwards.
func (e *Editor) Refresh(p project.Project) {
	if e.source == nil || e.source.ID != p.ID {
		return
	}
	e.Select(p)
}

package mcp

import (
	"encoding/base64"
	"testing"

	"github.com/ganot/pmdash/internal/domain/comment"
	"github.com/ganot/pmdash/internal/domain/workspace"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestTools_AddCommentWithAttachment(t *testing.T) {
	cs, api := newTestSession(t)
	login(t, cs, api)

	res := callTool(t, cs, "add_comment", map[string]any{
		"project_id":        "p1",
		"message":           "see file",
		"attachment_base64": "not base64!",
	})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "INVALID_INPUT")

	data := []byte("%PDF-1.4")
	att := comment.Attachment{ID: "a1", FileName: "brief.pdf", ContentType: "application/pdf", Size: int64(len(data))}
	api.On("UploadAttachment", mock.Anything, "brief.pdf", "application/pdf", data).Return(att, nil).Once()
	api.On("CreateComment", mock.Anything, "ws1", "p1", mock.MatchedBy(func(req comment.CreateRequest) bool {
		return req.Message == "see file" && req.Attachment != nil && req.Attachment.ID == "a1"
	})).Return(comment.Comment{ID: "c1"}, nil).Once()

	res = callTool(t, cs, "add_comment", map[string]any{
		"project_id":        "p1",
		"message":           "see file",
		"attachment_name":   "brief.pdf",
		"attachment_type":   "application/pdf",
		"attachment_base64": base64.StdEncoding.EncodeToString(data),
	})
	require.False(t, res.IsError, resultText(t, res))
	require.Equal(t, "Comment posted", resultText(t, res))
	api.AssertExpectations(t)
}

func TestTools_JoinWorkspacePending(t *testing.T) {
	cs, api := newTestSession(t)
	login(t, cs, api)

	api.On("JoinWorkspace", mock.Anything, "inv-1", "").
		Return(workspace.Workspace{ID: "ws2", Name: "Side", Status: "PENDING"}, nil).Once()

	res := callTool(t, cs, "join_workspace", map[string]any{"token": "inv-1"})
	require.False(t, res.IsError, resultText(t, res))
	require.Equal(t, "Request to join Side is waiting for approval", resultText(t, res))

	res = callTool(t, cs, "get_dashboard", nil)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "NOT_LOADED")
}

func TestTools_ResetDemoOutsideDemo(t *testing.T) {
	cs, api := newTestSession(t)
	login(t, cs, api)

	api.On("ListWorkspaces", mock.Anything).Return([]workspace.Workspace{{ID: "ws1", Name: "Main"}}, nil).Once()
	res := callTool(t, cs, "reset_demo", nil)
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "NOT_DEMO")
	api.AssertNotCalled(t, "ResetDemo", mock.Anything, mock.Anything)
}

func TestTools_CreateTeamRequiresName(t *testing.T) {
	cs, api := newTestSession(t)
	login(t, cs, api)

	res := callTool(t, cs, "create_team", map[string]any{"name": "  "})
	require.True(t, res.IsError)
	require.Contains(t, resultText(t, res), "INVALID_INPUT")
	api.AssertNotCalled(t, "CreateTeam", mock.Anything, mock.Anything, mock.Anything)
}

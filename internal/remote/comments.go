package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"

	"github.com/ganot/pmdash/internal/domain/comment"
)

// MaxUploadBytes is the largest attachment the backend accepts.
const MaxUploadBytes = 2 * 1024 * 1024

// UploadContentTypes are the accepted attachment content types.
var UploadContentTypes = []string{"image/jpeg", "image/png", "image/webp"}

var (
	// ErrUploadTooLarge indicates an attachment over MaxUploadBytes.
	ErrUploadTooLarge = errors.New("file exceeds 2MB")
	// ErrUploadType indicates an unsupported attachment content type.
	ErrUploadType = errors.New("unsupported file type")
)

// ListComments lists a project's comments.
func (c *Client) ListComments(ctx context.Context, workspaceID, projectID string) ([]comment.Comment, error) {
	var out []comment.Comment
	if err := c.get(ctx, routeProject+"/comments", projectPath(workspaceID, projectID)+"/comments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateComment appends a comment to a project.
func (c *Client) CreateComment(ctx context.Context, workspaceID, projectID string, req comment.CreateRequest) (comment.Comment, error) {
	var out comment.Comment
	if err := c.send(ctx, http.MethodPost, routeProject+"/comments", projectPath(workspaceID, projectID)+"/comments", req, &out); err != nil {
		return comment.Comment{}, err
	}
	return out, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, workspaceID, commentID string) error {
	path := workspacePath(workspaceID) + "/comments/" + escape(commentID)
	return c.send(ctx, http.MethodDelete, "/api/workspaces/{ws}/comments/{id}", path, nil, nil)
}

// ToggleReaction adds or removes the caller's reaction and returns the updated comment.
func (c *Client) ToggleReaction(ctx context.Context, workspaceID, commentID string, reaction comment.ReactionType) (comment.Comment, error) {
	var out comment.Comment
	path := workspacePath(workspaceID) + "/comments/" + escape(commentID) + "/reactions"
	body := struct {
		Type comment.ReactionType `json:"type"`
	}{Type: reaction}
	if err := c.send(ctx, http.MethodPost, "/api/workspaces/{ws}/comments/{id}/reactions", path, body, &out); err != nil {
		return comment.Comment{}, err
	}
	return out, nil
}

// UploadAttachment uploads an image for use as a comment attachment.
func (c *Client) UploadAttachment(ctx context.Context, fileName, contentType string, data []byte) (comment.Attachment, error) {
	if len(data) > MaxUploadBytes {
		return comment.Attachment{}, ErrUploadTooLarge
	}
	if !slices.Contains(UploadContentTypes, contentType) {
		return comment.Attachment{}, ErrUploadType
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return comment.Attachment{}, fmt.Errorf("creating multipart part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return comment.Attachment{}, fmt.Errorf("writing multipart part: %w", err)
	}
	if err := w.Close(); err != nil {
		return comment.Attachment{}, fmt.Errorf("closing multipart body: %w", err)
	}

	var out comment.Attachment
	err = c.do(ctx, call{
		method:      http.MethodPost,
		route:       "/api/uploads",
		path:        "/api/uploads",
		raw:         buf.Bytes(),
		contentType: w.FormDataContentType(),
	}, &out)
	if err != nil {
		return comment.Attachment{}, err
	}
	return out, nil
}

package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pohangstory/storyteller/internal/album"
	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/errors"
	"github.com/pohangstory/storyteller/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db         *sql.DB
	cfg        *config.Config
	classifier *album.Classifier
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg, classifier: &album.Classifier{}}
}

// parseRequest binds loosely typed tool-call arguments to a handler's
// request struct. Arguments arrive as map[string]any, so they are
// re-encoded as JSON and decoded against the struct tags rather than
// asserted field by field; anything that does not fit the tool schema
// comes back as an INVALID_REQUEST the caller can hand to errorResult.
func parseRequest[T any](req mcp.CallToolRequest) (T, *errors.StoryError) {
	var out T
	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, errors.NewInvalidRequest("arguments are not valid JSON: " + err.Error())
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, errors.NewInvalidRequest("arguments do not match the tool schema: " + err.Error())
	}
	return out, nil
}

// Request types for each tool

// StoreRequest represents the arguments for item_store.
type StoreRequest struct {
	Trip            string   `json:"trip,omitempty"`
	Kind            string   `json:"kind"`
	Title           string   `json:"title"`
	Caption         *string  `json:"caption,omitempty"`
	ContentRef      *string  `json:"content_ref,omitempty"`
	Location        *string  `json:"location,omitempty"`
	TakenAt         *int64   `json:"taken_at,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Lat             *float64 `json:"lat,omitempty"`
	Lng             *float64 `json:"lng,omitempty"`
	DurationSeconds *int     `json:"duration_seconds,omitempty"`
	FileSizeBytes   *int64   `json:"file_size_bytes,omitempty"`
}

// FetchRequest represents the arguments for item_fetch.
type FetchRequest struct {
	ID             string `json:"id"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// ListRequest represents the arguments for item_list.
type ListRequest struct {
	Trip           string `json:"trip,omitempty"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// SearchRequest represents the arguments for item_search.
type SearchRequest struct {
	Trip           string `json:"trip,omitempty"`
	Query          string `json:"query"`
	Limit          int    `json:"limit,omitempty"`
	Offset         int    `json:"offset,omitempty"`
	IncludeDeleted bool   `json:"include_deleted,omitempty"`
}

// UpdateRequest represents the arguments for item_update.
type UpdateRequest struct {
	ID              string    `json:"id"`
	Title           *string   `json:"title,omitempty"`
	Caption         *string   `json:"caption,omitempty"`
	ContentRef      *string   `json:"content_ref,omitempty"`
	Location        *string   `json:"location,omitempty"`
	TakenAt         *int64    `json:"taken_at,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	Lat             *float64  `json:"lat,omitempty"`
	Lng             *float64  `json:"lng,omitempty"`
	DurationSeconds *int      `json:"duration_seconds,omitempty"`
	FileSizeBytes   *int64    `json:"file_size_bytes,omitempty"`
}

// DeleteRequest represents the arguments for item_delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ExportRequest represents the arguments for item_export.
type ExportRequest struct {
	Path           string  `json:"path,omitempty"`
	Trip           *string `json:"trip,omitempty"`
	IncludeDeleted bool    `json:"include_deleted,omitempty"`
}

// ImportRequest represents the arguments for item_import.
type ImportRequest struct {
	Path string `json:"path"`
	Mode string `json:"mode,omitempty"`
}

// PurgeRequest represents the arguments for item_purge.
type PurgeRequest struct {
	Trip          *string `json:"trip,omitempty"`
	OlderThanDays *int    `json:"older_than_days,omitempty"`
}

// CollectRequest represents the arguments for stamp_collect.
type CollectRequest struct {
	Trip      string  `json:"trip,omitempty"`
	QRPayload string  `json:"qr_payload"`
	Location  *string `json:"location,omitempty"`
}

// StampsRequest represents the arguments for stamp_list.
type StampsRequest struct {
	Trip string `json:"trip,omitempty"`
}

// ClassifyRequest represents the arguments for album_classify.
type ClassifyRequest struct {
	Trip     string `json:"trip,omitempty"`
	Strategy string `json:"strategy"`
}

// RecommendRequest represents the arguments for course_recommend.
type RecommendRequest struct {
	Theme string `json:"theme,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// Handler implementations

// HandleStore handles the item_store tool call.
func (h *Handlers) HandleStore(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[StoreRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Store(ctx, h.db, h.cfg, ops.StoreInput{
		Trip:            input.Trip,
		Kind:            input.Kind,
		Title:           input.Title,
		Caption:         input.Caption,
		ContentRef:      input.ContentRef,
		Location:        input.Location,
		TakenAt:         input.TakenAt,
		Tags:            input.Tags,
		Lat:             input.Lat,
		Lng:             input.Lng,
		DurationSeconds: input.DurationSeconds,
		FileSizeBytes:   input.FileSizeBytes,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the item_fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[FetchRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Fetch(h.db, ops.FetchInput{
		ID:             input.ID,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the item_list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[ListRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Trip:           input.Trip,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleSearch handles the item_search tool call.
func (h *Handlers) HandleSearch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[SearchRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Search(h.db, ops.SearchInput{
		Trip:           input.Trip,
		Query:          input.Query,
		Limit:          input.Limit,
		Offset:         input.Offset,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleUpdate handles the item_update tool call.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[UpdateRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Update(h.db, h.cfg, ops.UpdateInput{
		ID:              input.ID,
		Title:           input.Title,
		Caption:         input.Caption,
		ContentRef:      input.ContentRef,
		Location:        input.Location,
		TakenAt:         input.TakenAt,
		Tags:            input.Tags,
		Lat:             input.Lat,
		Lng:             input.Lng,
		DurationSeconds: input.DurationSeconds,
		FileSizeBytes:   input.FileSizeBytes,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the item_delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[DeleteRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the item_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[ExportRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:           input.Path,
		Trip:           input.Trip,
		IncludeDeleted: input.IncludeDeleted,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleImport handles the item_import tool call.
func (h *Handlers) HandleImport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[ImportRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Import(h.db, h.cfg, ops.ImportInput{
		Path: input.Path,
		Mode: ops.ImportMode(input.Mode),
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandlePurge handles the item_purge tool call.
func (h *Handlers) HandlePurge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[PurgeRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Purge(h.db, ops.PurgeInput{
		Trip:          input.Trip,
		OlderThanDays: input.OlderThanDays,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleCollect handles the stamp_collect tool call.
func (h *Handlers) HandleCollect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[CollectRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Collect(ctx, h.db, h.cfg, ops.CollectInput{
		Trip:      input.Trip,
		QRPayload: input.QRPayload,
		Location:  input.Location,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleStamps handles the stamp_list tool call.
func (h *Handlers) HandleStamps(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[StampsRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Stamps(h.db, ops.StampsInput{Trip: input.Trip})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleClassify handles the album_classify tool call.
func (h *Handlers) HandleClassify(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[ClassifyRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Classify(h.db, h.classifier, ops.ClassifyInput{
		Trip:     input.Trip,
		Strategy: input.Strategy,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRecommend handles the course_recommend tool call.
func (h *Handlers) HandleRecommend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, argErr := parseRequest[RecommendRequest](req)
	if argErr != nil {
		return errorResult(argErr), nil
	}

	result, err := ops.Recommend(ctx, h.db, h.cfg, ops.RecommendInput{
		Theme: input.Theme,
		Limit: input.Limit,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if sErr, ok := err.(*errors.StoryError); ok {
		errorObj := map[string]any{
			"code":    sErr.Code,
			"message": sErr.Message,
			"status":  sErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			errorObj["details"] = sErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

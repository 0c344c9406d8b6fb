package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/db"
	"github.com/pohangstory/storyteller/internal/errors"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	return database, cfg
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if len(result.Content) == 0 {
		t.Fatal("result has no content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

// storeItem stores an item through the MCP handler and returns its id.
func storeItem(t *testing.T, h *Handlers, args map[string]any) string {
	t.Helper()
	result, err := h.HandleStore(context.Background(), makeRequest(args))
	if err != nil {
		t.Fatalf("HandleStore failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleStore returned error: %s", resultText(t, result))
	}

	var payload struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("parse store result: %v", err)
	}
	return payload.ID
}

func TestHandleStoreAndFetch(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	id := storeItem(t, h, map[string]any{
		"trip":     "Winter Trip",
		"kind":     "photo",
		"title":    "호미곶 일출",
		"location": "호미곶",
		"tags":     []any{"일출", "자연"},
	})

	result, err := h.HandleFetch(context.Background(), makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("HandleFetch failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleFetch error: %s", resultText(t, result))
	}
	if !strings.Contains(resultText(t, result), "호미곶 일출") {
		t.Error("fetch result missing item title")
	}
}

func TestHandleStore_ValidationError(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleStore(context.Background(), makeRequest(map[string]any{
		"kind": "audio", "title": "x",
	}))
	if err != nil {
		t.Fatalf("HandleStore failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected IsError for invalid kind")
	}

	var payload struct {
		Error struct {
			Code   string `json:"code"`
			Status int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("parse error payload: %v", err)
	}
	if payload.Error.Code != string(errors.ErrInvalidRequest) || payload.Error.Status != 400 {
		t.Errorf("error payload = %+v", payload.Error)
	}
}

func TestParseRequest_MismatchedArguments(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	// A numeric id cannot bind to the string field in the tool schema.
	result, err := h.HandleFetch(context.Background(), makeRequest(map[string]any{
		"id": 12345,
	}))
	if err != nil {
		t.Fatalf("HandleFetch failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("mismatched argument types should produce an error result")
	}

	var payload struct {
		Error struct {
			Code   string `json:"code"`
			Status int    `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("parse error payload: %v", err)
	}
	if payload.Error.Code != string(errors.ErrInvalidRequest) || payload.Error.Status != 400 {
		t.Errorf("error payload = %+v, want INVALID_REQUEST/400", payload.Error)
	}
}

func TestHandleListAndSearch(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	storeItem(t, h, map[string]any{"kind": "photo", "title": "죽도시장 물회"})
	storeItem(t, h, map[string]any{"kind": "photo", "title": "영일대 산책"})

	result, err := h.HandleList(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleList failed: %v", err)
	}
	var listPayload struct {
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &listPayload); err != nil {
		t.Fatalf("parse list result: %v", err)
	}
	if listPayload.Pagination.Total != 2 {
		t.Errorf("Total = %d, want 2", listPayload.Pagination.Total)
	}

	result, err = h.HandleSearch(context.Background(), makeRequest(map[string]any{"query": "물회"}))
	if err != nil {
		t.Fatalf("HandleSearch failed: %v", err)
	}
	if !strings.Contains(resultText(t, result), "죽도시장 물회") {
		t.Error("search result missing matching item")
	}
}

func TestHandleUpdateAndDelete(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	id := storeItem(t, h, map[string]any{"kind": "text", "title": "옛 제목"})

	result, err := h.HandleUpdate(context.Background(), makeRequest(map[string]any{
		"id": id, "title": "새 제목",
	}))
	if err != nil {
		t.Fatalf("HandleUpdate failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleUpdate error: %s", resultText(t, result))
	}

	result, err = h.HandleDelete(context.Background(), makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("HandleDelete failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleDelete error: %s", resultText(t, result))
	}

	result, err = h.HandleFetch(context.Background(), makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("HandleFetch failed: %v", err)
	}
	if !result.IsError {
		t.Error("fetch after delete should be an error result")
	}
	if !strings.Contains(resultText(t, result), string(errors.ErrNotFound)) {
		t.Errorf("error payload = %s, want NOT_FOUND", resultText(t, result))
	}
}

func TestHandleCollectAndStamps(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleCollect(context.Background(), makeRequest(map[string]any{
		"qr_payload": "pohang-stamp:homigot-sunrise:호미곶 해맞이광장",
	}))
	if err != nil {
		t.Fatalf("HandleCollect failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleCollect error: %s", resultText(t, result))
	}

	// Second collection conflicts.
	result, err = h.HandleCollect(context.Background(), makeRequest(map[string]any{
		"qr_payload": "pohang-stamp:homigot-sunrise",
	}))
	if err != nil {
		t.Fatalf("HandleCollect failed: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), string(errors.ErrAlreadyCollected)) {
		t.Errorf("duplicate collect = %s, want ALREADY_COLLECTED", resultText(t, result))
	}

	result, err = h.HandleStamps(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleStamps failed: %v", err)
	}
	var stampsPayload struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &stampsPayload); err != nil {
		t.Fatalf("parse stamps result: %v", err)
	}
	if stampsPayload.Total != 1 {
		t.Errorf("Total = %d, want 1", stampsPayload.Total)
	}
}

func TestHandleClassify(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	storeItem(t, h, map[string]any{"kind": "photo", "title": "바다 사진", "location": "영일대"})

	result, err := h.HandleClassify(context.Background(), makeRequest(map[string]any{
		"strategy": "location",
	}))
	if err != nil {
		t.Fatalf("HandleClassify failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleClassify error: %s", resultText(t, result))
	}

	var payload struct {
		Albums []struct {
			ID    string `json:"id"`
			Items []any  `json:"items"`
		} `json:"albums"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("parse classify result: %v", err)
	}
	if len(payload.Albums) != 1 || len(payload.Albums[0].Items) != 1 {
		t.Errorf("albums = %+v, want one album with one item", payload.Albums)
	}

	// Bad strategy surfaces as INVALID_REQUEST.
	result, err = h.HandleClassify(context.Background(), makeRequest(map[string]any{"strategy": "magic"}))
	if err != nil {
		t.Fatalf("HandleClassify failed: %v", err)
	}
	if !result.IsError || !strings.Contains(resultText(t, result), string(errors.ErrInvalidRequest)) {
		t.Error("bad strategy should produce INVALID_REQUEST")
	}
}

func TestHandleRecommend(t *testing.T) {
	database, cfg := testSetup(t)
	h := NewHandlers(database, cfg)

	result, err := h.HandleRecommend(context.Background(), makeRequest(map[string]any{"theme": "food"}))
	if err != nil {
		t.Fatalf("HandleRecommend failed: %v", err)
	}
	if result.IsError {
		t.Fatalf("HandleRecommend error: %s", resultText(t, result))
	}

	var payload struct {
		Source  string `json:"source"`
		Courses []struct {
			Theme string `json:"theme"`
		} `json:"courses"`
	}
	if err := json.Unmarshal([]byte(resultText(t, result)), &payload); err != nil {
		t.Fatalf("parse recommend result: %v", err)
	}
	if payload.Source != "local" {
		t.Errorf("Source = %q, want local", payload.Source)
	}
	for _, c := range payload.Courses {
		if c.Theme != "food" {
			t.Errorf("course theme = %q, want food", c.Theme)
		}
	}
}

func TestToolRegistry(t *testing.T) {
	names := AllToolNames()
	if len(names) != 13 {
		t.Errorf("registry has %d tools, want 13", len(names))
	}

	unknown := ValidateDisabledTools([]string{"item_store", "bogus_tool"})
	if len(unknown) != 1 || unknown[0] != "bogus_tool" {
		t.Errorf("unknown tools = %v", unknown)
	}

	unknown = ValidateDisabledTypes([]string{"item", "course", "widget"})
	if len(unknown) != 1 || unknown[0] != "widget" {
		t.Errorf("unknown types = %v", unknown)
	}
}

func TestGetTypeForTool(t *testing.T) {
	if got := GetTypeForTool("item_store"); got != "item" {
		t.Errorf("GetTypeForTool = %q, want item", got)
	}
	if got := GetTypeForTool("course_recommend"); got != "course" {
		t.Errorf("GetTypeForTool = %q, want course", got)
	}
	if got := GetTypeForTool("noseparator"); got != "" {
		t.Errorf("GetTypeForTool = %q, want empty", got)
	}
}

func TestExpandTypesToTools(t *testing.T) {
	tools := ExpandTypesToTools([]string{"stamp"})
	if len(tools) != 2 {
		t.Errorf("stamp tools = %v, want stamp_collect and stamp_list", tools)
	}

	if got := ExpandTypesToTools(nil); got != nil {
		t.Errorf("ExpandTypesToTools(nil) = %v, want nil", got)
	}
}

func TestNewServer_DisablesTools(t *testing.T) {
	database, cfg := testSetup(t)
	cfg.DisabledTools = []string{"item_purge"}
	cfg.DisabledTypes = []string{"course"}

	s := NewServer(database, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}

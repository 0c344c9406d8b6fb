package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var itemStoreToolDef = mcp.NewTool("item_store",
	mcp.WithDescription("Store a new piece of travel content (photo, video, text note, or stamp) in a trip."),
	mcp.WithString("trip", mcp.Description("Trip name. Defaults to \"default\".")),
	mcp.WithString("kind", mcp.Required(), mcp.Description("Content kind: stamp, photo, video, or text.")),
	mcp.WithString("title", mcp.Required(), mcp.Description("Human-readable title. Classification matches keywords against it.")),
	mcp.WithString("caption", mcp.Description("Optional markdown note attached to the item.")),
	mcp.WithString("content_ref", mcp.Description("Opaque URL or locator for the underlying media.")),
	mcp.WithString("location", mcp.Description("Literal place string used for location grouping.")),
	mcp.WithNumber("taken_at", mcp.Description("Unix timestamp when the content was captured.")),
	mcp.WithArray("tags", mcp.Description("Free-text labels."), mcp.WithStringItems()),
	mcp.WithNumber("lat", mcp.Description("Latitude. Set together with lng.")),
	mcp.WithNumber("lng", mcp.Description("Longitude. Set together with lat.")),
	mcp.WithNumber("duration_seconds", mcp.Description("Length of video content in seconds.")),
	mcp.WithNumber("file_size_bytes", mcp.Description("Stored size of the content in bytes.")),
)

var itemFetchToolDef = mcp.NewTool("item_fetch",
	mcp.WithDescription("Fetch a single content item by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items.")),
)

var itemListToolDef = mcp.NewTool("item_list",
	mcp.WithDescription("List a trip's content items, most recently updated first."),
	mcp.WithString("trip", mcp.Description("Trip name. Defaults to \"default\".")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items.")),
)

var itemSearchToolDef = mcp.NewTool("item_search",
	mcp.WithDescription("Search a trip's items by title, caption, location, or tags."),
	mcp.WithString("query", mcp.Required(), mcp.Description("Search text.")),
	mcp.WithString("trip", mcp.Description("Trip name. Defaults to \"default\".")),
	mcp.WithNumber("limit", mcp.Description("Page size (default 20, max 100).")),
	mcp.WithNumber("offset", mcp.Description("Pagination offset.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items.")),
)

var itemUpdateToolDef = mcp.NewTool("item_update",
	mcp.WithDescription("Update an existing item. Omitted fields are left unchanged; id, trip, and kind are immutable."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID.")),
	mcp.WithString("title", mcp.Description("New title.")),
	mcp.WithString("caption", mcp.Description("New caption. Empty string clears it.")),
	mcp.WithString("content_ref", mcp.Description("New content locator.")),
	mcp.WithString("location", mcp.Description("New location string.")),
	mcp.WithNumber("taken_at", mcp.Description("New capture timestamp (Unix).")),
	mcp.WithArray("tags", mcp.Description("Replacement tag list."), mcp.WithStringItems()),
	mcp.WithNumber("lat", mcp.Description("New latitude. Set together with lng.")),
	mcp.WithNumber("lng", mcp.Description("New longitude. Set together with lat.")),
	mcp.WithNumber("duration_seconds", mcp.Description("New video duration in seconds.")),
	mcp.WithNumber("file_size_bytes", mcp.Description("New content size in bytes.")),
)

var itemDeleteToolDef = mcp.NewTool("item_delete",
	mcp.WithDescription("Soft-delete an item. Deleted items are excluded from listing, search, and classification until purged."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Item ULID.")),
)

var itemExportToolDef = mcp.NewTool("item_export",
	mcp.WithDescription("Export items to a JSONL file under ~/.storyteller/exports."),
	mcp.WithString("path", mcp.Description("Export file path (.jsonl). Defaults to ~/.storyteller/exports/<trip>-<timestamp>.jsonl.")),
	mcp.WithString("trip", mcp.Description("Restrict the export to one trip.")),
	mcp.WithBoolean("include_deleted", mcp.Description("Include soft-deleted items.")),
)

var itemImportToolDef = mcp.NewTool("item_import",
	mcp.WithDescription("Import items from a JSONL export file."),
	mcp.WithString("path", mcp.Required(), mcp.Description("Import file path (.jsonl).")),
	mcp.WithString("mode", mcp.Description("Collision behavior: error (default, atomic), replace, or skip.")),
)

var itemPurgeToolDef = mcp.NewTool("item_purge",
	mcp.WithDescription("Permanently remove soft-deleted items."),
	mcp.WithString("trip", mcp.Description("Restrict the purge to one trip.")),
	mcp.WithNumber("older_than_days", mcp.Description("Only purge items deleted at least this many days ago.")),
)

var stampCollectToolDef = mcp.NewTool("stamp_collect",
	mcp.WithDescription("Collect a QR stamp. Each place can be stamped once per trip; sync to the server is best-effort."),
	mcp.WithString("qr_payload", mcp.Required(), mcp.Description("Scanned QR payload: pohang-stamp:<place-id>[:<place-name>].")),
	mcp.WithString("trip", mcp.Description("Trip name. Defaults to \"default\".")),
	mcp.WithString("location", mcp.Description("Literal place string for album grouping.")),
)

var stampListToolDef = mcp.NewTool("stamp_list",
	mcp.WithDescription("List a trip's collected stamps with sync status."),
	mcp.WithString("trip", mcp.Description("Trip name. Defaults to \"default\".")),
)

var albumClassifyToolDef = mcp.NewTool("album_classify",
	mcp.WithDescription("Partition a trip's items into albums using a classification strategy."),
	mcp.WithString("strategy", mcp.Required(), mcp.Description("One of: date, location, theme, timeofday, activity, emotion, smart.")),
	mcp.WithString("trip", mcp.Description("Trip name. Defaults to \"default\".")),
)

var courseRecommendToolDef = mcp.NewTool("course_recommend",
	mcp.WithDescription("Recommend travel courses, via the remote service when configured, else by local popularity."),
	mcp.WithString("theme", mcp.Description("Optional theme filter: nature, history, food, culture, general.")),
	mcp.WithNumber("limit", mcp.Description("Maximum courses to return (default 5, max 20).")),
)

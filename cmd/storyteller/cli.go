package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/errors"
	"github.com/pohangstory/storyteller/internal/ops"
	"github.com/pohangstory/storyteller/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(db *sql.DB, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "storyteller",
		Usage:   "Pohang travel content companion",
		Version: Version,
		Commands: []*cli.Command{
			addCmd(db, cfg),
			fetchCmd(db),
			updateCmd(db, cfg),
			deleteCmd(db),
			listCmd(db),
			searchCmd(db),
			classifyCmd(db),
			stampCmd(db, cfg),
			stampsCmd(db),
			recommendCmd(db, cfg),
			exportCmd(db, cfg),
			importCmd(db, cfg),
			purgeCmd(db),
			serveCmd(db, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// addCmd creates the add command.
func addCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Store a new content item (optionally reads the caption from stdin)",
		ArgsUsage: "<title>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Value: "default", Usage: "Trip name"},
			&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: "text", Usage: "Content kind: stamp|photo|video|text"},
			&cli.StringFlag{Name: "caption", Aliases: []string{"c"}, Usage: "Markdown caption"},
			&cli.StringFlag{Name: "content-ref", Usage: "URL or locator for the media"},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Place string for location grouping"},
			&cli.Int64Flag{Name: "taken-at", Usage: "Capture time as Unix timestamp"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.Float64Flag{Name: "lat", Usage: "Latitude (set together with --lng)"},
			&cli.Float64Flag{Name: "lng", Usage: "Longitude (set together with --lat)"},
			&cli.IntFlag{Name: "duration", Usage: "Video duration in seconds"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("title argument is required"))
			}

			input := ops.StoreInput{
				Trip:  c.String("trip"),
				Kind:  c.String("kind"),
				Title: strings.Join(c.Args().Slice(), " "),
			}

			if caption := c.String("caption"); caption != "" {
				input.Caption = &caption
			} else if stdinHasData() {
				// Caption piped via stdin
				text, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				if text != "" {
					input.Caption = &text
				}
			}
			if ref := c.String("content-ref"); ref != "" {
				input.ContentRef = &ref
			}
			if loc := c.String("location"); loc != "" {
				input.Location = &loc
			}
			if c.IsSet("taken-at") {
				takenAt := c.Int64("taken-at")
				input.TakenAt = &takenAt
			}
			if tags := c.String("tags"); tags != "" {
				input.Tags = parseTags(tags)
			}
			if c.IsSet("lat") {
				lat := c.Float64("lat")
				input.Lat = &lat
			}
			if c.IsSet("lng") {
				lng := c.Float64("lng")
				input.Lng = &lng
			}
			if c.IsSet("duration") {
				duration := c.Int("duration")
				input.DurationSeconds = &duration
			}

			output, err := ops.Store(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a content item by ID",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted items"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}

			output, err := ops.Fetch(db, ops.FetchInput{
				ID:             c.Args().First(),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command.
func updateCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Update an existing item (omitted flags leave fields unchanged)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "New title"},
			&cli.StringFlag{Name: "caption", Usage: "New caption (empty string clears it)"},
			&cli.StringFlag{Name: "content-ref", Usage: "New content locator"},
			&cli.StringFlag{Name: "location", Usage: "New place string"},
			&cli.Int64Flag{Name: "taken-at", Usage: "New capture time as Unix timestamp"},
			&cli.StringFlag{Name: "tags", Usage: "Replacement comma-separated tags"},
			&cli.Float64Flag{Name: "lat", Usage: "New latitude (set together with --lng)"},
			&cli.Float64Flag{Name: "lng", Usage: "New longitude (set together with --lat)"},
			&cli.IntFlag{Name: "duration", Usage: "New video duration in seconds"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}

			input := ops.UpdateInput{ID: c.Args().First()}

			if c.IsSet("title") {
				title := c.String("title")
				input.Title = &title
			}
			if c.IsSet("caption") {
				caption := c.String("caption")
				input.Caption = &caption
			}
			if c.IsSet("content-ref") {
				ref := c.String("content-ref")
				input.ContentRef = &ref
			}
			if c.IsSet("location") {
				loc := c.String("location")
				input.Location = &loc
			}
			if c.IsSet("taken-at") {
				takenAt := c.Int64("taken-at")
				input.TakenAt = &takenAt
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				input.Tags = &tags
			}
			if c.IsSet("lat") {
				lat := c.Float64("lat")
				input.Lat = &lat
			}
			if c.IsSet("lng") {
				lng := c.Float64("lng")
				input.Lng = &lng
			}
			if c.IsSet("duration") {
				duration := c.Int("duration")
				input.DurationSeconds = &duration
			}

			output, err := ops.Update(db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Soft-delete an item",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("id argument is required"))
			}

			output, err := ops.Delete(db, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List a trip's items, most recently updated first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Value: "default", Usage: "Trip name"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted items"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(db, ops.ListInput{
				Trip:           c.String("trip"),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// searchCmd creates the search command.
func searchCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Search a trip's items by title, caption, location, or tags",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Value: "default", Usage: "Trip name"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultListLimit, Usage: "Maximum items to return"},
			&cli.IntFlag{Name: "offset", Aliases: []string{"o"}, Value: 0, Usage: "Items to skip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted items"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("query argument is required"))
			}

			output, err := ops.Search(db, ops.SearchInput{
				Trip:           c.String("trip"),
				Query:          strings.Join(c.Args().Slice(), " "),
				Limit:          c.Int("limit"),
				Offset:         c.Int("offset"),
				IncludeDeleted: c.Bool("include-deleted"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// classifyCmd creates the classify command.
func classifyCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:      "classify",
		Usage:     "Partition a trip's items into albums",
		ArgsUsage: "<strategy>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Value: "default", Usage: "Trip name"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("strategy argument is required: date|location|theme|timeofday|activity|emotion|smart"))
			}

			output, err := ops.Classify(db, nil, ops.ClassifyInput{
				Trip:     c.String("trip"),
				Strategy: c.Args().First(),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// stampCmd creates the stamp command.
func stampCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "stamp",
		Usage:     "Collect a QR stamp",
		ArgsUsage: "<qr-payload>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Value: "default", Usage: "Trip name"},
			&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Place string for album grouping"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() == 0 {
				return outputError(errors.NewInvalidRequest("qr payload argument is required"))
			}

			input := ops.CollectInput{
				Trip:      c.String("trip"),
				QRPayload: c.Args().First(),
			}
			if loc := c.String("location"); loc != "" {
				input.Location = &loc
			}

			output, err := ops.Collect(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// stampsCmd creates the stamps command.
func stampsCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "stamps",
		Usage: "List a trip's collected stamps with sync status",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Value: "default", Usage: "Trip name"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Stamps(db, ops.StampsInput{Trip: c.String("trip")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// recommendCmd creates the recommend command.
func recommendCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "recommend",
		Usage: "Recommend travel courses",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "theme", Usage: "Theme filter: nature|history|food|culture|general"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultCourseLimit, Usage: "Maximum courses to return"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Recommend(c.Context, db, cfg, ops.RecommendInput{
				Theme: c.String("theme"),
				Limit: c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// exportCmd creates the export command.
func exportCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export items to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.storyteller/exports/<trip>-<timestamp>.jsonl)"},
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Usage: "Restrict the export to one trip"},
			&cli.BoolFlag{Name: "include-deleted", Usage: "Include soft-deleted items"},
		},
		Action: func(c *cli.Context) error {
			input := ops.ExportInput{
				Path:           c.String("path"),
				IncludeDeleted: c.Bool("include-deleted"),
			}

			if trip := c.String("trip"); trip != "" {
				input.Trip = &trip
			}

			output, err := ops.Export(c.Context, db, cfg, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// importCmd creates the import command.
func importCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import items from a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Required: true, Usage: "Import file path"},
			&cli.StringFlag{Name: "mode", Aliases: []string{"m"}, Value: "error", Usage: "Collision mode: error|replace|skip"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Import(db, cfg, ops.ImportInput{
				Path: c.String("path"),
				Mode: ops.ImportMode(c.String("mode")),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// purgeCmd creates the purge command.
func purgeCmd(db *sql.DB) *cli.Command {
	return &cli.Command{
		Name:  "purge",
		Usage: "Permanently delete soft-deleted items",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "trip", Aliases: []string{"t"}, Usage: "Restrict the purge to one trip"},
			&cli.StringFlag{Name: "older-than", Usage: "Only purge if deleted more than N days ago (e.g., 7d)"},
		},
		Action: func(c *cli.Context) error {
			input := ops.PurgeInput{}

			if trip := c.String("trip"); trip != "" {
				input.Trip = &trip
			}
			if olderThan := c.String("older-than"); olderThan != "" {
				days, err := parseDuration(olderThan)
				if err != nil {
					return outputError(errors.NewInvalidRequest(err.Error()))
				}
				input.OlderThanDays = &days
			}

			output, err := ops.Purge(db, input)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command for the web UI.
func serveCmd(db *sql.DB, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the read-only web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Aliases: []string{"b"}, Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Value: 8787, Usage: "Listen port"},
		},
		Action: func(c *cli.Context) error {
			srv := web.NewServer(db, cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if storyErr, ok := err.(*errors.StoryError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", storyErr.Code, storyErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// parseDuration parses "7d" format to days.
func parseDuration(s string) (int, error) {
	if numStr, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(numStr)
		if err != nil {
			return 0, fmt.Errorf("invalid duration: %s", s)
		}
		if days < 0 {
			return 0, fmt.Errorf("duration must be non-negative")
		}
		return days, nil
	}
	return 0, fmt.Errorf("duration must end with 'd' (days), e.g., 7d")
}

package ops

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/pohangstory/storyteller/internal/config"
	"github.com/pohangstory/storyteller/internal/content"
	"github.com/pohangstory/storyteller/internal/db"
)

// DefaultSyncTimeout bounds each sync HTTP call when the config does
// not set one.
const DefaultSyncTimeout = 5 * time.Second

// stampSyncPayload is the JSON body POSTed to the sync endpoint.
type stampSyncPayload struct {
	StampID     string  `json:"stamp_id"`
	Trip        string  `json:"trip"`
	PlaceID     string  `json:"place_id"`
	PlaceName   *string `json:"place_name,omitempty"`
	CollectedAt int64   `json:"collected_at"`
}

// SyncStamps pushes all unsynced stamps for a trip to the configured
// endpoint, oldest first. Each success is marked in the database so
// retries only cover the remaining backlog. Errors are logged and
// swallowed; the return value reports whether the backlog is empty
// afterwards.
func SyncStamps(ctx context.Context, database *sql.DB, cfg *config.Config, tripNorm string) bool {
	if cfg == nil || cfg.SyncEndpoint == "" {
		return false
	}

	stamps, err := db.ListUnsyncedStamps(database, tripNorm)
	if err != nil {
		log.Printf("stamp sync: listing backlog failed: %v", err)
		return false
	}
	if len(stamps) == 0 {
		return true
	}

	timeout := DefaultSyncTimeout
	if cfg.SyncTimeoutSeconds > 0 {
		timeout = time.Duration(cfg.SyncTimeoutSeconds) * time.Second
	}
	client := &http.Client{Timeout: timeout}

	allSynced := true
	for _, stamp := range stamps {
		if err := pushStamp(ctx, client, cfg.SyncEndpoint, stamp); err != nil {
			log.Printf("stamp sync: %s (%s) failed: %v", stamp.ID, stamp.PlaceID, err)
			allSynced = false
			continue
		}
		if err := db.MarkStampSynced(database, stamp.ID); err != nil {
			log.Printf("stamp sync: marking %s synced failed: %v", stamp.ID, err)
			allSynced = false
		}
	}

	return allSynced
}

// pushStamp POSTs one stamp to the sync endpoint.
func pushStamp(ctx context.Context, client *http.Client, endpoint string, stamp *content.Stamp) error {
	payload := stampSyncPayload{
		StampID:     stamp.ID,
		Trip:        stamp.TripRaw,
		PlaceID:     stamp.PlaceID,
		PlaceName:   stamp.PlaceName,
		CollectedAt: stamp.CollectedAt,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpStatusError{status: resp.StatusCode}
	}
	return nil
}

type httpStatusError struct {
	status int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.status)
}

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// CaptionMaxChars is the maximum character count for item captions
	CaptionMaxChars int `json:"caption_max_chars"`

	// SyncEndpoint is the URL stamps are POSTed to after collection.
	// Empty disables the best-effort sync entirely.
	SyncEndpoint string `json:"sync_endpoint,omitempty"`

	// SyncTimeoutSeconds bounds each sync attempt. 0 means the default (5s).
	SyncTimeoutSeconds int `json:"sync_timeout_seconds,omitempty"`

	// RecommendEndpoint is the URL of the remote course recommendation
	// service. Empty means recommendations always use the local
	// popularity sort.
	RecommendEndpoint string `json:"recommend_endpoint,omitempty"`

	// RecommendTimeoutSeconds bounds each recommendation call. 0 means the default (5s).
	RecommendTimeoutSeconds int `json:"recommend_timeout_seconds,omitempty"`

	// AllowedPaths is an allowlist of directories for import/export operations.
	// Paths outside ~/.storyteller/exports require either being in this list
	// or AllowUnsafePaths=true. Paths should be absolute (relative paths are ignored).
	AllowedPaths []string `json:"allowed_paths,omitempty"`

	// AllowUnsafePaths disables directory restrictions for import/export.
	// When true, any directory is allowed (but symlink and extension checks still apply).
	AllowUnsafePaths bool `json:"allow_unsafe_paths,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized (reduces "database is locked" errors).
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of type names to disable entirely.
	// All tools belonging to disabled types are excluded from registration.
	// Known types: "item", "stamp", "album", "course".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// ExportRoots returns the directories import and export files may live
// in: the default exports directory plus any absolute entries from
// AllowedPaths. Relative allowlist entries are dropped; their meaning
// would shift with the working directory.
func (c *Config) ExportRoots(defaultDir string) []string {
	roots := []string{filepath.Clean(defaultDir)}
	if c == nil {
		return roots
	}
	for _, p := range c.AllowedPaths {
		if filepath.IsAbs(p) {
			roots = append(roots, filepath.Clean(p))
		}
	}
	return roots
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		CaptionMaxChars: 4000,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.storyteller.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both global (~/.storyteller) and
// repo-local (.storyteller) directories. Repo config is found by walking
// upward from startDir to find the nearest .storyteller/config.json.
// Repo config takes precedence for scalar values; arrays are merged
// (deduplicated). Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repoConfigPath := FindRepoConfig(startDir)
	repo, err := loadFileRaw(repoConfigPath)
	if err != nil {
		return nil, err
	}

	// Apply defaults, then global, then repo
	return Merge(Merge(DefaultConfig(), global), repo), nil
}

// FindRepoConfig walks upward from startDir to find the nearest
// .storyteller/config.json. Returns the path if found, or empty string.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, ".storyteller", "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root, not found
			return ""
		}
		dir = parent
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFile loads configuration from a specific file path.
// Returns default config if the file doesn't exist.
func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	// Scalars: overlay wins if non-zero, else base
	result.CaptionMaxChars = overlay.CaptionMaxChars
	if result.CaptionMaxChars == 0 {
		result.CaptionMaxChars = base.CaptionMaxChars
	}

	result.SyncEndpoint = overlay.SyncEndpoint
	if result.SyncEndpoint == "" {
		result.SyncEndpoint = base.SyncEndpoint
	}

	result.SyncTimeoutSeconds = overlay.SyncTimeoutSeconds
	if result.SyncTimeoutSeconds == 0 {
		result.SyncTimeoutSeconds = base.SyncTimeoutSeconds
	}

	result.RecommendEndpoint = overlay.RecommendEndpoint
	if result.RecommendEndpoint == "" {
		result.RecommendEndpoint = base.RecommendEndpoint
	}

	result.RecommendTimeoutSeconds = overlay.RecommendTimeoutSeconds
	if result.RecommendTimeoutSeconds == 0 {
		result.RecommendTimeoutSeconds = base.RecommendTimeoutSeconds
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	// Booleans: overlay wins if true, else base
	result.AllowUnsafePaths = base.AllowUnsafePaths || overlay.AllowUnsafePaths

	// Arrays: merge and deduplicate
	result.AllowedPaths = mergeStringSlice(base.AllowedPaths, overlay.AllowedPaths)
	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

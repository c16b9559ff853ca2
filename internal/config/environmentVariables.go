package config

import (
	"errors"
	"log/slog"
	"os"
	"time"
)

const (
	IS_PROD        = false
	LOG_LEVEL_PROD = slog.LevelInfo

	//supabase REST surface
	SupabaseRestPath      = "/rest/v1/"
	ClientsTable          = "clients"
	AppointmentsTable     = "appointments"
	ClinicalNotesTable    = "clinical_notes"
	BackendRequestTimeout = 30 * time.Second

	//backend write throttling
	BackendWritesPerSecond = 5
	BackendWriteBurst      = 10

	MaxIdleConns        = 50
	MaxIdleConnsPerHost = 25
	IdleConnTimeout     = 60 * time.Second

	//status server timeouts
	ReadTimeout  = 5 * time.Second
	WriteTimeout = 10 * time.Second
	IdleTimeout  = 120 * time.Second

	StatusListenAddr = ":3000"

	//redis name cache
	redisHost      = "127.0.0.1"
	redisPort      = "6379"
	RedisAddr      = redisHost + ":" + redisPort
	RedisPassword  = ""
	RedisNameCache = 0
	NameCacheTTL   = 7 * 24 * time.Hour

	//csv export
	DefaultExportDir = "migration_export"

	//google drive
	DriveTokenFile       = "token.json"
	DriveCredentialsFile = "credentials.json"
)

// Settings is the runtime configuration handed to the migration driver.
// Backend credentials are mandatory and checked once, before any record
// is processed.
type Settings struct {
	SupabaseURL string
	SupabaseKey string
	RedisAddr   string
	ListenAddr  string
	ExportDir   string
}

var ErrMissingBackendCredentials = errors.New("SUPABASE_URL and SUPABASE_SERVICE_ROLE_KEY must be set")

func Load() (Settings, error) {
	s := Settings{
		SupabaseURL: os.Getenv("SUPABASE_URL"),
		SupabaseKey: os.Getenv("SUPABASE_SERVICE_ROLE_KEY"),
		RedisAddr:   os.Getenv("REDIS_ADDR"),
		ListenAddr:  os.Getenv("STATUS_LISTEN_ADDR"),
		ExportDir:   os.Getenv("EXPORT_DIR"),
	}
	if s.SupabaseURL == "" || s.SupabaseKey == "" {
		return Settings{}, ErrMissingBackendCredentials
	}
	if s.RedisAddr == "" {
		s.RedisAddr = RedisAddr
	}
	if s.ListenAddr == "" {
		s.ListenAddr = StatusListenAddr
	}
	if s.ExportDir == "" {
		s.ExportDir = DefaultExportDir
	}
	return s, nil
}

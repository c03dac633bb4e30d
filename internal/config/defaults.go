package config

const (
	defaultStateDir             = "~/.local/share/reelpost"
	defaultLogDir               = "~/.local/share/reelpost/logs"
	defaultTelegramAPIBaseURL   = "https://api.telegram.org"
	defaultTelegramTimeout      = 15
	defaultTelegramPollTimeout  = 30
	defaultRequestButtonText    = "Movie Request Group"
	defaultCoalesceDelaySeconds = 10
	defaultTMDBBaseURL          = "https://api.themoviedb.org/3"
	defaultTMDBImageBaseURL     = "https://image.tmdb.org/t/p/original"
	defaultTMDBLanguage         = "en-US"
	defaultSearchAPIBaseURL     = "https://jisshuapis.vercel.app/api.php"
	defaultLookupTimeoutSeconds = 5
	defaultFallbackPosterURL    = "https://graph.org/file/ac3e879a72b7e0c90eb52-0b04163efc1dcbd378.jpg"
	defaultNotifyRequestTimeout = 10
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

var defaultSearchAPIPosterKeys = []string{"jisshu-4", "jisshu-3"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Telegram: Telegram{
			APIBaseURL:        defaultTelegramAPIBaseURL,
			RequestTimeout:    defaultTelegramTimeout,
			PollTimeout:       defaultTelegramPollTimeout,
			RequestButtonText: defaultRequestButtonText,
			Spoiler:           true,
		},
		Coalesce: Coalesce{
			DelaySeconds: defaultCoalesceDelaySeconds,
		},
		TMDB: TMDB{
			BaseURL:      defaultTMDBBaseURL,
			ImageBaseURL: defaultTMDBImageBaseURL,
			Language:     defaultTMDBLanguage,
		},
		SearchAPI: SearchAPI{
			Enabled:    true,
			BaseURL:    defaultSearchAPIBaseURL,
			PosterKeys: append([]string(nil), defaultSearchAPIPosterKeys...),
		},
		Lookup: Lookup{
			TimeoutSeconds: defaultLookupTimeoutSeconds,
		},
		Poster: Poster{
			FallbackURL: defaultFallbackPosterURL,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// Package config is the public shape of how a caller configures a
// Client before it dials (spec.md §6 "Client::join(account, address)"):
// a small functional-options API mirroring the teacher's flat
// cmd/server/main.go construction (flag values assembled into one
// server.Config struct literal), generalized from flags to options
// since this is a library, not a standalone binary, plus an optional
// on-disk YAML form for callers running many bots off one file.
package config

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/StoreStation/vibeclient/internal/auth"
	"github.com/StoreStation/vibeclient/internal/mcproto"
)

// Settings collects everything a Client needs to dial and run a
// connection, built up by applying Options over Defaults().
type Settings struct {
	Address           string
	Account           auth.Account
	ClientInformation mcproto.ClientInformation
	Refresh           auth.RefreshFunc
	HTTPClient        *http.Client
	Logger            *zap.SugaredLogger
	PathfindTimeout   time.Duration
	EnableMetrics     bool
}

// Defaults returns the settings a bare Client::join(account, address)
// gets: vanilla's default port already lives in address, en_us locale,
// the render-distance azalea's own default bot uses, and the 1-second
// pathfinder search budget spec.md §4.10 suggests.
func Defaults() Settings {
	return Settings{
		ClientInformation: mcproto.ClientInformation{
			Locale:             "en_us",
			ViewDistance:       8,
			ChatVisibility:     0,
			ChatColors:         true,
			MainHand:           1,
			AllowServerListing: true,
		},
		PathfindTimeout: time.Second,
	}
}

// Option mutates Settings during construction.
type Option func(*Settings)

// WithLogger sets the logger every subsystem derives a child from
// (internal/telemetry.Component).
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Settings) { s.Logger = l }
}

// WithClientInformation overrides the default display settings sent
// during Configuration (spec.md §4.4 step 3).
func WithClientInformation(info mcproto.ClientInformation) Option {
	return func(s *Settings) { s.ClientInformation = info }
}

// WithViewDistance is a narrower convenience over
// WithClientInformation for the one field most callers actually care
// about.
func WithViewDistance(chunks int8) Option {
	return func(s *Settings) { s.ClientInformation.ViewDistance = chunks }
}

// WithRefresh supplies the token-refresh callback internal/auth.Join
// uses after a 403 from the session server (spec.md §4.4).
func WithRefresh(fn auth.RefreshFunc) Option {
	return func(s *Settings) { s.Refresh = fn }
}

// WithHTTPClient overrides the client used for the session-server join
// call; nil (the default) means http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *Settings) { s.HTTPClient = hc }
}

// WithPathfindTimeout sets Settings.PathfindTimeout (spec.md §4.10, §5
// "Pathfinder searches honor a wall-clock budget"). Join does not pass
// it on: the session's pathfinder worker always searches with
// pathfinder.DefaultSearchOptions().
func WithPathfindTimeout(d time.Duration) Option {
	return func(s *Settings) { s.PathfindTimeout = d }
}

// WithMetrics turns on the optional prometheus.Registerer-backed
// counters internal/telemetry.NewMetrics exposes (spec.md's domain
// stack entry for prometheus/client_golang — off by default so a
// caller that never wants metrics never pays for a Registerer).
func WithMetrics() Option {
	return func(s *Settings) { s.EnableMetrics = true }
}

// Apply builds Settings for address/account from Defaults() plus opts,
// in order.
func Apply(account auth.Account, address string, opts ...Option) Settings {
	s := Defaults()
	s.Account = account
	s.Address = address
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

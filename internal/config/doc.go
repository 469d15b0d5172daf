// Package config loads shelf's TOML configuration.
//
// Load resolves the path (default ~/.config/shelf/config.toml, tilde
// expanded), parses it with go-toml and fills in defaults for anything
// missing or blank. A missing file is not an error.
//
// Recognized keys:
//
//	api_base_url = "http://127.0.0.1:3000/api/livros"
//	request_timeout_seconds = 10
//	refresh_interval_seconds = 0   # 0 disables background refresh
//	log_file = "~/.local/state/shelf/shelf.log"
//
// api_base_url is the collection URL of the catalog service. Individual
// books live at <api_base_url>/<id>.
package config

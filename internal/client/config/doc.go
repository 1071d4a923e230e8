// Package config loads runtime configuration for the travelmate CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A dotenv file: -e/-env-file, or ./.env when present. It only exports
//     variables that are not already set.
//  3. Optional JSON file selected with -c or -config.
//  4. TRAVELMATE_* environment variables.
//  5. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the API
//	-t int      request timeout (seconds)
//	-d string   path of the local state database
//	-c string   JSON config file
//	-e string   dotenv file
//
// # JSON schema
//
//	{
//	  "api_url": "https://travelmate.example/api",
//	  "request_timeout": "15s",
//	  "state_db_path": "/home/me/.config/travelmate/state.db",
//	  "env": "prod"
//	}
//
// # Environment
//
//	TRAVELMATE_API_URL, TRAVELMATE_REQUEST_TIMEOUT, TRAVELMATE_STATE_DB,
//	TRAVELMATE_ENV, TRAVELMATE_TOKEN_PASSPHRASE
package config

package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/travelmate/internal/flagx"
	"github.com/dmitrijs2005/travelmate/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// go through timex.Duration so the file may say "15s" or give integer
// nanoseconds. Absent keys keep the value already in Config.
type JsonConfig struct {
	APIURL         string          `json:"api_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StateDBPath    string          `json:"state_db_path"`
	Env            string          `json:"env"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing happens. Read or decode errors
// panic. TokenPassphrase is only taken from the environment.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.ConfigFileFlag()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIURL != "" {
		cfg.APIURL = jc.APIURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.StateDBPath != "" {
		cfg.StateDBPath = jc.StateDBPath
	}
	if jc.Env != "" {
		cfg.Env = jc.Env
	}
}

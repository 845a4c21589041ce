package cmdcommon

import (
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
)

const EnvPrefix = "UNOSIM"

// EnvConfig is read from UNOSIM_* variables, e.g. UNOSIM_LISTEN_PORT.
type EnvConfig struct {
	ListenAddr string `split_words:"true" default:"localhost"`
	ListenPort int    `split_words:"true" default:"8000"`
	MaxConns   int    `split_words:"true" default:"64"`
	LogLevel   string `split_words:"true" default:"info"`
	LogFile    bool   `split_words:"true" default:"false"`
	RunServer  bool   `split_words:"true" default:"true"`
	RunREPL    bool   `split_words:"true" default:"true"`

	// Batches typed in the REPL run here when set, locally otherwise.
	ServerURL string `split_words:"true"`
}

// LoadEnvConfig loads dotenvFile into the environment, without overriding variables
// that are already set, and processes it. A missing dotenvFile is not an error.
func LoadEnvConfig(dotenvFile string) (*EnvConfig, error) {
	if dotenvFile != "" {
		err := godotenv.Load(dotenvFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(err, "dotenv file %s", dotenvFile)
		}
	}

	var c EnvConfig
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

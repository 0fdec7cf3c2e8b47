package config

import (
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileEnv     = "CONFIG_FILE"
	defaultConfigFile = "/config/config.yaml"
)

type Config struct {
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	Hostname                  string        `koanf:"-"`
	ServerHost                string        `koanf:"server_host" default:"0.0.0.0"`
	ServerPort                int           `koanf:"server_port" default:"3689" validate:"min=1,max=65535"`

	// Library scanning.
	LibraryRootPath  string   `koanf:"library_root_path" default:"books" validate:"required"`
	ScanOnStartup    bool     `koanf:"scan_on_startup" default:"true"`
	ScanCron         string   `koanf:"scan_cron" default:"0 0 3 * * ?"`
	SupportedFormats []string `koanf:"supported_formats" default:"[\"fb2\",\"epub\",\"pdf\",\"djvu\",\"mobi\"]"`
	ZipScanEnabled   bool     `koanf:"zip_scan_enabled" default:"true"`
	ZipEncoding      string   `koanf:"zip_encoding" default:"cp866"`
	MaxFileSizeMB    int      `koanf:"max_file_size_mb" default:"100" validate:"min=0"`
	ScanWorkers      int      `koanf:"scan_workers" default:"4" validate:"min=1"`
}

// New loads the configuration from the yaml file named by CONFIG_FILE (if it
// exists) and then from the environment. Environment variables win.
func New() (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	path := os.Getenv(configFileEnv)
	if path == "" {
		path = defaultConfigFile
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file %s", path)
		}
	}

	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, errors.WithStack(err)
	}

	err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
			Result:           cfg,
			WeaklyTypedInput: true,
		},
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg.SupportedFormats = normalizeFormats(cfg.SupportedFormats)

	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	cfg.Hostname = hostname

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// NewForTest returns a config suitable for tests: an in-memory database and
// no automatic scans.
func NewForTest() *Config {
	cfg := &Config{}
	_ = defaults.Set(cfg)
	cfg.DatabaseFilePath = ":memory:"
	cfg.ServerHost = "127.0.0.1"
	cfg.ScanOnStartup = false
	cfg.ScanCron = ""
	cfg.Hostname = "test"
	return cfg
}

func normalizeFormats(formats []string) []string {
	out := make([]string, 0, len(formats))
	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(f), ".")))
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func validate(cfg *Config) error {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		return strings.SplitN(field.Tag.Get("koanf"), ",", 2)[0]
	})

	err := v.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return errors.Errorf("missing required config: %s (%s)", strings.ToUpper(fe.Field()), fe.Field())
	}
	return errors.Errorf("invalid config %s (%s): failed %q check", strings.ToUpper(fe.Field()), fe.Field(), fe.Tag())
}

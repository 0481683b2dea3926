package configloader

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// FileMapEntry routes archive members whose path starts with From to the
// absolute VM directory To.
type FileMapEntry struct {
	From string `mapstructure:"from"`
	To   string `mapstructure:"to"`
}

// DBRestore drives the optional PostgreSQL restore performed after a push.
type DBRestore struct {
	Enabled           bool   `mapstructure:"enabled"`
	PsqlPath          string `mapstructure:"psql_path"`
	DBHost            string `mapstructure:"db_host"`
	DBPort            int    `mapstructure:"db_port"`
	DBName            string `mapstructure:"db_name"`
	DBUser            string `mapstructure:"db_user"`
	DBPassword        string `mapstructure:"db_password"`
	CreateDBIfMissing bool   `mapstructure:"create_db_if_missing"`
	DropBefore        bool   `mapstructure:"drop_before"`
	SQLGlob           string `mapstructure:"sql_glob"`
}

// Offsite replicates finished pull archives to a storj bucket when set.
type Offsite struct {
	Access string `mapstructure:"access"`
	Bucket string `mapstructure:"bucket"`
	Prefix string `mapstructure:"prefix"`
}

// Structure to bind application parameters
type Config struct {
	LogLevel string `mapstructure:"log_level"` // logrus library log level to be assigned

	// Connection
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Keyfile  string `mapstructure:"keyfile"`
	Password string `mapstructure:"password"`

	// Pull
	RemoteDir string   `mapstructure:"remote_dir"`
	Out       string   `mapstructure:"out"`
	Exclude   []string `mapstructure:"exclude"`

	// Push
	Archive       string         `mapstructure:"archive"`
	StripTopLevel bool           `mapstructure:"strip_top_level"`
	FileMap       []FileMapEntry `mapstructure:"file_map"`

	Verbose   bool      `mapstructure:"verbose"`
	DBRestore DBRestore `mapstructure:"db_restore"`
	Offsite   Offsite   `mapstructure:"offsite"`
}

// Initialize default parameters values. Every top level key gets a default
// so environment variables are picked up during unmarshalling.
func initDefaultConfiguration() {
	viper.SetDefault("log_level", "info")
	viper.SetDefault("host", "")
	viper.SetDefault("port", 22)
	viper.SetDefault("user", "")
	viper.SetDefault("keyfile", "")
	viper.SetDefault("password", "")
	viper.SetDefault("remote_dir", "")
	viper.SetDefault("out", "archives")
	viper.SetDefault("archive", "")
	viper.SetDefault("strip_top_level", false)
	viper.SetDefault("verbose", false)
	viper.SetDefault("db_restore.psql_path", "psql")
	viper.SetDefault("db_restore.db_host", "127.0.0.1")
	viper.SetDefault("db_restore.db_port", 5432)
	viper.SetDefault("db_restore.sql_glob", "*.sql")
}

// LoadConfiguration loads the application parameters from an explicit file
// or, when none is given, from a `config.*` file (yaml, json or toml) found
// in the current folder, $HOME/.*appName* or /etc/*appName*. Environment
// variables override file values.
func LoadConfiguration(applicationName string, configurationFilePath string) (config Config, err error) {
	viper.Reset()
	initDefaultConfiguration()

	if configurationFilePath == "" {
		// Read the volume root path
		root := filepath.VolumeName(".")
		if root == "" {
			root = string(filepath.Separator)
		}

		viper.AddConfigPath(filepath.Join(root, "etc", applicationName))
		viper.AddConfigPath(filepath.Join("$HOME", "."+applicationName))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
	} else {
		// Set the configuration file path
		viper.SetConfigFile(configurationFilePath)
	}

	// Get configuration from environment variables, if set
	viper.AutomaticEnv()

	// Get configuration from configuration file, if set
	if configError := viper.ReadInConfig(); configError != nil {
		logrus.Warn(configError.Error())
	}
	err = viper.Unmarshal(&config)

	return
}

package util

import (
	"fmt"
	"strings"

	"github.com/ValentinKolb/dStore/lib/common"
	"github.com/ValentinKolb/dStore/lib/disk"
	"github.com/ValentinKolb/dStore/lib/store"
	"github.com/ValentinKolb/dStore/lib/store/codec"
	"github.com/ValentinKolb/dStore/lib/store/metrics"
	vm "github.com/VictoriaMetrics/metrics"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupStorageFlags adds the storage flags to a command
func SetupStorageFlags(cmd *cobra.Command) {
	defaults := common.DefaultConfig()

	key := "data-dir"
	cmd.PersistentFlags().String(key, defaults.DataDir, WrapString("Base directory, namespaces without an explicit disk are stored in <data-dir>/<namespace>"))

	key = "disks"
	cmd.PersistentFlags().String(key, "", WrapString("Comma-separated list of explicit namespace roots in the format 'users=/var/lib/users,teams=/srv/teams'"))

	key = "atomic-writes"
	cmd.PersistentFlags().Bool(key, defaults.AtomicWrites, WrapString("Write records to a temporary file and rename it into place"))

	key = "pretty"
	cmd.PersistentFlags().Bool(key, defaults.Pretty, WrapString("Store records as indented json"))

	key = "log-level"
	cmd.PersistentFlags().String(key, defaults.LogLevel, WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))

	key = "print-metrics"
	cmd.PersistentFlags().Bool(key, defaults.PrintMetrics, WrapString("Print the collected metrics in prometheus format to stderr after the command ran"))
}

// InitConfig loads .env files and initializes viper to read environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("dstore")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the configuration from viper
func GetConfig() (common.Config, error) {
	disks, err := common.ParseDisks(viper.GetString("disks"))
	if err != nil {
		return common.Config{}, err
	}
	conf := common.Config{
		DataDir:      viper.GetString("data-dir"),
		Disks:        disks,
		AtomicWrites: viper.GetBool("atomic-writes"),
		Pretty:       viper.GetBool("pretty"),
		LogLevel:     viper.GetString("log-level"),
		PrintMetrics: viper.GetBool("print-metrics"),
	}
	if conf.DataDir == "" && len(conf.Disks) == 0 {
		return common.Config{}, fmt.Errorf("either data-dir or disks must be set")
	}
	return conf, nil
}

// NewStorageFactory creates an instrumented storage factory on the real filesystem
func NewStorageFactory(conf common.Config, set *vm.Set) store.Factory {
	d := disk.NewAferoDisk(afero.NewOsFs(), &disk.Options{
		BaseDir:      conf.DataDir,
		Roots:        conf.Disks,
		AtomicWrites: conf.AtomicWrites,
	})

	c := codec.NewJSONCodec()
	if conf.Pretty {
		c = codec.NewIndentedJSONCodec()
	}

	return metrics.Instrument(store.NewFactory(d, store.WithCodec(c)), set)
}

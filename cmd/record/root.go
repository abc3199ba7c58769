package record

import (
	"os"

	"github.com/ValentinKolb/dStore/cmd/util"
	"github.com/ValentinKolb/dStore/lib/common"
	"github.com/ValentinKolb/dStore/lib/store"
	vm "github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/spf13/cobra"
)

var (
	plog = logger.GetLogger(common.LoggerCLI)

	factory    store.Factory
	metricsSet = vm.NewSet()
	config     common.Config

	// RecordCommands represents the record command group
	RecordCommands = &cobra.Command{
		Use:                "record",
		Short:              "Read and write records on disk",
		PersistentPreRunE:  setupStorage,
		PersistentPostRunE: printMetrics,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add storage flags to the record command
	util.SetupStorageFlags(RecordCommands)

	// Add subcommands
	RecordCommands.AddCommand(getCmd)
	RecordCommands.AddCommand(putCmd)
	RecordCommands.AddCommand(hasCmd)
	RecordCommands.AddCommand(pathCmd)
}

// setupStorage reads the configuration and creates the storage factory
func setupStorage(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var err error
	config, err = util.GetConfig()
	if err != nil {
		return err
	}
	if err := common.InitLoggers(config); err != nil {
		return err
	}
	plog.Debugf("configuration:%s", config.String())

	factory = util.NewStorageFactory(config, metricsSet)
	return nil
}

// printMetrics writes the collected metrics to stderr if requested
func printMetrics(_ *cobra.Command, _ []string) error {
	if config.PrintMetrics {
		metricsSet.WritePrometheus(os.Stderr)
	}
	return nil
}

// storage returns an engine scoped to namespace
func storage(namespace string) store.IStorage {
	return factory().SetNamespace(namespace)
}

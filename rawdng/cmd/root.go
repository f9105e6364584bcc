package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/camtools/rawdng/glog"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	config   string
	input    string
	loglevel int

	missingInput = "Missing input - please provide the .mcraw container path with -i"

	RootCmd = &cobra.Command{
		Use:   "rawdng",
		Short: "Expose MCRAW container frames as DNG files",
		Long:  ``,
	}
)

// Execute runs the root command; called once from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().IntVarP(&loglevel, "loglevel", "l", 0, "output level of logs (1: error, 2: warning, 3: info, 4: trace, 5: debug)")
	RootCmd.PersistentFlags().StringVarP(&config, "config", "c", "", "full path of the config file; default $HOME/.rawdng/config.yaml")
	RootCmd.PersistentFlags().StringVarP(&input, "input", "i", "", "path of the .mcraw container")

	viper.BindPFlag("loglevel", RootCmd.PersistentFlags().Lookup("loglevel"))
	viper.BindPFlag("input", RootCmd.PersistentFlags().Lookup("input"))

	cobra.OnInitialize(initConfig)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if config != "" {
		viper.SetConfigFile(config)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(filepath.Join(home, ".rawdng"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		glog.Info.Printf("Using config file: %s", viper.ConfigFileUsed())
	}

	if loglevel == 0 {
		loglevel = viper.GetInt("logging.log_level")
	}
	if loglevel == 0 {
		loglevel = 3
	}
	glog.InitLog(loglevel)
}

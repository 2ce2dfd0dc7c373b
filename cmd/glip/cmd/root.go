package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/uml-digitalinitiatives/glip"
)

var rootCmd = &cobra.Command{
	Use:   "glip",
	Short: "Content-addressed directory tree snapshots",
	Long:  "CLI for building, inspecting and diffing content-addressed directory snapshots, with OCI registry sync.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/glip/config.yaml)")
	rootCmd.PersistentFlags().String("store-dir", "", "store directory (default: ~/.local/share/glip)")
	rootCmd.PersistentFlags().String("ref", "main", "snapshot ref to operate on")
	rootCmd.PersistentFlags().String("remote", "", "registry image ref for push/pull")

	viper.BindPFlag("store_dir", rootCmd.PersistentFlags().Lookup("store-dir"))
	viper.BindPFlag("ref", rootCmd.PersistentFlags().Lookup("ref"))
	viper.BindPFlag("remote", rootCmd.PersistentFlags().Lookup("remote"))
}

func initConfig() {
	if cfg := rootCmd.PersistentFlags().Lookup("config").Value.String(); cfg != "" {
		viper.SetConfigFile(cfg)
	} else {
		viper.AddConfigPath(configDir())
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("GLIP")
	viper.AutomaticEnv()
	viper.SetDefault("store_dir", glip.DefaultDir())

	viper.ReadInConfig()
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "glip")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "glip")
	}
	return ".glip"
}

func storeDir() string { return viper.GetString("store_dir") }
func refName() string  { return viper.GetString("ref") }

func openRepo() (*glip.Repo, error) {
	var opts []glip.OpenOption
	if remote := viper.GetString("remote"); remote != "" {
		opts = append(opts, glip.WithRemote(remote))
	}
	return glip.Open(storeDir(), opts...)
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/foodchain-go/cmd/indices"
	"github.com/tphakala/foodchain-go/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "foodchain",
		Short: "Food-chain resource indices for habitat zones",
		Long: `foodchain computes standardized food-chain resource indices per
habitat zone (biotope) from point-based wildlife survey observations.`,
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		cobra.CheckErr(err)
	}

	rootCmd.AddCommand(indices.Command(settings))

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Re-validate after command-line flags were applied.
		return conf.ValidateSettings(settings)
	}

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Enrichment.PlaceholderPolicy, "placeholder-policy", viper.GetString("enrichment.placeholderpolicy"), "Placeholder species policy: drop or fallback")
	rootCmd.PersistentFlags().StringVar(&settings.Input.TraitEncoding, "trait-encoding", viper.GetString("input.traitencoding"), "Trait table encoding: euc-kr or utf-8")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}

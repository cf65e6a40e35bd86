package cli

import (
	"fmt"

	"github.com/setanarut/laymix"
	"github.com/setanarut/laymix/config"
	"github.com/setanarut/laymix/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for laymix
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "laymix [items...]",
		Short: "Generate every combination of image layers over their backgrounds",
		Long: `laymix splits the given images into layer groups by filename prefix.
Images matching no prefix are backgrounds. Every background gets each
combination of its layers (one per group) composited on top, and every
result is saved as a PNG named <background><delimiter><index>.png.

Items are files or directories (searched recursively). Without items the
./images directory is used. Configuration is loaded from ./laymix.yaml if
present; flags override it.

Examples:
  # Layers containing the background name, one from each group
  laymix sprites/ --prefixes clothes,hat

  # Allow each group to be left out, keep layer names in outputs
  laymix sprites/ --prefixes clothes --prefixes hat --include-background --keep-names

  # Put every watermark on every image, flatten onto white
  laymix photos/ --prefixes watermark --apply-to-all --matte "#ffffff"`,
		Version:      Version,
		SilenceUsage: true,
		// main prints the returned error
		SilenceErrors: true,
		RunE:          runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: ./laymix.yaml)")
	cmd.Flags().String("savedir", laymix.DefaultSaveDir, "Directory to save results into")
	cmd.Flags().StringSlice("prefixes", nil, "Prefixes used to split images into layer groups. Not a regexp, but text that should be in the file name")
	cmd.Flags().Bool("include-background", false, "Allow every layer group to be left out of a combination")
	cmd.Flags().Bool("debug", false, "Show debug messages in log")
	cmd.Flags().Bool("apply-to-all", false, "Apply layers to all images instead of only those named in the layer")
	cmd.Flags().Bool("exact-match", false, "Only use files whose names match prefixes exactly")
	cmd.Flags().Bool("keep-names", false, "Include unique name parts of layers into output names")
	cmd.Flags().String("delimeter", "_", "Separator between background name and the rest of an output name")
	cmd.Flags().StringSlice("exclude", nil, "Glob patterns (doublestar syntax) of input files to skip")
	cmd.Flags().String("matte", "", "Flatten outputs onto this \"#rrggbb\" color")
	cmd.Flags().SetNormalizeFunc(normalizeFlagName)

	return cmd
}

// normalizeFlagName accepts --delimiter as the correctly spelled --delimeter.
func normalizeFlagName(f *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "delimiter" {
		name = "delimeter"
	}
	return pflag.NormalizedName(name)
}

func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) > 0 {
		cfg.Items = args
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	mixer, err := laymix.New(cfg.Options(), log)
	if err != nil {
		return err
	}
	if _, err := mixer.Run(cfg.Items); err != nil {
		return err
	}
	return nil
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("savedir") {
		cfg.SaveDir, _ = flags.GetString("savedir")
	}
	if flags.Changed("prefixes") {
		cfg.Prefixes, _ = flags.GetStringSlice("prefixes")
	}
	if flags.Changed("include-background") {
		cfg.IncludeBackground, _ = flags.GetBool("include-background")
	}
	if flags.Changed("apply-to-all") {
		cfg.ApplyToAll, _ = flags.GetBool("apply-to-all")
	}
	if flags.Changed("exact-match") {
		cfg.ExactMatch, _ = flags.GetBool("exact-match")
	}
	if flags.Changed("keep-names") {
		cfg.KeepNames, _ = flags.GetBool("keep-names")
	}
	if flags.Changed("delimeter") {
		cfg.Delimiter, _ = flags.GetString("delimeter")
	}
	if flags.Changed("exclude") {
		cfg.Exclude, _ = flags.GetStringSlice("exclude")
	}
	if flags.Changed("matte") {
		cfg.Matte, _ = flags.GetString("matte")
	}
	if debug, _ := flags.GetBool("debug"); debug {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

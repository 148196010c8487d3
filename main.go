package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scriptvid/scriptvid/internal/assets"
	"github.com/scriptvid/scriptvid/internal/caption"
	"github.com/scriptvid/scriptvid/internal/config"
	"github.com/scriptvid/scriptvid/internal/log"
	"github.com/scriptvid/scriptvid/internal/render"
	"github.com/scriptvid/scriptvid/internal/script"
	"github.com/scriptvid/scriptvid/internal/speech"
	"github.com/scriptvid/scriptvid/internal/timeline"
)

var (
	opts config.RenderOptions

	rootCmd = &cobra.Command{
		Use:   "scriptvid <script_path>",
		Short: "Render a declarative script into a video",
		Long: `scriptvid turns a small declarative script into a rendered video:
emotive character overlays, synthesized speech, on-screen captions and
spliced-in clips, composited over a background and exported via ffmpeg.

Examples:
  # Render a bracket-form script, output path taken from its [END] tag
  scriptvid episode.txt

  # Render a markup script to an explicit path
  scriptvid episode.xml -o out/episode.mp4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ScriptPath = args[0]
			return runRender(cmd.Context(), opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	checkCmd = &cobra.Command{
		Use:   "check <script_path>",
		Short: "Validate a script without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			cmds, err := script.ParseFile(args[0], format)
			if err != nil {
				return err
			}
			fmt.Printf("%s: ok, %d directives\n", args[0], len(cmds))
			return nil
		},
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&opts.ScriptFormat, "format", "f", "",
		"script grammar (bracket or xml); inferred from the extension when omitted")
	rootCmd.Flags().StringVarP(&opts.OutputPath, "output_path", "o", "",
		"output video path, overriding the script's end directive")
	rootCmd.Flags().StringVarP(&opts.CharactersDir, "characters", "c", "character",
		"directory of character sprite images")
	rootCmd.Flags().StringVar(&opts.LayoutPath, "layout", "",
		"YAML file overriding layout defaults")
	rootCmd.Flags().StringVar(&opts.FontPath, "font", "",
		"TTF font for caption rendering")
	rootCmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if opts.Verbose {
			logOpts := log.FromEnv()
			logOpts.Level = "debug"
			log.Init(logOpts)
		}
	}

	rootCmd.AddCommand(checkCmd)
}

func runRender(ctx context.Context, opts config.RenderOptions) error {
	cmds, err := script.ParseFile(opts.ScriptPath, opts.ScriptFormat)
	if err != nil {
		return err
	}

	layout, err := config.LoadLayout(opts.LayoutPath)
	if err != nil {
		return err
	}

	registry, err := assets.Load(opts.CharactersDir)
	if err != nil {
		return err
	}

	synth, err := speech.NewCommandSynthesizer()
	if err != nil {
		return err
	}
	defer synth.Cleanup()

	captions, err := caption.NewRenderer(layout, opts.FontPath)
	if err != nil {
		return err
	}
	defer captions.Cleanup()

	builder := timeline.NewBuilder(timeline.Deps{
		Layout:   layout,
		Registry: registry,
		Synth:    synth,
		Captions: captions,
		Prober:   render.FFmpegProber{},
	})

	exporter := render.NewExporter(opts.Verbose)
	return builder.Run(ctx, cmds, exporter, opts.OutputPath)
}

func main() {
	// .env is optional; it carries TTS backend configuration.
	_ = godotenv.Load()
	log.Init(log.FromEnv())

	if err := rootCmd.Execute(); err != nil {
		var formatErr *render.ExportFormatError
		if errors.As(err, &formatErr) {
			log.L().Error(formatErr.Error())
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

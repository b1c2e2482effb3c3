package main

import (
	"fmt"
	"os"
	"strings"

	kicadxyrs "github.com/kataras/kicad-xyrs"
	"github.com/kataras/kicad-xyrs/pkg/config"
	"github.com/kataras/kicad-xyrs/pkg/formatter"
	"github.com/kataras/kicad-xyrs/pkg/placement"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const version = kicadxyrs.Version

var (
	pcbFile       string
	outputFile    string
	configFile    string
	outputFormat  string
	originMode    string
	noDrillCenter bool
	units         string
	rotation      float64
	keepDNP       bool
	sortRefs      bool
	verbose       bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "kicad-xyrs",
		Short: "Generate XYRS placement files from KiCad boards",
		Long:  "A tool to extract footprint position, rotation, side and size from a KiCad PCB file into a pick-and-place file",
		Run:   run,
	}

	rootCmd.Flags().StringVar(&pcbFile, "pcb", "", "Source .kicad_pcb file (required)")
	rootCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Output file (required)")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file (optional, flags take priority)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "default", "Output format: "+strings.Join(formatter.Names(), ", "))
	rootCmd.Flags().StringVar(&originMode, "origin", "", "Origin mode: "+strings.Join(placement.OriginModeNames(), ", ")+" (default: per format)")
	rootCmd.Flags().BoolVar(&noDrillCenter, "no-drill-center", false, "Use (0,0) when drill origin is requested but the board declares none")
	rootCmd.Flags().StringVar(&units, "units", "", "Override output units: mm, mil, thou, inch")
	rootCmd.Flags().Float64Var(&rotation, "rotation", 0, "Rotate the output frame counter-clockwise by this many degrees")
	rootCmd.Flags().BoolVar(&keepDNP, "keep-dnp", false, "Keep do-not-place parts and mark them in the output")
	rootCmd.Flags().BoolVar(&sortRefs, "sort", false, "Sort rows by reference designator instead of file order")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print progress messages")

	rootCmd.MarkFlagRequired("pcb")
	rootCmd.MarkFlagRequired("out")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("kicad-xyrs version %s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)
	cyan := color.New(color.FgCyan)

	logger := &cliLogger{verbose: verbose}

	var file *config.File
	if configFile != "" {
		var err error
		file, err = config.Load(configFile)
		if err != nil {
			red.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		logger.Infof("Loaded config %s", configFile)
	}

	settings := file.Resolve(config.Flags{
		Settings: config.Settings{
			Format:        outputFormat,
			Origin:        originMode,
			NoDrillCenter: noDrillCenter,
			Units:         units,
			Rotation:      rotation,
			KeepDNP:       keepDNP,
			Sort:          sortRefs,
		},
		Changed: cmd.Flags().Changed,
	})

	result, err := kicadxyrs.Run(kicadxyrs.Options{
		BoardPath:     pcbFile,
		Format:        settings.Format,
		Origin:        settings.Origin,
		NoDrillCenter: settings.NoDrillCenter,
		Units:         settings.Units,
		Rotation:      settings.Rotation,
		KeepDNP:       settings.KeepDNP,
		Sort:          settings.Sort,
		Logger:        logger,
	})
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	if verbose {
		cyan.Println("\nSummary:")
		fmt.Printf("  • Footprints: %d\n", len(result.Board.Footprints))
		fmt.Printf("  • Placed: %d\n", len(result.Placements))
		fmt.Printf("  • Skipped: %d\n", len(result.Skipped))
		fmt.Printf("  • Origin: %g, %g\n", result.Origin.X, result.Origin.Y)
		fmt.Printf("  • Format: %s (%s)\n", result.Format.Name, result.Format.Unit)
	}

	if err := kicadxyrs.WriteFile(outputFile, result.Output); err != nil {
		red.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	green.Printf("Wrote %d placement(s) to %s\n", len(result.Placements), outputFile)
}

// cliLogger implements kicadxyrs.Logger with colored terminal output.
// Info messages are only shown in verbose mode.
type cliLogger struct {
	verbose bool
}

func (l *cliLogger) Infof(format string, args ...any) {
	if !l.verbose {
		return
	}
	color.New(color.FgYellow).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Fprintf(os.Stderr, "⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, "✗ "+format+"\n", args...)
}

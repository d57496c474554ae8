package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexmbird/albumconv/pkg/metrics"
	"github.com/alexmbird/albumconv/pkg/models"
	"github.com/alexmbird/albumconv/pkg/pipeline"
	"github.com/alexmbird/albumconv/pkg/shutdown"
)

var (
	// Convert flags
	codecName   string
	quality     string
	jobs        int
	clobber     bool
	encoderPath string
	replayGain  bool
	metricsAddr string
	metricsFile string
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <source>...",
	Short: "Transcode audio files or album directories",
	Long: `Transcode one or more sources into the target codec. A source is
either a single audio file or an album directory; directories get a new
destination tree named after the codec and quality, with non-audio
artifacts copied across.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&codecName, "codec", "c", "mp3", "target codec: mp3 or opus")
	convertCmd.Flags().StringVarP(&quality, "quality", "q", "", "codec quality (mp3: VBR 0-9, opus: bitrate like 140k)")
	convertCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "concurrent encodes (default: logical CPU count)")
	convertCmd.Flags().BoolVar(&clobber, "clobber", false, "delete a pre-existing destination directory first")
	convertCmd.Flags().StringVar(&encoderPath, "encoder", "", "encoder binary (default: probe PATH for ffmpeg, avconv)")
	convertCmd.Flags().BoolVar(&replayGain, "replaygain", false, "run the loudness-tagging tool after all encodes finish")
	convertCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address during the run")
	convertCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write final metrics to this file in textfile-collector format")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := newLogger()

	// Config file / env supply defaults; explicit flags win
	if !cmd.Flags().Changed("codec") && viper.GetString("codec") != "" {
		codecName = viper.GetString("codec")
	}
	if !cmd.Flags().Changed("quality") && viper.GetString("quality") != "" {
		quality = viper.GetString("quality")
	}
	if !cmd.Flags().Changed("jobs") && viper.GetInt("jobs") > 0 {
		jobs = viper.GetInt("jobs")
	}
	if !cmd.Flags().Changed("encoder") && viper.GetString("encoder") != "" {
		encoderPath = viper.GetString("encoder")
	}
	if !cmd.Flags().Changed("metrics-addr") && viper.GetString("metrics_addr") != "" {
		metricsAddr = viper.GetString("metrics_addr")
	}

	var exporter *metrics.Exporter
	if metricsAddr != "" || metricsFile != "" {
		exporter = metrics.NewExporter()
	}
	if metricsAddr != "" {
		exporter.Serve(metricsAddr)
		log.Info("Serving metrics", map[string]interface{}{"addr": metricsAddr})
	}

	ctx, stop := shutdown.Context(cmd.Context(), func(sig os.Signal) {
		log.Warn("Received signal, finishing in-flight encodes", map[string]interface{}{"signal": sig.String()})
	})
	defer stop()

	_, err := pipeline.Run(ctx, pipeline.Config{
		Sources:     args,
		Codec:       codecName,
		Quality:     quality,
		Jobs:        jobs,
		Clobber:     clobber,
		EncoderPath: encoderPath,
		ReplayGain:  replayGain,
		Rules:       models.DefaultRules(),
		Log:         log,
		Out:         os.Stdout,
		Exporter:    exporter,
	})

	if metricsFile != "" {
		if werr := exporter.WriteTextfile(metricsFile); werr != nil {
			log.Warn("Writing metrics file failed", map[string]interface{}{"error": werr.Error()})
		}
	}

	if err != nil {
		log.Error(err.Error())
	}
	return err
}

package main

import (
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/hesusruiz/vcutils/yaml"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/mdtex/mdtex/mdtex"
)

// convertFile reads the input Markdown file, converts it and writes the
// resulting LaTeX body text to the output file
func convertFile(conv *mdtex.Converter, inputFileName string, outputFileName string, dryrun bool) error {

	source, err := os.ReadFile(inputFileName)
	if err != nil {
		return err
	}

	latex, err := conv.Convert(source)
	if err != nil {
		return err
	}

	// Do nothing if flag dryrun was specified
	if dryrun {
		return nil
	}

	return os.WriteFile(outputFileName, latex, 0664)
}

// processWatch checks periodically if the input file (inputFileName) has been modified, and if so
// it converts the file and writes the result to the output file (outputFileName)
func processWatch(conv *mdtex.Converter, inputFileName string, outputFileName string) error {

	var old_timestamp time.Time
	var current_timestamp time.Time

	// Loop forever
	for {

		// Get the modified timestamp of the input file
		info, err := os.Stat(inputFileName)
		if err != nil {
			return err
		}
		current_timestamp = info.ModTime()

		// If current modified timestamp is newer than the previous timestamp, process the file
		if old_timestamp.Before(current_timestamp) {
			old_timestamp = current_timestamp
			fmt.Println("************Processing*************")
			err = convertFile(conv, inputFileName, outputFileName, false)
			if err != nil {
				return err
			}
		}

		// Check again in one second
		time.Sleep(1 * time.Second)

	}
}

// process is the main entry point of the program
func process(c *cli.Context) error {

	// Default input file name
	var inputFileName = "index.md"

	// Output file name command line parameter
	outputFileName := c.String("output")

	// Dry run
	dryrun := c.Bool("dryrun")

	debug := c.Bool("debug")

	var z *zap.Logger
	var err error

	// Setup the logging system
	if debug {
		z, err = zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
	} else {
		z, err = zap.NewProduction()
		if err != nil {
			panic(err)
		}
	}

	sugar := z.Sugar()
	defer sugar.Sync()

	// Get the input file name
	if c.Args().Present() {
		inputFileName = c.Args().First()
	} else {
		fmt.Printf("no input file provided, using \"%v\"\n", inputFileName)
	}

	// Generate the output file name
	if len(outputFileName) == 0 {
		ext := path.Ext(inputFileName)
		if len(ext) == 0 {
			outputFileName = inputFileName + ".tex"
		} else {
			outputFileName = strings.Replace(inputFileName, ext, ".tex", 1)
		}
	}

	// Read the configuration file if one was specified
	var config *yaml.YAML
	if configFileName := c.String("config"); len(configFileName) > 0 {
		data, err := os.ReadFile(configFileName)
		if err != nil {
			sugar.Fatalw("error reading config file", "name", configFileName, "err", err)
		}
		config, err = yaml.ParseYaml(string(data))
		if err != nil {
			sugar.Fatalw("malformed config file", "name", configFileName, "err", err)
		}
	}

	// Create the converter and give it the embedded D2 diagram generator
	conv := mdtex.New(config, sugar)

	assetsDir := "builtassets"
	if config != nil {
		assetsDir = config.String("mdtex.assetsDir", assetsDir)
	}
	conv.SetDiagramRenderer(mdtex.NewD2Renderer(assetsDir, sugar))

	// Print a message
	if !dryrun {
		fmt.Printf("processing %v and generating %v\n", inputFileName, outputFileName)
	} else {
		fmt.Printf("dry run: processing %v without writing output\n", inputFileName)
	}

	// This is useful for development.
	// If the user specified to watch, loop forever processing the input file when modified
	if c.Bool("watch") {
		err = processWatch(conv, inputFileName, outputFileName)
		return err
	}

	return convertFile(conv, inputFileName, outputFileName, dryrun)
}

func main() {

	app := &cli.App{
		Name:      "mdtex",
		Version:   "v0.1",
		Compiled:  time.Now(),
		Usage:     "convert a Markdown document to LaTeX body source",
		UsageText: "mdtex [options] [INPUT_FILE] (default input file is index.md)",
		Action:    process,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write LaTeX to `FILE` (default is input file name with extension .tex)",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "read conversion options from YAML `FILE`",
			},
			&cli.BoolFlag{
				Name:    "dryrun",
				Aliases: []string{"n"},
				Usage:   "do not generate output file, just process input file",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"d"},
				Usage:   "run in debug mode",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "watch the file for changes",
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		panic(err)
	}

}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/woozymasta/landmap/internal/config"
	"github.com/woozymasta/landmap/internal/land"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input      string `short:"i" long:"in"     description:"Input file path (get_lands JSON). Reads from stdin if empty"`
	Output     string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format     string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
	ConfigFile string `short:"c" long:"config" env:"CONFIG_FILE" description:"Path to configuration file (defaults built in when empty)"`
	Colors     bool   `long:"colors"           description:"Add land type fill color to feature properties"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	serializer, err := cfg.Serializer(opts.Colors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	parcels, err := land.ReadFile(opts.Input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading parcels: %v\n", err)
		os.Exit(1)
	}

	fc, err := serializer.Serialize(parcels)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting parcels: %v\n", err)
		os.Exit(1)
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		// round trip through JSON so YAML keeps the GeoJSON member names
		var doc interface{}
		if outputData, err = json.Marshal(fc); err == nil {
			if err = json.Unmarshal(outputData, &doc); err == nil {
				outputData, err = yaml.Marshal(doc)
			}
		}
	} else {
		outputData, err = json.MarshalIndent(fc, "", "  ")
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %d parcels to %s (format: %s)\n", len(fc.Features), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/maploc/maploc/config"
	"github.com/maploc/maploc/geolocalize"
)

var (
	localizeInput    string
	localizeMaxProcs int
)

var localizeCmd = &cobra.Command{
	Use:   "localize [uri]",
	Short: "Geolocalize one map image, or a batch of them",
	Long: `
Geolocalizes the map image referenced by uri and prints the result as JSON.
With --input, reads one URI per line from a file instead and prints one JSON
result per line; failing images are logged and skipped.
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if (len(args) == 0) == (localizeInput == "") {
			return fmt.Errorf("provide either a uri argument or --input, not both")
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		pipeline, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		if len(args) == 1 {
			return localizeOne(cmd, pipeline, args[0])
		}

		return localizeBatch(cmd, pipeline)
	},
}

func init() {
	localizeCmd.Flags().StringVar(&localizeInput, "input", "", "file with one image URI per line")
	localizeCmd.Flags().IntVar(&localizeMaxProcs, "max-procs", 4, "maximum images processed at once in batch mode")
	rootCmd.AddCommand(localizeCmd)
}

func localizeOne(cmd *cobra.Command, pipeline *geolocalize.Geolocalizer, uri string) error {
	result, err := pipeline.Geolocalize(cmd.Context(), uri)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	return nil
}

// batchLine pairs a result with its source so output order can follow
// input order.
type batchLine struct {
	URI    string              `json:"uri"`
	Result *geolocalize.Result `json:"result,omitempty"`
	Error  string              `json:"error,omitempty"`
}

func localizeBatch(cmd *cobra.Command, pipeline *geolocalize.Geolocalizer) error {
	file, err := os.Open(localizeInput)
	if err != nil {
		return fmt.Errorf("opening input file: %w", err)
	}
	defer file.Close()

	var uris []string

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		uri := strings.TrimSpace(scanner.Text())
		if uri == "" || strings.HasPrefix(uri, "#") {
			continue
		}

		uris = append(uris, uri)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input file: %w", err)
	}

	n := len(uris)
	if n == 0 {
		log.Println("Nothing to localize")

		return nil
	}

	maxProcs := localizeMaxProcs
	if maxProcs < 1 {
		maxProcs = 1
	}

	var bar *progressbar.ProgressBar
	if isatty.IsTerminal(os.Stderr.Fd()) {
		bar = progressbar.NewOptions(n,
			progressbar.OptionSetDescription("Localizing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var wg sync.WaitGroup

	semaphore := make(chan struct{}, maxProcs)
	lines := make([]batchLine, n)

	for i, uri := range uris {
		wg.Add(1)

		go func(i int, uri string) {
			defer wg.Done()
			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			result, err := pipeline.Geolocalize(cmd.Context(), uri)
			if err != nil {
				lines[i] = batchLine{URI: uri, Error: err.Error()}
			} else {
				lines[i] = batchLine{URI: uri, Result: result}
			}

			if bar == nil {
				log.Printf("Localized %s", uri)
			} else if err := bar.Add(1); err != nil {
				log.Printf("Updating progress bar for %s: %v", uri, err)
			}
		}(i, uri)
	}

	wg.Wait()

	failures := 0

	out := bufio.NewWriter(cmd.OutOrStdout())
	for _, line := range lines {
		if line.Error != "" {
			failures++

			log.Printf("Localization failed - %s: %s", line.URI, line.Error)
		}

		data, err := json.Marshal(line)
		if err != nil {
			return fmt.Errorf("marshaling result for %s: %w", line.URI, err)
		}

		fmt.Fprintln(out, string(data))
	}

	if err := out.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	log.Printf("Batch complete - %d localized, %d failed from %d images.", n-failures, failures, n)

	return nil
}

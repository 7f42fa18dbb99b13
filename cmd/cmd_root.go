// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/maploc/maploc/utils/httputils"
)

type logWriter struct {
	writer io.Writer
}

func (w *logWriter) Write(bytes []byte) (int, error) {
	return fmt.Fprintf(w.writer, "%s %s", time.Now().Format("2006-01-02 15:04:05"), string(bytes))
}

func init() {
	log.SetFlags(0)
	log.SetOutput(&logWriter{writer: os.Stderr})

	// A missing .env is fine; the environment may already be populated.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Loading .env: %v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "maploc",
	Short: "geolocalize raster map images",
	Long: `
maploc guesses where a raster map belongs. It detects the text printed on
the map, extracts the place names and addresses mentioned in it, geocodes
them, and reports the candidate locations together with a consensus region.
`,
}

var configPath string

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "maploc.yaml", "path to the configuration file")
}

var Version = "dev"

func Execute(version string) {
	Version = version
	httputils.UserAgent = "maploc/" + version

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

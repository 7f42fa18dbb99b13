// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/maploc/maploc/config"
	"github.com/maploc/maploc/geolocalize"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the geolocalization HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		pipeline, err := buildPipeline(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		server := newServer(pipeline)

		log.Printf("Geolocalization server listening on %s", serveAddr)

		return server.router().Run(serveAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "localhost:8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

type server struct {
	pipeline *geolocalize.Geolocalizer
}

func newServer(pipeline *geolocalize.Geolocalizer) *server {
	return &server{pipeline: pipeline}
}

func (s *server) router() *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", s.health)
	r.GET("/api/geolocalize", s.geolocalizeQuery)
	r.POST("/api/geolocalize", s.geolocalizeBody)

	return r
}

func (s *server) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "version": Version})
}

type geolocalizeRequest struct {
	URI string `json:"uri"`
}

func (s *server) geolocalizeQuery(ctx *gin.Context) {
	uri := ctx.Query("uri")
	if uri == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "uri query parameter is required"})

		return
	}

	s.geolocalize(ctx, uri)
}

func (s *server) geolocalizeBody(ctx *gin.Context) {
	var req geolocalizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})

		return
	}

	if req.URI == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "uri field is required"})

		return
	}

	s.geolocalize(ctx, req.URI)
}

func (s *server) geolocalize(ctx *gin.Context, uri string) {
	result, err := s.pipeline.Geolocalize(ctx.Request.Context(), uri)
	if err != nil {
		status := geolocalize.HTTPStatus(err)
		if stage := geolocalize.FailedStage(err); stage != "" {
			log.Printf("Stage %s failed for %s: %v", stage, uri, err)
			ctx.JSON(status, gin.H{"error": err.Error(), "stage": string(stage)})

			return
		}

		ctx.JSON(status, gin.H{"error": err.Error()})

		return
	}

	ctx.JSON(http.StatusOK, result)
}

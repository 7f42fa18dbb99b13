// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package geolocalize

import (
	"github.com/uber/h3-go/v4"

	"github.com/maploc/maploc/spatial"
)

// Consensus resolution search range. Resolution 1 cells average ~609k km²,
// resolution 8 ~0.7 km².
const (
	minConsensusResolution = 1
	maxConsensusResolution = 8
)

// Consensus is the region a majority of geocoded candidates agree on. It
// answers the question the pipeline exists for: where does the map belong.
type Consensus struct {
	Cell       string        `json:"cell"`       // H3 cell index, hex form
	Resolution int           `json:"resolution"` // finest resolution with a strict majority
	Center     spatial.Point `json:"center"`
	Agreeing   int           `json:"agreeing"` // candidates inside the cell
	Total      int           `json:"total"`    // candidates with coordinates
}

// computeConsensus finds the finest H3 resolution at which a strict majority
// of the geocoded candidates fall in the same cell. Requires at least two
// geocoded candidates; returns nil when they never agree even at the
// coarsest resolution. The consensus is best effort: a point the index
// rejects simply does not vote.
func computeConsensus(candidates []Candidate) *Consensus {
	points := make([]spatial.Point, 0, len(candidates))

	for _, c := range candidates {
		if c.Point != nil {
			points = append(points, *c.Point)
		}
	}

	if len(points) < 2 {
		return nil
	}

	var best *Consensus

	for res := minConsensusResolution; res <= maxConsensusResolution; res++ {
		counts := make(map[h3.Cell]int, len(points))

		for _, p := range points {
			cell, err := h3.LatLngToCell(h3.NewLatLng(p.Lat, p.Lng), res)
			if err != nil {
				continue
			}

			counts[cell]++
		}

		var (
			majorityCell  h3.Cell
			majorityCount int
		)

		for cell, count := range counts {
			if count > majorityCount {
				majorityCell, majorityCount = cell, count
			}
		}

		if majorityCount*2 <= len(points) {
			break // no strict majority at this resolution, finer ones only fragment further
		}

		center, err := h3.CellToLatLng(majorityCell)
		if err != nil {
			continue
		}

		best = &Consensus{
			Cell:       majorityCell.String(),
			Resolution: res,
			Center:     spatial.Point{Lat: center.Lat, Lng: center.Lng},
			Agreeing:   majorityCount,
			Total:      len(points),
		}
	}

	return best
}

// ClusterCandidates groups geocoded candidates whose points lie within
// distanceThreshold meters of an existing cluster member. Candidates
// without coordinates are ignored. Useful when a map straddles several
// localities and a single consensus region is too coarse.
func ClusterCandidates(candidates []Candidate, distanceThreshold float64) [][]Candidate {
	geocoded := make([]Candidate, 0, len(candidates))

	for _, c := range candidates {
		if c.Point != nil {
			geocoded = append(geocoded, c)
		}
	}

	clusters := make([][]Candidate, 0, len(geocoded))

	visited := make([]bool, len(geocoded))

	for i, c1 := range geocoded {
		if visited[i] {
			continue
		}

		cluster := []Candidate{c1}
		visited[i] = true

		for j, c2 := range geocoded {
			if visited[j] {
				continue
			}

			// Check distance against all members of the current cluster
			for _, member := range cluster {
				if c2.Point.HaversineDistance(member.Point) <= distanceThreshold {
					cluster = append(cluster, c2)
					visited[j] = true

					break // Move to next candidate once it's added to the cluster
				}
			}
		}

		clusters = append(clusters, cluster)
	}

	return clusters
}

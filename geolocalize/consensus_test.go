// Copyright 2026 The MapLoc Authors
// SPDX-License-Identifier: Apache-2.0

package geolocalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maploc/maploc/spatial"
)

func geocoded(name string, lat, lng float64) Candidate {
	return Candidate{
		Name:  name,
		Type:  "LOCATION",
		Point: &spatial.Point{Lat: lat, Lng: lng},
	}
}

func TestComputeConsensusMajority(t *testing.T) {
	// Three candidates that resolved to the same spot in Montevideo, one
	// outlier in Buenos Aires.
	montevideo := spatial.Point{Lat: -34.9011, Lng: -56.1645}
	candidates := []Candidate{
		geocoded("Ciudad Vieja", montevideo.Lat, montevideo.Lng),
		geocoded("Centro", montevideo.Lat, montevideo.Lng),
		geocoded("Cordón", montevideo.Lat, montevideo.Lng),
		geocoded("Buenos Aires", -34.6037, -58.3816),
	}

	consensus := computeConsensus(candidates)
	require.NotNil(t, consensus)

	// Identical points agree down to the finest resolution, where the
	// outlier 200km away is long gone from the majority cell.
	assert.Equal(t, maxConsensusResolution, consensus.Resolution)
	assert.Equal(t, 3, consensus.Agreeing)
	assert.Equal(t, 4, consensus.Total)

	// The consensus center must be near Montevideo, not pulled toward the
	// outlier.
	assert.Less(t, consensus.Center.HaversineDistance(&montevideo), 5_000.0)
}

func TestComputeConsensusFinestResolutionWins(t *testing.T) {
	// Two identical points agree down to the finest resolution searched.
	candidates := []Candidate{
		geocoded("a", 39.7817, -89.6501),
		geocoded("b", 39.7817, -89.6501),
	}

	consensus := computeConsensus(candidates)
	require.NotNil(t, consensus)
	assert.Equal(t, maxConsensusResolution, consensus.Resolution)
	assert.Equal(t, 2, consensus.Agreeing)
}

func TestComputeConsensusNeedsTwoGeocodedCandidates(t *testing.T) {
	tests := []struct {
		name       string
		candidates []Candidate
	}{
		{"none", nil},
		{"single", []Candidate{geocoded("x", 1, 1)}},
		{"all unresolved", []Candidate{{Name: "x"}, {Name: "y"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Nil(t, computeConsensus(tc.candidates))
		})
	}
}

func TestComputeConsensusNoAgreement(t *testing.T) {
	// Four points on four continents: no strict majority anywhere.
	candidates := []Candidate{
		geocoded("a", 40.7128, -74.0060),
		geocoded("b", 48.8566, 2.3522),
		geocoded("c", -33.8688, 151.2093),
		geocoded("d", 35.6762, 139.6503),
	}

	assert.Nil(t, computeConsensus(candidates))
}

func TestClusterCandidates(t *testing.T) {
	candidates := []Candidate{
		geocoded("mvd-1", -34.9070, -56.2060),
		geocoded("mvd-2", -34.9055, -56.1915),
		geocoded("ba", -34.6037, -58.3816),
		{Name: "unresolved"},
	}

	clusters := ClusterCandidates(candidates, 5_000)
	require.Len(t, clusters, 2)
	assert.Len(t, clusters[0], 2)
	assert.Len(t, clusters[1], 1)
	assert.Equal(t, "ba", clusters[1][0].Name)
}

func TestClusterCandidatesEmpty(t *testing.T) {
	assert.Empty(t, ClusterCandidates(nil, 1_000))
	assert.Empty(t, ClusterCandidates([]Candidate{{Name: "bare"}}, 1_000))
}

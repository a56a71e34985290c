// File: /services/geo_service.go
package services

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"

	"crosspaths-api/models"
)

const earthRadiusMeters = 6371000

// GeoService answers "which recent events are near this point". Pure reads,
// no locking.
type GeoService struct {
	db *gorm.DB
}

func NewGeoService(db *gorm.DB) *GeoService {
	return &GeoService{db: db}
}

// FindNearby returns events created within window of asOf whose coordinate
// lies within radiusMeters of coord, closest first and newest first among
// ties, capped at limit.
//
// Events without a coordinate are never returned (they can still be joined
// by id). A nil coord is not an error: the result is empty and the returned
// flag is false so the caller can tell "no location" from "no matches".
func (s *GeoService) FindNearby(coord *models.Coordinate, asOf time.Time, radiusMeters float64, window time.Duration, limit int) ([]models.NearbyEvent, bool, error) {
	if coord == nil {
		return []models.NearbyEvent{}, false, nil
	}

	var candidates []models.Event
	cutoff := asOf.Add(-window)
	err := s.db.Where("created_at >= ? AND created_at <= ?", cutoff, asOf).
		Order("created_at DESC").
		Find(&candidates).Error
	if err != nil {
		return nil, true, fmt.Errorf("%w: loading event candidates: %v", models.ErrPersistence, err)
	}

	nearby := make([]models.NearbyEvent, 0, len(candidates))
	for _, event := range candidates {
		if !event.HasCoordinate() {
			continue
		}

		distance := HaversineMeters(coord.Latitude, coord.Longitude, *event.Latitude, *event.Longitude)
		if distance > radiusMeters {
			continue
		}

		nearby = append(nearby, models.NearbyEvent{
			Event:          event,
			DistanceMeters: distance,
		})
	}

	// Closest first; newest first among equal distances. Candidates arrive
	// newest-first, so a stable sort on distance keeps the recency tie-break.
	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceMeters < nearby[j].DistanceMeters
	})

	if limit > 0 && len(nearby) > limit {
		nearby = nearby[:limit]
	}

	return nearby, true, nil
}

// HaversineMeters calculates the great-circle distance between two points
// using the Haversine formula
func HaversineMeters(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

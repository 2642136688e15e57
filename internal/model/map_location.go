package model

import "time"

// MapLocation is a point of interest shown on the club map.
type MapLocation struct {
    ID            uint64    // map_locations.id
    Name          string    // map_locations.name
    Address       string    // map_locations.address
    Description   string    // map_locations.description
    GoogleMapsURL string    // map_locations.google_maps_url
    AuthorID      uint64    // map_locations.author_id
    Active        bool      // map_locations.state
    CreatedAt     time.Time // map_locations.created_at
    UpdatedAt     time.Time // map_locations.updated_at
}

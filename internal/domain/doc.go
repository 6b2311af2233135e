// Package domain models the synthetic car map-data records served by the API:
// per-cell weather summaries and static road-risk hotspots.
//
// # Grid Cells
//
// Weather records are keyed by H3 hexagonal grid cells at a fixed resolution
// (default 7, roughly city-district sized hexagons). The cell index string is
// the external identity: it is a pure function of (lat, lng, resolution) and
// can be inverted to the cell's center coordinate.
//
// # Enumerations
//
// Rain intensity and road condition are fixed wire enumerations consumed by
// downstream clients; their spellings must not change:
//
//	rain_intensity: NONE | LOW | MEDIUM | HIGH
//	road_condition: DRY | WET | SLIPPERY | SLIPPERY_ICE | SLIPPERY_WET
//
// During accumulation each value maps to a fixed ordinal score so that means
// over many raw observations can be re-classified at flush time:
//
//	rain: NONE=0 LOW=1 MEDIUM=2 HIGH=4
//	road: DRY=0 WET=1 SLIPPERY=2 SLIPPERY_ICE=3 SLIPPERY_WET=2
//
// The scores are asymmetric on purpose: HIGH rain and SLIPPERY_ICE weigh more
// than a linear scale so that a minority of severe reports can dominate the
// flushed classification.
//
// # Observation Defaults
//
// Raw observations only require a temperature. Missing optional fields get
// fixed defaults at ingestion: confidence 80, count 1, rain NONE, road DRY,
// timestamp = current time. Ingestion is never rejected for an absent
// optional field.
//
// # Hotspots
//
// Hotspots are static road-risk records anchored to highway geometry. Their
// id is the "lat_lng" coordinate string at 5 decimal places; two hotspots
// generated onto the same rounded coordinate collapse into one (last writer
// wins). Every hotspot carries a three-axis temporal distribution whose
// per-axis sums all equal total_count.
package domain

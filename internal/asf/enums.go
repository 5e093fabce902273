package asf

// Platform represents a supported satellite platform identifier.
type Platform string

const (
	PlatformSentinel1  Platform = "SENTINEL-1"
	PlatformSentinel1A Platform = "Sentinel-1A"
	PlatformSentinel1B Platform = "Sentinel-1B"
	PlatformSentinel1C Platform = "Sentinel-1C"
	PlatformALOS       Platform = "ALOS"
	PlatformRADARSAT1  Platform = "RADARSAT-1"
)

// String returns the underlying string value.
func (p Platform) String() string {
	return string(p)
}

// BeamMode represents a supported beam mode identifier.
type BeamMode string

const (
	BeamModeIW BeamMode = "IW"
	BeamModeEW BeamMode = "EW"
	BeamModeSM BeamMode = "SM"
	BeamModeWV BeamMode = "WV"
)

// String returns the underlying string value.
func (b BeamMode) String() string {
	return string(b)
}

// FlightDirection represents an orbit direction filter.
type FlightDirection string

const (
	FlightDirectionAscending  FlightDirection = "ASCENDING"
	FlightDirectionDescending FlightDirection = "DESCENDING"
)

// String returns the underlying string value.
func (d FlightDirection) String() string {
	return string(d)
}

// ProcessingLevel represents a product processing level identifier.
type ProcessingLevel string

const (
	ProcessingLevelSLC   ProcessingLevel = "SLC"
	ProcessingLevelGRDHD ProcessingLevel = "GRD_HD"
	ProcessingLevelRAW   ProcessingLevel = "RAW"
	ProcessingLevelBurst ProcessingLevel = "BURST"
)

// String returns the underlying string value.
func (l ProcessingLevel) String() string {
	return string(l)
}

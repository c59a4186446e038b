package ir

// Version constants for the node model and engine.
const (
	// IRVersion is the node model schema version. It changes whenever
	// CanonicalLine output changes for an existing node kind.
	IRVersion = "1"

	// EngineVersion is the noisegraph engine version.
	EngineVersion = "0.1.0"
)

// Command geoarrow inspects, converts and serves geometry columns stored as
// FlatGeobuf, GeoJSON, hex-encoded WKB or Arrow IPC.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

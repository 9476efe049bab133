// =============================================================================
// Disperse Input - Main Entry Point
// =============================================================================
//
// USAGE:
//   disperse validate [file]   - Validate an address and amount list
//   disperse resolve [file]    - Remove duplicate addresses
//   disperse submit [file]     - Submit a validated list as a batch
//   disperse scan [dir]        - Validate every list file in a directory
//   disperse example           - Print an example list
//   disperse version           - Display the application version
//
// ARCHITECTURE:
//   - cmd/      : CLI command definitions (Cobra)
//   - internal/ : validation, resolution, session and file loading
//   - pkg/      : shared errors, logging and file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/disperse-input/cmd"
)

func main() {
	cmd.Execute()
}

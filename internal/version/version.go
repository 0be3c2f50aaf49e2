// ABOUTME: Product and version constants
// ABOUTME: Reported by the console handshake and the binaries
package version

const (
	// Product is the product name
	Product = "XJGE Audio"
	// Manufacturer is the maker reported to console clients
	Manufacturer = "XJGE"
	// Version is the release version
	Version = "0.3.0"
)

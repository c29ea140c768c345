// Package sky provides built-in sky catalog providers.
//
// Catalog providers supply the point-source collection a campaign simulates.
// The package includes:
//
//   - Static: Fixed in-memory catalog
//   - FromCSVFile: Catalog loaded from a CSV survey extract
//
// Custom providers can be implemented by satisfying the Provider interface.
package sky

// Package urls holds the project links printed by the CLI and the terminal
// page, so they can be updated in one place before a release.
//
//	fmt.Printf("Catalog fields are described at %s\n", urls.CatalogFormat)
package urls

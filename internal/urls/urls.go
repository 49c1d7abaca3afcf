package urls

// Project links shown in the terminal chrome and in troubleshooting output

// Repository is the project home
const Repository = "https://github.com/muurk/promodeck"

// Issues is where bugs and catalog problems are reported
const Issues = Repository + "/issues"

// CatalogFormat documents the catalog YAML fields and their limits
const CatalogFormat = Repository + "#catalog-format"

// Discovery explains 'promodeck serve --advertise' and the mDNS troubleshooting steps
const Discovery = Repository + "#finding-pages-on-the-network"

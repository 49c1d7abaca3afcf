// Package discovery advertises and finds promodeck web pages over mDNS.
//
// `promodeck serve --advertise` registers the page as a "_promodeck._tcp"
// service with zeroconf; `promodeck discover` browses for such services and
// lists what it finds.
//
// # TXT Records
//
// Each advertisement carries:
//   - game: the catalog's game name
//   - codes: number of codes on the page
//   - version: promodeck build version
//   - path: page path, always "/"
//
// # Usage Example
//
//	ad, err := discovery.Advertise(discovery.Advertisement{
//	    Game: "The Forge [BETA]", Codes: 3, Port: 8080, Version: version.Version,
//	})
//	if err != nil {
//	    return err
//	}
//	defer ad.Shutdown()
//
//	pages, err := discovery.ScanForPages(ctx, 5*time.Second)
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Pages must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery

// Package view turns catalog records and unlock snapshots into render-ready
// descriptions.
//
// Everything here is a pure function. The terminal renderers in internal/ui
// and the web page in internal/server both consume Card and Header, so the
// two surfaces agree on labels, percentages and masking.
//
// A Card never carries the full secret code. While locked and revealing it
// holds the masked projection (last four characters); while checking it
// holds none.
package view

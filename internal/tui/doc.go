// Package tui implements the interactive terminal screens of promodeck.
//
// Two Bubble Tea programs live here:
//   - Page: the promo code page for one game. Every card runs its own
//     unlock.Machine; enter on the selected card starts the checking
//     animation, which is advanced by tea.Tick messages tagged with the
//     card id and checking session so that late ticks are dropped.
//   - Discover: scans the local network for pages served by
//     "promodeck serve --advertise" and opens the chosen one in the browser.
//
// Both screens share renderContainer for the bordered full-terminal layout
// with a branded header line and a bubbles/help footer.
//
// # Usage Example
//
//	game, _ := catalog.Default()
//	gates, _ := gate.Resolve(gate.ModeLog, "", "")
//	err := tui.Run(game, tui.PageOptions{Gates: gates})
//
// The card content itself comes from the view package and is drawn by
// ui.RenderCard, so the terminal and the web page show identical data.
package tui

// Package report renders yearly fleet aggregates as a self-contained HTML
// page.
//
// The chart is drawn with gonum/plot into SVG: one bar per year, bar height
// is the number of operating reactors and bar colour encodes their average
// age through a continuous colour scale shown as a colorbar above the chart.
// Every year column gets a transparent overlay rectangle carrying a native
// tooltip, so the page needs no scripts or external assets.
//
// Snapshot optionally captures the written page as a PNG with headless Chrome.
package report

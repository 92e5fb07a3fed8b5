// Package chart provides serialization types for Sankey charts and layouts.
//
// This package defines the wire format for sankeyflow's data, used for
// chart files, API requests and responses, storage and caching.
//
// # Architecture
//
// The package sits at the serialization boundary between the layout engine
// and external formats:
//
//   - [Chart], [Layout]: Serialization types (this package)
//   - sankey.Data: Layout engine input
//   - sankey.Result: Layout engine output
//
// Use [Chart.Data]/[FromData] and [Export]/[Layout.Result] to convert
// between them.
//
// # Chart Files
//
// Charts are JSON documents. HuJSON is accepted on input, so hand-written
// files may carry comments and trailing commas:
//
//	{
//	  "title": "Energy today",
//	  "unit": "kWh",
//	  "nodes": [
//	    {"id": "grid", "value": 7.2, "index": 0, "label": "Grid"},
//	    {"id": "home", "value": 7.2, "index": 1, "label": "Home"}, // consumer
//	  ],
//	  "links": [{"source": "grid", "target": "home"}],
//	}
//
// Common operations:
//
//	c, _ := chart.ReadChartFile("energy.hujson")  // File → Chart
//	chart.WriteChartFile(c, "energy.json")         // Chart → File
//	res := sankey.Layout(c.Data(), opts)           // Chart → layout
//
// # Layout Serialization
//
// A [Layout] carries positioned nodes, resolved links and ribbon paths:
//
//	l := chart.Export(res)
//	data, _ := chart.MarshalLayout(l)
//	back, _ := chart.UnmarshalLayout(data)
//	res, _ := back.Result()  // ready for sink.RenderSVG
//
// # Concurrency
//
// All functions are safe for concurrent use on distinct values.
package chart

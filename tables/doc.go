// Package tables reconstructs tabular structure from fused text fragments.
//
// Scanned labels and forms rarely carry ruling lines that survive
// preprocessing, so tables are inferred from fragment positions alone.
//
// # Algorithm
//
// The [Extractor] works in two passes:
//
//  1. Region segmentation: fragments are sorted by top edge, then left edge.
//     A fragment joins the current region when its top edge is within
//     [Config.RowTolerance] of the previous fragment's top edge; otherwise
//     the region closes and a new one starts.
//  2. Row reconstruction: each region with at least [Config.MinFragments]
//     members is bucketed by floor(top / RowTolerance). Buckets become rows
//     in ascending order, cells are ordered left to right.
//
// # Output
//
// Each region becomes a [model.Table] whose bbox is the union of its
// members and whose confidence is their mean:
//
//	ex := tables.NewExtractor()
//	found, err := ex.Extract(fragments)
//	for _, t := range found {
//		fmt.Print(t.ToMarkdown())
//	}
package tables

// Package tasks turns a channel catalog into per-region playlist files.
//
// # Core Operations
//
// [Generator] exposes three operations:
//
//  1. [Generator.Run] : Full generation pass
//     - Fetches the catalog once through a [CatalogSource]
//     - For each configured region, builds, sorts, renders, and writes a playlist
//     - The "all" region merges every catalog region using <id>-<region> keys
//     - Returns the written files and the skipped region codes
//
//  2. [Generator.Regions] : Summarize catalog regions
//     - Returns code, display name, and channel count per region
//
//  3. [Generator.Probe] : Stream reachability check
//     - Issues HEAD requests against a region's stream URLs, one at a time
//     - Paced with a [rate.Limiter] from the probe configuration
//
// # Failure Handling
//
// An unavailable catalog aborts the run with [shared.ErrMissingCatalog] before any
// directory or file is created. A region missing from the catalog is logged as a warning
// and skipped; the remaining regions are still generated.
//
// # Configuration
//
// All URLs, region codes, and output locations come from the injected [shared.Config].
package tasks

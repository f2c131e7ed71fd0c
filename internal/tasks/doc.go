// Package tasks runs the markx pipeline stages over spreadsheet exports with real-time progress reporting.
//
// # Core Operations
//
// The [Pipeline] interface defines three operations:
//
//  1. [Pipeline.Merge] : Roll status worksheets up into categories
//     - Tags every row with its source worksheet in a Status column
//     - Stacks 看过/在看/想看 into 看过 (and likewise for 听过, 玩过, 读过)
//     - Omits categories with no status worksheet
//
//  2. [Pipeline.Reconcile] : Copy metadata from the secondary export onto the primary one
//     - Matches rows on the 链接 column
//     - Transfers 标签, 豆瓣评分, 简介 and NeoDB链接
//     - Skips categories that are empty on either side
//
//  3. [Pipeline.Export] : Write one CSV per category
//     - Keeps rows created on or after the cutoff
//     - Strips characters outside ASCII and CJK ideographs
//     - Splits 简介 into category specific columns
//     - Adds a 封面 column from the NeoDB item page
//
// # Progress Reporting
//
// Export uses a non-blocking channel for progress updates.
//
// The [ProgressUpdate] struct contains phase, category, step counters and a message.
// Updates use select with default to prevent blocking.
//
// # Cover Fetching
//
// [Engine.FetchCovers] fans the catalog links out to a fixed number of workers (10 by default).
// Each job carries its row index and writes only that slot of the result, so output order always
// matches row order. An optional token bucket limits request rate. Failures are logged per row.
//
// # Failure Policy
//
// Unreadable inputs are returned as errors. Problems inside one category are logged with the
// category name and recorded on the stage result; the remaining categories still run.
package tasks

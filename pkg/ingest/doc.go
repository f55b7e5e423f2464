// Package ingest turns SVG files on disk into raw tiles.
//
// [Load] accepts any mix of files and directories. Directories are read one
// level deep in name order. Anything that is not an SVG is reported in
// [Result.Skipped] instead of failing the whole load. Each accepted file is
// passed through [Sanitize] before it becomes a [tile.RawTile].
//
// A directory may carry a busyness.yaml manifest mapping file names to
// busyness values:
//
//	arc.svg: 2
//	maze.svg: 9
//
// Files the manifest does not mention get [tile.DefaultBusyness].
//
// [Watch] reports debounced changes to a set of directories so callers can
// regenerate when tiles are added, edited or removed.
package ingest

package graphdata

// This package assembles graph-structured benchmark datasets from raw
// sources and presents them as index-addressable collections suitable for
// model training and evaluation.
//
// The pieces fit together like this:
//
//   - A RawSource owns the underlying items (files, generators, in-memory
//     slices) and exposes only a length and an indexed fetch.
//   - A Transform converts one native item into a GraphRecord: node
//     features, an edge list (possibly built from spatial proximity), edge
//     weights and a target.
//   - An ItemCache wraps the two so the expensive transform runs at most
//     once per index; every access returns a defensive copy.
//   - A Partitioner cuts the index range into train/val/test lists with a
//     seeded shuffle, unless the source ships its own canonical split.
//   - Assemble ties it all together: filter pre-pass, optional length cap,
//     split selection and train-only target normalization.
//   - A Registry routes (format, name) requests to builder functions so new
//     dataset families can be added without touching any of the above.
//
// Datasets use lazy materialization to save memory; nothing is transformed
// until the first access, and batches are converted to gomlx tensors only
// at Yield time.

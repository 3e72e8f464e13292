// Package tabular reads and writes delimited permit exports.
//
// Load and Head parse a CSV file with a header row into a dataset.Dataset.
// Column types are inferred per column, and character encodings other than
// UTF-8 are decoded with golang.org/x/text. Write performs the inverse.
//
// A Stager resolves SOURCE_DATA_URL style locations. Local paths are read in
// place, while http(s) and s3:// locations are downloaded to a temporary file
// first. Save publishes a reordered dataset to a path or an s3:// object.
package tabular

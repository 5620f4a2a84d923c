// Package file provides a knowledge store reading one JSON file per subject.
//
// Each subject lives at <dir>/<subject>.json and holds an array of records:
//
//	[{"questions": ["what is a list", "define list"], "answer": "..."}]
//
// A missing file is an empty knowledge base. A file that cannot be decoded,
// or that holds a record without questions, is reported as corrupt.
// Files are re-read on every load so edits take effect on the next switch.
// Replace rewrites a subject's file atomically for the import command.
package file

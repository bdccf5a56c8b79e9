// Package fileutil provides the file-system contract and tree scanning used
// by the vtoggle tree walker.
//
// # Main Components
//
// FileSystem - the I/O the walker consumes:
//   - ReadAll / WriteAll: whole-file reads and writes (writes create parent directories)
//   - IsDir / ListChildren: tree structure, children in a stable order
//   - Ext: extension used to pick a comment dialect
//
// OSFileSystem - local-disk implementation. WriteAll goes through
// filelock.AtomicWrite so a failed write never leaves a partial file.
//
// ScanTree - depth-first enumeration of every file under an input path:
//   - A file input yields that file, rooted at its parent directory
//   - Exclude patterns use doublestar syntax relative to the root
//   - SkipPaths prunes trees such as an output directory nested in the input
//   - Unreadable paths are collected in ScanResult.Errors, each with its
//     position among Files, and the scan continues
//
// # Usage Examples
//
//	result, err := fileutil.ScanTree(fileutil.NewOSFileSystem(), "src", fileutil.ScanOptions{
//	    Exclude:   []string{"**/node_modules", "**/*.min.js"},
//	    SkipPaths: []string{"src/ver"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, file := range result.Files {
//	    rel, _ := result.Rel(file)
//	    fmt.Println(rel)
//	}
//
// Unlike a plain filepath.WalkDir, hidden files and directories are not
// skipped: the output must mirror the input tree.
package fileutil

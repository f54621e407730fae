/*
Package status owns file access and outcome tracking for rewrite runs.

	+-----------+      +-----------+
	| operation | ---> |  Manager  | ---> disk (temp file + rename)
	+-----------+      +-----+-----+
	                         |
	                   FileInfo per path

The Manager is rooted at one directory and refuses paths that escape it.
Writes go through a temp file in the target's directory followed by a
rename, so a reader never observes a half-written file and the original
file mode is kept.

Every processed file is tracked as a FileInfo; ListFiles returns them
sorted by path so summaries are stable across concurrent runs.
*/
package status

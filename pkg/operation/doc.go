/*
Package operation turns a loaded config into file rewrites.

	+----------+     +-----------+     +----------+
	|  config  | --> | operation | --> |  status  |
	| (targets)|     |  (engine) |     | (writes) |
	+----------+     +-----------+     +----------+

A run resolves every target's include globs (doublestar, relative to the
root), drops excluded paths and groups the rest into one job per file. Jobs
run concurrently up to the configured limit. Each job reads the file, skips
it when it looks binary, applies its targets in config order and writes the
result atomically when the content changed.

Protect patterns are turned into ignore ranges against the content the
target sees, then merged with the target's explicit ranges.

A check is a dry run that fails with ErrChangesPending when any file would
change.
*/
package operation

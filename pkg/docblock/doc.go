// Package docblock sorts documented properties, renders model doc blocks and
// writes them into Go source files.
//
// A rendered block looks like:
//
//	/**
//	 * @table users
//	 * @property  bigint     int        $id
//	 * @property  varchar    string     $email
//	 * @property  timestamp  time.Time  $created_at
//	 * @property-read []Post $Posts
//	 */
//
// In source files the block is wrapped in begin and end marker comments keyed by
// the type name, directly above the type declaration. Regenerating replaces the
// marked region and leaves the rest of the file untouched.
package docblock

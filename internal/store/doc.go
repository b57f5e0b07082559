// Package store persists the exemplar library and the word dictionary.
//
// # Layout
//
// The filesystem backend keeps one directory per letter under a library root
// and one word per line in a dictionary file:
//
//	images/
//	    a/
//	        a-1.jpg
//	        a-2.jpg
//	    b/
//	        b-1.jpg
//	utility/dictionary.txt
//
// Exemplar indexes are positive integers that increase per letter. Gaps left by
// manual deletion are allowed; a new exemplar always takes the current maximum
// index plus one, or 1 when the group is empty or absent. Files in a group
// directory that do not match "<letter>-<index>.jpg" are ignored.
//
// # Errors
//
// Reads of an absent group or dictionary return ErrNotFound. Unreadable
// exemplar files are skipped and logged as *CorruptError. Failed writes are
// returned as *PersistenceError so a confirmation can report failure.
//
// # Caching
//
// CachedRepository wraps any Repository with an in-memory cache. Every write
// through it drops the affected entries, so freshly learned exemplars and
// words are visible to the very next read.
//
// # Thread Safety
//
// FS, Memory and CachedRepository are safe for concurrent use within one
// process. Nothing guards against a second process writing the same library.
package store

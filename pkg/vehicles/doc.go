// Package vehicles defines the make/model/style tree that carmap builds and
// persists, together with the slug normalizer used to key makes and files.
//
// A Make owns its Models by name. A Model owns its StyleRecords by verbatim
// style label. Year lists are Years values, which stay strictly increasing.
package vehicles

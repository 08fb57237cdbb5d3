// Package bimap provides a bidirectional multimap.
//
// A [Multi] associates many left values with many right values. Either side can be used as a lookup key, and the two sides are kept consistent after every call: r is associated with l if and only if l is associated with r.
//
// Each distinct value is boxed once per side in an [Rc] handle which is shared by every index slot that refers to it.
// Values must not be mutated in any way that changes their equality after insertion; doing so leaves the indices silently out of step.
//
// A Multi is not safe for concurrent use. Wrap it in a [Sync] to share it between goroutines.
package bimap

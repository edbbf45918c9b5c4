// Package log provides the leveled logging interface used by the article
// generation agent and its adapters.
//
// Two implementations ship with the package: DefaultLogger on the standard
// library's log package, and GologLogger wrapping github.com/kataras/golog
// for applications already using golog. Components take a Logger value and
// never write to stdout directly, so the hosting application controls where
// agent output goes.
package log

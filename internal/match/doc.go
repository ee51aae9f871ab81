// Package match finds the closest known name for a misspelled one.
//
// Names are normalized (case-folded, separators and CamelCase boundaries
// removed) before their Levenshtein distance is compared, so "dispatcherName",
// "dispatcher_name" and "Dispatcher-Name" are all the same word.
package match

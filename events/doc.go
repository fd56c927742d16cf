// Package events provides the ADDED, REMOVED, CHANGED and DELETED notifications of
// models and collections.
package events

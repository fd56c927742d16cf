// Package testmodels holds example models used by tests and the command line tool:
// Person and Employee, which extends Person's attribute set.
package testmodels

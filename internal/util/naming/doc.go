// Package naming decides names for newly provisioned machines.
//
// Names follow a fixed-prefix incrementing scheme where the counter also
// derives the candidate machine id. Candidates are checked against a snapshot
// of remote ids/names and the local queue so a freshly generated name never
// collides with either.
package naming

// Package sim holds the data model shared by every stage of a passenger-flow
// simulation: virtual time, passenger records, hooks, and parameter errors.
package sim

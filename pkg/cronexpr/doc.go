// Package cronexpr builds, validates and describes the six/seven field cron
// expressions used by dataset task schedules.
//
// Field order on the wire:
//
//	┌───────────── second (0-59)
//	│ ┌───────────── minute (0-59)
//	│ │ ┌───────────── hour (0-23)
//	│ │ │ ┌───────────── day of month (1-31)
//	│ │ │ │ ┌───────────── month (1-12)
//	│ │ │ │ │ ┌───────────── day of week (0-7, 0 and 7 are Sunday)
//	│ │ │ │ │ │ ┌───────────── year (1970-2099, optional)
//	│ │ │ │ │ │ │
//	0 0 0 * * ? *
//
// Each field accepts *, ?, a number, a range (1-5), a step (*/15), a list
// (1,3,5) or a list mixing numbers and ranges (1-5,10,20-25).
//
// Every operation is a pure function over strings. A Config is the only
// mutable value and belongs to its caller.
package cronexpr

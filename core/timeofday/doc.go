// Package timeofday models wall-clock instants within a single event day.
// Instants are parsed from the loose strings found in exported cue sheets
// ("PM 1:00", "오후 2:30", "13:45") and compared as minutes after midnight.
package timeofday

// Package core provides the domain logic for loading race result files.
//
// This package has no CLI dependencies and can be driven by any frontend.
// It knows how to read one entity's file and how to write one record, but
// not the order in which files are loaded; that belongs to the pipeline.
//
// # Entity Registry
//
// Entities are registered at init time using [Register]. Each
// [EntityDefinition] contains everything needed to load one file:
//
//	core.Register(EntityDefinition{
//	    Kind:     KindLapTime,
//	    File:     schema.LapTimesFile,
//	    Table:    schema.LapTimes,
//	    Decode:   decodeLapTime,
//	    Values:   lapTimeValues,
//	    Tolerant: true,
//	})
//
// # Loading One File
//
// The flow for a single entity is:
//
//  1. [NewDecoder] validates the header row against the file's columns
//  2. [Decoder.Next] yields one typed record per row and stops at the first bad row
//  3. [BuildInsert] binds the record to its table's insert, race id first
//  4. [Execute] runs the insert, skipping duplicates only for tolerant entities
//
// # Time Formats
//
// Timing sheets use three text formats, all read by one clock grammar:
// lap times "M:SS.mmm" ([ParseLapDuration]), pit stop durations "SS.mmm"
// ([ParsePitStopDuration]) and times of day "HH:MM:SS" ([ParseWallTime]).
//
// # Error Handling
//
// Failures are typed: [*DecodeError], [*ParseError], [*InsertError],
// [*LookupError] and [ErrResourceNotFound]. [Classify] maps any of them,
// however deeply wrapped, to a stable code for support reference.
package core

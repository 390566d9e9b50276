package services

import "errors"

// Report service errors
var (
	// ErrNoSession is returned by data operations before any file has been uploaded
	ErrNoSession = errors.New("no hours file loaded")

	// ErrEmptyFileName is returned when an upload has no file name to infer its format from
	ErrEmptyFileName = errors.New("upload has no file name")
)

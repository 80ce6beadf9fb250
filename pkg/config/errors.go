package config

import "errors"

var (
	ErrParsingConfig     = errors.New("config.parsing_failed")
	ErrReadingConfigFile = errors.New("config.reading_file_failed")
)

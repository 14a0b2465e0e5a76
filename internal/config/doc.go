// Package config provides configuration management for synset-downloader.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Validation of worker counts, timeouts and image options
//
// # Default Settings
//
// Use DefaultSettings() to get the defaults:
//
//	settings := config.DefaultSettings()
//	// Downloads to ./images/{wnid}/
//	// Reads synsets from ./download_agenda.txt
//	// 720 concurrent workers, 5s request timeout
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Category Override
//
// A non-empty Categories list replaces the worklist file:
//
//	categories:
//	  - n03702248
//	  - n02761696
package config

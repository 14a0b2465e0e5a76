// Package download provides the concurrent download pipeline for fetching
// ImageNet synset images.
//
// # Manager
//
// The Manager coordinates the entire download process:
//
//  1. Build the worklist (agenda file or configured categories)
//  2. Skip categories already present on disk
//  3. Resolve the image URLs of every category
//  4. Create the category directories
//  5. Run the worker pool and observe progress
//
// # Basic Usage
//
//	manager := download.NewManager(settings, func(event download.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	if err := manager.Initialize(ctx, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := manager.StartDownloads(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Pipeline
//
// Work items flow through a sealed queue (package queue) into a fixed pool
// of workers. Each worker signals progress as soon as it dequeues an item,
// then fetches, decodes and persists it. Redirected URLs, transient network
// failures, undecodable payloads and non-colour images are dropped without
// retry. Failures to write a file are counted and reported as a
// *PersistError at the end of the run.
//
// # Progress Tracking
//
// Log events are reported via a callback that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Completion counts are rendered through a Display set with SetDisplay, or
// polled with GetProgress.
package download

// Package model defines the core data structures used throughout
// the synset-downloader application.
//
// # Category
//
// Category is an opaque ImageNet synset id such as "n03702248". Each
// category gets its own output directory:
//
//	dir := model.Category("n03702248").Dir("/data/images")
//
// # WorkItem
//
// WorkItem is one unit of download work, built once per resolved URL:
//
//	items := model.NewWorkItems("n03702248", urls)
//	fmt.Println(items[7].Path("/data/images")) // /data/images/n03702248/00000007.jpg
//
// # FetchOutcome
//
// FetchOutcome is the tagged result of fetching a single URL: the raw bytes,
// a redirect away from the requested URL, or a classified failure.
//
// # DecodedImage
//
// DecodedImage wraps a decoded image.Image together with its dimensions and
// channel count. Only colour images are persisted.
package model

package model

// WorkItem is one (category, index, URL) unit of download work.
//
// Work items are created in bulk once per category after URL resolution and
// consumed exactly once by exactly one worker. They are never mutated.
type WorkItem struct {
	// Category is the synset the image belongs to.
	Category Category

	// Index is the 0-based position of URL in the category's URL list.
	// It is unique per category and determines the destination file name.
	Index int

	// URL is the source URL of the image.
	URL string
}

// Path returns the destination file path of the item below outputDir.
func (w WorkItem) Path(outputDir string) string {
	return DestinationPath(outputDir, w.Category, w.Index)
}

// NewWorkItems creates one work item per URL, indexed in list order.
func NewWorkItems(category Category, urls []string) []WorkItem {
	items := make([]WorkItem, len(urls))
	for i, url := range urls {
		items[i] = WorkItem{
			Category: category,
			Index:    i,
			URL:      url,
		}
	}
	return items
}

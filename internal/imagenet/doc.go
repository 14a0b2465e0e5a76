// Package imagenet provides the collaborators that turn a worklist into
// per-category URL lists.
//
// # Worklist
//
// ReadWorklist reads synset ids from a text file, one per line:
//
//	categories, err := imagenet.ReadWorklist("download_agenda.txt")
//
// SelectCategories lets a configured list replace the file.
//
// # URL Resolution
//
// The Resolver queries the ImageNet URL endpoint for a synset and parses the
// line-delimited answer:
//
//	resolver := imagenet.NewResolver(client, imagenet.Options{})
//	urls, err := resolver.Resolve(ctx, "n03702248")
//
// Timed out lookups are retried a fixed number of times with a short pause.
// ResolveAll resolves many synsets with bounded concurrency.
package imagenet

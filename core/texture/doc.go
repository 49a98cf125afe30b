// Package texture provides the reconciliation primitives used to keep an outfit
// engine in sync with a desired texture map.
//
// The reconcile flow has three steps, each a pure function over plain maps:
//
//  1. Archive: a Map of group -> texture config is reduced to an ArchivedMap of
//     group -> Fingerprint. Configs with the same image source and the same
//     attributes always produce the same fingerprint.
//
//  2. Compare: a freshly archived map is compared with the previously applied one,
//     classifying every group as Created, Modified or Deleted. Unchanged groups are
//     left out of the Diff.
//
//  3. BuildJob: the Diff is turned into a Job, one Apply or Remove operation per
//     changed group, ready to be executed against an engine instance.
//
// # Presence vs value
//
// A fingerprint may legitimately be zero. Every lookup in this package checks key
// presence (`_, ok := m[key]`) and never infers presence from the value.
//
// # Usage
//
//	archiver := texture.NewArchiver()
//	next := archiver.Archive(textures)
//	diff := texture.Compare(next, applied)
//	job := texture.BuildJob(diff, textures)
//	if !job.Empty() {
//	    queue.Push(job)
//	}
package texture

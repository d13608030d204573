/*
Package session implements the editing session a chain drives.

A Session tracks the selected region, owns the clipboard and applies copies
and pastes against a ports.BlockStore. Copy and Paste are asynchronous: they
enqueue the work on a background goroutine that processes the region in
batches and return an operation handle. Callers wait on the handle before
touching the clipboard again.

Writes are buffered by default and applied once the whole paste has been
computed. DisableBuffering applies each batch as soon as it is ready.
*/
package session

/*
The mirror package copies a build's artifact tree from the fast scratch
directory into the permanent final directory.

A mirror pass is additive. Every directory and regular file in the source
tree is recreated under the destination, overwriting files that already
exist there. Nothing in the destination is ever removed, so artifacts from
previous builds survive until the user cleans them up.

Entries that are neither directories nor regular files (symlinks, sockets,
devices) are skipped with a warning. Symlinks are never followed, so a link
pointing outside the scratch directory can't pull unrelated files into the
final target.

A pass is not atomic. If any entry fails, the pass stops and the
destination is left partially updated. Build artifacts can always be
rebuilt, so there is no rollback.
*/
package mirror

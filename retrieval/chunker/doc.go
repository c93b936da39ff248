/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

/*
Package chunker splits reference documents into overlapping chunks.

Lengths are counted in runes. A chunk ends at the last paragraph break in
the second half of its window, falling back to a line break, a sentence
end, a space and finally a hard cut. The next chunk starts exactly
overlap runes before the previous end, so the chunks reproduce the source
when their overlaps are removed.
*/
package chunker
